package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
)

// BalanceKey identifica um saldo do ledger: par (material, cor).
// Color nunca é vazio aqui; usar entity.NormalizeColor na borda.
type BalanceKey struct {
	MaterialID string
	Color      string
}

// StockMovementRepository define o porto do ledger de materiais.
// O ledger é append-only: não existem Update nem Delete; correções são novos
// movimentos de ajuste.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByCompany(companyID string) ([]*entity.StockMovement, error)
	ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// BalancesForMaterials reconstrói no banco (SUM sobre o ledger) o saldo de
	// cada par (material, cor) dos materiais informados. Usado dentro de
	// transações para revalidar disponibilidade antes de deduzir.
	BalancesForMaterials(companyID string, materialIDs []string) (map[BalanceKey]decimal.Decimal, error)
}

// StockEntryRepository define o porto das entradas de compra.
type StockEntryRepository interface {
	Create(entry *entity.StockEntry) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error)
}

// ProductStockMovementRepository define o porto do ledger de produto acabado.
// Mesmo contrato append-only do ledger de materiais.
type ProductStockMovementRepository interface {
	Create(movement *entity.ProductStockMovement) error
	ListByCompany(companyID string, limit int) ([]*entity.ProductStockMovement, error)
	// BalancesForProducts reconstrói o saldo por produto via SUM no ledger.
	BalancesForProducts(companyID string, productIDs []string) (map[string]decimal.Decimal, error)
}
