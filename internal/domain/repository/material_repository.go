package repository

import (
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
)

// MaterialRepository define o porto de persistência para materiais.
type MaterialRepository interface {
	Create(material *entity.Material) error
	Update(material *entity.Material) error
	Delete(id string) error
	GetByID(id string) (*entity.Material, error)
	GetByIDs(ids []string) ([]*entity.Material, error)
	ListByCompany(companyID string) ([]*entity.Material, error)
	// ListWithMinQuantity lista materiais com limiar de alerta configurado.
	ListWithMinQuantity(companyID string) ([]*entity.Material, error)
	// LockByIDs bloqueia as linhas dos materiais (SELECT FOR UPDATE) para
	// serializar deduções concorrentes dentro de uma transação.
	LockByIDs(ids []string) error
	// UpdateCost atualiza o custo médio ponderado após uma entrada de compra.
	UpdateCost(id string, cost decimal.Decimal) error
}
