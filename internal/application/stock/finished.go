package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// ProductMovementInput é um movimento manual do ledger de produto acabado
// (produção concluída, ajuste, perda, brinde).
type ProductMovementInput struct {
	CompanyID string
	UserID    string
	ProductID string
	Type      string
	Quantity  decimal.Decimal
	Note      string
}

// FinishedGoodsUseCase movimenta o ledger de produto acabado fora do fluxo
// de pedidos.
type FinishedGoodsUseCase struct {
	productRepo         repository.ProductRepository
	productMovementRepo repository.ProductStockMovementRepository
}

// NewFinishedGoodsUseCase constrói o caso de uso.
func NewFinishedGoodsUseCase(
	productRepo repository.ProductRepository,
	productMovementRepo repository.ProductStockMovementRepository,
) *FinishedGoodsUseCase {
	return &FinishedGoodsUseCase{productRepo: productRepo, productMovementRepo: productMovementRepo}
}

// AdjustProductStock registra um movimento manual de produto acabado.
// Mesmas regras do ledger de materiais: quantidade positiva, perda e
// retirada exigem justificativa.
func (uc *FinishedGoodsUseCase) AdjustProductStock(ctx context.Context, input ProductMovementInput) (*entity.ProductStockMovement, error) {
	if input.CompanyID == "" || input.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsInbound(input.Type) && !entity.IsOutbound(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if (input.Type == entity.MovementTypeLoss || input.Type == entity.MovementTypeWithdrawal) && input.Note == "" {
		return nil, domain.ErrNoteRequired
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	movement := &entity.ProductStockMovement{
		ID:        uuid.New().String(),
		CompanyID: input.CompanyID,
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Note:      input.Note,
		Source:    entity.MovementSourceManual,
		CreatedAt: time.Now(),
		CreatedBy: input.UserID,
	}
	if err := uc.productMovementRepo.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// ProductBalances reconstrói o saldo de produto acabado dos produtos
// informados (ou de todos, com ids vazio).
func (uc *FinishedGoodsUseCase) ProductBalances(ctx context.Context, companyID string, ids []string) (map[string]decimal.Decimal, error) {
	if len(ids) == 0 {
		products, err := uc.productRepo.ListByCompany(companyID)
		if err != nil {
			return nil, err
		}
		ids = make([]string, len(products))
		for i, p := range products {
			ids[i] = p.ID
		}
	}
	return uc.productMovementRepo.BalancesForProducts(companyID, ids)
}
