package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// EntryItemInput é um item da entrada de compra.
type EntryItemInput struct {
	MaterialID string
	Color      string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
}

// EntryInput é a entrada de compra completa.
type EntryInput struct {
	CompanyID    string
	UserID       string
	SupplierName string
	FreightCost  decimal.Decimal
	Note         string
	Items        []EntryItemInput
}

// ManualMovementInput é um movimento manual do ledger.
type ManualMovementInput struct {
	CompanyID  string
	UserID     string
	MaterialID string
	Color      string
	Type       string
	Quantity   decimal.Decimal
	Note       string
}

// EntryUseCase registra entradas de compra e movimentos manuais, sempre
// dentro de uma transação: entrada + movimentos IN + custo médio atualizado
// num só commit.
type EntryUseCase struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	movementRepo repository.StockMovementRepository
}

// NewEntryUseCase constrói o caso de uso.
func NewEntryUseCase(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
) *EntryUseCase {
	return &EntryUseCase{txRunner: txRunner, materialRepo: materialRepo, movementRepo: movementRepo}
}

// RegisterEntry registra uma entrada de compra: rateia o frete pelo valor de
// cada item, grava a entrada, um movimento IN por item e recalcula o custo
// médio ponderado de cada material sobre o saldo agregado (todas as cores).
func (uc *EntryUseCase) RegisterEntry(ctx context.Context, input EntryInput) (*entity.StockEntry, error) {
	if input.CompanyID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.FreightCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range input.Items {
		if item.MaterialID == "" || !item.Quantity.GreaterThan(decimal.Zero) || item.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	subtotals := make([]decimal.Decimal, len(input.Items))
	itemsTotal := decimal.Zero
	for i, item := range input.Items {
		subtotals[i] = item.Quantity.Mul(item.UnitCost)
		itemsTotal = itemsTotal.Add(subtotals[i])
	}

	now := time.Now()
	entry := &entity.StockEntry{
		ID:           uuid.New().String(),
		CompanyID:    input.CompanyID,
		SupplierName: input.SupplierName,
		FreightCost:  input.FreightCost,
		TotalCost:    itemsTotal.Add(input.FreightCost),
		Note:         input.Note,
		CreatedAt:    now,
		Items:        make([]entity.StockEntryItem, len(input.Items)),
	}
	for i, item := range input.Items {
		entry.Items[i] = entity.StockEntryItem{
			ID:           uuid.New().String(),
			StockEntryID: entry.ID,
			MaterialID:   item.MaterialID,
			Color:        entity.NormalizeColor(item.Color),
			Quantity:     item.Quantity,
			UnitCost:     item.UnitCost,
			Subtotal:     subtotals[i],
		}
	}

	err := uc.txRunner.Run(ctx, func(
		materialRepo repository.MaterialRepository,
		movementRepo repository.StockMovementRepository,
		entryRepo repository.StockEntryRepository,
	) error {
		ids := make([]string, 0, len(input.Items))
		seen := make(map[string]bool)
		for _, item := range input.Items {
			if !seen[item.MaterialID] {
				seen[item.MaterialID] = true
				ids = append(ids, item.MaterialID)
			}
		}
		if err := materialRepo.LockByIDs(ids); err != nil {
			return err
		}
		materials, err := materialRepo.GetByIDs(ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.Material, len(materials))
		for _, m := range materials {
			if m.CompanyID != input.CompanyID {
				return domain.ErrForbidden
			}
			byID[m.ID] = m
		}
		for _, item := range input.Items {
			if byID[item.MaterialID] == nil {
				return fmt.Errorf("material %s: %w", item.MaterialID, domain.ErrNotFound)
			}
		}

		// Saldo atual por material (agregado sobre as cores), antes desta
		// entrada, para a média ponderada.
		balances, err := movementRepo.BalancesForMaterials(input.CompanyID, ids)
		if err != nil {
			return err
		}
		currentQty := make(map[string]decimal.Decimal, len(ids))
		for key, balance := range balances {
			if balance.IsNegative() {
				balance = decimal.Zero
			}
			currentQty[key.MaterialID] = currentQty[key.MaterialID].Add(balance)
		}

		if err := entryRepo.Create(entry); err != nil {
			return fmt.Errorf("gravar entrada: %w", err)
		}

		// Quantidade e custo efetivo (com frete rateado) agregados por
		// material; itens da mesma entrada se compõem antes da média.
		addedQty := make(map[string]decimal.Decimal)
		addedValue := make(map[string]decimal.Decimal)
		for i, item := range input.Items {
			freightShare := finance.ApportionFreight(subtotals[i], itemsTotal, input.FreightCost)
			unitCost := finance.ItemPurchaseUnitCost(subtotals[i], item.Quantity, freightShare)

			movement := &entity.StockMovement{
				ID:         uuid.New().String(),
				CompanyID:  input.CompanyID,
				MaterialID: item.MaterialID,
				Color:      entity.NormalizeColor(item.Color),
				Type:       entity.MovementTypeIN,
				Quantity:   item.Quantity,
				Note:       fmt.Sprintf("Compra %s", input.SupplierName),
				Source:     entity.MovementSourcePurchase,
				CreatedAt:  now,
				CreatedBy:  input.UserID,
			}
			if err := movementRepo.Create(movement); err != nil {
				return fmt.Errorf("registrar entrada de %s: %w", item.MaterialID, err)
			}

			addedQty[item.MaterialID] = addedQty[item.MaterialID].Add(item.Quantity)
			addedValue[item.MaterialID] = addedValue[item.MaterialID].Add(unitCost.Mul(item.Quantity))
		}

		for _, id := range ids {
			newQty := addedQty[id]
			if newQty.IsZero() {
				continue
			}
			newUnitCost := addedValue[id].DivRound(newQty, 20)
			avg := finance.MovingAverageCost(currentQty[id], byID[id].Cost, newQty, newUnitCost)
			if err := materialRepo.UpdateCost(id, finance.FormatInternal(avg)); err != nil {
				return fmt.Errorf("atualizar custo médio de %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RegisterManualMovement registra um movimento avulso do ledger. Perda e
// retirada exigem justificativa.
func (uc *EntryUseCase) RegisterManualMovement(ctx context.Context, input ManualMovementInput) (*entity.StockMovement, error) {
	if input.CompanyID == "" || input.MaterialID == "" {
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

	material, err := uc.materialRepo.GetByID(input.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if material.CompanyID != input.CompanyID {
		return nil, domain.ErrForbidden
	}

	movement := &entity.StockMovement{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		MaterialID: input.MaterialID,
		Color:      entity.NormalizeColor(input.Color),
		Type:       input.Type,
		Quantity:   input.Quantity,
		Note:       input.Note,
		Source:     entity.MovementSourceManual,
		CreatedAt:  time.Now(),
		CreatedBy:  input.UserID,
	}
	if err := uc.movementRepo.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}

// MovementHistory lista o extrato de um material com filtro de período.
func (uc *EntryUseCase) MovementHistory(ctx context.Context, companyID, materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	material, err := uc.materialRepo.GetByID(materialID)
	if err != nil {
		return nil, err
	}
	if material == nil || material.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return uc.movementRepo.ListByMaterial(materialID, from, to, limit, offset)
}
