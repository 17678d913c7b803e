package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/units"
)

// MissingItem descreve a falta de um par (material, cor) para atender um
// pedido. Em modo revenda MaterialID/Color carregam o produto acabado.
type MissingItem struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Color        string          `json:"color"`
	Required     decimal.Decimal `json:"required"`
	Available    decimal.Decimal `json:"available"`
	Missing      decimal.Decimal `json:"missing"`
}

// InsufficientStockError carrega a lista itemizada de faltas. Desembrulha
// para domain.ErrInsufficientStock, então errors.Is continua funcionando na
// borda HTTP.
type InsufficientStockError struct {
	Items []MissingItem
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%s (%s): falta %s", item.MaterialName, item.Color, item.Missing))
	}
	return "estoque insuficiente: " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Unwrap() error { return domain.ErrInsufficientStock }

// AvailabilityResult é a resposta da pré-checagem de disponibilidade.
type AvailabilityResult struct {
	Available bool          `json:"available"`
	Missing   []MissingItem `json:"missing"`
}

// requirement acumula a necessidade de um par (material, cor) já convertida
// para a unidade estocada.
type requirement struct {
	materialID string
	color      string
	quantity   decimal.Decimal
}

// materialRequirements expande os itens do pedido pelas fichas técnicas e
// agrega por (material, cor). Conversão suave de unidade: incompatibilidade
// passa a quantidade adiante sem erro.
func materialRequirements(order *entity.Order) ([]requirement, error) {
	totals := make(map[repository.BalanceKey]decimal.Decimal)
	orderedKeys := make([]repository.BalanceKey, 0)
	for _, item := range order.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("item %s sem produto carregado: %w", item.ID, domain.ErrInvalidInput)
		}
		itemQty := decimal.NewFromInt(int64(item.Quantity))
		for _, line := range item.Product.Materials {
			if line.Material == nil {
				return nil, fmt.Errorf("ficha técnica do produto %s sem material carregado: %w",
					item.Product.ID, domain.ErrInvalidInput)
			}
			needed := units.Convert(line.Quantity, line.Unit, line.Material.Unit).Mul(itemQty)
			key := repository.BalanceKey{
				MaterialID: line.MaterialID,
				Color:      entity.NormalizeColor(line.Color),
			}
			if _, seen := totals[key]; !seen {
				orderedKeys = append(orderedKeys, key)
			}
			totals[key] = totals[key].Add(needed)
		}
	}

	reqs := make([]requirement, 0, len(orderedKeys))
	for _, key := range orderedKeys {
		reqs = append(reqs, requirement{materialID: key.MaterialID, color: key.Color, quantity: totals[key]})
	}
	return reqs, nil
}

// shortfalls confronta necessidades com saldos e devolve as faltas. Saldo
// negativo do replay é reportado como está: a falta cobre também o buraco do
// ledger (saldo -5 com necessidade 10 falta 15).
func shortfalls(reqs []requirement, balances map[repository.BalanceKey]decimal.Decimal, names map[string]string) []MissingItem {
	var missing []MissingItem
	for _, req := range reqs {
		available := balances[repository.BalanceKey{MaterialID: req.materialID, Color: req.color}]
		if available.LessThan(req.quantity) {
			missing = append(missing, MissingItem{
				MaterialID:   req.materialID,
				MaterialName: names[req.materialID],
				Color:        req.color,
				Required:     req.quantity,
				Available:    available,
				Missing:      req.quantity.Sub(available),
			})
		}
	}
	return missing
}

// AvailabilityUseCase responde "dá para produzir este pedido?" sem efeitos
// colaterais. A dedução de verdade revalida dentro da transação; esta
// checagem é a da tela, sujeita a corrida benigna.
type AvailabilityUseCase struct {
	orderRepo           repository.OrderRepository
	materialRepo        repository.MaterialRepository
	movementRepo        repository.StockMovementRepository
	productMovementRepo repository.ProductStockMovementRepository
	settingsRepo        repository.SettingsRepository
}

// NewAvailabilityUseCase constrói o caso de uso.
func NewAvailabilityUseCase(
	orderRepo repository.OrderRepository,
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
	productMovementRepo repository.ProductStockMovementRepository,
	settingsRepo repository.SettingsRepository,
) *AvailabilityUseCase {
	return &AvailabilityUseCase{
		orderRepo:           orderRepo,
		materialRepo:        materialRepo,
		movementRepo:        movementRepo,
		productMovementRepo: productMovementRepo,
		settingsRepo:        settingsRepo,
	}
}

// CheckOrder verifica a disponibilidade de estoque para o pedido. O modo do
// tenant decide o ledger: fabricação confere materiais da ficha técnica,
// revenda confere produto acabado.
func (uc *AvailabilityUseCase) CheckOrder(ctx context.Context, companyID, orderID string) (*AvailabilityResult, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	settings, err := uc.settingsRepo.Get(companyID)
	if err != nil {
		return nil, err
	}
	if settings.BusinessMode == entity.BusinessModeResale {
		missing, err := finishedGoodsShortfalls(companyID, order, uc.productMovementRepo)
		if err != nil {
			return nil, err
		}
		return &AvailabilityResult{Available: len(missing) == 0, Missing: missing}, nil
	}

	missing, err := rawMaterialShortfalls(companyID, order, uc.materialRepo, uc.movementRepo)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{Available: len(missing) == 0, Missing: missing}, nil
}

// rawMaterialShortfalls calcula as faltas de materiais para o pedido com os
// repositórios informados. Chamado fora de transação (checagem de tela) e
// dentro dela (revalidação antes de deduzir), com os mesmos passos.
func rawMaterialShortfalls(
	companyID string,
	order *entity.Order,
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
) ([]MissingItem, error) {
	reqs, err := materialRequirements(order)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool)
	for _, req := range reqs {
		if !seen[req.materialID] {
			seen[req.materialID] = true
			ids = append(ids, req.materialID)
		}
	}

	materials, err := materialRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(materials))
	for _, m := range materials {
		names[m.ID] = m.Name
	}

	balances, err := movementRepo.BalancesForMaterials(companyID, ids)
	if err != nil {
		return nil, err
	}
	return shortfalls(reqs, balances, names), nil
}

// finishedGoodsShortfalls calcula as faltas de produto acabado (modo revenda).
func finishedGoodsShortfalls(
	companyID string,
	order *entity.Order,
	productMovementRepo repository.ProductStockMovementRepository,
) ([]MissingItem, error) {
	needed := make(map[string]decimal.Decimal)
	names := make(map[string]string)
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Product == nil {
			return nil, fmt.Errorf("item %s sem produto carregado: %w", item.ID, domain.ErrInvalidInput)
		}
		if _, seen := needed[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		needed[item.ProductID] = needed[item.ProductID].Add(decimal.NewFromInt(int64(item.Quantity)))
		names[item.ProductID] = item.Product.Name
	}

	balances, err := productMovementRepo.BalancesForProducts(companyID, ids)
	if err != nil {
		return nil, err
	}

	var missing []MissingItem
	for _, id := range ids {
		available := balances[id]
		if available.LessThan(needed[id]) {
			missing = append(missing, MissingItem{
				MaterialID:   id,
				MaterialName: names[id],
				Color:        entity.ColorDefault,
				Required:     needed[id],
				Available:    available,
				Missing:      needed[id].Sub(available),
			})
		}
	}
	return missing, nil
}

// DeductMaterialsForOrder bloqueia os materiais do pedido, revalida os saldos
// dentro da transação corrente e registra um movimento OUT por par
// (material, cor). Falta de qualquer par aborta tudo com a lista itemizada.
// Deve rodar dentro de TxRunner.RunOrder, junto com o update de status.
func DeductMaterialsForOrder(
	companyID, userID string,
	order *entity.Order,
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
) error {
	reqs, err := materialRequirements(order)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return nil
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool)
	for _, req := range reqs {
		if !seen[req.materialID] {
			seen[req.materialID] = true
			ids = append(ids, req.materialID)
		}
	}
	// Serializa deduções concorrentes sobre os mesmos materiais.
	if err := materialRepo.LockByIDs(ids); err != nil {
		return err
	}

	missing, err := rawMaterialShortfalls(companyID, order, materialRepo, movementRepo)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &InsufficientStockError{Items: missing}
	}

	now := time.Now()
	for _, req := range reqs {
		movement := &entity.StockMovement{
			ID:         uuid.New().String(),
			CompanyID:  companyID,
			MaterialID: req.materialID,
			Color:      req.color,
			Type:       entity.MovementTypeOUT,
			Quantity:   req.quantity,
			Note:       fmt.Sprintf("Produção do pedido %s", order.ID),
			Source:     entity.MovementSourceOrder,
			OrderID:    order.ID,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := movementRepo.Create(movement); err != nil {
			return fmt.Errorf("registrar saída de %s: %w", req.materialID, err)
		}
	}
	return nil
}

// DeductFinishedGoodsForOrder é a dedução do modo revenda: bloqueia os
// produtos, revalida o saldo do ledger de produto acabado e registra OUT por
// produto. Mesmo contrato transacional de DeductMaterialsForOrder.
func DeductFinishedGoodsForOrder(
	companyID, userID string,
	order *entity.Order,
	productRepo repository.ProductRepository,
	productMovementRepo repository.ProductStockMovementRepository,
) error {
	if len(order.Items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(order.Items))
	seen := make(map[string]bool)
	for _, item := range order.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	if err := productRepo.LockByIDs(ids); err != nil {
		return err
	}

	missing, err := finishedGoodsShortfalls(companyID, order, productMovementRepo)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &InsufficientStockError{Items: missing}
	}

	needed := make(map[string]decimal.Decimal)
	for _, item := range order.Items {
		needed[item.ProductID] = needed[item.ProductID].Add(decimal.NewFromInt(int64(item.Quantity)))
	}

	now := time.Now()
	for _, id := range ids {
		movement := &entity.ProductStockMovement{
			ID:        uuid.New().String(),
			CompanyID: companyID,
			ProductID: id,
			Type:      entity.MovementTypeOUT,
			Quantity:  needed[id],
			Note:      fmt.Sprintf("Venda do pedido %s", order.ID),
			Source:    entity.MovementSourceOrder,
			OrderID:   order.ID,
			CreatedAt: now,
			CreatedBy: userID,
		}
		if err := productMovementRepo.Create(movement); err != nil {
			return fmt.Errorf("registrar saída do produto %s: %w", id, err)
		}
	}
	return nil
}
