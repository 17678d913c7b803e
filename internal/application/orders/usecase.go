// Package orders implementa o ciclo de vida de pedidos: criação com total
// calculado no servidor, listagem paginada, transição de status com baixa de
// estoque atômica e sumário financeiro da carteira.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/costing"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// OrderItemInput é um item do pedido na criação.
type OrderItemInput struct {
	ProductID string
	Quantity  int
	Price     *decimal.Decimal // nil usa o preço corrente do produto
	Discount  decimal.Decimal
}

// CreateOrderInput é a entrada de criação de pedido.
type CreateOrderInput struct {
	CompanyID  string
	UserID     string
	CustomerID string
	Status     string
	DueDate    time.Time
	Discount   decimal.Decimal
	Items      []OrderItemInput
}

// UseCase orquestra pedidos sobre os portos de persistência.
type UseCase struct {
	txRunner     stock.TxRunner
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	settingsRepo repository.SettingsRepository
}

// NewUseCase constrói o caso de uso.
func NewUseCase(
	txRunner stock.TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	settingsRepo repository.SettingsRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
	}
}

// Create cria o pedido com itens numa só escrita. O total é sempre calculado
// no servidor (max(0, soma dos itens - descontos)); o valor enviado pelo
// cliente é ignorado.
func (uc *UseCase) Create(ctx context.Context, input CreateOrderInput) (*entity.Order, error) {
	if input.CompanyID == "" || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	status := input.Status
	if status == "" {
		status = entity.OrderStatusQuotation
	}
	if !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	if input.Discount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	if input.CustomerID != "" {
		customer, err := uc.customerRepo.GetByID(input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil || customer.CompanyID != input.CompanyID {
			return nil, domain.ErrNotFound
		}
	}

	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if item.ProductID == "" || item.Quantity <= 0 || item.Discount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, item.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		if p.CompanyID != input.CompanyID {
			return nil, domain.ErrForbidden
		}
		byID[p.ID] = p
	}

	now := time.Now()
	order := &entity.Order{
		ID:         uuid.New().String(),
		CompanyID:  input.CompanyID,
		CustomerID: input.CustomerID,
		Status:     status,
		DueDate:    input.DueDate,
		Discount:   input.Discount,
		CreatedAt:  now,
		UpdatedAt:  now,
		Items:      make([]entity.OrderItem, len(input.Items)),
	}
	for i, item := range input.Items {
		product := byID[item.ProductID]
		if product == nil {
			return nil, fmt.Errorf("produto %s: %w", item.ProductID, domain.ErrNotFound)
		}
		price := decimal.Zero
		if item.Price != nil {
			price = *item.Price
		} else if product.Price != nil {
			price = *product.Price
		}
		order.Items[i] = entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			Discount:  item.Discount,
			Product:   product,
		}
	}
	order.TotalValue = costing.OrderTotal(order.Items, order.Discount)

	// Pedido já nascendo em produção deduz estoque no mesmo commit, com a
	// mesma regra da transição PENDING -> PRODUCING.
	if status == entity.OrderStatusProducing {
		err := uc.txRunner.RunOrder(ctx, func(
			orderRepo repository.OrderRepository,
			materialRepo repository.MaterialRepository,
			movementRepo repository.StockMovementRepository,
			productRepo repository.ProductRepository,
			productMovementRepo repository.ProductStockMovementRepository,
		) error {
			if err := orderRepo.Create(order); err != nil {
				return err
			}
			return uc.deduct(order, input.UserID, materialRepo, movementRepo, productRepo, productMovementRepo)
		})
		if err != nil {
			return nil, err
		}
		return order, nil
	}

	if err := uc.orderRepo.Create(order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetByID devolve o pedido completo do tenant.
func (uc *UseCase) GetByID(ctx context.Context, companyID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// List pagina os pedidos do tenant, com filtro opcional de status.
func (uc *UseCase) List(ctx context.Context, companyID string, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	if filter.Status != "" && !entity.ValidOrderStatus(filter.Status) {
		return nil, 0, domain.ErrInvalidInput
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return uc.orderRepo.ListByCompany(companyID, filter)
}

// Delete remove o pedido. Movimentos de estoque já gerados permanecem no
// ledger; o acerto é um ajuste manual de entrada, nunca apagar histórico.
func (uc *UseCase) Delete(ctx context.Context, companyID, orderID string) error {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.orderRepo.Delete(orderID)
}

// UpdateStatus muda o status do pedido. Na transição QUOTATION|PENDING ->
// PRODUCING a baixa de estoque roda na mesma transação do update: falta de
// estoque aborta a transição inteira com a lista itemizada de faltas.
func (uc *UseCase) UpdateStatus(ctx context.Context, companyID, userID, orderID, newStatus string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(newStatus) {
		return nil, domain.ErrInvalidInput
	}

	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if order.Status == newStatus {
		return order, nil
	}
	if order.Status == entity.OrderStatusDelivered || order.Status == entity.OrderStatusCancelled {
		return nil, fmt.Errorf("pedido %s em estado final %s: %w", orderID, order.Status, domain.ErrInvalidTransition)
	}

	if !entity.DeductsStockOnTransition(order.Status, newStatus) {
		if err := uc.orderRepo.UpdateStatus(orderID, newStatus); err != nil {
			return nil, err
		}
		order.Status = newStatus
		return order, nil
	}

	// O write condicional reivindica a transição dentro da transação: dois
	// pedidos concorrentes de PENDING -> PRODUCING não podem deduzir duas
	// vezes, o perdedor falha com ErrConflict antes de tocar no ledger.
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		materialRepo repository.MaterialRepository,
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productMovementRepo repository.ProductStockMovementRepository,
	) error {
		if err := orderRepo.UpdateStatusFrom(orderID, newStatus, []string{
			entity.OrderStatusPending, entity.OrderStatusQuotation,
		}); err != nil {
			return err
		}
		return uc.deduct(order, userID, materialRepo, movementRepo, productRepo, productMovementRepo)
	})
	if err != nil {
		return nil, err
	}
	order.Status = newStatus
	return order, nil
}

// deduct escolhe o ledger conforme o modo do tenant: fabricação baixa
// materiais da ficha técnica, revenda baixa produto acabado.
func (uc *UseCase) deduct(
	order *entity.Order,
	userID string,
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productMovementRepo repository.ProductStockMovementRepository,
) error {
	settings, err := uc.settingsRepo.Get(order.CompanyID)
	if err != nil {
		return err
	}
	if settings.BusinessMode == entity.BusinessModeResale {
		return stock.DeductFinishedGoodsForOrder(order.CompanyID, userID, order, productRepo, productMovementRepo)
	}
	return stock.DeductMaterialsForOrder(order.CompanyID, userID, order, materialRepo, movementRepo)
}

// FinancialSummary agrega a carteira inteira do tenant em receita, custo e
// lucro, sob os ajustes correntes. Lista sem paginação: truncar a carteira
// distorceria o sumário.
func (uc *UseCase) FinancialSummary(ctx context.Context, companyID string) (*costing.FinancialSummary, error) {
	orders, _, err := uc.orderRepo.ListByCompany(companyID, repository.OrderFilter{})
	if err != nil {
		return nil, err
	}
	settings, err := uc.settingsRepo.Get(companyID)
	if err != nil {
		return nil, err
	}
	summary := costing.SummarizeFinancials(orders, settings)
	return &summary, nil
}
