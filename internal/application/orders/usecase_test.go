package orders_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/orders"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

const companyID = "company-1"

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeOrderRepo struct {
	orders map[string]*entity.Order
	// readStatus simula uma leitura defasada: GetByID devolve uma cópia com
	// este status, como se outra transação tivesse commitado depois da leitura.
	readStatus string
}

func newFakeOrderRepo(os ...*entity.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*entity.Order)}
	for _, o := range os {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(o *entity.Order) error { r.orders[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o := r.orders[id]
	if o != nil && r.readStatus != "" {
		stale := *o
		stale.Status = r.readStatus
		return &stale, nil
	}
	return o, nil
}
func (r *fakeOrderRepo) ListByCompany(companyID string, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if o.CompanyID == companyID {
			out = append(out, o)
		}
	}
	total := len(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}
func (r *fakeOrderRepo) UpdateStatus(id, status string) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}
func (r *fakeOrderRepo) UpdateStatusFrom(id, status string, expectedCurrent []string) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrConflict
	}
	for _, expected := range expectedCurrent {
		if o.Status == expected {
			o.Status = status
			return nil
		}
	}
	return domain.ErrConflict
}
func (r *fakeOrderRepo) Delete(id string) error { delete(r.orders, id); return nil }
func (r *fakeOrderRepo) CountActive(companyID string) (int, error) {
	return len(r.orders), nil
}

type fakeMaterialRepo struct {
	materials map[string]*entity.Material
	locked    []string
}

func newFakeMaterialRepo(materials ...*entity.Material) *fakeMaterialRepo {
	r := &fakeMaterialRepo{materials: make(map[string]*entity.Material)}
	for _, m := range materials {
		r.materials[m.ID] = m
	}
	return r
}

func (r *fakeMaterialRepo) Create(m *entity.Material) error { r.materials[m.ID] = m; return nil }
func (r *fakeMaterialRepo) Update(m *entity.Material) error { r.materials[m.ID] = m; return nil }
func (r *fakeMaterialRepo) Delete(id string) error          { delete(r.materials, id); return nil }
func (r *fakeMaterialRepo) GetByID(id string) (*entity.Material, error) {
	return r.materials[id], nil
}
func (r *fakeMaterialRepo) GetByIDs(ids []string) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, id := range ids {
		if m, ok := r.materials[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMaterialRepo) ListByCompany(string) ([]*entity.Material, error)       { return nil, nil }
func (r *fakeMaterialRepo) ListWithMinQuantity(string) ([]*entity.Material, error) { return nil, nil }
func (r *fakeMaterialRepo) LockByIDs(ids []string) error {
	r.locked = append(r.locked, ids...)
	return nil
}
func (r *fakeMaterialRepo) UpdateCost(id string, cost decimal.Decimal) error {
	r.materials[id].Cost = cost
	return nil
}

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *fakeMovementRepo) ListByCompany(string) ([]*entity.StockMovement, error) {
	return r.movements, nil
}
func (r *fakeMovementRepo) ListByMaterial(string, *time.Time, *time.Time, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) BalancesForMaterials(companyID string, ids []string) (map[repository.BalanceKey]decimal.Decimal, error) {
	wanted := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
	}
	var filtered []*entity.StockMovement
	for _, m := range r.movements {
		if m.CompanyID == companyID && wanted[m.MaterialID] {
			filtered = append(filtered, m)
		}
	}
	return stock.ReplayBalances(filtered), nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	locked   []string
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *fakeProductRepo) Delete(id string) error         { delete(r.products, id); return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.products[id], nil
}
func (r *fakeProductRepo) GetByIDs(ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r *fakeProductRepo) ListByCompany(string) ([]*entity.Product, error)        { return nil, nil }
func (r *fakeProductRepo) ListWithMinQuantity(string) ([]*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) LockByIDs(ids []string) error {
	r.locked = append(r.locked, ids...)
	return nil
}

type fakeProductMovementRepo struct {
	movements []*entity.ProductStockMovement
}

func (r *fakeProductMovementRepo) Create(m *entity.ProductStockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *fakeProductMovementRepo) ListByCompany(string, int) ([]*entity.ProductStockMovement, error) {
	return r.movements, nil
}
func (r *fakeProductMovementRepo) BalancesForProducts(companyID string, ids []string) (map[string]decimal.Decimal, error) {
	wanted := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
	}
	var filtered []*entity.ProductStockMovement
	for _, m := range r.movements {
		if m.CompanyID == companyID && wanted[m.ProductID] {
			filtered = append(filtered, m)
		}
	}
	return stock.ReplayProductBalances(filtered), nil
}

type fakeSettingsRepo struct {
	settings *entity.CostSettings
}

func (r *fakeSettingsRepo) Get(companyID string) (*entity.CostSettings, error) {
	if r.settings != nil {
		return r.settings, nil
	}
	return entity.DefaultCostSettings(companyID), nil
}
func (r *fakeSettingsRepo) Upsert(s *entity.CostSettings) error { r.settings = s; return nil }

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) Delete(id string) error          { return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	if r.customers == nil {
		return nil, nil
	}
	return r.customers[id], nil
}
func (r *fakeCustomerRepo) ListByCompany(string) ([]*entity.Customer, error) { return nil, nil }

// fakeTxRunner entrega os fakes direto ao callback; quando o callback erra,
// desfaz o status salvo antes (simula o rollback do runner real).
type fakeTxRunner struct {
	orderRepo           *fakeOrderRepo
	materialRepo        *fakeMaterialRepo
	movementRepo        *fakeMovementRepo
	productRepo         *fakeProductRepo
	productMovementRepo *fakeProductMovementRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.MaterialRepository,
	repository.StockMovementRepository,
	repository.StockEntryRepository,
) error) error {
	return fn(r.materialRepo, r.movementRepo, nil)
}

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	repository.OrderRepository,
	repository.MaterialRepository,
	repository.StockMovementRepository,
	repository.ProductRepository,
	repository.ProductStockMovementRepository,
) error) error {
	snapshot := make(map[string]string, len(r.orderRepo.orders))
	for id, o := range r.orderRepo.orders {
		snapshot[id] = o.Status
	}
	movementCount := len(r.movementRepo.movements)
	err := fn(r.orderRepo, r.materialRepo, r.movementRepo, r.productRepo, r.productMovementRepo)
	if err != nil {
		for id, status := range snapshot {
			if o, ok := r.orderRepo.orders[id]; ok {
				o.Status = status
			}
		}
		r.movementRepo.movements = r.movementRepo.movements[:movementCount]
	}
	return err
}

// ── cenário base ─────────────────────────────────────────────────────────────

type fixture struct {
	uc           *orders.UseCase
	orderRepo    *fakeOrderRepo
	materialRepo *fakeMaterialRepo
	movementRepo *fakeMovementRepo
	productRepo  *fakeProductRepo
	prodMovRepo  *fakeProductMovementRepo
	settingsRepo *fakeSettingsRepo
}

func newFixture(material *entity.Material, product *entity.Product, order *entity.Order) *fixture {
	f := &fixture{
		orderRepo:    newFakeOrderRepo(),
		materialRepo: newFakeMaterialRepo(),
		movementRepo: &fakeMovementRepo{},
		productRepo:  newFakeProductRepo(),
		prodMovRepo:  &fakeProductMovementRepo{},
		settingsRepo: &fakeSettingsRepo{},
	}
	if material != nil {
		f.materialRepo.materials[material.ID] = material
	}
	if product != nil {
		f.productRepo.products[product.ID] = product
	}
	if order != nil {
		f.orderRepo.orders[order.ID] = order
	}
	runner := &fakeTxRunner{
		orderRepo:           f.orderRepo,
		materialRepo:        f.materialRepo,
		movementRepo:        f.movementRepo,
		productRepo:         f.productRepo,
		productMovementRepo: f.prodMovRepo,
	}
	f.uc = orders.NewUseCase(runner, f.orderRepo, f.productRepo, &fakeCustomerRepo{}, f.settingsRepo)
	return f
}

func buildScenario(stockQty string) (*entity.Material, *entity.Product, *entity.Order, []*entity.StockMovement) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m", Cost: dec("12")}
	product := &entity.Product{
		ID: "prod-1", CompanyID: companyID, Name: "Bolsa", Price: decPtr("80"),
		Materials: []entity.BOMLine{
			{MaterialID: "mat-1", Quantity: dec("2"), Unit: "m", Material: material},
		},
	}
	order := &entity.Order{
		ID: "order-1", CompanyID: companyID, Status: entity.OrderStatusPending,
		Items: []entity.OrderItem{
			{ID: "item-1", OrderID: "order-1", ProductID: "prod-1", Quantity: 3, Price: dec("80"), Product: product},
		},
	}
	var seed []*entity.StockMovement
	if stockQty != "" {
		seed = []*entity.StockMovement{{
			ID: "seed", CompanyID: companyID, MaterialID: "mat-1",
			Color: "", Type: entity.MovementTypeIN, Quantity: dec(stockQty),
		}}
	}
	return material, product, order, seed
}

// ── transição de status ──────────────────────────────────────────────────────

func TestUpdateStatus_ProducaoDeduzEstoqueUmaVez(t *testing.T) {
	material, product, order, seed := buildScenario("10")
	f := newFixture(material, product, order)
	f.movementRepo.movements = seed

	updated, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProducing, updated.Status)

	// pedido de 3 bolsas x 2m = 6m deduzidos
	require.Len(t, f.movementRepo.movements, 2)
	out := f.movementRepo.movements[1]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.True(t, out.Quantity.Equal(dec("6")), "dedução esperada 6m, veio %s", out.Quantity)
	assert.Equal(t, "order-1", out.OrderID)

	// transições seguintes não deduzem de novo
	_, err = f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusReady)
	require.NoError(t, err)
	_, err = f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Len(t, f.movementRepo.movements, 2, "baixa acontece exatamente uma vez")
}

// Duas requisições concorrentes de PENDING -> PRODUCING: a segunda leu o
// pedido antes do commit da primeira. O write condicional dentro da transação
// rejeita a perdedora antes de tocar no ledger.
func TestUpdateStatus_TransicaoConcorrenteNaoDeduzDuasVezes(t *testing.T) {
	material, product, order, seed := buildScenario("20")
	f := newFixture(material, product, order)
	f.movementRepo.movements = seed

	_, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	require.NoError(t, err)
	require.Len(t, f.movementRepo.movements, 2)

	// A segunda requisição enxerga o status defasado PENDING na leitura.
	f.orderRepo.readStatus = entity.OrderStatusPending
	_, err = f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, f.movementRepo.movements, 2, "uma única baixa para o pedido")
	assert.Equal(t, entity.OrderStatusProducing, f.orderRepo.orders["order-1"].Status)
}

func TestUpdateStatus_FaltaAbortaTransicaoInteira(t *testing.T) {
	material, product, order, seed := buildScenario("5") // precisa de 6
	f := newFixture(material, product, order)
	f.movementRepo.movements = seed

	_, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)

	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, "Tecido", insufficient.Items[0].MaterialName)
	assert.True(t, insufficient.Items[0].Missing.Equal(dec("1")), "falta 1m, veio %s", insufficient.Items[0].Missing)

	// status intacto e nenhum movimento gravado
	assert.Equal(t, entity.OrderStatusPending, f.orderRepo.orders["order-1"].Status)
	assert.Len(t, f.movementRepo.movements, 1, "rollback não deixa movimento órfão")
}

func TestUpdateStatus_TransicaoSemBaixaNaoTocaEstoque(t *testing.T) {
	material, product, order, _ := buildScenario("")
	f := newFixture(material, product, order)

	updated, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, updated.Status)
	assert.Empty(t, f.movementRepo.movements)
}

func TestUpdateStatus_EstadoFinalRejeitaTransicao(t *testing.T) {
	material, product, order, _ := buildScenario("")
	order.Status = entity.OrderStatusDelivered
	f := newFixture(material, product, order)

	_, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus_ReadyParaProducingNaoDeduz(t *testing.T) {
	material, product, order, _ := buildScenario("")
	order.Status = entity.OrderStatusReady
	f := newFixture(material, product, order)

	// Voltar para produção não repete a baixa; a regra só dispara vindo de
	// orçamento ou pendente.
	updated, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProducing, updated.Status)
	assert.Empty(t, f.movementRepo.movements)
}

func TestUpdateStatus_ModoRevendaDeduzProdutoAcabado(t *testing.T) {
	material, product, order, _ := buildScenario("")
	f := newFixture(material, product, order)
	f.settingsRepo.settings = entity.DefaultCostSettings(companyID)
	f.settingsRepo.settings.BusinessMode = entity.BusinessModeResale
	f.prodMovRepo.movements = []*entity.ProductStockMovement{{
		ID: "seed", CompanyID: companyID, ProductID: "prod-1",
		Type: entity.MovementTypeIN, Quantity: dec("5"),
	}}

	_, err := f.uc.UpdateStatus(context.Background(), companyID, "user-1", "order-1", entity.OrderStatusProducing)
	require.NoError(t, err)

	assert.Empty(t, f.movementRepo.movements, "revenda não toca o ledger de materiais")
	require.Len(t, f.prodMovRepo.movements, 2)
	out := f.prodMovRepo.movements[1]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.True(t, out.Quantity.Equal(dec("3")), "3 unidades vendidas, veio %s", out.Quantity)
}

// ── criação ──────────────────────────────────────────────────────────────────

func TestCreate_TotalCalculadoNoServidor(t *testing.T) {
	material, product, _, _ := buildScenario("")
	f := newFixture(material, product, nil)

	order, err := f.uc.Create(context.Background(), orders.CreateOrderInput{
		CompanyID: companyID,
		UserID:    "user-1",
		Items: []orders.OrderItemInput{
			{ProductID: "prod-1", Quantity: 2, Price: decPtr("50"), Discount: dec("5")},
		},
		Discount: dec("10"),
	})
	require.NoError(t, err)
	// (50-5)*2 - 10 = 80
	assert.True(t, order.TotalValue.Equal(dec("80")), "total esperado 80, veio %s", order.TotalValue)
	assert.Equal(t, entity.OrderStatusQuotation, order.Status, "status padrão é orçamento")
}

func TestCreate_TotalNuncaNegativo(t *testing.T) {
	material, product, _, _ := buildScenario("")
	f := newFixture(material, product, nil)

	order, err := f.uc.Create(context.Background(), orders.CreateOrderInput{
		CompanyID: companyID,
		Items:     []orders.OrderItemInput{{ProductID: "prod-1", Quantity: 1, Price: decPtr("10")}},
		Discount:  dec("500"),
	})
	require.NoError(t, err)
	assert.True(t, order.TotalValue.IsZero(), "desconto maior que a soma clampa em zero")
}

func TestCreate_SemPrecoUsaPrecoDoProduto(t *testing.T) {
	material, product, _, _ := buildScenario("")
	f := newFixture(material, product, nil)

	order, err := f.uc.Create(context.Background(), orders.CreateOrderInput{
		CompanyID: companyID,
		Items:     []orders.OrderItemInput{{ProductID: "prod-1", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalValue.Equal(dec("160")), "2 x preço do produto (80), veio %s", order.TotalValue)
}

func TestCreate_JaEmProducaoDeduzNoMesmoCommit(t *testing.T) {
	material, product, _, seed := buildScenario("10")
	f := newFixture(material, product, nil)
	f.movementRepo.movements = seed

	order, err := f.uc.Create(context.Background(), orders.CreateOrderInput{
		CompanyID: companyID,
		UserID:    "user-1",
		Status:    entity.OrderStatusProducing,
		Items:     []orders.OrderItemInput{{ProductID: "prod-1", Quantity: 3}},
	})
	require.NoError(t, err)
	require.NotNil(t, f.orderRepo.orders[order.ID], "pedido gravado")
	require.Len(t, f.movementRepo.movements, 2)
	assert.True(t, f.movementRepo.movements[1].Quantity.Equal(dec("6")))
}

func TestCreate_ProdutoInexistente(t *testing.T) {
	f := newFixture(nil, nil, nil)
	_, err := f.uc.Create(context.Background(), orders.CreateOrderInput{
		CompanyID: companyID,
		Items:     []orders.OrderItemInput{{ProductID: "ghost", Quantity: 1}},
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_PedidoDeOutraEmpresa(t *testing.T) {
	material, product, order, _ := buildScenario("")
	order.CompanyID = "company-2"
	f := newFixture(material, product, order)

	err := f.uc.Delete(context.Background(), companyID, "order-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── sumário financeiro ───────────────────────────────────────────────────────

func TestFinancialSummary_CarteiraInteiraSemPaginacao(t *testing.T) {
	f := newFixture(nil, nil, nil)
	for i := 0; i < 1200; i++ {
		f.orderRepo.orders[fmt.Sprintf("order-%d", i)] = &entity.Order{
			ID: fmt.Sprintf("order-%d", i), CompanyID: companyID,
			Status: entity.OrderStatusDelivered, TotalValue: dec("10"),
		}
	}

	summary, err := f.uc.FinancialSummary(context.Background(), companyID)
	require.NoError(t, err)
	assert.Equal(t, 1200, summary.OrderCount, "o sumário cobre a carteira inteira, sem corte de página")
	assert.True(t, summary.TotalRevenue.Equal(dec("12000")), "veio %s", summary.TotalRevenue)
}
