package stock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// ── fakes em memória ─────────────────────────────────────────────────────────

type fakeMaterialRepo struct {
	materials map[string]*entity.Material
	locked    []string
}

func newFakeMaterialRepo(materials ...*entity.Material) *fakeMaterialRepo {
	repo := &fakeMaterialRepo{materials: make(map[string]*entity.Material)}
	for _, m := range materials {
		repo.materials[m.ID] = m
	}
	return repo
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
func (r *fakeMaterialRepo) ListByCompany(companyID string) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.materials {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMaterialRepo) ListWithMinQuantity(companyID string) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.materials {
		if m.CompanyID == companyID && m.MinQuantity != nil {
			out = append(out, m)
		}
	}
	return out, nil
}
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
func (r *fakeMovementRepo) ListByCompany(companyID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.CompanyID == companyID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.MaterialID == materialID {
			out = append(out, m)
		}
	}
	return out, nil
}
func (r *fakeMovementRepo) BalancesForMaterials(companyID string, materialIDs []string) (map[repository.BalanceKey]decimal.Decimal, error) {
	wanted := make(map[string]bool, len(materialIDs))
	for _, id := range materialIDs {
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

type fakeEntryRepo struct {
	entries []*entity.StockEntry
}

func (r *fakeEntryRepo) Create(e *entity.StockEntry) error { r.entries = append(r.entries, e); return nil }
func (r *fakeEntryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error) {
	return r.entries, nil
}

// fakeTxRunner executa o callback direto sobre os fakes. A atomicidade real
// é do runner de produção; aqui interessa só a ordem das operações.
type fakeTxRunner struct {
	materialRepo        *fakeMaterialRepo
	movementRepo        *fakeMovementRepo
	entryRepo           *fakeEntryRepo
	orderRepo           repository.OrderRepository
	productRepo         repository.ProductRepository
	productMovementRepo repository.ProductStockMovementRepository
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.MaterialRepository,
	repository.StockMovementRepository,
	repository.StockEntryRepository,
) error) error {
	return fn(r.materialRepo, r.movementRepo, r.entryRepo)
}

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	repository.OrderRepository,
	repository.MaterialRepository,
	repository.StockMovementRepository,
	repository.ProductRepository,
	repository.ProductStockMovementRepository,
) error) error {
	return fn(r.orderRepo, r.materialRepo, r.movementRepo, r.productRepo, r.productMovementRepo)
}

// ── helpers de cenário ───────────────────────────────────────────────────────

const companyID = "company-1"

func movement(materialID, color, movType, qty string) *entity.StockMovement {
	return &entity.StockMovement{
		ID:         materialID + "-" + movType + "-" + qty,
		CompanyID:  companyID,
		MaterialID: materialID,
		Color:      color,
		Type:       movType,
		Quantity:   dec(qty),
	}
}

func orderWithBOM(qty int, lineQty, lineUnit, color string, material *entity.Material) *entity.Order {
	return &entity.Order{
		ID:        "order-1",
		CompanyID: companyID,
		Items: []entity.OrderItem{
			{
				ID:        "item-1",
				ProductID: "product-1",
				Quantity:  qty,
				Product: &entity.Product{
					ID:        "product-1",
					CompanyID: companyID,
					Name:      "Bolsa",
					Materials: []entity.BOMLine{
						{
							MaterialID: material.ID,
							Quantity:   dec(lineQty),
							Unit:       lineUnit,
							Color:      color,
							Material:   material,
						},
					},
				},
			},
		},
	}
}

// ── replay ───────────────────────────────────────────────────────────────────

func TestReplayBalances_PorMaterialECor(t *testing.T) {
	movements := []*entity.StockMovement{
		movement("mat-1", "", entity.MovementTypeIN, "10"),
		movement("mat-1", "", entity.MovementTypeOUT, "3"),
		movement("mat-1", "Azul", entity.MovementTypeIN, "5"),
		movement("mat-2", "", entity.MovementTypeIN, "7"),
		movement("mat-1", "", entity.MovementTypeLoss, "1"),
	}
	balances := stock.ReplayBalances(movements)

	assert.True(t, balances[repository.BalanceKey{MaterialID: "mat-1", Color: "DEFAULT"}].Equal(dec("6")))
	assert.True(t, balances[repository.BalanceKey{MaterialID: "mat-1", Color: "Azul"}].Equal(dec("5")))
	assert.True(t, balances[repository.BalanceKey{MaterialID: "mat-2", Color: "DEFAULT"}].Equal(dec("7")))
}

func TestReplayBalances_SaldoPodeFicarNegativo(t *testing.T) {
	// Ajuste manual mal feito deixa o ledger negativo; o replay não esconde.
	movements := []*entity.StockMovement{
		movement("mat-1", "", entity.MovementTypeIN, "2"),
		movement("mat-1", "", entity.MovementTypeOUTAdjust, "7"),
	}
	balance := stock.BalanceFor(movements, "mat-1", "")
	assert.True(t, balance.Equal(dec("-5")), "veio %s", balance)
}

// ── disponibilidade ──────────────────────────────────────────────────────────

// Cenário de referência: saldo -5 no ledger, pedido precisa de 10.
// O disponível reportado é o saldo real (-5) e a falta cobre o buraco: 15.
func TestDeductMaterials_SaldoNegativoEntraNaFalta(t *testing.T) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "", entity.MovementTypeIN, "2"),
		movement("mat-1", "", entity.MovementTypeOUTAdjust, "7"),
	}}
	order := orderWithBOM(10, "1", "m", "", material)

	err := stock.DeductMaterialsForOrder(companyID, "user-1", order, materialRepo, movementRepo)

	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	item := insufficient.Items[0]
	assert.True(t, item.Available.Equal(dec("-5")), "disponível deve ser o saldo real, veio %s", item.Available)
	assert.True(t, item.Required.Equal(dec("10")))
	assert.True(t, item.Missing.Equal(dec("15")), "falta esperada 15, veio %s", item.Missing)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "deve desembrulhar para o sentinel")
}

func TestDeductMaterials_SucessoRegistraOUTPorParECor(t *testing.T) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "Azul", entity.MovementTypeIN, "10"),
	}}
	// 2 unidades de um produto que leva 150cm de tecido azul -> 3m
	order := orderWithBOM(2, "150", "cm", "Azul", material)

	err := stock.DeductMaterialsForOrder(companyID, "user-1", order, materialRepo, movementRepo)
	require.NoError(t, err)

	assert.Contains(t, materialRepo.locked, "mat-1", "material deve ser bloqueado antes de revalidar")
	require.Len(t, movementRepo.movements, 2)
	out := movementRepo.movements[1]
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.Equal(t, "Azul", out.Color)
	assert.Equal(t, "order-1", out.OrderID)
	assert.Equal(t, entity.MovementSourceOrder, out.Source)
	assert.True(t, out.Quantity.Equal(dec("3")), "150cm x2 em metros = 3, veio %s", out.Quantity)

	balance := stock.BalanceFor(movementRepo.movements, "mat-1", "Azul")
	assert.True(t, balance.Equal(dec("7")), "saldo final esperado 7, veio %s", balance)
}

func TestDeductMaterials_CoresNaoSeMisturam(t *testing.T) {
	// 10m em Azul não atendem pedido que pede cor Vermelho.
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "Azul", entity.MovementTypeIN, "10"),
	}}
	order := orderWithBOM(1, "2", "m", "Vermelho", material)

	err := stock.DeductMaterialsForOrder(companyID, "user-1", order, materialRepo, movementRepo)

	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Vermelho", insufficient.Items[0].Color)
}

func TestDeductMaterials_FaltaParcialNaoRegistraNada(t *testing.T) {
	matA := &entity.Material{ID: "mat-a", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	matB := &entity.Material{ID: "mat-b", CompanyID: companyID, Name: "Linha", Unit: "un"}
	materialRepo := newFakeMaterialRepo(matA, matB)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-a", "", entity.MovementTypeIN, "100"),
		// mat-b sem estoque
	}}
	order := &entity.Order{
		ID:        "order-1",
		CompanyID: companyID,
		Items: []entity.OrderItem{{
			ID: "item-1", ProductID: "product-1", Quantity: 1,
			Product: &entity.Product{
				ID: "product-1", CompanyID: companyID, Name: "Bolsa",
				Materials: []entity.BOMLine{
					{MaterialID: "mat-a", Quantity: dec("1"), Unit: "m", Material: matA},
					{MaterialID: "mat-b", Quantity: dec("2"), Unit: "un", Material: matB},
				},
			},
		}},
	}

	before := len(movementRepo.movements)
	err := stock.DeductMaterialsForOrder(companyID, "user-1", order, materialRepo, movementRepo)

	var insufficient *stock.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Len(t, insufficient.Items, 1)
	assert.Equal(t, "Linha", insufficient.Items[0].MaterialName)
	assert.Len(t, movementRepo.movements, before, "falta de um item não pode deduzir os demais")
}

// ── entrada de compra ────────────────────────────────────────────────────────

func TestRegisterEntry_RateioDeFreteECustoMedio(t *testing.T) {
	// Material já com 100 unidades a R$2,00; entrada de 50 a R$3,00 sem
	// frete -> média 2,3333.
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Botão", Unit: "un", Cost: dec("2.00")}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "", entity.MovementTypeIN, "100"),
	}}
	entryRepo := &fakeEntryRepo{}
	runner := &fakeTxRunner{materialRepo: materialRepo, movementRepo: movementRepo, entryRepo: entryRepo}
	uc := stock.NewEntryUseCase(runner, materialRepo, movementRepo)

	entry, err := uc.RegisterEntry(context.Background(), stock.EntryInput{
		CompanyID:    companyID,
		UserID:       "user-1",
		SupplierName: "Armarinho Central",
		FreightCost:  decimal.Zero,
		Items: []stock.EntryItemInput{
			{MaterialID: "mat-1", Quantity: dec("50"), UnitCost: dec("3.00")},
		},
	})
	require.NoError(t, err)
	require.Len(t, entryRepo.entries, 1)
	assert.True(t, entry.TotalCost.Equal(dec("150")), "total da entrada: veio %s", entry.TotalCost)

	// movimento IN registrado
	last := movementRepo.movements[len(movementRepo.movements)-1]
	assert.Equal(t, entity.MovementTypeIN, last.Type)
	assert.Equal(t, entity.MovementSourcePurchase, last.Source)
	assert.True(t, last.Quantity.Equal(dec("50")))

	// custo médio atualizado: (100*2 + 50*3)/150 = 2.3333
	assert.True(t, materialRepo.materials["mat-1"].Cost.Equal(dec("2.3333")),
		"custo médio esperado 2.3333, veio %s", materialRepo.materials["mat-1"].Cost)
}

func TestRegisterEntry_FreteRateadoPorValor(t *testing.T) {
	// Frete de R$15 sobre dois itens de R$25 -> R$7,50 cada. O item de 500
	// unidades fica com custo unitário (25+7.5)/500 = 0.065.
	matA := &entity.Material{ID: "mat-a", CompanyID: companyID, Name: "Fita", Unit: "m", Cost: decimal.Zero}
	matB := &entity.Material{ID: "mat-b", CompanyID: companyID, Name: "Pérola", Unit: "un", Cost: decimal.Zero}
	materialRepo := newFakeMaterialRepo(matA, matB)
	movementRepo := &fakeMovementRepo{}
	entryRepo := &fakeEntryRepo{}
	runner := &fakeTxRunner{materialRepo: materialRepo, movementRepo: movementRepo, entryRepo: entryRepo}
	uc := stock.NewEntryUseCase(runner, materialRepo, movementRepo)

	_, err := uc.RegisterEntry(context.Background(), stock.EntryInput{
		CompanyID:   companyID,
		UserID:      "user-1",
		FreightCost: dec("15"),
		Items: []stock.EntryItemInput{
			{MaterialID: "mat-a", Quantity: dec("10"), UnitCost: dec("2.50")},  // subtotal 25
			{MaterialID: "mat-b", Quantity: dec("500"), UnitCost: dec("0.05")}, // subtotal 25
		},
	})
	require.NoError(t, err)

	// estoque zero -> bootstrap: custo vira o unitário efetivo com frete
	assert.True(t, materialRepo.materials["mat-a"].Cost.Equal(dec("3.25")),
		"(25+7.5)/10 = 3.25, veio %s", materialRepo.materials["mat-a"].Cost)
	assert.True(t, materialRepo.materials["mat-b"].Cost.Equal(dec("0.065")),
		"(25+7.5)/500 = 0.065, veio %s", materialRepo.materials["mat-b"].Cost)
}

func TestRegisterEntry_ValidaEntrada(t *testing.T) {
	materialRepo := newFakeMaterialRepo()
	movementRepo := &fakeMovementRepo{}
	runner := &fakeTxRunner{materialRepo: materialRepo, movementRepo: movementRepo, entryRepo: &fakeEntryRepo{}}
	uc := stock.NewEntryUseCase(runner, materialRepo, movementRepo)

	_, err := uc.RegisterEntry(context.Background(), stock.EntryInput{CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada sem itens")

	_, err = uc.RegisterEntry(context.Background(), stock.EntryInput{
		CompanyID: companyID,
		Items:     []stock.EntryItemInput{{MaterialID: "mat-1", Quantity: decimal.Zero, UnitCost: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantidade zero")
}

// ── movimento manual ─────────────────────────────────────────────────────────

func TestRegisterManualMovement_PerdaExigeJustificativa(t *testing.T) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{}
	uc := stock.NewEntryUseCase(&fakeTxRunner{}, materialRepo, movementRepo)

	_, err := uc.RegisterManualMovement(context.Background(), stock.ManualMovementInput{
		CompanyID:  companyID,
		MaterialID: "mat-1",
		Type:       entity.MovementTypeLoss,
		Quantity:   dec("2"),
	})
	assert.ErrorIs(t, err, domain.ErrNoteRequired)

	mov, err := uc.RegisterManualMovement(context.Background(), stock.ManualMovementInput{
		CompanyID:  companyID,
		MaterialID: "mat-1",
		Type:       entity.MovementTypeLoss,
		Quantity:   dec("2"),
		Note:       "Mancha de umidade no rolo",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementSourceManual, mov.Source)
	assert.Equal(t, "DEFAULT", mov.Color)
}

func TestRegisterManualMovement_TipoInvalido(t *testing.T) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	uc := stock.NewEntryUseCase(&fakeTxRunner{}, newFakeMaterialRepo(material), &fakeMovementRepo{})

	_, err := uc.RegisterManualMovement(context.Background(), stock.ManualMovementInput{
		CompanyID:  companyID,
		MaterialID: "mat-1",
		Type:       "TRANSFER",
		Quantity:   dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── alertas ──────────────────────────────────────────────────────────────────

func TestMaterialAlerts_SeveridadePorCor(t *testing.T) {
	material := &entity.Material{
		ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m",
		MinQuantity: decPtr("10"),
		Colors:      []string{"Azul", "Vermelho"},
	}
	materialRepo := newFakeMaterialRepo(material)
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "Azul", entity.MovementTypeIN, "4"),     // <= 5 (min/2) -> high
		movement("mat-1", "Vermelho", entity.MovementTypeIN, "8"), // <= 10 -> medium
		movement("mat-1", "Verde", entity.MovementTypeIN, "50"),   // acima do mínimo, sem alerta
	}}
	uc := stock.NewAlertsUseCase(materialRepo, movementRepo, nil, nil)

	alerts, err := uc.MaterialAlerts(context.Background(), companyID)
	require.NoError(t, err)

	bySeverity := make(map[string]string)
	for _, a := range alerts {
		bySeverity[a.Color] = a.Severity
	}
	// Material com cores declaradas não vigia DEFAULT.
	_, hasDefault := bySeverity["DEFAULT"]
	assert.False(t, hasDefault, "DEFAULT só entra em material sem cor")
	assert.Equal(t, stock.AlertSeverityHigh, bySeverity["Azul"])
	assert.Equal(t, stock.AlertSeverityMedium, bySeverity["Vermelho"])
	_, hasGreen := bySeverity["Verde"]
	assert.False(t, hasGreen, "cor acima do mínimo não alerta")
}

func TestMaterialAlerts_EstoqueSaudavelNaoGeraAlertaDefault(t *testing.T) {
	material := &entity.Material{
		ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m",
		MinQuantity: decPtr("10"),
		Colors:      []string{"Azul"},
	}
	movementRepo := &fakeMovementRepo{movements: []*entity.StockMovement{
		movement("mat-1", "Azul", entity.MovementTypeIN, "50"),
	}}
	uc := stock.NewAlertsUseCase(newFakeMaterialRepo(material), movementRepo, nil, nil)

	alerts, err := uc.MaterialAlerts(context.Background(), companyID)
	require.NoError(t, err)
	assert.Empty(t, alerts, "estoque acima do mínimo em todas as cores reais")
}

func TestMaterialAlerts_MaterialSemCorVigiaDefault(t *testing.T) {
	material := &entity.Material{
		ID: "mat-1", CompanyID: companyID, Name: "Linha", Unit: "un",
		MinQuantity: decPtr("10"),
	}
	uc := stock.NewAlertsUseCase(newFakeMaterialRepo(material), &fakeMovementRepo{}, nil, nil)

	alerts, err := uc.MaterialAlerts(context.Background(), companyID)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, entity.ColorDefault, alerts[0].Color)
	assert.Equal(t, stock.AlertSeverityCritical, alerts[0].Severity)
}

func TestMaterialAlerts_SemLimiarNaoAlerta(t *testing.T) {
	material := &entity.Material{ID: "mat-1", CompanyID: companyID, Name: "Tecido", Unit: "m"}
	uc := stock.NewAlertsUseCase(newFakeMaterialRepo(material), &fakeMovementRepo{}, nil, nil)

	alerts, err := uc.MaterialAlerts(context.Background(), companyID)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}
