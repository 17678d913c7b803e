package stock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// Severidades de alerta de estoque mínimo, da pior para a mais branda.
const (
	AlertSeverityCritical = "critical" // saldo <= 0
	AlertSeverityHigh     = "high"     // saldo <= metade do mínimo
	AlertSeverityMedium   = "medium"   // saldo <= mínimo
)

// StockAlert sinaliza um par (material, cor) no limiar ou abaixo dele.
type StockAlert struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	Color        string          `json:"color"`
	Balance      decimal.Decimal `json:"balance"`
	MinQuantity  decimal.Decimal `json:"min_quantity"`
	Severity     string          `json:"severity"`
}

// ProductStockAlert é o alerta equivalente para produto acabado.
type ProductStockAlert struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Balance     decimal.Decimal `json:"balance"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	Severity    string          `json:"severity"`
}

// classifySeverity aplica os limiares sobre um saldo. Devolve vazio quando o
// saldo está acima do mínimo (sem alerta).
func classifySeverity(balance, minQuantity decimal.Decimal) string {
	switch {
	case !balance.GreaterThan(decimal.Zero):
		return AlertSeverityCritical
	case !balance.GreaterThan(minQuantity.Div(decimal.NewFromInt(2))):
		return AlertSeverityHigh
	case !balance.GreaterThan(minQuantity):
		return AlertSeverityMedium
	}
	return ""
}

// AlertsUseCase varre os materiais com limiar configurado e emite alertas
// por cor.
type AlertsUseCase struct {
	materialRepo        repository.MaterialRepository
	movementRepo        repository.StockMovementRepository
	productRepo         repository.ProductRepository
	productMovementRepo repository.ProductStockMovementRepository
}

// NewAlertsUseCase constrói o caso de uso.
func NewAlertsUseCase(
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productMovementRepo repository.ProductStockMovementRepository,
) *AlertsUseCase {
	return &AlertsUseCase{
		materialRepo:        materialRepo,
		movementRepo:        movementRepo,
		productRepo:         productRepo,
		productMovementRepo: productMovementRepo,
	}
}

// MaterialAlerts emite um alerta por par (material, cor) abaixo do limiar.
// O universo de cores de cada material é a união das cores declaradas e das
// cores que já apareceram no ledger, então uma cor declarada zerada que nunca
// movimentou também alerta. DEFAULT só entra quando o material não tem cor.
func (uc *AlertsUseCase) MaterialAlerts(ctx context.Context, companyID string) ([]StockAlert, error) {
	materials, err := uc.materialRepo.ListWithMinQuantity(companyID)
	if err != nil {
		return nil, err
	}
	if len(materials) == 0 {
		return nil, nil
	}

	ids := make([]string, len(materials))
	for i, m := range materials {
		ids[i] = m.ID
	}
	balances, err := uc.movementRepo.BalancesForMaterials(companyID, ids)
	if err != nil {
		return nil, err
	}

	var alerts []StockAlert
	for _, material := range materials {
		if material.MinQuantity == nil {
			continue
		}
		colors := colorUniverse(material, balances)
		for _, color := range colors {
			balance := balances[repository.BalanceKey{MaterialID: material.ID, Color: color}]
			severity := classifySeverity(balance, *material.MinQuantity)
			if severity == "" {
				continue
			}
			alerts = append(alerts, StockAlert{
				MaterialID:   material.ID,
				MaterialName: material.Name,
				Unit:         material.Unit,
				Color:        color,
				Balance:      balance,
				MinQuantity:  *material.MinQuantity,
				Severity:     severity,
			})
		}
	}
	return alerts, nil
}

// colorUniverse devolve as cores a vigiar de um material, em ordem estável:
// cores declaradas, depois cores vistas no ledger. DEFAULT entra apenas como
// fallback de material sem nenhuma cor declarada nem movimentada; incluir
// DEFAULT sempre geraria alerta crítico espúrio para materiais coloridos.
func colorUniverse(material *entity.Material, balances map[repository.BalanceKey]decimal.Decimal) []string {
	seen := make(map[string]bool)
	colors := make([]string, 0, len(material.Colors))
	for _, c := range material.Colors {
		c = entity.NormalizeColor(c)
		if !seen[c] {
			seen[c] = true
			colors = append(colors, c)
		}
	}
	ledgerColors := make([]string, 0)
	for key := range balances {
		if key.MaterialID == material.ID && !seen[key.Color] {
			seen[key.Color] = true
			ledgerColors = append(ledgerColors, key.Color)
		}
	}
	// Ordem de mapa não é estável; ordena as cores vindas do ledger.
	sort.Strings(ledgerColors)
	colors = append(colors, ledgerColors...)
	if len(colors) == 0 {
		return []string{entity.ColorDefault}
	}
	return colors
}

// ProductAlerts emite alertas de produto acabado abaixo do limiar.
func (uc *AlertsUseCase) ProductAlerts(ctx context.Context, companyID string) ([]ProductStockAlert, error) {
	products, err := uc.productRepo.ListWithMinQuantity(companyID)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	balances, err := uc.productMovementRepo.BalancesForProducts(companyID, ids)
	if err != nil {
		return nil, err
	}

	var alerts []ProductStockAlert
	for _, product := range products {
		if product.MinQuantity == nil {
			continue
		}
		balance := balances[product.ID]
		severity := classifySeverity(balance, *product.MinQuantity)
		if severity == "" {
			continue
		}
		alerts = append(alerts, ProductStockAlert{
			ProductID:   product.ID,
			ProductName: product.Name,
			Balance:     balance,
			MinQuantity: *product.MinQuantity,
			Severity:    severity,
		})
	}
	return alerts, nil
}
