package stock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// ColorBalance é o saldo de uma cor de material no relatório.
type ColorBalance struct {
	Color   string          `json:"color"`
	Balance decimal.Decimal `json:"balance"`
}

// MaterialPosition é a posição de estoque de um material: saldo por cor,
// custo médio corrente e valor imobilizado (saldo total * custo médio).
type MaterialPosition struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	AverageCost  decimal.Decimal `json:"average_cost"`
	TotalBalance decimal.Decimal `json:"total_balance"`
	TotalValue   decimal.Decimal `json:"total_value"`
	Colors       []ColorBalance  `json:"colors"`
}

// StockReport é a posição consolidada do estoque de materiais do tenant.
type StockReport struct {
	Positions  []MaterialPosition `json:"positions"`
	TotalValue decimal.Decimal    `json:"total_value"`
}

// ReportUseCase monta a posição de estoque a partir do replay do ledger.
type ReportUseCase struct {
	materialRepo repository.MaterialRepository
	movementRepo repository.StockMovementRepository
}

// NewReportUseCase constrói o caso de uso.
func NewReportUseCase(
	materialRepo repository.MaterialRepository,
	movementRepo repository.StockMovementRepository,
) *ReportUseCase {
	return &ReportUseCase{materialRepo: materialRepo, movementRepo: movementRepo}
}

// Report reconstrói a posição de todos os materiais da empresa. Materiais
// sem movimento aparecem com saldo zero; o valor imobilizado usa o custo
// médio corrente, não o histórico de cada entrada.
func (uc *ReportUseCase) Report(ctx context.Context, companyID string) (*StockReport, error) {
	materials, err := uc.materialRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}

	movements, err := uc.movementRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	balances := ReplayBalances(movements)

	byMaterial := make(map[string][]ColorBalance)
	for key, balance := range balances {
		byMaterial[key.MaterialID] = append(byMaterial[key.MaterialID], ColorBalance{
			Color:   key.Color,
			Balance: balance,
		})
	}

	report := &StockReport{Positions: make([]MaterialPosition, 0, len(materials))}
	grandTotal := decimal.Zero
	for _, material := range materials {
		colors := byMaterial[material.ID]
		sort.Slice(colors, func(i, j int) bool { return colors[i].Color < colors[j].Color })

		total := decimal.Zero
		for _, c := range colors {
			total = total.Add(c.Balance)
		}
		value := total.Mul(material.Cost)
		grandTotal = grandTotal.Add(value)

		if colors == nil {
			colors = []ColorBalance{{Color: entity.ColorDefault, Balance: decimal.Zero}}
		}
		report.Positions = append(report.Positions, MaterialPosition{
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Unit:         material.Unit,
			AverageCost:  material.Cost,
			TotalBalance: total,
			TotalValue:   finance.FormatDisplay(value),
			Colors:       colors,
		})
	}
	report.TotalValue = finance.FormatDisplay(grandTotal)
	return report, nil
}
