// Package costing agrega custos de produto (materiais + mão de obra + custo
// fixo rateado) e deriva o preço sugerido. Tudo é recalculado sob demanda a
// partir do produto e dos ajustes atuais do tenant; nada é cacheado.
package costing

import (
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/units"
)

// PriceCalculation é o resultado derivado da precificação de um produto.
// Nunca persistido; os campos monetários já vêm no formato de exibição
// (2 casas), calculados sobre a cadeia interna de 4 casas.
type PriceCalculation struct {
	MaterialCost   decimal.Decimal              `json:"material_cost"`
	LaborCost      decimal.Decimal              `json:"labor_cost"`
	FixedCost      decimal.Decimal              `json:"fixed_cost"`
	BaseCost       decimal.Decimal              `json:"base_cost"`
	MarginValue    decimal.Decimal              `json:"margin_value"`
	SuggestedPrice decimal.Decimal              `json:"suggested_price"`
	Profitability  finance.ProfitabilityMetrics `json:"-"`
	MarginHealth   string                       `json:"margin_health"`
}

// MaterialCost soma o custo dos materiais da ficha técnica: converte a
// quantidade da linha para a unidade estocada do material e multiplica pelo
// custo médio atual. Material ausente ou custo zero contribui com zero,
// nunca erro.
func MaterialCost(lines []entity.BOMLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Material == nil {
			continue
		}
		baseQty := units.Convert(line.Quantity, line.Unit, line.Material.Unit)
		total = total.Add(line.Material.Cost.Mul(baseQty))
	}
	return total
}

// LaborCostForMinutes calcula o custo de mão de obra do produto
// ((minutos/60) * valor-hora), já no valor interno de 4 casas.
func LaborCostForMinutes(laborTimeMinutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	minutes := decimal.NewFromInt(int64(laborTimeMinutes))
	return finance.FormatInternal(finance.LaborCost(minutes, hourlyRate))
}

// FixedCostAllocation rateia o custo fixo mensal pelo tempo de produção:
// (minutos/60) * (custos_fixos_mensais / horas_trabalhadas). Horas zero
// devolve 0 (guarda em FixedCostRate).
func FixedCostAllocation(laborTimeMinutes int, totalMonthlyFixed, workingHoursPerMonth decimal.Decimal) decimal.Decimal {
	rate := finance.FixedCostRate(totalMonthlyFixed, workingHoursPerMonth)
	minutes := decimal.NewFromInt(int64(laborTimeMinutes))
	return finance.FormatInternal(finance.LaborCost(minutes, rate))
}

// SuggestedPrice calcula a precificação completa de um produto sob os ajustes
// informados (parâmetro explícito, lido a cada chamada).
//
// Modelo de margem ADITIVO: marginValue = baseCost * margem/100 e
// suggestedPrice = baseCost + marginValue. Não confundir com o cost-plus
// divisor de finance.CostPlusPrice, que é outra estratégia com outro nome.
//
// Em modo revenda o custo de aquisição substitui a ficha técnica e não há
// mão de obra nem rateio de custo fixo (chave por tenant, não por produto).
func SuggestedPrice(product *entity.Product, settings *entity.CostSettings) PriceCalculation {
	totalFixed := settings.TotalMonthlyFixedCosts()

	var materialCost, laborCost, fixedCost decimal.Decimal
	if settings.BusinessMode == entity.BusinessModeResale {
		if product.AcquisitionCost != nil {
			materialCost = *product.AcquisitionCost
		}
	} else {
		materialCost = MaterialCost(product.Materials)
		laborCost = LaborCostForMinutes(product.LaborTime, settings.HourlyRate)
		fixedCost = FixedCostAllocation(product.LaborTime, totalFixed, settings.WorkingHoursPerMonth)
	}

	baseCost := materialCost.Add(laborCost).Add(fixedCost)
	marginValue := baseCost.Mul(product.ProfitMargin).DivRound(decimal.NewFromInt(100), 20)
	suggested := baseCost.Add(marginValue)

	// Análise de lucratividade sobre o preço efetivo: manual se fixado,
	// senão o sugerido.
	effectivePrice := suggested
	if product.Price != nil {
		effectivePrice = *product.Price
	}
	analysis := finance.AnalyzeProfitability(
		effectivePrice, baseCost, settings.TaxRate, settings.CardFeeRate, totalFixed,
	)
	health := finance.ClassifyMarginHealth(
		analysis.ContributionMarginPercentage,
		settings.MarginThresholdWarning,
		settings.MarginThresholdOptimal,
	)

	return PriceCalculation{
		MaterialCost:   finance.FormatDisplay(materialCost),
		LaborCost:      finance.FormatDisplay(laborCost),
		FixedCost:      finance.FormatDisplay(fixedCost),
		BaseCost:       finance.FormatDisplay(baseCost),
		MarginValue:    finance.FormatDisplay(marginValue),
		SuggestedPrice: finance.FormatDisplay(suggested),
		Profitability:  analysis,
		MarginHealth:   health,
	}
}

// baseCostInternal devolve o custo base sem arredondamento de exibição,
// para uso encadeado (sumário de pedidos).
func baseCostInternal(product *entity.Product, settings *entity.CostSettings) decimal.Decimal {
	if settings.BusinessMode == entity.BusinessModeResale {
		if product.AcquisitionCost != nil {
			return *product.AcquisitionCost
		}
		return decimal.Zero
	}
	materialCost := MaterialCost(product.Materials)
	laborCost := LaborCostForMinutes(product.LaborTime, settings.HourlyRate)
	fixedCost := FixedCostAllocation(product.LaborTime, settings.TotalMonthlyFixedCosts(), settings.WorkingHoursPerMonth)
	return materialCost.Add(laborCost).Add(fixedCost)
}

// OrderTotal calcula o total de um pedido:
//
//	max(0, Σ(preço - desconto_item) * quantidade - desconto_pedido)
//
// Nunca negativo, qualquer que seja o desconto.
func OrderTotal(items []entity.OrderItem, orderDiscount decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		itemPrice := item.Price.Sub(item.Discount)
		total = total.Add(itemPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total = total.Sub(orderDiscount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}
