package finance

import "github.com/shopspring/decimal"

// ProfitabilityMetrics é o resultado de uma análise de lucratividade.
// Derivado, nunca persistido: sempre recalculado sobre os ajustes atuais.
type ProfitabilityMetrics struct {
	ContributionMargin           decimal.Decimal
	ContributionMarginPercentage decimal.Decimal // em %, ex.: 30 = 30%
	VariableCostsTotal           decimal.Decimal
	TaxAmount                    decimal.Decimal
	CommissionAmount             decimal.Decimal
	BreakEvenUnits               BreakEven
	BreakEvenRevenue             BreakEven
}

// AnalyzeProfitability calcula margem de contribuição e ponto de equilíbrio.
//
//	impostos  = preco * taxRate/100
//	comissao  = preco * commissionRate/100
//	margem    = preco - (custo_variavel + impostos + comissao)
//
// Preço zero devolve margem percentual 0. Margem <= 0 devolve ponto de
// equilíbrio inalcançável (sentinela, não zero e não erro).
func AnalyzeProfitability(price, variableCosts, taxRate, commissionRate, totalMonthlyFixedCosts decimal.Decimal) ProfitabilityMetrics {
	taxes := price.Mul(div(taxRate, hundred))
	commission := price.Mul(div(commissionRate, hundred))

	totalVariable := variableCosts.Add(taxes).Add(commission)
	margin := price.Sub(totalVariable)

	marginPct := decimal.Zero
	if !price.IsZero() {
		marginPct = div(margin, price)
	}

	breakEvenUnits := UnreachableBreakEven()
	if margin.IsPositive() {
		// unidades mínimas inteiras
		breakEvenUnits = FiniteBreakEven(div(totalMonthlyFixedCosts, margin).Ceil())
	}
	breakEvenRevenue := UnreachableBreakEven()
	if marginPct.IsPositive() {
		breakEvenRevenue = FiniteBreakEven(div(totalMonthlyFixedCosts, marginPct))
	}

	return ProfitabilityMetrics{
		ContributionMargin:           margin,
		ContributionMarginPercentage: marginPct.Mul(hundred),
		VariableCostsTotal:           totalVariable,
		TaxAmount:                    taxes,
		CommissionAmount:             commission,
		BreakEvenUnits:               breakEvenUnits,
		BreakEvenRevenue:             breakEvenRevenue,
	}
}

// PriceForTargetProfit calcula o preço necessário para atingir uma meta de
// lucro mensal:
//
//	preco = (custos_fixos + lucro_desejado) / volume_projetado + custo_variavel_unitario
//
// Volume zero devolve 0.
func PriceForTargetProfit(fixedCosts, desiredProfit, projectedVolume, unitVariableCosts decimal.Decimal) decimal.Decimal {
	if projectedVolume.IsZero() {
		return decimal.Zero
	}
	return div(fixedCosts.Add(desiredProfit), projectedVolume).Add(unitVariableCosts)
}

// PsychologicalRounding aplica um padrão de preço psicológico ao valor bruto.
// Padrões com sufixo fracionário usam floor(preco) + 0.90|0.99|0.97; "round"
// arredonda ao inteiro; "none" (ou padrão desconhecido) passa direto.
func PsychologicalRounding(price decimal.Decimal, pattern string) decimal.Decimal {
	integerPart := price.Floor()
	switch pattern {
	case "90":
		return integerPart.Add(decimal.NewFromFloat(0.9))
	case "99":
		return integerPart.Add(decimal.NewFromFloat(0.99))
	case "97":
		return integerPart.Add(decimal.NewFromFloat(0.97))
	case "round":
		return price.Round(0)
	default:
		return price
	}
}

// Classificações de saúde de margem (uso somente de exibição).
const (
	MarginHealthCritical = "critical"
	MarginHealthWarning  = "warning"
	MarginHealthHealthy  = "healthy"
)

// ClassifyMarginHealth compara a margem percentual com os limiares do tenant.
// Abaixo de warning: crítico; abaixo de optimal: atenção; senão: saudável.
func ClassifyMarginHealth(marginPct, thresholdWarning, thresholdOptimal decimal.Decimal) string {
	if marginPct.LessThan(thresholdWarning) {
		return MarginHealthCritical
	}
	if marginPct.LessThan(thresholdOptimal) {
		return MarginHealthWarning
	}
	return MarginHealthHealthy
}
