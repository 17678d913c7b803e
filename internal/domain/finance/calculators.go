// Package finance concentra a matemática financeira do motor de custo e
// precificação. Todas as funções são puras, operam sobre decimal.Decimal
// (nunca float binário) e resolvem divisores zero com resultado zero
// documentado, nunca com erro.
package finance

import "github.com/shopspring/decimal"

// Precisão interna das divisões: 20 dígitos significativos, arredondamento
// half-up. Os callers não devem arredondar resultados intermediários para
// 2 casas antes de seguir calculando (erro composto); usar FormatInternal
// para encadear e FormatDisplay só na borda de exibição.
const divisionPrecision = 20

var (
	hundred = decimal.NewFromInt(100)
	sixty   = decimal.NewFromInt(60)
	one     = decimal.NewFromInt(1)
)

// div divide com a precisão interna do motor. b zero é responsabilidade do
// caller (todas as funções públicas fazem guarda antes).
func div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, divisionPrecision)
}

// ApportionFreight rateia o frete proporcionalmente ao valor do item.
// frete_item = frete_total * (valor_item / valor_total). Total zero devolve 0.
func ApportionFreight(itemValue, totalItemsValue, totalFreight decimal.Decimal) decimal.Decimal {
	if totalItemsValue.IsZero() {
		return decimal.Zero
	}
	proportion := div(itemValue, totalItemsValue)
	return totalFreight.Mul(proportion)
}

// ItemPurchaseUnitCost calcula o custo unitário de um item de compra
// incluindo o frete rateado: (valor_item + frete_item) / quantidade.
// Quantidade zero devolve 0.
func ItemPurchaseUnitCost(itemValue, quantity, apportionedFreight decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return div(itemValue.Add(apportionedFreight), quantity)
}

// MovingAverageCost calcula o custo médio ponderado (MPM):
//
//	novo_custo = ((Q_atual * C_atual) + (Q_nova * C_novo)) / (Q_atual + Q_nova)
//
// Total zero devolve 0. Estoque atual zero devolve o custo novo inalterado
// (bootstrap, evita armadilhas de 0/0).
func MovingAverageCost(currentQty, currentAvgCost, newQty, newCost decimal.Decimal) decimal.Decimal {
	totalQty := currentQty.Add(newQty)
	if totalQty.IsZero() {
		return decimal.Zero
	}
	if currentQty.IsZero() {
		return newCost
	}
	totalValue := currentQty.Mul(currentAvgCost).Add(newQty.Mul(newCost))
	return div(totalValue, totalQty)
}

// HourlyRate calcula o valor-hora de mão de obra. Horas zero devolve 0.
func HourlyRate(monthlySalary, workingHoursPerMonth decimal.Decimal) decimal.Decimal {
	if workingHoursPerMonth.IsZero() {
		return decimal.Zero
	}
	return div(monthlySalary, workingHoursPerMonth)
}

// FixedCostRate calcula a taxa de absorção de custo fixo por hora trabalhada.
// Horas zero devolve 0.
func FixedCostRate(totalMonthlyFixedCosts, workingHoursPerMonth decimal.Decimal) decimal.Decimal {
	if workingHoursPerMonth.IsZero() {
		return decimal.Zero
	}
	return div(totalMonthlyFixedCosts, workingHoursPerMonth)
}

// CostPlusPrice calcula o preço pelo método cost-plus (markup divisor):
//
//	preco = custo / (1 - margem/100)
//
// para margem < 100. Para margem >= 100 o denominador zeraria ou inverteria o
// sinal; o fallback documentado é custo * (1 + margem/100), nunca erro.
// Distinto do modelo aditivo de costing.SuggestedPrice; manter os dois nomes.
func CostPlusPrice(cost, marginPercent decimal.Decimal) decimal.Decimal {
	margin := div(marginPercent, hundred)
	if margin.GreaterThanOrEqual(one) {
		return cost.Mul(one.Add(margin))
	}
	return div(cost, one.Sub(margin))
}

// LaborCost calcula o custo de mão de obra: (minutos / 60) * valor-hora.
func LaborCost(minutes decimal.Decimal, hourlyRate decimal.Decimal) decimal.Decimal {
	return div(minutes, sixty).Mul(hourlyRate)
}

// FormatInternal arredonda para 4 casas (valor interno, encadeável).
func FormatInternal(value decimal.Decimal) decimal.Decimal {
	return value.Round(4)
}

// FormatDisplay arredonda para 2 casas half-up (valor de exibição).
// Todo valor monetário mostrado ao usuário passa por aqui.
func FormatDisplay(value decimal.Decimal) decimal.Decimal {
	return value.Round(2)
}
