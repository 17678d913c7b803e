package costing

import (
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
)

// FinancialSummary agrega a carteira de pedidos do tenant em receita, custo e
// lucro. Pedidos cancelados ficam de fora.
type FinancialSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCosts   decimal.Decimal `json:"total_costs"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	OrderCount   int             `json:"order_count"`
}

// SummarizeFinancials dobra os pedidos em um sumário financeiro. A receita é
// o total de cada pedido; o custo é o custo base de cada item (ficha técnica
// ou custo de aquisição, conforme o modo do tenant) multiplicado pela
// quantidade. Itens sem produto carregado contribuem com custo zero.
func SummarizeFinancials(orders []*entity.Order, settings *entity.CostSettings) FinancialSummary {
	revenue := decimal.Zero
	costs := decimal.Zero
	count := 0

	for _, order := range orders {
		if order.Status == entity.OrderStatusCancelled {
			continue
		}
		count++
		revenue = revenue.Add(order.TotalValue)
		for _, item := range order.Items {
			if item.Product == nil {
				continue
			}
			unitCost := baseCostInternal(item.Product, settings)
			costs = costs.Add(unitCost.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	return FinancialSummary{
		TotalRevenue: finance.FormatDisplay(revenue),
		TotalCosts:   finance.FormatDisplay(costs),
		TotalProfit:  finance.FormatDisplay(revenue.Sub(costs)),
		OrderCount:   count,
	}
}
