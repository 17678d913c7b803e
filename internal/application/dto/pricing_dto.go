package dto

import "github.com/shopspring/decimal"

// PriceCalculationResponse decomposição da precificação de um produto.
type PriceCalculationResponse struct {
	ProductID          string          `json:"product_id"`
	MaterialCost       decimal.Decimal `json:"material_cost"`
	LaborCost          decimal.Decimal `json:"labor_cost"`
	FixedCost          decimal.Decimal `json:"fixed_cost"`
	BaseCost           decimal.Decimal `json:"base_cost"`
	MarginValue        decimal.Decimal `json:"margin_value"`
	SuggestedPrice     decimal.Decimal `json:"suggested_price"`
	PsychologicalPrice decimal.Decimal `json:"psychological_price"`
	MarginHealth       string          `json:"margin_health"`

	ContributionMargin           decimal.Decimal `json:"contribution_margin"`
	ContributionMarginPercentage decimal.Decimal `json:"contribution_margin_percentage"`
	TaxAmount                    decimal.Decimal `json:"tax_amount"`
	CardFeeAmount                decimal.Decimal `json:"card_fee_amount"`
	BreakEvenUnits               string          `json:"break_even_units"`
	BreakEvenRevenue             string          `json:"break_even_revenue"`
}

// TargetProfitRequest entrada do preço por lucro-alvo.
type TargetProfitRequest struct {
	ProductID           string          `json:"product_id" validate:"required,uuid"`
	TargetMonthlyProfit decimal.Decimal `json:"target_monthly_profit"`
	ExpectedMonthlySales decimal.Decimal `json:"expected_monthly_sales"`
}

// TargetProfitResponse preço necessário para o lucro-alvo.
type TargetProfitResponse struct {
	ProductID     string          `json:"product_id"`
	RequiredPrice decimal.Decimal `json:"required_price"`
}

// FinancialSummaryResponse sumário da carteira de pedidos.
type FinancialSummaryResponse struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCosts   decimal.Decimal `json:"total_costs"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	OrderCount   int             `json:"order_count"`
}
