package costing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/costing"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
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

func defaultSettings() *entity.CostSettings {
	s := entity.DefaultCostSettings("company-1")
	s.HourlyRate = dec("20")
	s.WorkingHoursPerMonth = dec("160")
	s.MonthlyFixedCosts = []entity.FixedCost{
		{Label: "Aluguel", Value: dec("700")},
		{Label: "Energia", Value: dec("100")},
	}
	return s
}

func TestMaterialCost_SomaFichaTecnicaComConversao(t *testing.T) {
	lines := []entity.BOMLine{
		{
			// 50cm de tecido estocado em metros a R$12/m -> R$6
			Quantity: dec("50"), Unit: "cm",
			Material: &entity.Material{Unit: "m", Cost: dec("12")},
		},
		{
			// 3 unidades de botão a R$0,50
			Quantity: dec("3"), Unit: "un",
			Material: &entity.Material{Unit: "un", Cost: dec("0.50")},
		},
	}
	total := costing.MaterialCost(lines)
	assert.True(t, total.Equal(dec("7.5")), "esperado 7.50, veio %s", total)
}

func TestMaterialCost_MaterialAusenteContribuiZero(t *testing.T) {
	lines := []entity.BOMLine{
		{Quantity: dec("2"), Unit: "m", Material: nil},
		{Quantity: dec("1"), Unit: "un", Material: &entity.Material{Unit: "un", Cost: dec("4")}},
	}
	total := costing.MaterialCost(lines)
	assert.True(t, total.Equal(dec("4")), "linha sem material deve ser ignorada, veio %s", total)
}

func TestFixedCostAllocation_RateioPorMinuto(t *testing.T) {
	// Fixos R$800/mês, 160h -> R$5/h; 90 minutos -> R$7,50
	fixed := costing.FixedCostAllocation(90, dec("800"), dec("160"))
	assert.True(t, fixed.Equal(dec("7.5")), "esperado 7.50, veio %s", fixed)
}

func TestFixedCostAllocation_HorasZeroDevolveZero(t *testing.T) {
	fixed := costing.FixedCostAllocation(90, dec("800"), decimal.Zero)
	assert.True(t, fixed.IsZero())
}

func TestSuggestedPrice_ModeloAditivoCompleto(t *testing.T) {
	product := &entity.Product{
		Name:         "Bolsa de lona",
		LaborTime:    90,
		ProfitMargin: dec("50"),
		Materials: []entity.BOMLine{
			{Quantity: dec("50"), Unit: "cm", Material: &entity.Material{Unit: "m", Cost: dec("12")}},
			{Quantity: dec("3"), Unit: "un", Material: &entity.Material{Unit: "un", Cost: dec("0.50")}},
		},
	}
	calc := costing.SuggestedPrice(product, defaultSettings())

	// materiais 7.50 + mão de obra 30.00 (90min a R$20) + fixo 7.50 (R$5/h) = 45.00
	assert.True(t, calc.MaterialCost.Equal(dec("7.5")), "materiais: veio %s", calc.MaterialCost)
	assert.True(t, calc.LaborCost.Equal(dec("30")), "mão de obra: veio %s", calc.LaborCost)
	assert.True(t, calc.FixedCost.Equal(dec("7.5")), "custo fixo: veio %s", calc.FixedCost)
	assert.True(t, calc.BaseCost.Equal(dec("45")), "custo base: veio %s", calc.BaseCost)
	// margem aditiva de 50% sobre o custo base
	assert.True(t, calc.MarginValue.Equal(dec("22.5")), "margem: veio %s", calc.MarginValue)
	assert.True(t, calc.SuggestedPrice.Equal(dec("67.5")), "preço sugerido: veio %s", calc.SuggestedPrice)
}

func TestSuggestedPrice_ModoRevendaUsaCustoDeAquisicao(t *testing.T) {
	settings := defaultSettings()
	settings.BusinessMode = entity.BusinessModeResale

	product := &entity.Product{
		Name:            "Caneca pronta",
		LaborTime:       90,
		ProfitMargin:    dec("100"),
		AcquisitionCost: decPtr("18"),
		Materials: []entity.BOMLine{
			{Quantity: dec("1"), Unit: "un", Material: &entity.Material{Unit: "un", Cost: dec("999")}},
		},
	}
	calc := costing.SuggestedPrice(product, settings)

	assert.True(t, calc.MaterialCost.Equal(dec("18")), "revenda ignora a ficha técnica, veio %s", calc.MaterialCost)
	assert.True(t, calc.LaborCost.IsZero(), "revenda não tem mão de obra")
	assert.True(t, calc.FixedCost.IsZero(), "revenda não rateia custo fixo")
	assert.True(t, calc.SuggestedPrice.Equal(dec("36")), "veio %s", calc.SuggestedPrice)
}

func TestSuggestedPrice_PrecoManualDirigeAAnalise(t *testing.T) {
	product := &entity.Product{
		Name:         "Chaveiro",
		LaborTime:    0,
		ProfitMargin: dec("50"),
		Price:        decPtr("100"),
		Materials: []entity.BOMLine{
			{Quantity: dec("1"), Unit: "un", Material: &entity.Material{Unit: "un", Cost: dec("60")}},
		},
	}
	settings := defaultSettings()
	settings.TaxRate = dec("6")
	settings.CardFeeRate = dec("4")
	settings.MonthlyFixedCosts = []entity.FixedCost{{Label: "Fixos", Value: dec("1000")}}
	settings.WorkingHoursPerMonth = dec("160")

	calc := costing.SuggestedPrice(product, settings)

	// Cenário de referência: preço 100, custo variável 60, imposto 6%,
	// taxa de cartão 4% -> margem de contribuição R$30 (30%).
	assert.True(t, calc.Profitability.ContributionMargin.Equal(dec("30")),
		"margem de contribuição: veio %s", calc.Profitability.ContributionMargin)
	assert.True(t, calc.Profitability.ContributionMarginPercentage.Equal(dec("30")),
		"percentual: veio %s", calc.Profitability.ContributionMarginPercentage)
	// 30% fica entre os limiares padrão (20 de alerta, 40 ótimo)
	assert.Equal(t, finance.MarginHealthWarning, calc.MarginHealth)
}

func TestOrderTotal_DescontosPorItemEPorPedido(t *testing.T) {
	items := []entity.OrderItem{
		{Quantity: 2, Price: dec("50"), Discount: dec("5")},  // (50-5)*2 = 90
		{Quantity: 1, Price: dec("30"), Discount: dec("0")},  // 30
	}
	total := costing.OrderTotal(items, dec("20"))
	assert.True(t, total.Equal(dec("100")), "esperado 100, veio %s", total)
}

func TestOrderTotal_NuncaNegativo(t *testing.T) {
	items := []entity.OrderItem{
		{Quantity: 1, Price: dec("10"), Discount: dec("0")},
	}
	total := costing.OrderTotal(items, dec("50"))
	assert.True(t, total.IsZero(), "total clampado em zero, veio %s", total)
}

func TestSummarizeFinancials_IgnoraCancelados(t *testing.T) {
	settings := defaultSettings()
	product := &entity.Product{
		LaborTime: 60, // R$20 de mão de obra + R$5 de fixo
		Materials: []entity.BOMLine{
			{Quantity: dec("1"), Unit: "un", Material: &entity.Material{Unit: "un", Cost: dec("10")}},
		},
	}
	orders := []*entity.Order{
		{
			Status:     entity.OrderStatusDelivered,
			TotalValue: dec("150"),
			Items:      []entity.OrderItem{{Quantity: 2, Product: product}},
		},
		{
			Status:     entity.OrderStatusCancelled,
			TotalValue: dec("999"),
			Items:      []entity.OrderItem{{Quantity: 9, Product: product}},
		},
	}

	summary := costing.SummarizeFinancials(orders, settings)

	assert.Equal(t, 1, summary.OrderCount, "cancelado não entra no sumário")
	assert.True(t, summary.TotalRevenue.Equal(dec("150")), "receita: veio %s", summary.TotalRevenue)
	// custo unitário 10 + 20 + 5 = 35; 2 unidades = 70
	assert.True(t, summary.TotalCosts.Equal(dec("70")), "custos: veio %s", summary.TotalCosts)
	assert.True(t, summary.TotalProfit.Equal(dec("80")), "lucro: veio %s", summary.TotalProfit)
}
