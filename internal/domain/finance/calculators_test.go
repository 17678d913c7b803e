package finance_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Cenário de referência: frete de R$15 rateado entre dois itens de R$25
// (total R$50) -> R$7,50 para cada.
func TestApportionFreight_RateioProporcional(t *testing.T) {
	share := finance.ApportionFreight(dec("25"), dec("50"), dec("15"))
	assert.True(t, share.Equal(dec("7.5")), "rateio esperado R$7,50, veio %s", share)
}

func TestApportionFreight_TotalZeroDevolveZero(t *testing.T) {
	share := finance.ApportionFreight(dec("25"), decimal.Zero, dec("15"))
	assert.True(t, share.IsZero(), "total zero deve devolver 0, nunca dividir por zero")
}

// Item de 500 unidades a R$25 + R$7,50 de frete -> R$0,065/unidade.
func TestItemPurchaseUnitCost_ComFreteRateado(t *testing.T) {
	unitCost := finance.ItemPurchaseUnitCost(dec("25"), dec("500"), dec("7.5"))
	assert.True(t, unitCost.Equal(dec("0.065")), "custo unitário esperado 0.065, veio %s", unitCost)
}

func TestItemPurchaseUnitCost_QuantidadeZeroDevolveZero(t *testing.T) {
	unitCost := finance.ItemPurchaseUnitCost(dec("25"), decimal.Zero, dec("7.5"))
	assert.True(t, unitCost.IsZero())
}

// 100 unidades a R$2,00 misturadas com 50 novas a R$3,00 -> R$2,3333 interno,
// exibido como R$2,33.
func TestMovingAverageCost_MisturaPonderada(t *testing.T) {
	avg := finance.MovingAverageCost(dec("100"), dec("2.00"), dec("50"), dec("3.00"))
	assert.True(t, finance.FormatInternal(avg).Equal(dec("2.3333")),
		"custo interno esperado 2.3333, veio %s", finance.FormatInternal(avg))
	assert.True(t, finance.FormatDisplay(avg).Equal(dec("2.33")),
		"custo de exibição esperado 2.33, veio %s", finance.FormatDisplay(avg))
}

// Caso bootstrap: estoque atual zero devolve o custo novo inalterado, para
// qualquer quantidade nova positiva.
func TestMovingAverageCost_BootstrapEstoqueZero(t *testing.T) {
	for _, qty := range []string{"0.5", "1", "50", "1000"} {
		avg := finance.MovingAverageCost(decimal.Zero, dec("99.99"), dec(qty), dec("3.25"))
		assert.True(t, avg.Equal(dec("3.25")),
			"com estoque zero o custo deve ser o da compra (qty=%s), veio %s", qty, avg)
	}
}

func TestMovingAverageCost_TotalZeroDevolveZero(t *testing.T) {
	avg := finance.MovingAverageCost(decimal.Zero, dec("2"), decimal.Zero, dec("3"))
	assert.True(t, avg.IsZero())
}

func TestHourlyRate_EFixedCostRate(t *testing.T) {
	assert.True(t, finance.HourlyRate(dec("3200"), dec("160")).Equal(dec("20")))
	assert.True(t, finance.FixedCostRate(dec("800"), dec("160")).Equal(dec("5")))

	// Horas zero: guarda local, resultado zero
	assert.True(t, finance.HourlyRate(dec("3200"), decimal.Zero).IsZero())
	assert.True(t, finance.FixedCostRate(dec("800"), decimal.Zero).IsZero())
}

// Propriedade: para margem em [0,99], preco * (1 - m/100) ≈ custo.
func TestCostPlusPrice_PropriedadeInversa(t *testing.T) {
	cost := dec("137.41")
	tolerance := dec("0.0001")
	for m := 0; m <= 99; m += 3 {
		margin := decimal.NewFromInt(int64(m))
		price := finance.CostPlusPrice(cost, margin)
		back := price.Mul(decimal.NewFromInt(1).Sub(margin.DivRound(dec("100"), 20)))
		diff := back.Sub(cost).Abs()
		require.True(t, diff.LessThanOrEqual(tolerance),
			"margem %d: preco*(1-m) = %s, esperado ~%s", m, back, cost)
	}
}

// Margem >= 100% usa o fallback aditivo documentado em vez de dividir por zero.
func TestCostPlusPrice_MargemCemOuMaisUsaFallback(t *testing.T) {
	price := finance.CostPlusPrice(dec("100"), dec("100"))
	assert.True(t, price.Equal(dec("200")), "margem 100%% -> custo*2, veio %s", price)

	price = finance.CostPlusPrice(dec("100"), dec("150"))
	assert.True(t, price.Equal(dec("250")), "margem 150%% -> custo*2.5, veio %s", price)
}

func TestLaborCost_MinutosSobreSessenta(t *testing.T) {
	// 90 minutos a R$20/h = R$30
	cost := finance.LaborCost(dec("90"), dec("20"))
	assert.True(t, cost.Equal(dec("30")), "esperado 30, veio %s", cost)
}

func TestFormatDisplay_DuasCasasHalfUp(t *testing.T) {
	cases := []struct{ in, want string }{
		{"2.333333", "2.33"},
		{"2.335", "2.34"},
		{"10.005", "10.01"},
		{"7", "7"},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%s->%s", c.in, c.want), func(t *testing.T) {
			got := finance.FormatDisplay(dec(c.in))
			assert.True(t, got.Equal(dec(c.want)), "veio %s", got)
		})
	}
}
