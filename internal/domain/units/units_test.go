package units_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/units"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestConvert_DentroDaCategoria(t *testing.T) {
	cases := []struct {
		qty, from, to, want string
	}{
		{"50", "cm", "m", "0.5"},
		{"1", "m", "cm", "100"},
		{"2.5", "m", "mm", "2500"},
		{"500", "g", "kg", "0.5"},
		{"1.2", "kg", "g", "1200"},
		{"3", "un", "un", "3"},
		{"3", "pct", "un", "3"}, // unidades de quantidade têm ratio 1
	}
	for _, c := range cases {
		got := units.Convert(dec(c.qty), c.from, c.to)
		assert.True(t, got.Equal(dec(c.want)),
			"%s %s -> %s: esperado %s, veio %s", c.qty, c.from, c.to, c.want, got)
	}
}

// Propriedade: convert(convert(q, A, B), B, A) ≈ q quando A e B compartilham categoria.
func TestConvert_RoundTrip(t *testing.T) {
	pairs := [][2]string{{"m", "cm"}, {"cm", "mm"}, {"kg", "g"}, {"un", "pct"}}
	quantities := []string{"0.001", "1", "3.37", "1250"}
	tolerance := dec("0.0000000001")

	for _, p := range pairs {
		for _, q := range quantities {
			orig := dec(q)
			back := units.Convert(units.Convert(orig, p[0], p[1]), p[1], p[0])
			diff := back.Sub(orig).Abs()
			require.True(t, diff.LessThanOrEqual(tolerance),
				"round-trip %s<->%s com %s: veio %s", p[0], p[1], q, back)
		}
	}
}

// Fallback suave: unidade desconhecida ou categorias diferentes devolvem a
// quantidade original, nunca erro (política herdada; callers que precisam
// validar usam ConvertStrict).
func TestConvert_FallbackSuave(t *testing.T) {
	assert.True(t, units.Convert(dec("7"), "kg", "m").Equal(dec("7")), "categorias diferentes")
	assert.True(t, units.Convert(dec("7"), "xyz", "m").Equal(dec("7")), "unidade desconhecida")
	assert.True(t, units.Convert(dec("7"), "m", "").Equal(dec("7")), "destino vazio")
}

func TestConvertStrict_RejeitaIncompatibilidade(t *testing.T) {
	_, err := units.ConvertStrict(dec("7"), "kg", "m")
	assert.ErrorIs(t, err, units.ErrIncompatibleUnits)

	_, err = units.ConvertStrict(dec("7"), "xyz", "m")
	assert.ErrorIs(t, err, units.ErrIncompatibleUnits)

	got, err := units.ConvertStrict(dec("50"), "cm", "m")
	require.NoError(t, err)
	assert.True(t, got.Equal(dec("0.5")))
}

func TestCategoryELookup(t *testing.T) {
	assert.Equal(t, units.CategoryLength, units.Category("mm"))
	assert.Equal(t, units.CategoryWeight, units.Category("g"))
	assert.Equal(t, units.CategoryQuantity, units.Category("cj"))
	assert.Equal(t, "", units.Category("nao-existe"))

	u, ok := units.Lookup("cm")
	require.True(t, ok)
	assert.True(t, u.RatioToBase.Equal(dec("100")))
}
