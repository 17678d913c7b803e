// Package units define a tabela estática de conversão de unidades usada
// quando a unidade da ficha técnica difere da unidade estocada do material.
package units

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Categorias de unidade. Conversão entre categorias distintas é indefinida.
const (
	CategoryLength   = "LENGTH"
	CategoryWeight   = "WEIGHT"
	CategoryQuantity = "QUANTITY"
)

// ErrIncompatibleUnits indica unidade desconhecida ou categorias diferentes
// (só em ConvertStrict; Convert mantém o fallback suave).
var ErrIncompatibleUnits = errors.New("unidades incompatíveis ou desconhecidas")

// Unit é uma entrada da tabela: quantas desta unidade formam 1 unidade base
// da categoria (ex.: 100 cm = 1 m -> ratio 100).
type Unit struct {
	Code        string
	Label       string
	Category    string
	RatioToBase decimal.Decimal
}

var table = []Unit{
	// Comprimento (base: m)
	{Code: "m", Label: "Metros (m)", Category: CategoryLength, RatioToBase: decimal.NewFromInt(1)},
	{Code: "cm", Label: "Centímetros (cm)", Category: CategoryLength, RatioToBase: decimal.NewFromInt(100)},
	{Code: "mm", Label: "Milímetros (mm)", Category: CategoryLength, RatioToBase: decimal.NewFromInt(1000)},

	// Peso (base: kg)
	{Code: "kg", Label: "Quilos (kg)", Category: CategoryWeight, RatioToBase: decimal.NewFromInt(1)},
	{Code: "g", Label: "Gramas (g)", Category: CategoryWeight, RatioToBase: decimal.NewFromInt(1000)},

	// Quantidade (base: un)
	{Code: "un", Label: "Unidades (un)", Category: CategoryQuantity, RatioToBase: decimal.NewFromInt(1)},
	{Code: "pct", Label: "Pacote (pct)", Category: CategoryQuantity, RatioToBase: decimal.NewFromInt(1)},
	{Code: "cj", Label: "Conjunto (cj)", Category: CategoryQuantity, RatioToBase: decimal.NewFromInt(1)},
}

var byCode = func() map[string]Unit {
	m := make(map[string]Unit, len(table))
	for _, u := range table {
		m[u.Code] = u
	}
	return m
}()

// All devolve a tabela completa (cópia), na ordem de exibição.
func All() []Unit {
	out := make([]Unit, len(table))
	copy(out, table)
	return out
}

// Lookup busca uma unidade pelo código.
func Lookup(code string) (Unit, bool) {
	u, ok := byCode[code]
	return u, ok
}

// Category devolve a categoria da unidade; "" se desconhecida.
func Category(code string) string {
	if u, ok := byCode[code]; ok {
		return u.Category
	}
	return ""
}

// Convert converte uma quantidade entre unidades da mesma categoria.
// Unidade desconhecida ou categorias diferentes devolvem a quantidade
// original inalterada (fallback suave documentado; quem precisa rejeitar
// usa ConvertStrict na validação de entrada).
func Convert(quantity decimal.Decimal, fromCode, toCode string) decimal.Decimal {
	converted, err := ConvertStrict(quantity, fromCode, toCode)
	if err != nil {
		return quantity
	}
	return converted
}

// ConvertStrict converte entre unidades da mesma categoria ou devolve
// ErrIncompatibleUnits. Usado na validação de fichas técnicas para recusar
// erro de digitação (ex.: linha em "kg" para material de comprimento).
func ConvertStrict(quantity decimal.Decimal, fromCode, toCode string) (decimal.Decimal, error) {
	from, okFrom := byCode[fromCode]
	to, okTo := byCode[toCode]
	if !okFrom || !okTo || from.Category != to.Category {
		return quantity, ErrIncompatibleUnits
	}
	// origem -> base -> destino. Ex.: 50cm para m -> 50/100 = 0.5m
	baseValue := quantity.DivRound(from.RatioToBase, 20)
	return baseValue.Mul(to.RatioToBase), nil
}
