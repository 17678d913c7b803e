package finance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// BreakEven é o resultado de um ponto de equilíbrio: um valor finito ou
// inalcançável (margem <= 0). Modelado como tipo etiquetado em vez de
// infinito IEEE, que decimal.Decimal não representa.
type BreakEven struct {
	value       decimal.Decimal
	unreachable bool
}

// FiniteBreakEven constrói um ponto de equilíbrio finito.
func FiniteBreakEven(v decimal.Decimal) BreakEven {
	return BreakEven{value: v}
}

// UnreachableBreakEven constrói o sentinela de ponto de equilíbrio
// inalcançável. Distinguível de zero; renderiza como "∞".
func UnreachableBreakEven() BreakEven {
	return BreakEven{unreachable: true}
}

// IsUnreachable indica se o ponto de equilíbrio é inalcançável.
func (b BreakEven) IsUnreachable() bool { return b.unreachable }

// Value devolve o valor finito; ok=false quando inalcançável.
func (b BreakEven) Value() (decimal.Decimal, bool) {
	if b.unreachable {
		return decimal.Zero, false
	}
	return b.value, true
}

// String renderiza o valor de exibição ("∞" quando inalcançável).
func (b BreakEven) String() string {
	if b.unreachable {
		return "∞"
	}
	return FormatDisplay(b.value).String()
}

// MarshalJSON serializa como número JSON ou a string "∞".
func (b BreakEven) MarshalJSON() ([]byte, error) {
	if b.unreachable {
		return json.Marshal("∞")
	}
	return json.Marshal(FormatDisplay(b.value))
}
