package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ColorDefault é a variante de cor de primeira classe usada quando o material
// não tem cor informada. Nunca comparar com string vazia fora de NormalizeColor.
const ColorDefault = "DEFAULT"

// NormalizeColor mapeia cor vazia/whitespace para ColorDefault uma única vez, na borda.
func NormalizeColor(color string) string {
	c := strings.TrimSpace(color)
	if c == "" {
		return ColorDefault
	}
	return c
}

// Material representa um insumo do ateliê (tecido, linha, aviamento...).
// Quantity NÃO é armazenada aqui: o saldo é sempre reconstruído do ledger de
// movimentos por (material, cor). Cost é o custo médio ponderado (MPM),
// atualizado a cada entrada de compra.
type Material struct {
	ID          string
	CompanyID   string
	Name        string
	Unit        string          // unidade estocada (m, cm, kg, g, un...)
	Cost        decimal.Decimal // custo médio ponderado por unidade estocada
	MinQuantity *decimal.Decimal
	Colors      []string // variantes de cor declaradas (opcional, ordenadas)
	SupplierID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasColor indica se a variante consta na lista declarada do material.
func (m *Material) HasColor(color string) bool {
	c := NormalizeColor(color)
	for _, declared := range m.Colors {
		if NormalizeColor(declared) == c {
			return true
		}
	}
	return false
}
