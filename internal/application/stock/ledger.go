// Package stock implementa o motor de estoque: ledger append-only de
// movimentos, replay de saldos por (material, cor), entradas de compra com
// custo médio ponderado, checagem de disponibilidade, dedução atômica e
// alertas de estoque mínimo.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// signedQuantity devolve a quantidade do movimento com o sinal do efeito no
// saldo. A quantidade armazenada é sempre positiva; o tipo dá o sinal.
func signedQuantity(m *entity.StockMovement) decimal.Decimal {
	if entity.IsInbound(m.Type) {
		return m.Quantity
	}
	return m.Quantity.Neg()
}

// ReplayBalances dobra o ledger completo em saldos por (material, cor).
// O saldo nunca é armazenado: toda leitura reconstrói a partir dos
// movimentos, então um ajuste retroativo corrige o saldo sem migração.
// Saldos podem ficar negativos (ajuste manual mal feito); a camada de
// disponibilidade reporta o saldo negativo como está, e a falta resultante
// inclui o buraco do ledger.
func ReplayBalances(movements []*entity.StockMovement) map[repository.BalanceKey]decimal.Decimal {
	balances := make(map[repository.BalanceKey]decimal.Decimal)
	for _, m := range movements {
		key := repository.BalanceKey{
			MaterialID: m.MaterialID,
			Color:      entity.NormalizeColor(m.Color),
		}
		balances[key] = balances[key].Add(signedQuantity(m))
	}
	return balances
}

// BalanceFor reconstrói o saldo de um único par (material, cor).
func BalanceFor(movements []*entity.StockMovement, materialID, color string) decimal.Decimal {
	key := repository.BalanceKey{MaterialID: materialID, Color: entity.NormalizeColor(color)}
	return ReplayBalances(movements)[key]
}

// ReplayProductBalances dobra o ledger de produto acabado em saldos por
// produto. Mesmo contrato do ledger de materiais, sem dimensão de cor.
func ReplayProductBalances(movements []*entity.ProductStockMovement) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, m := range movements {
		qty := m.Quantity
		if !entity.IsInbound(m.Type) {
			qty = qty.Neg()
		}
		balances[m.ProductID] = balances[m.ProductID].Add(qty)
	}
	return balances
}
