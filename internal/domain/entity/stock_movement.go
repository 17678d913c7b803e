package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimento do ledger de estoque de materiais.
// O saldo de um par (material, cor) é:
//
//	sum(IN + IN_ADJUST) - sum(OUT + OUT_ADJUST + LOSS + WITHDRAWAL)
const (
	MovementTypeIN         = "IN"         // entrada por compra
	MovementTypeINAdjust   = "IN_ADJUST"  // ajuste de entrada (correção)
	MovementTypeOUT        = "OUT"        // saída por produção/pedido
	MovementTypeOUTAdjust  = "OUT_ADJUST" // ajuste de saída (correção)
	MovementTypeLoss       = "LOSS"       // perda (dano, validade)
	MovementTypeWithdrawal = "WITHDRAWAL" // retirada para uso próprio
)

// Origens de um movimento.
const (
	MovementSourceManual   = "MANUAL"
	MovementSourcePurchase = "PURCHASE"
	MovementSourceOrder    = "ORDER"
)

// IsInbound indica se o tipo soma ao saldo.
func IsInbound(movementType string) bool {
	return movementType == MovementTypeIN || movementType == MovementTypeINAdjust
}

// IsOutbound indica se o tipo subtrai do saldo.
func IsOutbound(movementType string) bool {
	switch movementType {
	case MovementTypeOUT, MovementTypeOUTAdjust, MovementTypeLoss, MovementTypeWithdrawal:
		return true
	}
	return false
}

// StockMovement é um registro imutável do ledger de materiais (append-only).
// Quantity é sempre positiva; o sinal vem do tipo. Correções são novos
// movimentos de ajuste, nunca update ou delete.
type StockMovement struct {
	ID         string
	CompanyID  string
	MaterialID string
	Color      string // ColorDefault quando sem variante
	Type       string
	Quantity   decimal.Decimal // sempre > 0
	Note       string
	Source     string
	OrderID    string // pedido que originou a saída (opcional)
	CreatedAt  time.Time
	CreatedBy  string
}

// StockEntry representa uma entrada de compra com rateio de frete.
// Cada item gera um movimento IN e atualiza o custo médio do material.
type StockEntry struct {
	ID           string
	CompanyID    string
	SupplierName string
	FreightCost  decimal.Decimal
	TotalCost    decimal.Decimal
	Note         string
	CreatedAt    time.Time
	Items        []StockEntryItem
}

// StockEntryItem é um item da entrada de compra.
type StockEntryItem struct {
	ID           string
	StockEntryID string
	MaterialID   string
	Color        string
	Quantity     decimal.Decimal
	UnitCost     decimal.Decimal // custo unitário informado, sem frete
	Subtotal     decimal.Decimal // Quantity * UnitCost
}
