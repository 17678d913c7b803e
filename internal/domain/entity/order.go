package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status possíveis de um pedido.
const (
	OrderStatusQuotation = "QUOTATION"
	OrderStatusPending   = "PENDING"
	OrderStatusProducing = "PRODUCING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus valida o status informado.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusQuotation, OrderStatusPending, OrderStatusProducing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// DeductsStockOnTransition indica se a transição de status dispara a baixa de
// estoque. A baixa acontece exatamente uma vez: ao entrar em produção vindo de
// orçamento ou pendente. Nunca na criação do pedido, salvo se a criação já
// definir PRODUCING (tratado pelo caller com a mesma regra).
func DeductsStockOnTransition(from, to string) bool {
	if to != OrderStatusProducing {
		return false
	}
	return from == OrderStatusPending || from == OrderStatusQuotation
}

// Order representa um pedido do ateliê.
type Order struct {
	ID         string
	CompanyID  string
	CustomerID string
	Status     string
	DueDate    time.Time
	TotalValue decimal.Decimal
	Discount   decimal.Decimal // desconto no nível do pedido
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer *Customer
	Items    []OrderItem
}

// OrderItem é um item do pedido com preço e desconto por item.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	Price     decimal.Decimal
	Discount  decimal.Decimal

	Product *Product
}
