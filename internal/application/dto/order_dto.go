package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest item do pedido na criação.
type OrderItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  int              `json:"quantity" validate:"required,min=1"`
	Price     *decimal.Decimal `json:"price"`
	Discount  decimal.Decimal  `json:"discount"`
}

// CreateOrderRequest entrada para criar um pedido. O total é calculado no
// servidor; qualquer total enviado é ignorado.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Status     string             `json:"status"`
	DueDate    time.Time          `json:"due_date"`
	Discount   decimal.Decimal    `json:"discount"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1"`
}

// UpdateOrderStatusRequest transição de status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemResponse item do pedido na resposta.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
}

// OrderResponse saída de um pedido.
type OrderResponse struct {
	ID           string              `json:"id"`
	CompanyID    string              `json:"company_id"`
	CustomerID   string              `json:"customer_id,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	Status       string              `json:"status"`
	DueDate      time.Time           `json:"due_date"`
	TotalValue   decimal.Decimal     `json:"total_value"`
	Discount     decimal.Decimal     `json:"discount"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
