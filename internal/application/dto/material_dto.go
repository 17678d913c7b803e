package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para criar um material.
type CreateMaterialRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Unit        string           `json:"unit" validate:"required"`
	Cost        decimal.Decimal  `json:"cost"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
	Colors      []string         `json:"colors"`
	SupplierID  string           `json:"supplier_id"`
}

// UpdateMaterialRequest entrada para atualizar um material. O custo só muda
// por entrada de compra (média ponderada), não por aqui.
type UpdateMaterialRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Unit        *string          `json:"unit"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
	Colors      []string         `json:"colors"`
	SupplierID  *string          `json:"supplier_id"`
}

// MaterialResponse saída de um material.
type MaterialResponse struct {
	ID          string           `json:"id"`
	CompanyID   string           `json:"company_id"`
	Name        string           `json:"name"`
	Unit        string           `json:"unit"`
	Cost        decimal.Decimal  `json:"cost"`
	MinQuantity *decimal.Decimal `json:"min_quantity,omitempty"`
	Colors      []string         `json:"colors"`
	SupplierID  string           `json:"supplier_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// StockEntryItemRequest item de uma entrada de compra.
type StockEntryItemRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Color      string          `json:"color"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

// CreateStockEntryRequest entrada de compra com frete.
type CreateStockEntryRequest struct {
	SupplierName string                  `json:"supplier_name"`
	FreightCost  decimal.Decimal         `json:"freight_cost"`
	Note         string                  `json:"note"`
	Items        []StockEntryItemRequest `json:"items" validate:"required,min=1"`
}

// CreateMovementRequest movimento manual do ledger.
type CreateMovementRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Color      string          `json:"color"`
	Type       string          `json:"type" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	Note       string          `json:"note"`
}

// MovementResponse saída de um movimento do ledger.
type MovementResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Color      string          `json:"color"`
	Type       string          `json:"type"`
	Quantity   decimal.Decimal `json:"quantity"`
	Note       string          `json:"note,omitempty"`
	Source     string          `json:"source"`
	OrderID    string          `json:"order_id,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// StockEntryItemResponse item de uma entrada de compra na resposta.
type StockEntryItemResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Color      string          `json:"color"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

// StockEntryResponse saída de uma entrada de compra.
type StockEntryResponse struct {
	ID           string                   `json:"id"`
	SupplierName string                   `json:"supplier_name,omitempty"`
	FreightCost  decimal.Decimal          `json:"freight_cost"`
	TotalCost    decimal.Decimal          `json:"total_cost"`
	Note         string                   `json:"note,omitempty"`
	Items        []StockEntryItemResponse `json:"items"`
	CreatedAt    time.Time                `json:"created_at"`
}

// AdjustProductStockRequest movimento manual de produto acabado.
type AdjustProductStockRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Note      string          `json:"note"`
}
