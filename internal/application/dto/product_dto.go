package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BOMLineRequest linha da ficha técnica de um produto.
type BOMLineRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
	Unit       string          `json:"unit" validate:"required"`
	Color      string          `json:"color"`
}

// CreateProductRequest entrada para criar um produto.
type CreateProductRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=200"`
	ImageURL        string           `json:"image_url"`
	LaborTime       int              `json:"labor_time" validate:"min=0"`
	ProfitMargin    decimal.Decimal  `json:"profit_margin"`
	Price           *decimal.Decimal `json:"price"`
	AcquisitionCost *decimal.Decimal `json:"acquisition_cost"`
	MinQuantity     *decimal.Decimal `json:"min_quantity"`
	Materials       []BOMLineRequest `json:"materials"`
}

// UpdateProductRequest entrada para atualizar um produto. Materials nil
// preserva a ficha técnica; lista vazia limpa.
type UpdateProductRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ImageURL        *string          `json:"image_url"`
	LaborTime       *int             `json:"labor_time" validate:"omitempty,min=0"`
	ProfitMargin    *decimal.Decimal `json:"profit_margin"`
	Price           *decimal.Decimal `json:"price"`
	AcquisitionCost *decimal.Decimal `json:"acquisition_cost"`
	MinQuantity     *decimal.Decimal `json:"min_quantity"`
	Materials       []BOMLineRequest `json:"materials"`
}

// BOMLineResponse linha da ficha técnica na resposta.
type BOMLineResponse struct {
	MaterialID   string          `json:"material_id"`
	MaterialName string          `json:"material_name,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Color        string          `json:"color"`
}

// ProductResponse saída de um produto.
type ProductResponse struct {
	ID              string            `json:"id"`
	CompanyID       string            `json:"company_id"`
	Name            string            `json:"name"`
	ImageURL        string            `json:"image_url,omitempty"`
	LaborTime       int               `json:"labor_time"`
	ProfitMargin    decimal.Decimal   `json:"profit_margin"`
	Price           *decimal.Decimal  `json:"price,omitempty"`
	AcquisitionCost *decimal.Decimal  `json:"acquisition_cost,omitempty"`
	MinQuantity     *decimal.Decimal  `json:"min_quantity,omitempty"`
	Materials       []BOMLineResponse `json:"materials"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
