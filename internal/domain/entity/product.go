package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do catálogo.
// LaborTime em minutos; ProfitMargin em % sobre o custo (modelo aditivo).
// Price é o preço de venda fixado manualmente (nil = usar preço sugerido).
// AcquisitionCost é usado por ateliês em modo revenda, que não têm ficha
// técnica (BOM) e compram o produto pronto.
type Product struct {
	ID              string
	CompanyID       string
	Name            string
	ImageURL        string
	LaborTime       int             // minutos de produção
	ProfitMargin    decimal.Decimal // percentual, ex.: 50 = 50%
	Price           *decimal.Decimal
	AcquisitionCost *decimal.Decimal
	MinQuantity     *decimal.Decimal // alerta de estoque de produto acabado
	Materials       []BOMLine
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BOMLine é uma linha da ficha técnica (Product ↔ Material).
// Unit pode diferir da unidade estocada do material; a conversão acontece
// no cálculo de custo e na checagem de disponibilidade.
type BOMLine struct {
	ID         string
	ProductID  string
	MaterialID string
	Quantity   decimal.Decimal
	Unit       string
	Color      string // restrição de variante (ColorDefault = sem restrição específica)

	// Material é populado nas leituras com join; nil em escritas.
	Material *Material
}

// ProductStockMovement é o ledger append-only de produto acabado.
// Mesmo contrato do ledger de materiais: quantidade positiva, saldo por replay.
type ProductStockMovement struct {
	ID        string
	CompanyID string
	ProductID string
	Type      string // mesmos tipos de StockMovement
	Quantity  decimal.Decimal
	Note      string
	Source    string
	OrderID   string
	CreatedAt time.Time
	CreatedBy string
}
