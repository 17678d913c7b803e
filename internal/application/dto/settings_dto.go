package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedCostRequest um custo fixo mensal nomeado.
type FixedCostRequest struct {
	Label string          `json:"label" validate:"required"`
	Value decimal.Decimal `json:"value"`
}

// UpdateSettingsRequest entrada para atualizar os ajustes de custo do tenant.
// Campos nil preservam o valor corrente.
type UpdateSettingsRequest struct {
	BusinessMode           *string            `json:"business_mode" validate:"omitempty,oneof=MANUFACTURING RESALE"`
	HourlyRate             *decimal.Decimal   `json:"hourly_rate"`
	MonthlyFixedCosts      []FixedCostRequest `json:"monthly_fixed_costs"`
	WorkingHoursPerMonth   *decimal.Decimal   `json:"working_hours_per_month"`
	TaxRate                *decimal.Decimal   `json:"tax_rate"`
	CardFeeRate            *decimal.Decimal   `json:"card_fee_rate"`
	MarginThresholdWarning *decimal.Decimal   `json:"margin_threshold_warning"`
	MarginThresholdOptimal *decimal.Decimal   `json:"margin_threshold_optimal"`
	PsychologicalPattern   *string            `json:"psychological_pattern" validate:"omitempty,oneof=90 99 97 round none"`
}

// SettingsResponse saída dos ajustes de custo.
type SettingsResponse struct {
	CompanyID              string             `json:"company_id"`
	BusinessMode           string             `json:"business_mode"`
	HourlyRate             decimal.Decimal    `json:"hourly_rate"`
	MonthlyFixedCosts      []FixedCostRequest `json:"monthly_fixed_costs"`
	WorkingHoursPerMonth   decimal.Decimal    `json:"working_hours_per_month"`
	TaxRate                decimal.Decimal    `json:"tax_rate"`
	CardFeeRate            decimal.Decimal    `json:"card_fee_rate"`
	MarginThresholdWarning decimal.Decimal    `json:"margin_threshold_warning"`
	MarginThresholdOptimal decimal.Decimal    `json:"margin_threshold_optimal"`
	PsychologicalPattern   string             `json:"psychological_pattern"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// CreateCustomerRequest entrada para criar um cliente.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Phone string `json:"phone"`
	Email string `json:"email" validate:"omitempty,email"`
	Notes string `json:"notes"`
}

// UpdateCustomerRequest entrada para atualizar um cliente.
type UpdateCustomerRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone *string `json:"phone"`
	Email *string `json:"email" validate:"omitempty,email"`
	Notes *string `json:"notes"`
}

// CustomerResponse saída de um cliente.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
