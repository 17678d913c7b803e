package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de operação do ateliê (chave por tenant, não por produto).
const (
	BusinessModeManufacturing = "MANUFACTURING" // produz com ficha técnica
	BusinessModeResale        = "RESALE"        // revende produto pronto
)

// Padrões de arredondamento psicológico de preço.
const (
	RoundingPattern90    = "90"
	RoundingPattern99    = "99"
	RoundingPattern97    = "97"
	RoundingPatternRound = "round"
	RoundingPatternNone  = "none"
)

// FixedCost é um custo fixo mensal nomeado (aluguel, energia...).
type FixedCost struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// CostSettings agrupa os parâmetros de custo e precificação do tenant.
// Lidos a cada cálculo, passados como parâmetro explícito; preços derivados
// nunca são cacheados, para continuarem coerentes com os ajustes atuais.
type CostSettings struct {
	CompanyID               string
	BusinessMode            string
	HourlyRate              decimal.Decimal // valor-hora de mão de obra
	MonthlyFixedCosts       []FixedCost
	WorkingHoursPerMonth    decimal.Decimal
	TaxRate                 decimal.Decimal // % de impostos sobre a venda
	CardFeeRate             decimal.Decimal // % de taxa de cartão
	MarginThresholdWarning  decimal.Decimal // abaixo disso: crítico
	MarginThresholdOptimal  decimal.Decimal // abaixo disso: atenção
	PsychologicalPattern    string
	UpdatedAt               time.Time
}

// TotalMonthlyFixedCosts soma os custos fixos mensais cadastrados.
func (s *CostSettings) TotalMonthlyFixedCosts() decimal.Decimal {
	total := decimal.Zero
	for _, fc := range s.MonthlyFixedCosts {
		total = total.Add(fc.Value)
	}
	return total
}

// DefaultCostSettings devolve os valores padrão aplicados a tenants sem
// configuração salva (mesmos defaults do formulário de ajustes).
func DefaultCostSettings(companyID string) *CostSettings {
	return &CostSettings{
		CompanyID:              companyID,
		BusinessMode:           BusinessModeManufacturing,
		HourlyRate:             decimal.NewFromInt(25),
		WorkingHoursPerMonth:   decimal.NewFromInt(160),
		TaxRate:                decimal.Zero,
		CardFeeRate:            decimal.Zero,
		MarginThresholdWarning: decimal.NewFromInt(20),
		MarginThresholdOptimal: decimal.NewFromInt(40),
		PsychologicalPattern:   RoundingPattern90,
	}
}
