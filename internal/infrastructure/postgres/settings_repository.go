package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo adaptador dos ajustes de custo. Os custos fixos mensais vão
// como JSONB (lista pequena, sempre lida inteira).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devolve os ajustes do tenant, ou os defaults quando nunca salvos.
func (r *SettingsRepo) Get(companyID string) (*entity.CostSettings, error) {
	query := `
		SELECT company_id, business_mode, hourly_rate, monthly_fixed_costs, working_hours_per_month,
		       tax_rate, card_fee_rate, margin_threshold_warning, margin_threshold_optimal,
		       psychological_pattern, updated_at
		FROM cost_settings WHERE company_id = $1`
	var s entity.CostSettings
	var fixedCosts []byte
	err := r.q.QueryRow(context.Background(), query, companyID).Scan(
		&s.CompanyID, &s.BusinessMode, &s.HourlyRate, &fixedCosts, &s.WorkingHoursPerMonth,
		&s.TaxRate, &s.CardFeeRate, &s.MarginThresholdWarning, &s.MarginThresholdOptimal,
		&s.PsychologicalPattern, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.DefaultCostSettings(companyID), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	if len(fixedCosts) > 0 {
		if err := json.Unmarshal(fixedCosts, &s.MonthlyFixedCosts); err != nil {
			return nil, fmt.Errorf("decode fixed costs: %w", err)
		}
	}
	return &s, nil
}

// Upsert grava os ajustes do tenant (insert no primeiro save).
func (r *SettingsRepo) Upsert(settings *entity.CostSettings) error {
	fixedCosts, err := json.Marshal(settings.MonthlyFixedCosts)
	if err != nil {
		return fmt.Errorf("encode fixed costs: %w", err)
	}
	query := `
		INSERT INTO cost_settings (company_id, business_mode, hourly_rate, monthly_fixed_costs, working_hours_per_month,
		                           tax_rate, card_fee_rate, margin_threshold_warning, margin_threshold_optimal,
		                           psychological_pattern, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id) DO UPDATE SET
			business_mode = EXCLUDED.business_mode,
			hourly_rate = EXCLUDED.hourly_rate,
			monthly_fixed_costs = EXCLUDED.monthly_fixed_costs,
			working_hours_per_month = EXCLUDED.working_hours_per_month,
			tax_rate = EXCLUDED.tax_rate,
			card_fee_rate = EXCLUDED.card_fee_rate,
			margin_threshold_warning = EXCLUDED.margin_threshold_warning,
			margin_threshold_optimal = EXCLUDED.margin_threshold_optimal,
			psychological_pattern = EXCLUDED.psychological_pattern,
			updated_at = EXCLUDED.updated_at`
	_, err = r.q.Exec(context.Background(), query,
		settings.CompanyID, settings.BusinessMode, settings.HourlyRate, fixedCosts,
		settings.WorkingHoursPerMonth, settings.TaxRate, settings.CardFeeRate,
		settings.MarginThresholdWarning, settings.MarginThresholdOptimal,
		settings.PsychologicalPattern, settings.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
