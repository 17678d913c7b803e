package usecase

import (
	"time"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// SettingsUseCase lê e atualiza os ajustes de custo do tenant.
type SettingsUseCase struct {
	repo repository.SettingsRepository
}

// NewSettingsUseCase constrói o caso de uso.
func NewSettingsUseCase(repo repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{repo: repo}
}

// Get devolve os ajustes do tenant (defaults quando nunca salvos).
func (uc *SettingsUseCase) Get(companyID string) (*dto.SettingsResponse, error) {
	settings, err := uc.repo.Get(companyID)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Update aplica mudanças parciais e persiste. Campos nil preservam o valor
// corrente; o preço derivado dos produtos muda imediatamente, sem recálculo
// em lote, porque nada é cacheado.
func (uc *SettingsUseCase) Update(companyID string, in dto.UpdateSettingsRequest) (*dto.SettingsResponse, error) {
	settings, err := uc.repo.Get(companyID)
	if err != nil {
		return nil, err
	}
	if in.BusinessMode != nil {
		if *in.BusinessMode != entity.BusinessModeManufacturing && *in.BusinessMode != entity.BusinessModeResale {
			return nil, domain.ErrInvalidInput
		}
		settings.BusinessMode = *in.BusinessMode
	}
	if in.HourlyRate != nil {
		if in.HourlyRate.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		settings.HourlyRate = *in.HourlyRate
	}
	if in.MonthlyFixedCosts != nil {
		costs := make([]entity.FixedCost, len(in.MonthlyFixedCosts))
		for i, fc := range in.MonthlyFixedCosts {
			if fc.Value.IsNegative() {
				return nil, domain.ErrInvalidInput
			}
			costs[i] = entity.FixedCost{Label: fc.Label, Value: fc.Value}
		}
		settings.MonthlyFixedCosts = costs
	}
	if in.WorkingHoursPerMonth != nil {
		if in.WorkingHoursPerMonth.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		settings.WorkingHoursPerMonth = *in.WorkingHoursPerMonth
	}
	if in.TaxRate != nil {
		settings.TaxRate = *in.TaxRate
	}
	if in.CardFeeRate != nil {
		settings.CardFeeRate = *in.CardFeeRate
	}
	if in.MarginThresholdWarning != nil {
		settings.MarginThresholdWarning = *in.MarginThresholdWarning
	}
	if in.MarginThresholdOptimal != nil {
		settings.MarginThresholdOptimal = *in.MarginThresholdOptimal
	}
	if in.PsychologicalPattern != nil {
		settings.PsychologicalPattern = *in.PsychologicalPattern
	}
	settings.UpdatedAt = time.Now()
	if err := uc.repo.Upsert(settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(s *entity.CostSettings) *dto.SettingsResponse {
	costs := make([]dto.FixedCostRequest, len(s.MonthlyFixedCosts))
	for i, fc := range s.MonthlyFixedCosts {
		costs[i] = dto.FixedCostRequest{Label: fc.Label, Value: fc.Value}
	}
	return &dto.SettingsResponse{
		CompanyID:              s.CompanyID,
		BusinessMode:           s.BusinessMode,
		HourlyRate:             s.HourlyRate,
		MonthlyFixedCosts:      costs,
		WorkingHoursPerMonth:   s.WorkingHoursPerMonth,
		TaxRate:                s.TaxRate,
		CardFeeRate:            s.CardFeeRate,
		MarginThresholdWarning: s.MarginThresholdWarning,
		MarginThresholdOptimal: s.MarginThresholdOptimal,
		PsychologicalPattern:   s.PsychologicalPattern,
		UpdatedAt:              s.UpdatedAt,
	}
}
