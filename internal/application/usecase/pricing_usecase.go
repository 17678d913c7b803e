package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/costing"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/finance"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// PricingUseCase expõe a precificação derivada de um produto: decomposição
// de custos, preço sugerido, preço psicológico e análise de lucratividade.
// Tudo calculado na hora, sob os ajustes correntes do tenant.
type PricingUseCase struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

// NewPricingUseCase constrói o caso de uso.
func NewPricingUseCase(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository) *PricingUseCase {
	return &PricingUseCase{productRepo: productRepo, settingsRepo: settingsRepo}
}

// Calculate devolve a decomposição completa da precificação do produto.
func (uc *PricingUseCase) Calculate(companyID, productID string) (*dto.PriceCalculationResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	settings, err := uc.settingsRepo.Get(companyID)
	if err != nil {
		return nil, err
	}

	calc := costing.SuggestedPrice(product, settings)
	psychological := finance.PsychologicalRounding(calc.SuggestedPrice, settings.PsychologicalPattern)

	return &dto.PriceCalculationResponse{
		ProductID:          product.ID,
		MaterialCost:       calc.MaterialCost,
		LaborCost:          calc.LaborCost,
		FixedCost:          calc.FixedCost,
		BaseCost:           calc.BaseCost,
		MarginValue:        calc.MarginValue,
		SuggestedPrice:     calc.SuggestedPrice,
		PsychologicalPrice: psychological,
		MarginHealth:       calc.MarginHealth,

		ContributionMargin:           calc.Profitability.ContributionMargin,
		ContributionMarginPercentage: calc.Profitability.ContributionMarginPercentage,
		TaxAmount:                    calc.Profitability.TaxAmount,
		CardFeeAmount:                calc.Profitability.CommissionAmount,
		BreakEvenUnits:               calc.Profitability.BreakEvenUnits.String(),
		BreakEvenRevenue:             calc.Profitability.BreakEvenRevenue.String(),
	}, nil
}

// TargetProfit calcula o preço unitário necessário para atingir um lucro
// mensal alvo dado o volume projetado de vendas.
func (uc *PricingUseCase) TargetProfit(companyID string, in dto.TargetProfitRequest) (*dto.TargetProfitResponse, error) {
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if !in.ExpectedMonthlySales.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	settings, err := uc.settingsRepo.Get(companyID)
	if err != nil {
		return nil, err
	}

	calc := costing.SuggestedPrice(product, settings)
	price := finance.PriceForTargetProfit(
		settings.TotalMonthlyFixedCosts(),
		in.TargetMonthlyProfit,
		in.ExpectedMonthlySales,
		calc.BaseCost,
	)
	return &dto.TargetProfitResponse{
		ProductID:     product.ID,
		RequiredPrice: finance.FormatDisplay(price),
	}, nil
}
