package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/usecase"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
)

// PricingHandler trata as requisições HTTP de precificação (protegido).
type PricingHandler struct {
	uc *usecase.PricingUseCase
}

// NewPricingHandler constrói o handler.
func NewPricingHandler(uc *usecase.PricingUseCase) *PricingHandler {
	return &PricingHandler{uc: uc}
}

// Calculate godoc
// @Summary      Calcular preço sugerido de um produto
// @Description  Decompõe materiais, mão de obra e rateio de custo fixo, aplica a margem
//
//	e devolve ponto de equilíbrio e saúde da margem.
//
// @Tags         pricing
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID do produto"
// @Success      200  {object}  dto.PriceCalculationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/{product_id} [get]
func (h *PricingHandler) Calculate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "product_id é obrigatório"})
	}
	out, err := h.uc.Calculate(companyID, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "produto não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// TargetProfit godoc
// @Summary      Preço necessário para um lucro mensal alvo
// @Tags         pricing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TargetProfitRequest  true  "product_id, lucro alvo e vendas mensais esperadas"
// @Success      200   {object}  dto.TargetProfitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pricing/target-profit [post]
func (h *PricingHandler) TargetProfit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TargetProfitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.TargetProfit(companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "produto não encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
