package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/orders"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// orderPDFGenerator é o contrato mínimo do gerador de PDF de pedido.
// Implementado por *pdf.OrderPDFGenerator; a interface evita acoplar o
// handler à infraestrutura.
type orderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, company *entity.Company) ([]byte, error)
}

// OrderHandler trata as requisições HTTP de pedidos (protegido).
type OrderHandler struct {
	uc           *orders.UseCase
	availability *stock.AvailabilityUseCase
	companyRepo  repository.CompanyRepository
	pdfGen       orderPDFGenerator
}

// NewOrderHandler constrói o handler.
func NewOrderHandler(
	uc *orders.UseCase,
	availability *stock.AvailabilityUseCase,
	companyRepo repository.CompanyRepository,
	pdfGen orderPDFGenerator,
) *OrderHandler {
	return &OrderHandler{uc: uc, availability: availability, companyRepo: companyRepo, pdfGen: pdfGen}
}

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.Product != nil {
			name = it.Product.Name
		}
		items = append(items, dto.OrderItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: name,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Discount:    it.Discount,
		})
	}
	customerName := ""
	if o.Customer != nil {
		customerName = o.Customer.Name
	}
	return dto.OrderResponse{
		ID:           o.ID,
		CompanyID:    o.CompanyID,
		CustomerID:   o.CustomerID,
		CustomerName: customerName,
		Status:       o.Status,
		DueDate:      o.DueDate,
		TotalValue:   o.TotalValue,
		Discount:     o.Discount,
		Items:        items,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// Create godoc
// @Summary      Criar pedido
// @Description  O total é calculado no servidor. Criar já em PRODUCING baixa o estoque no mesmo commit.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Itens, cliente e status inicial"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	items := make([]orders.OrderItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, orders.OrderItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Discount:  it.Discount,
		})
	}
	out, err := h.uc.Create(c.Context(), orders.CreateOrderInput{
		CompanyID:  companyID,
		UserID:     userID,
		CustomerID: in.CustomerID,
		Status:     in.Status,
		DueDate:    in.DueDate,
		Discount:   in.Discount,
		Items:      items,
	})
	if err != nil {
		return orderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(out))
}

// GetByID godoc
// @Summary      Obter pedido por ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	out, err := h.uc.GetByID(c.Context(), companyID, id)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(toOrderResponse(out))
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por status"
// @Param        limit   query  int     false  "Limite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	status := c.Query("status")
	if status != "" && !entity.ValidOrderStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status desconhecido"})
	}
	filter := repository.OrderFilter{
		Status: status,
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	list, total, err := h.uc.List(c.Context(), companyID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toOrderResponse(o))
	}
	return c.JSON(dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset, Total: total},
	})
}

// UpdateStatus godoc
// @Summary      Transicionar status do pedido
// @Description  Entrar em produção baixa o estoque de forma atômica; estoque insuficiente aborta a transição.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "Novo status"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.uc.UpdateStatus(c.Context(), companyID, userID, id, in.Status)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(toOrderResponse(out))
}

// Delete godoc
// @Summary      Excluir pedido
// @Description  Os movimentos do ledger gerados pelo pedido permanecem (histórico imutável).
// @Tags         orders
// @Security     Bearer
// @Param        id  path  string  true  "ID do pedido"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	if err := h.uc.Delete(c.Context(), companyID, id); err != nil {
		return orderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckAvailability godoc
// @Summary      Checar disponibilidade de materiais do pedido
// @Description  Expande as fichas técnicas, converte unidades e compara com os saldos do ledger.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do pedido"
// @Success      200  {object}  stock.AvailabilityResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/availability [get]
func (h *OrderHandler) CheckAvailability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	result, err := h.availability.CheckOrder(c.Context(), companyID, id)
	if err != nil {
		return orderError(c, err)
	}
	return c.JSON(result)
}

// FinancialSummary godoc
// @Summary      Sumário financeiro da carteira de pedidos
// @Description  Receita, custos e lucro dos pedidos não cancelados, a custo corrente.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.FinancialSummaryResponse
// @Router       /api/orders/summary [get]
func (h *OrderHandler) FinancialSummary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	summary, err := h.uc.FinancialSummary(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.FinancialSummaryResponse{
		TotalRevenue: summary.TotalRevenue,
		TotalCosts:   summary.TotalCosts,
		TotalProfit:  summary.TotalProfit,
		OrderCount:   summary.OrderCount,
	})
}

// DownloadPDF godoc
// @Summary      Baixar o resumo do pedido em PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID do pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id é obrigatório"})
	}
	order, err := h.uc.GetByID(c.Context(), companyID, id)
	if err != nil {
		return orderError(c, err)
	}
	company, err := h.companyRepo.GetByID(companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if company == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ateliê não encontrado"})
	}
	data, err := h.pdfGen.GenerateOrderPDF(c.Context(), order, company)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_FAILED", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="pedido-`+id+`.pdf"`)
	return c.Send(data)
}

// orderError mapeia os erros do fluxo de pedidos para HTTP. Estoque
// insuficiente devolve 409 com a lista de faltas por (material, cor).
func orderError(c *fiber.Ctx, err error) error {
	var insufficient *stock.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "INSUFFICIENT_STOCK",
			"message": "estoque insuficiente para produzir o pedido",
			"missing": insufficient.Items,
		})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "transição de status inválida"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "pedido alterado por outra operação"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "estoque insuficiente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
