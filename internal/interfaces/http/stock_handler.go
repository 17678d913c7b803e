package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/stock"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
)

// StockHandler trata entradas de compra, movimentos do ledger, alertas e
// relatório de posição (protegido).
type StockHandler struct {
	entry    *stock.EntryUseCase
	alerts   *stock.AlertsUseCase
	report   *stock.ReportUseCase
	finished *stock.FinishedGoodsUseCase
}

// NewStockHandler constrói o handler.
func NewStockHandler(
	entry *stock.EntryUseCase,
	alerts *stock.AlertsUseCase,
	report *stock.ReportUseCase,
	finished *stock.FinishedGoodsUseCase,
) *StockHandler {
	return &StockHandler{entry: entry, alerts: alerts, report: report, finished: finished}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:         m.ID,
		MaterialID: m.MaterialID,
		Color:      m.Color,
		Type:       m.Type,
		Quantity:   m.Quantity,
		Note:       m.Note,
		Source:     m.Source,
		OrderID:    m.OrderID,
		CreatedAt:  m.CreatedAt,
	}
}

func toEntryResponse(e *entity.StockEntry) dto.StockEntryResponse {
	items := make([]dto.StockEntryItemResponse, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, dto.StockEntryItemResponse{
			ID:         it.ID,
			MaterialID: it.MaterialID,
			Color:      it.Color,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
			Subtotal:   it.Subtotal,
		})
	}
	return dto.StockEntryResponse{
		ID:           e.ID,
		SupplierName: e.SupplierName,
		FreightCost:  e.FreightCost,
		TotalCost:    e.TotalCost,
		Note:         e.Note,
		Items:        items,
		CreatedAt:    e.CreatedAt,
	}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de compra
// @Description  Rateia o frete pelos itens e atualiza o custo médio ponderado de cada material.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Itens, frete e fornecedor"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) RegisterEntry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	items := make([]stock.EntryItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, stock.EntryItemInput{
			MaterialID: it.MaterialID,
			Color:      it.Color,
			Quantity:   it.Quantity,
			UnitCost:   it.UnitCost,
		})
	}
	out, err := h.entry.RegisterEntry(c.Context(), stock.EntryInput{
		CompanyID:    companyID,
		UserID:       userID,
		SupplierName: in.SupplierName,
		FreightCost:  in.FreightCost,
		Note:         in.Note,
		Items:        items,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(out))
}

// RegisterMovement godoc
// @Summary      Registrar movimento manual do ledger
// @Description  Perda e retirada exigem observação. Correções são novos movimentos de ajuste.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "material_id, type, quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.entry.RegisterManualMovement(c.Context(), stock.ManualMovementInput{
		CompanyID:  companyID,
		UserID:     userID,
		MaterialID: in.MaterialID,
		Color:      in.Color,
		Type:       in.Type,
		Quantity:   in.Quantity,
		Note:       in.Note,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(out))
}

// MovementHistory godoc
// @Summary      Histórico de movimentos de um material
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  path   string  true   "ID do material"
// @Param        from         query  string  false  "Início do período (RFC3339)"
// @Param        to           query  string  false  "Fim do período (RFC3339)"
// @Param        limit        query  int     false  "Limite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements/{material_id} [get]
func (h *StockHandler) MovementHistory(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	materialID := c.Params("material_id")
	if materialID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "material_id é obrigatório"})
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from deve ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to deve ser RFC3339"})
		}
		to = &t
	}
	movements, err := h.entry.MovementHistory(c.Context(), companyID, materialID, from, to, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return stockError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de estoque baixo
// @Description  Severidade por cor: critical (saldo <= 0), high (<= metade do mínimo), medium (<= mínimo).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  stock.StockAlert
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alerts, err := h.alerts.MaterialAlerts(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(alerts)
}

// ProductAlerts godoc
// @Summary      Alertas de estoque baixo de produto acabado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  stock.ProductStockAlert
// @Router       /api/stock/product-alerts [get]
func (h *StockHandler) ProductAlerts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	alerts, err := h.alerts.ProductAlerts(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(alerts)
}

// Report godoc
// @Summary      Posição de estoque por material e cor
// @Description  Saldos pelo replay do ledger e valor pela média ponderada corrente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  stock.StockReport
// @Router       /api/stock/report [get]
func (h *StockHandler) Report(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.report.Report(c.Context(), companyID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(report)
}

// AdjustProductStock godoc
// @Summary      Movimento manual de produto acabado
// @Description  Produção concluída (IN), ajustes, perdas e brindes no ledger de produto.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustProductStockRequest  true  "product_id, type, quantity"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/products/movements [post]
func (h *StockHandler) AdjustProductStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustProductStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	out, err := h.finished.AdjustProductStock(c.Context(), stock.ProductMovementInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Note:      in.Note,
	})
	if err != nil {
		return stockError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": out.ID, "message": "movimento registrado"})
}

// ProductBalances godoc
// @Summary      Saldos do ledger de produto acabado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/stock/products/balances [get]
func (h *StockHandler) ProductBalances(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	balances, err := h.finished.ProductBalances(c.Context(), companyID, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make(map[string]string, len(balances))
	for id, b := range balances {
		out[id] = b.String()
	}
	return c.JSON(out)
}

// stockError mapeia os erros de domínio do ledger para HTTP.
func stockError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNoteRequired):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NOTE_REQUIRED", Message: "perda e retirada exigem observação"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso não encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso negado ao recurso"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
