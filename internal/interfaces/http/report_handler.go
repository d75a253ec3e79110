package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/analytics"
)

// ReportHandler listados y reportes administrativos de pedidos y ventas.
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// ListOrders godoc
// @Summary      Listar pedidos
// @Description  Todos los pedidos con sus líneas, por ID ascendente. Lista vacía si no hay pedidos.
// @Tags         order
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /order [get]
func (h *ReportHandler) ListOrders(c *fiber.Ctx) error {
	out, err := h.uc.ListOrders(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// OrdersByMonth godoc
// @Summary      Pedidos por mes
// @Tags         order
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.MonthlyOrdersResponse
// @Router       /order/by-month [get]
func (h *ReportHandler) OrdersByMonth(c *fiber.Ctx) error {
	out, err := h.uc.OrdersByMonth(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Description  Ventas de la más reciente a la más antigua, con nombre y correo del cliente. Incluye anuladas.
// @Tags         sale
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.SaleListItemResponse
// @Router       /sale [get]
func (h *ReportHandler) ListSales(c *fiber.Ctx) error {
	out, err := h.uc.ListSales(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SalesSummary godoc
// @Summary      Resumen de ventas
// @Description  Total y cantidad de ventas completadas, con el desglose mensual. Las anuladas no cuentan.
// @Tags         sale
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalesSummaryResponse
// @Router       /sale/summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	out, err := h.uc.SalesSummary(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SaleByOrder godoc
// @Summary      Venta de un pedido
// @Description  Última venta registrada para el pedido; null si no tiene ninguna.
// @Tags         sale
// @Security     Bearer
// @Produce      json
// @Param        idPedido  path  int  true  "ID del pedido"
// @Success      200  {object}  dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /sale/by-order/{idPedido} [get]
func (h *ReportHandler) SaleByOrder(c *fiber.Ctx) error {
	id, ok := paramID(c, "idPedido")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de pedido inválido")
	}
	out, err := h.uc.SaleByOrder(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if out == nil {
		return c.Type("json").SendString("null")
	}
	return c.JSON(out)
}
