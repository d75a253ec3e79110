package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/order"
)

// OrderHandler maneja las peticiones HTTP de pedidos.
type OrderHandler struct {
	uc  *order.UseCase
	log zerolog.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear pedido
// @Description  Reserva stock por línea, registra una Salida en el kardex por cada una y deja el pedido en Pending.
// @Tags         order
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "pedido + detallesPedido"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /order [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado del pedido
// @Description  Cancelled devuelve el stock; Delivered genera la venta. Los estados terminales no admiten cambios.
// @Tags         order
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                           true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderStatusRequest  true  "estado"
// @Success      200   {object}  dto.UpdateOrderStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /order/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de pedido inválido")
	}
	var in dto.UpdateOrderStatusRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in.Estado)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         order
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /order/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de pedido inválido")
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
