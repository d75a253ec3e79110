package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/dto"
)

// SaleHandler maneja registro, anulación y consulta de ventas.
type SaleHandler struct {
	uc  *billing.SaleUseCase
	log zerolog.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *billing.SaleUseCase, log zerolog.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, log: log}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Con idPedido marca el pedido como Delivered. Calcula IGV por línea y asigna número de comprobante.
// @Tags         sale
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "idPedido opcional, detalles, tipoComprobante"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /sale [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Register(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular venta
// @Description  Marca la venta como Voided y devuelve el pedido de origen a Pending. No repone stock.
// @Tags         sale
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /sale/{id}/void [put]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	if err := h.uc.Void(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Venta anulada correctamente"})
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sale
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /sale/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ReceiptPDF godoc
// @Summary      Descargar comprobante en PDF
// @Tags         sale
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /sale/{id}/pdf [get]
func (h *SaleHandler) ReceiptPDF(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de venta inválido")
	}
	pdfBytes, filename, err := h.uc.ReceiptPDF(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
