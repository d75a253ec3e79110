package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/inventory"
)

// InventoryHandler expone el kardex de inventario (protegido).
type InventoryHandler struct {
	uc  *inventory.KardexUseCase
	log zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.KardexUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// ListKardex godoc
// @Summary      Kardex de un producto
// @Description  Movimientos del producto en orden ascendente. 404 si no tiene ninguno.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  int  true  "ID del producto"
// @Success      200  {array}   dto.KardexEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /inventory/{productId} [get]
func (h *InventoryHandler) ListKardex(c *fiber.Ctx) error {
	id, ok := paramID(c, "productId")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de producto inválido")
	}
	entries, err := h.uc.ListByProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(entries)
}
