package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/usecase"
)

// ProductHandler maneja las imágenes de producto.
type ProductHandler struct {
	uc  *usecase.ProductUseCase
	log zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{uc: uc, log: log}
}

// UploadImage godoc
// @Summary      Subir imagen de producto
// @Tags         product
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path      int   true  "ID del producto"
// @Param        imagen  formData  file  true  "imagen jpeg, png o webp (máx. 5 MB)"
// @Success      201  {object}  dto.ProductImageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /product/{id}/image [post]
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id de producto inválido")
	}
	fh, err := c.FormFile("imagen")
	if err != nil {
		return badRequest(c, "MISSING_FILE", "el campo 'imagen' es obligatorio")
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.UserContext(), id, usecase.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
