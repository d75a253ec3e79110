package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// MaxImageSize tamaño máximo aceptado para una imagen de producto (5 MB).
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductUseCase operaciones de catálogo que este servicio necesita: imágenes de producto.
type ProductUseCase struct {
	repo    repository.ProductRepository
	storage ports.ObjectStorage
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, storage ports.ObjectStorage) *ProductUseCase {
	return &ProductUseCase{repo: repo, storage: storage}
}

// ImageUpload archivo recibido para un producto.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadImage sube la imagen al object storage y la vincula al producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, productID int64, in ImageUpload) (*dto.ProductImageResponse, error) {
	if productID <= 0 || in.Body == nil || in.Size <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: la imagen supera %d bytes", domain.ErrInvalidInput, MaxImageSize)
	}
	ext, ok := allowedImageTypes[strings.ToLower(in.ContentType)]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de imagen no soportado %q", domain.ErrInvalidInput, in.ContentType)
	}
	if e := strings.ToLower(path.Ext(in.Filename)); e == ".jpeg" || e == ".jpg" || e == ".png" || e == ".webp" {
		ext = e
	}

	product, err := uc.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	key := fmt.Sprintf("productos/%d/%s%s", productID, uuid.New().String(), ext)
	url, err := uc.storage.Upload(ctx, key, in.ContentType, in.Body, in.Size)
	if err != nil {
		return nil, fmt.Errorf("subir imagen: %w", err)
	}

	img := &entity.ProductImage{ProductID: productID, URL: url}
	if err := uc.repo.AddImage(ctx, img); err != nil {
		return nil, fmt.Errorf("vincular imagen: %w", err)
	}
	return &dto.ProductImageResponse{IDImagen: img.ID, IDProducto: productID, URL: url}, nil
}
