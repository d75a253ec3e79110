package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// KardexUseCase consulta el kardex de un producto.
type KardexUseCase struct {
	kardex repository.KardexRepository
}

// NewKardexUseCase construye el caso de uso.
func NewKardexUseCase(kardex repository.KardexRepository) *KardexUseCase {
	return &KardexUseCase{kardex: kardex}
}

// ListByProduct devuelve los asientos en orden de inserción. ErrNotFound si no hay ninguno.
func (uc *KardexUseCase) ListByProduct(ctx context.Context, productID int64) ([]dto.KardexEntryResponse, error) {
	if productID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	entries, err := uc.kardex.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("listar kardex: %w", err)
	}
	if len(entries) == 0 {
		return nil, domain.ErrNotFound
	}
	out := make([]dto.KardexEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.KardexToResponse(e))
	}
	return out, nil
}
