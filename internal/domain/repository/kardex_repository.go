package repository

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// KardexRepository puerto del kardex. Solo inserción y lectura: los asientos nunca se modifican.
type KardexRepository interface {
	Create(ctx context.Context, entry *entity.KardexEntry) error
	// ListByProduct devuelve los asientos del producto en orden de inserción ascendente.
	ListByProduct(ctx context.Context, productID int64) ([]*entity.KardexEntry, error)
}
