package repository

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	// Create inserta la cabecera y asigna order.ID.
	Create(ctx context.Context, order *entity.Order) error
	// CreateLine inserta una línea y asigna line.ID.
	CreateLine(ctx context.Context, line *entity.OrderLine) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Order, error)
	ListLines(ctx context.Context, orderID int64) ([]*entity.OrderLine, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
}
