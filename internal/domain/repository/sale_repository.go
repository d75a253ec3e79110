package repository

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas y comprobantes.
type SaleRepository interface {
	// Create inserta la cabecera; devuelve domain.ErrDuplicateReceipt si el número ya existe.
	Create(ctx context.Context, sale *entity.Sale) error
	CreateLine(ctx context.Context, line *entity.SaleLine) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error)
	ListLines(ctx context.Context, saleID int64) ([]*entity.SaleLine, error)
	UpdateStatus(ctx context.Context, id int64, status entity.SaleStatus) error
	// LockReceiptSequence serializa la numeración de comprobantes dentro de la transacción actual.
	LockReceiptSequence(ctx context.Context) error
	// LastReceiptNumber devuelve el número de la venta con mayor ID, o "" si no hay ventas.
	LastReceiptNumber(ctx context.Context) (string, error)
}
