package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// LedgerRecord datos de un asiento del kardex.
// ResultingStock debe ser el valor devuelto por el StockManager en la misma transacción.
type LedgerRecord struct {
	ProductID      int64
	Type           entity.KardexMovementType
	Quantity       int
	ResultingStock int
	OccurredAt     time.Time
	OriginRef      int64
	SupplierID     *int64
}

// LedgerWriter agrega asientos inmutables al kardex.
type LedgerWriter struct {
	kardex repository.KardexRepository
}

// NewLedgerWriter construye el escritor sobre el repositorio de kardex de la transacción.
func NewLedgerWriter(kardex repository.KardexRepository) *LedgerWriter {
	return &LedgerWriter{kardex: kardex}
}

// Record agrega un asiento. Solo falla por error de almacenamiento o por un registro mal formado.
func (w *LedgerWriter) Record(ctx context.Context, rec LedgerRecord) (*entity.KardexEntry, error) {
	if !rec.Type.Valid() || rec.Quantity <= 0 || rec.ResultingStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = time.Now()
	}
	entry := &entity.KardexEntry{
		OccurredAt:     rec.OccurredAt,
		Type:           rec.Type,
		Quantity:       rec.Quantity,
		ResultingStock: rec.ResultingStock,
		OriginRef:      rec.OriginRef,
		ProductID:      rec.ProductID,
		SupplierID:     rec.SupplierID,
	}
	if err := w.kardex.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("registrar kardex: %w", err)
	}
	return entry, nil
}

// Movement movimiento de stock con su asiento: Salida descuenta y Entrada devuelve.
type Movement struct {
	ProductID  int64
	Type       entity.KardexMovementType
	Quantity   int
	OriginRef  int64
	SupplierID *int64
	OccurredAt time.Time
}

// Move aplica el movimiento en el StockManager y registra el asiento con el stock resultante.
func Move(ctx context.Context, stock *StockManager, ledger *LedgerWriter, mv Movement) (int, error) {
	var (
		next int
		err  error
	)
	switch mv.Type {
	case entity.KardexSalida:
		next, err = stock.Reserve(ctx, mv.ProductID, mv.Quantity)
	case entity.KardexEntrada:
		next, err = stock.Release(ctx, mv.ProductID, mv.Quantity)
	default:
		return 0, domain.ErrInvalidInput
	}
	if err != nil {
		return 0, err
	}
	_, err = ledger.Record(ctx, LedgerRecord{
		ProductID:      mv.ProductID,
		Type:           mv.Type,
		Quantity:       mv.Quantity,
		ResultingStock: next,
		OccurredAt:     mv.OccurredAt,
		OriginRef:      mv.OriginRef,
		SupplierID:     mv.SupplierID,
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
