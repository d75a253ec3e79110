package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo persistencia append-only del kardex de inventario.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador del kardex.
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

// Create inserta un asiento. No existe update ni delete.
func (r *KardexRepo) Create(ctx context.Context, e *entity.KardexEntry) error {
	query := `
		INSERT INTO kardex_inventario (fecha_movimiento, tipo_movimiento, cantidad, stock_resultante,
			id_origen, id_producto, id_proveedor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_kardex`
	err := r.q.QueryRow(ctx, query,
		e.OccurredAt, string(e.Type), e.Quantity, e.ResultingStock, e.OriginRef, e.ProductID, e.SupplierID,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert kardex entry: %w", err)
	}
	return nil
}

// ListByProduct devuelve los asientos del producto por id_kardex ascendente (orden de inserción).
// fecha_movimiento no sirve para ordenar: la fija la aplicación y puede retroceder entre transacciones.
func (r *KardexRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.KardexEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id_kardex, fecha_movimiento, tipo_movimiento, cantidad, stock_resultante,
			id_origen, id_producto, id_proveedor
		FROM kardex_inventario
		WHERE id_producto = $1
		ORDER BY id_kardex`, productID)
	if err != nil {
		return nil, fmt.Errorf("list kardex: %w", err)
	}
	defer rows.Close()

	var out []*entity.KardexEntry
	for rows.Next() {
		var (
			e   entity.KardexEntry
			typ string
		)
		if err := rows.Scan(&e.ID, &e.OccurredAt, &typ, &e.Quantity, &e.ResultingStock,
			&e.OriginRef, &e.ProductID, &e.SupplierID); err != nil {
			return nil, fmt.Errorf("scan kardex entry: %w", err)
		}
		e.Type = entity.KardexMovementType(typ)
		out = append(out, &e)
	}
	return out, rows.Err()
}
