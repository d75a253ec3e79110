package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// receiptLockKey clave del advisory lock que serializa la numeración de comprobantes.
const receiptLockKey int64 = 0x6d6f7276 // "morv"

// receiptUniqueConstraint restricción UNIQUE sobre venta.numero_comprobante.
const receiptUniqueConstraint = "venta_numero_comprobante_key"

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera. Un número de comprobante repetido se traduce a domain.ErrDuplicateReceipt.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO venta (id_pedido, fecha_venta, subtotal, igv, total, tipo_comprobante,
			numero_comprobante, estado, id_usuario)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id_venta`
	err := r.q.QueryRow(ctx, query,
		s.OrderID, s.SoldAt, s.Subtotal, s.IGV, s.Total, s.ReceiptType,
		s.ReceiptNumber, string(s.Status), s.UserID,
	).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == receiptUniqueConstraint {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReceipt, s.ReceiptNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	query := `
		INSERT INTO detalle_venta (id_venta, id_producto, cantidad, precio_unitario, importe, igv, importe_con_igv)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_detalle_venta`
	err := r.q.QueryRow(ctx, query,
		l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.Amount, l.IGV, l.AmountWithIGV,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert sale line: %w", err)
	}
	return nil
}

const saleColumns = `
	id_venta, id_pedido, fecha_venta, subtotal, igv, total, tipo_comprobante,
	numero_comprobante, estado, id_usuario`

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.scanOne(ctx, `SELECT `+saleColumns+` FROM venta WHERE id_venta = $1`, id)
}

// GetForUpdate obtiene la venta con la fila bloqueada.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.scanOne(ctx, `SELECT `+saleColumns+` FROM venta WHERE id_venta = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) scanOne(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	var (
		s      entity.Sale
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.OrderID, &s.SoldAt, &s.Subtotal, &s.IGV, &s.Total, &s.ReceiptType,
		&s.ReceiptNumber, &status, &s.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.Status = entity.ParseSaleStatus(status)
	return &s, nil
}

// ListLines devuelve las líneas de la venta en orden de inserción.
func (r *SaleRepo) ListLines(ctx context.Context, saleID int64) ([]*entity.SaleLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id_detalle_venta, id_venta, id_producto, cantidad, precio_unitario, importe, igv, importe_con_igv
		FROM detalle_venta WHERE id_venta = $1 ORDER BY id_detalle_venta`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Amount, &l.IGV, &l.AmountWithIGV); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, id int64, status entity.SaleStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE venta SET estado = $2 WHERE id_venta = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSaleNotFound
	}
	return nil
}

// LockReceiptSequence toma un advisory lock transaccional; se libera en commit o rollback.
// Fuera de una transacción el lock se suelta al terminar la sentencia y no protege nada.
func (r *SaleRepo) LockReceiptSequence(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, receiptLockKey); err != nil {
		return fmt.Errorf("lock receipt sequence: %w", err)
	}
	return nil
}

// LastReceiptNumber devuelve el número de la venta más reciente, o "" si no hay ventas.
func (r *SaleRepo) LastReceiptNumber(ctx context.Context) (string, error) {
	var num string
	err := r.q.QueryRow(ctx, `SELECT numero_comprobante FROM venta ORDER BY id_venta DESC LIMIT 1`).Scan(&num)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last receipt number: %w", err)
	}
	return num, nil
}
