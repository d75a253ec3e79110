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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera del pedido y asigna el ID generado.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO pedido (fecha, hora, metodo_pago, subtotal, igv, total, estado, direccion_entrega,
			fecha_entrega, responsable_recojo1, responsable_recojo2, tipo_entrega, id_usuario)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id_pedido, created_at`
	err := r.q.QueryRow(ctx, query,
		o.Fecha, o.Hora, o.PaymentMethod, o.Subtotal, o.IGV, o.Total, string(o.Status), o.DeliveryAddress,
		o.DeliveryDate, o.PickupResponsible1, o.PickupResponsible2, o.DeliveryType, o.UserID,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de pedido y asigna el ID generado.
func (r *OrderRepo) CreateLine(ctx context.Context, l *entity.OrderLine) error {
	query := `
		INSERT INTO detalle_pedido (cantidad, importe, id_pedido, id_producto)
		VALUES ($1, $2, $3, $4)
		RETURNING id_detalle_pedido`
	if err := r.q.QueryRow(ctx, query, l.Quantity, l.Amount, l.OrderID, l.ProductID).Scan(&l.ID); err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

const orderColumns = `
	id_pedido, fecha, hora, COALESCE(metodo_pago, ''), subtotal, igv, total, estado,
	COALESCE(direccion_entrega, ''), COALESCE(fecha_entrega, ''), COALESCE(responsable_recojo1, ''),
	COALESCE(responsable_recojo2, ''), COALESCE(tipo_entrega, ''), id_usuario, created_at`

// GetByID obtiene un pedido por ID.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	return r.scanOne(ctx, `SELECT `+orderColumns+` FROM pedido WHERE id_pedido = $1`, id)
}

// GetForUpdate obtiene el pedido con la fila bloqueada hasta el fin de la transacción.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.scanOne(ctx, `SELECT `+orderColumns+` FROM pedido WHERE id_pedido = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) scanOne(ctx context.Context, query string, id int64) (*entity.Order, error) {
	var (
		o      entity.Order
		status string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Fecha, &o.Hora, &o.PaymentMethod, &o.Subtotal, &o.IGV, &o.Total, &status,
		&o.DeliveryAddress, &o.DeliveryDate, &o.PickupResponsible1, &o.PickupResponsible2,
		&o.DeliveryType, &o.UserID, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	st, ok := entity.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("pedido %d con estado desconocido %q: %w", o.ID, status, domain.ErrInvalidStatus)
	}
	o.Status = st
	return &o, nil
}

// ListLines devuelve las líneas del pedido en orden de inserción.
func (r *OrderRepo) ListLines(ctx context.Context, orderID int64) ([]*entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id_detalle_pedido, id_pedido, id_producto, cantidad, importe
		FROM detalle_pedido WHERE id_pedido = $1 ORDER BY id_detalle_pedido`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado del pedido.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	tag, err := r.q.Exec(ctx, `UPDATE pedido SET estado = $2 WHERE id_pedido = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}
