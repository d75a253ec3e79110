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

var _ repository.ReportRepository = (*ReportRepo)(nil)

// completedSaleFilter acepta el estado actual y el heredado del sistema anterior.
const completedSaleFilter = `estado IN ('Completed', 'Completada')`

// ReportRepo consultas read-only para listados y reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// ListOrders devuelve todos los pedidos por id_pedido ascendente.
func (r *ReportRepo) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM pedido ORDER BY id_pedido`)
	if err != nil {
		return nil, fmt.Errorf("report.ListOrders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var (
			o      entity.Order
			status string
		)
		if err := rows.Scan(
			&o.ID, &o.Fecha, &o.Hora, &o.PaymentMethod, &o.Subtotal, &o.IGV, &o.Total, &status,
			&o.DeliveryAddress, &o.DeliveryDate, &o.PickupResponsible1, &o.PickupResponsible2,
			&o.DeliveryType, &o.UserID, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("report.ListOrders: scan: %w", err)
		}
		st, ok := entity.ParseOrderStatus(status)
		if !ok {
			return nil, fmt.Errorf("pedido %d con estado desconocido %q: %w", o.ID, status, domain.ErrInvalidStatus)
		}
		o.Status = st
		out = append(out, &o)
	}
	return out, rows.Err()
}

// ListOrderLines devuelve todas las líneas de pedido con el nombre del producto.
func (r *ReportRepo) ListOrderLines(ctx context.Context) ([]repository.OrderLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT d.id_detalle_pedido, d.id_pedido, d.id_producto, d.cantidad, d.importe, COALESCE(p.nombre, '')
		FROM detalle_pedido d
		LEFT JOIN producto p ON p.id_producto = d.id_producto
		ORDER BY d.id_pedido, d.id_detalle_pedido`)
	if err != nil {
		return nil, fmt.Errorf("report.ListOrderLines: %w", err)
	}
	defer rows.Close()

	var out []repository.OrderLineItem
	for rows.Next() {
		var it repository.OrderLineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Amount, &it.ProductName); err != nil {
			return nil, fmt.Errorf("report.ListOrderLines: scan: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// OrdersByMonth cuenta pedidos por los siete primeros caracteres de la fecha (YYYY-MM).
func (r *ReportRepo) OrdersByMonth(ctx context.Context) ([]repository.MonthlyOrders, error) {
	rows, err := r.q.Query(ctx, `
		SELECT substring(fecha FROM 1 FOR 7) AS mes, COUNT(*)
		FROM pedido
		GROUP BY mes
		ORDER BY mes`)
	if err != nil {
		return nil, fmt.Errorf("report.OrdersByMonth: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlyOrders
	for rows.Next() {
		var m repository.MonthlyOrders
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, fmt.Errorf("report.OrdersByMonth: scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListSales devuelve las ventas por id_venta descendente con nombre y correo del cliente.
func (r *ReportRepo) ListSales(ctx context.Context) ([]repository.SaleListItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id_venta, v.id_pedido, v.fecha_venta, v.subtotal, v.igv, v.total, v.tipo_comprobante,
			v.numero_comprobante, v.estado, v.id_usuario,
			COALESCE(TRIM(u.nombre || ' ' || u.apellido), ''), COALESCE(u.correo, '')
		FROM venta v
		LEFT JOIN usuario u ON u.id_usuario = v.id_usuario
		ORDER BY v.id_venta DESC`)
	if err != nil {
		return nil, fmt.Errorf("report.ListSales: %w", err)
	}
	defer rows.Close()

	var out []repository.SaleListItem
	for rows.Next() {
		var (
			it     repository.SaleListItem
			status string
		)
		s := &it.Sale
		if err := rows.Scan(
			&s.ID, &s.OrderID, &s.SoldAt, &s.Subtotal, &s.IGV, &s.Total, &s.ReceiptType,
			&s.ReceiptNumber, &status, &s.UserID, &it.CustomerName, &it.CustomerEmail,
		); err != nil {
			return nil, fmt.Errorf("report.ListSales: scan: %w", err)
		}
		s.Status = entity.ParseSaleStatus(status)
		out = append(out, it)
	}
	return out, rows.Err()
}

// LatestSaleByOrder devuelve la venta más reciente del pedido, o (nil, nil).
func (r *ReportRepo) LatestSaleByOrder(ctx context.Context, orderID int64) (*entity.Sale, error) {
	var (
		s      entity.Sale
		status string
	)
	err := r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM venta WHERE id_pedido = $1 ORDER BY id_venta DESC LIMIT 1`, orderID).Scan(
		&s.ID, &s.OrderID, &s.SoldAt, &s.Subtotal, &s.IGV, &s.Total, &s.ReceiptType,
		&s.ReceiptNumber, &status, &s.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("report.LatestSaleByOrder: %w", err)
	}
	s.Status = entity.ParseSaleStatus(status)
	return &s, nil
}

// SalesTotals suma y cuenta las ventas completadas.
func (r *ReportRepo) SalesTotals(ctx context.Context) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0), COUNT(*)
		FROM venta
		WHERE `+completedSaleFilter).Scan(&t.Total, &t.Count)
	if err != nil {
		return repository.SalesTotals{}, fmt.Errorf("report.SalesTotals: %w", err)
	}
	return t, nil
}

// SalesByMonth agrega las ventas completadas por mes de fecha_venta.
func (r *ReportRepo) SalesByMonth(ctx context.Context) ([]repository.MonthlySales, error) {
	rows, err := r.q.Query(ctx, `
		SELECT to_char(fecha_venta, 'YYYY-MM') AS mes, COUNT(*),
			COALESCE(SUM(subtotal), 0), COALESCE(SUM(igv), 0), COALESCE(SUM(total), 0)
		FROM venta
		WHERE `+completedSaleFilter+`
		GROUP BY mes
		ORDER BY mes`)
	if err != nil {
		return nil, fmt.Errorf("report.SalesByMonth: %w", err)
	}
	defer rows.Close()

	var out []repository.MonthlySales
	for rows.Next() {
		var m repository.MonthlySales
		if err := rows.Scan(&m.Month, &m.Count, &m.Subtotal, &m.IGV, &m.Total); err != nil {
			return nil, fmt.Errorf("report.SalesByMonth: scan: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
