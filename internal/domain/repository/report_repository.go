package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// SaleListItem venta con los datos del cliente para el listado.
type SaleListItem struct {
	Sale          entity.Sale
	CustomerName  string
	CustomerEmail string
}

// OrderLineItem línea de pedido con el nombre del producto ya resuelto.
type OrderLineItem struct {
	entity.OrderLine
	ProductName string
}

// SalesTotals total y cantidad de ventas completadas.
type SalesTotals struct {
	Total decimal.Decimal
	Count int
}

// MonthlySales agregado mensual de ventas completadas. Month tiene formato YYYY-MM.
type MonthlySales struct {
	Month    string
	Count    int
	Subtotal decimal.Decimal
	IGV      decimal.Decimal
	Total    decimal.Decimal
}

// MonthlyOrders pedidos registrados por mes (YYYY-MM, según la fecha enviada por el cliente).
type MonthlyOrders struct {
	Month string
	Count int
}

// ReportRepository consultas de solo lectura para listados y reportes.
// Las ventas anuladas no cuentan en totales ni agregados mensuales.
type ReportRepository interface {
	// ListOrders devuelve todos los pedidos por ID ascendente.
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	// ListOrderLines devuelve las líneas de todos los pedidos por ID ascendente.
	ListOrderLines(ctx context.Context) ([]OrderLineItem, error)
	OrdersByMonth(ctx context.Context) ([]MonthlyOrders, error)

	// ListSales devuelve las ventas de la más reciente a la más antigua.
	ListSales(ctx context.Context) ([]SaleListItem, error)
	// LatestSaleByOrder devuelve la última venta del pedido, o (nil, nil) si no tiene.
	LatestSaleByOrder(ctx context.Context, orderID int64) (*entity.Sale, error)
	SalesTotals(ctx context.Context) (SalesTotals, error)
	SalesByMonth(ctx context.Context) ([]MonthlySales, error)
}
