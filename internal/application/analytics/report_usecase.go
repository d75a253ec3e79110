// Package analytics contiene los listados administrativos y los reportes de ventas y pedidos.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// ReportUseCase consultas read-only sobre pedidos y ventas.
//
// Fuente de datos: ReportRepository. Las líneas de una venta se leen con SaleRepository.
type ReportUseCase struct {
	reports repository.ReportRepository
	sales   repository.SaleRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reports repository.ReportRepository, sales repository.SaleRepository) *ReportUseCase {
	return &ReportUseCase{reports: reports, sales: sales}
}

// ListOrders devuelve todos los pedidos con sus líneas. Sin pedidos devuelve un slice vacío.
func (uc *ReportUseCase) ListOrders(ctx context.Context) ([]dto.OrderResponse, error) {
	type ordersResult struct {
		orders []*entity.Order
		err    error
	}
	type linesResult struct {
		lines []repository.OrderLineItem
		err   error
	}
	ordersCh := make(chan ordersResult, 1)
	linesCh := make(chan linesResult, 1)

	go func() {
		o, err := uc.reports.ListOrders(ctx)
		ordersCh <- ordersResult{o, err}
	}()
	go func() {
		l, err := uc.reports.ListOrderLines(ctx)
		linesCh <- linesResult{l, err}
	}()

	orders := <-ordersCh
	lines := <-linesCh
	if orders.err != nil {
		return nil, fmt.Errorf("reportes: listar pedidos: %w", orders.err)
	}
	if lines.err != nil {
		return nil, fmt.Errorf("reportes: listar líneas: %w", lines.err)
	}

	byOrder := make(map[int64][]*entity.OrderLine, len(orders.orders))
	names := make(map[int64]string)
	for i := range lines.lines {
		it := &lines.lines[i]
		byOrder[it.OrderID] = append(byOrder[it.OrderID], &it.OrderLine)
		names[it.ProductID] = it.ProductName
	}

	out := make([]dto.OrderResponse, 0, len(orders.orders))
	for _, o := range orders.orders {
		out = append(out, dto.OrderToResponse(o, byOrder[o.ID], names))
	}
	return out, nil
}

// OrdersByMonth cuenta los pedidos de cada mes.
func (uc *ReportUseCase) OrdersByMonth(ctx context.Context) ([]dto.MonthlyOrdersResponse, error) {
	rows, err := uc.reports.OrdersByMonth(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportes: pedidos por mes: %w", err)
	}
	out := make([]dto.MonthlyOrdersResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyOrdersResponse{Mes: r.Month, Etiqueta: monthLabel(r.Month), TotalPedidos: r.Count})
	}
	return out, nil
}

// ListSales devuelve las ventas de la más reciente a la más antigua, anuladas incluidas.
func (uc *ReportUseCase) ListSales(ctx context.Context) ([]dto.SaleListItemResponse, error) {
	rows, err := uc.reports.ListSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("reportes: listar ventas: %w", err)
	}
	out := make([]dto.SaleListItemResponse, 0, len(rows))
	for i := range rows {
		s := dto.SaleToResponse(&rows[i].Sale, nil, nil)
		out = append(out, dto.SaleListItemResponse{
			IDVenta:           s.IDVenta,
			IDPedido:          s.IDPedido,
			FechaVenta:        s.FechaVenta,
			HoraVenta:         s.HoraVenta,
			Subtotal:          s.Subtotal,
			IGV:               s.IGV,
			Total:             s.Total,
			TipoComprobante:   s.TipoComprobante,
			NumeroComprobante: s.NumeroComprobante,
			Estado:            s.Estado,
			IDUsuario:         s.IDUsuario,
			Cliente:           rows[i].CustomerName,
			Correo:            rows[i].CustomerEmail,
		})
	}
	return out, nil
}

// SaleByOrder devuelve la última venta registrada para el pedido, o nil si no tiene ninguna.
func (uc *ReportUseCase) SaleByOrder(ctx context.Context, orderID int64) (*dto.SaleResponse, error) {
	if orderID <= 0 {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.reports.LatestSaleByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("reportes: venta del pedido %d: %w", orderID, err)
	}
	if sale == nil {
		return nil, nil
	}
	lines, err := uc.sales.ListLines(ctx, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("reportes: líneas de la venta %d: %w", sale.ID, err)
	}
	out := dto.SaleToResponse(sale, lines, nil)
	return &out, nil
}

// SalesSummary construye el resumen de ventas completadas.
//
// Dos llamadas en paralelo:
//  1. SalesTotals   → TotalVentas + CantidadVentas
//  2. SalesByMonth  → PorMes
func (uc *ReportUseCase) SalesSummary(ctx context.Context) (*dto.SalesSummaryResponse, error) {
	type totalsResult struct {
		totals repository.SalesTotals
		err    error
	}
	type monthsResult struct {
		months []repository.MonthlySales
		err    error
	}
	totalsCh := make(chan totalsResult, 1)
	monthsCh := make(chan monthsResult, 1)

	go func() {
		t, err := uc.reports.SalesTotals(ctx)
		totalsCh <- totalsResult{t, err}
	}()
	go func() {
		m, err := uc.reports.SalesByMonth(ctx)
		monthsCh <- monthsResult{m, err}
	}()

	totals := <-totalsCh
	months := <-monthsCh
	if totals.err != nil {
		return nil, fmt.Errorf("reportes: total de ventas: %w", totals.err)
	}
	if months.err != nil {
		return nil, fmt.Errorf("reportes: ventas por mes: %w", months.err)
	}

	out := &dto.SalesSummaryResponse{
		TotalVentas:    totals.totals.Total.Round(2),
		CantidadVentas: totals.totals.Count,
		PorMes:         make([]dto.MonthlySalesResponse, 0, len(months.months)),
	}
	for _, m := range months.months {
		out.PorMes = append(out.PorMes, dto.MonthlySalesResponse{
			Mes:            m.Month,
			Etiqueta:       monthLabel(m.Month),
			CantidadVentas: m.Count,
			TotalSubtotal:  m.Subtotal.Round(2),
			TotalIGV:       m.IGV.Round(2),
			TotalVentas:    m.Total.Round(2),
		})
	}
	return out, nil
}

// monthLabel convierte "2024-05" en "Mayo 2024". Un mes ilegible se devuelve tal cual.
func monthLabel(ym string) string {
	t, err := time.Parse("2006-01", ym)
	if err != nil {
		return ym
	}
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
