package memdb

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reportes en memoria con la misma semántica que las consultas SQL.
type ReportRepo struct{ base }

// Reports devuelve el repositorio de reportes fuera de transacción.
func (s *Store) Reports() *ReportRepo {
	return &ReportRepo{base{s: s}}
}

func (r *ReportRepo) ListOrders(_ context.Context) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.do(func(t *tables) error {
		if err := r.s.fault("reports.ListOrders"); err != nil {
			return err
		}
		for _, o := range t.orders {
			o := o
			out = append(out, &o)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *ReportRepo) ListOrderLines(_ context.Context) ([]repository.OrderLineItem, error) {
	var out []repository.OrderLineItem
	err := r.do(func(t *tables) error {
		for _, l := range t.orderLines {
			out = append(out, repository.OrderLineItem{OrderLine: l, ProductName: t.products[l.ProductID].Name})
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].OrderID != out[j].OrderID {
				return out[i].OrderID < out[j].OrderID
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

func (r *ReportRepo) OrdersByMonth(_ context.Context) ([]repository.MonthlyOrders, error) {
	var out []repository.MonthlyOrders
	err := r.do(func(t *tables) error {
		counts := map[string]int{}
		for _, o := range t.orders {
			counts[monthPrefix(o.Fecha)]++
		}
		for m, c := range counts {
			out = append(out, repository.MonthlyOrders{Month: m, Count: c})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
		return nil
	})
	return out, err
}

func (r *ReportRepo) ListSales(_ context.Context) ([]repository.SaleListItem, error) {
	var out []repository.SaleListItem
	err := r.do(func(t *tables) error {
		for _, v := range t.sales {
			it := repository.SaleListItem{Sale: v}
			if u, ok := t.users[v.UserID]; ok {
				it.CustomerName = u.FullName()
				it.CustomerEmail = u.Email
			}
			out = append(out, it)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Sale.ID > out[j].Sale.ID })
		return nil
	})
	return out, err
}

func (r *ReportRepo) LatestSaleByOrder(_ context.Context, orderID int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.do(func(t *tables) error {
		for _, v := range t.sales {
			if v.OrderID == nil || *v.OrderID != orderID {
				continue
			}
			if out == nil || v.ID > out.ID {
				v := v
				out = &v
			}
		}
		return nil
	})
	return out, err
}

func (r *ReportRepo) SalesTotals(_ context.Context) (repository.SalesTotals, error) {
	tot := repository.SalesTotals{Total: decimal.Zero}
	err := r.do(func(t *tables) error {
		if err := r.s.fault("reports.SalesTotals"); err != nil {
			return err
		}
		for _, v := range t.sales {
			if v.Status != entity.SaleStatusCompleted {
				continue
			}
			tot.Total = tot.Total.Add(v.Total)
			tot.Count++
		}
		return nil
	})
	return tot, err
}

func (r *ReportRepo) SalesByMonth(_ context.Context) ([]repository.MonthlySales, error) {
	var out []repository.MonthlySales
	err := r.do(func(t *tables) error {
		byMonth := map[string]*repository.MonthlySales{}
		for _, v := range t.sales {
			if v.Status != entity.SaleStatusCompleted {
				continue
			}
			key := v.SoldAt.Format("2006-01")
			m, ok := byMonth[key]
			if !ok {
				m = &repository.MonthlySales{Month: key, Subtotal: decimal.Zero, IGV: decimal.Zero, Total: decimal.Zero}
				byMonth[key] = m
			}
			m.Count++
			m.Subtotal = m.Subtotal.Add(v.Subtotal)
			m.IGV = m.IGV.Add(v.IGV)
			m.Total = m.Total.Add(v.Total)
		}
		for _, m := range byMonth {
			out = append(out, *m)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
		return nil
	})
	return out, err
}

func monthPrefix(fecha string) string {
	if len(fecha) < 7 {
		return fecha
	}
	return fecha[:7]
}
