package memdb

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.OrderRepository   = (*OrderRepo)(nil)
	_ repository.SaleRepository    = (*SaleRepo)(nil)
	_ repository.KardexRepository  = (*KardexRepo)(nil)
	_ repository.UserRepository    = (*UserRepo)(nil)
)

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.do(func(t *tables) error {
		if err := r.s.fault("products.GetByID"); err != nil {
			return err
		}
		if p, ok := t.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) UpdateStock(_ context.Context, id int64, stock int) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("products.UpdateStock"); err != nil {
			return err
		}
		p, ok := t.products[id]
		if !ok {
			return domain.ErrProductNotFound
		}
		if stock < 0 {
			return domain.ErrInsufficientStock
		}
		p.StockActual = stock
		p.UpdatedAt = time.Now()
		t.products[id] = p
		return nil
	})
}

func (r *ProductRepo) AddImage(_ context.Context, img *entity.ProductImage) error {
	return r.do(func(t *tables) error {
		if _, ok := t.products[img.ProductID]; !ok {
			return domain.ErrProductNotFound
		}
		img.ID = r.s.nextID("imagen")
		t.images[img.ID] = *img
		return nil
	})
}

// OrderRepo repositorio de pedidos en memoria.
type OrderRepo struct{ base }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("orders.Create"); err != nil {
			return err
		}
		o.ID = r.s.nextID("pedido")
		if o.CreatedAt.IsZero() {
			o.CreatedAt = time.Now()
		}
		t.orders[o.ID] = *o
		return nil
	})
}

func (r *OrderRepo) CreateLine(_ context.Context, l *entity.OrderLine) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("orders.CreateLine"); err != nil {
			return err
		}
		if _, ok := t.orders[l.OrderID]; !ok {
			return domain.ErrOrderNotFound
		}
		l.ID = r.s.nextID("detalle_pedido")
		t.orderLines[l.ID] = *l
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id int64) (*entity.Order, error) {
	var out *entity.Order
	err := r.do(func(t *tables) error {
		if o, ok := t.orders[id]; ok {
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) ListLines(_ context.Context, orderID int64) ([]*entity.OrderLine, error) {
	var out []*entity.OrderLine
	err := r.do(func(t *tables) error {
		for _, l := range t.orderLines {
			if l.OrderID == orderID {
				l := l
				out = append(out, &l)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *OrderRepo) UpdateStatus(_ context.Context, id int64, status entity.OrderStatus) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("orders.UpdateStatus"); err != nil {
			return err
		}
		o, ok := t.orders[id]
		if !ok {
			return domain.ErrOrderNotFound
		}
		o.Status = status
		t.orders[id] = o
		return nil
	})
}

// SaleRepo repositorio de ventas en memoria. Respeta la unicidad del número de comprobante.
type SaleRepo struct{ base }

func (r *SaleRepo) Create(_ context.Context, v *entity.Sale) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("sales.Create"); err != nil {
			return err
		}
		for _, existing := range t.sales {
			if existing.ReceiptNumber == v.ReceiptNumber {
				return domain.ErrDuplicateReceipt
			}
		}
		v.ID = r.s.nextID("venta")
		t.sales[v.ID] = *v
		return nil
	})
}

func (r *SaleRepo) CreateLine(_ context.Context, l *entity.SaleLine) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("sales.CreateLine"); err != nil {
			return err
		}
		if _, ok := t.sales[l.SaleID]; !ok {
			return domain.ErrSaleNotFound
		}
		l.ID = r.s.nextID("detalle_venta")
		t.saleLines[l.ID] = *l
		return nil
	})
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.do(func(t *tables) error {
		if v, ok := t.sales[id]; ok {
			out = &v
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) ListLines(_ context.Context, saleID int64) ([]*entity.SaleLine, error) {
	var out []*entity.SaleLine
	err := r.do(func(t *tables) error {
		for _, l := range t.saleLines {
			if l.SaleID == saleID {
				l := l
				out = append(out, &l)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r *SaleRepo) UpdateStatus(_ context.Context, id int64, status entity.SaleStatus) error {
	return r.do(func(t *tables) error {
		v, ok := t.sales[id]
		if !ok {
			return domain.ErrSaleNotFound
		}
		v.Status = status
		t.sales[id] = v
		return nil
	})
}

// LockReceiptSequence no hace nada: el mutex del Store ya serializa las transacciones.
func (r *SaleRepo) LockReceiptSequence(context.Context) error { return nil }

func (r *SaleRepo) LastReceiptNumber(_ context.Context) (string, error) {
	var last string
	err := r.do(func(t *tables) error {
		if err := r.s.fault("sales.LastReceiptNumber"); err != nil {
			return err
		}
		var maxID int64
		for id, v := range t.sales {
			if id > maxID {
				maxID, last = id, v.ReceiptNumber
			}
		}
		return nil
	})
	return last, err
}

// KardexRepo kardex en memoria, solo inserción.
type KardexRepo struct{ base }

func (r *KardexRepo) Create(_ context.Context, e *entity.KardexEntry) error {
	return r.do(func(t *tables) error {
		if err := r.s.fault("kardex.Create"); err != nil {
			return err
		}
		e.ID = r.s.nextID("kardex_inventario")
		t.kardex[e.ID] = *e
		return nil
	})
}

func (r *KardexRepo) ListByProduct(_ context.Context, productID int64) ([]*entity.KardexEntry, error) {
	var out []*entity.KardexEntry
	err := r.do(func(t *tables) error {
		for _, e := range kardexFor(t, productID) {
			e := e
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}

// UserRepo usuarios en memoria.
type UserRepo struct{ base }

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(t *tables) error {
		if u, ok := t.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(t *tables) error {
		for _, u := range t.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}
