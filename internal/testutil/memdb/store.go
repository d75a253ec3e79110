// Package memdb implementa los repositorios en memoria para pruebas de casos de uso.
// El TxRunner toma una instantánea antes de ejecutar el callback y la restaura si este
// devuelve error, igual que un Rollback. Las secuencias de IDs no se revierten, como en PostgreSQL.
package memdb

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

type tables struct {
	products   map[int64]entity.Product
	images     map[int64]entity.ProductImage
	orders     map[int64]entity.Order
	orderLines map[int64]entity.OrderLine
	sales      map[int64]entity.Sale
	saleLines  map[int64]entity.SaleLine
	kardex     map[int64]entity.KardexEntry
	users      map[int64]entity.User
}

func newTables() tables {
	return tables{
		products:   map[int64]entity.Product{},
		images:     map[int64]entity.ProductImage{},
		orders:     map[int64]entity.Order{},
		orderLines: map[int64]entity.OrderLine{},
		sales:      map[int64]entity.Sale{},
		saleLines:  map[int64]entity.SaleLine{},
		kardex:     map[int64]entity.KardexEntry{},
		users:      map[int64]entity.User{},
	}
}

func (t tables) clone() tables {
	c := newTables()
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.images {
		c.images[k] = v
	}
	for k, v := range t.orders {
		c.orders[k] = v
	}
	for k, v := range t.orderLines {
		c.orderLines[k] = v
	}
	for k, v := range t.sales {
		c.sales[k] = v
	}
	for k, v := range t.saleLines {
		c.saleLines[k] = v
	}
	for k, v := range t.kardex {
		c.kardex[k] = v
	}
	for k, v := range t.users {
		c.users[k] = v
	}
	return c
}

// Store base de datos en memoria. Las transacciones se serializan con un mutex global.
type Store struct {
	mu     sync.Mutex
	data   tables
	seq    map[string]int64
	faults map[string][]error

	// Commits cuenta las transacciones confirmadas.
	Commits int
	// Rollbacks cuenta las transacciones revertidas.
	Rollbacks int
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		data:   newTables(),
		seq:    map[string]int64{},
		faults: map[string][]error{},
	}
}

// Fail programa errores para las próximas llamadas a op (p. ej. "sales.Create"), uno por llamada.
func (s *Store) Fail(op string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = append(s.faults[op], errs...)
}

func (s *Store) fault(op string) error {
	q := s.faults[op]
	if len(q) == 0 {
		return nil
	}
	s.faults[op] = q[1:]
	return q[0]
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// Run implementa ports.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	if err := fn(s.repos(true)); err != nil {
		s.data = snapshot
		s.Rollbacks++
		return err
	}
	s.Commits++
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma el mutex).
func (s *Store) Repos() repository.TxRepos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.TxRepos {
	b := base{s: s, inTx: inTx}
	return repository.TxRepos{
		Products: &ProductRepo{b},
		Orders:   &OrderRepo{b},
		Sales:    &SaleRepo{b},
		Kardex:   &KardexRepo{b},
		Users:    &UserRepo{b},
	}
}

type base struct {
	s    *Store
	inTx bool
}

func (b base) do(fn func(t *tables) error) error {
	if !b.inTx {
		b.s.mu.Lock()
		defer b.s.mu.Unlock()
	}
	return fn(&b.s.data)
}

// ── Semillas y consultas para pruebas ─────────────────────────────────────────

// PutProduct inserta o reemplaza un producto. Asigna ID si viene en cero.
func (s *Store) PutProduct(p entity.Product) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID("producto")
	} else if p.ID > s.seq["producto"] {
		s.seq["producto"] = p.ID
	}
	s.data.products[p.ID] = p
	return p.ID
}

// PutUser inserta o reemplaza un usuario. Asigna ID si viene en cero.
func (s *Store) PutUser(u entity.User) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID("usuario")
	} else if u.ID > s.seq["usuario"] {
		s.seq["usuario"] = u.ID
	}
	s.data.users[u.ID] = u
	return u.ID
}

// PutSale inserta una venta tal cual (para preparar numeraciones previas).
func (s *Store) PutSale(v entity.Sale) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == 0 {
		v.ID = s.nextID("venta")
	} else if v.ID > s.seq["venta"] {
		s.seq["venta"] = v.ID
	}
	s.data.sales[v.ID] = v
	return v.ID
}

// Stock devuelve el stock actual del producto (-1 si no existe).
func (s *Store) Stock(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.data.products[productID]
	if !ok {
		return -1
	}
	return p.StockActual
}

// Orders devuelve todos los pedidos ordenados por ID.
func (s *Store) Orders() []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Order, 0, len(s.data.orders))
	for _, o := range s.data.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// OrderLines devuelve todas las líneas de pedido ordenadas por ID.
func (s *Store) OrderLines() []entity.OrderLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.OrderLine, 0, len(s.data.orderLines))
	for _, l := range s.data.orderLines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sales devuelve todas las ventas ordenadas por ID.
func (s *Store) Sales() []entity.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Sale, 0, len(s.data.sales))
	for _, v := range s.data.sales {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SaleLines devuelve todas las líneas de venta ordenadas por ID.
func (s *Store) SaleLines() []entity.SaleLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.SaleLine, 0, len(s.data.saleLines))
	for _, l := range s.data.saleLines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Kardex devuelve todos los asientos del producto en orden de inserción.
func (s *Store) Kardex(productID int64) []entity.KardexEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return kardexFor(&s.data, productID)
}

func kardexFor(t *tables, productID int64) []entity.KardexEntry {
	out := make([]entity.KardexEntry, 0)
	for _, e := range t.kardex {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
