// Package inventory contiene el gestor de stock, el escritor del kardex y la consulta del kardex.
// StockManager y LedgerWriter se construyen siempre sobre repositorios atados a la transacción
// del llamador; nunca hacen Commit por sí mismos.
package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// StockManager lee y escribe el stock actual de los productos.
type StockManager struct {
	products repository.ProductRepository
}

// NewStockManager construye el gestor sobre el repositorio de productos de la transacción.
func NewStockManager(products repository.ProductRepository) *StockManager {
	return &StockManager{products: products}
}

// Adjust aplica delta al stock del producto con la fila bloqueada (SELECT FOR UPDATE)
// y devuelve el stock resultante. Nunca deja el stock en negativo.
func (m *StockManager) Adjust(ctx context.Context, productID int64, delta int) (int, error) {
	p, err := m.products.GetForUpdate(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("bloquear producto %d: %w", productID, err)
	}
	if p == nil {
		return 0, domain.ErrProductNotFound
	}
	next := p.StockActual + delta
	if next < 0 {
		return 0, fmt.Errorf("%w para: %s", domain.ErrInsufficientStock, p.Name)
	}
	if err := m.products.UpdateStock(ctx, productID, next); err != nil {
		return 0, fmt.Errorf("actualizar stock %d: %w", productID, err)
	}
	return next, nil
}

// Reserve descuenta qty del stock. Falla con ErrInsufficientStock si no alcanza.
func (m *StockManager) Reserve(ctx context.Context, productID int64, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return m.Adjust(ctx, productID, -qty)
}

// Release devuelve qty al stock sin condiciones (cancelaciones y devoluciones).
func (m *StockManager) Release(ctx context.Context, productID int64, qty int) (int, error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return m.Adjust(ctx, productID, qty)
}
