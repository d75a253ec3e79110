package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto en catálogo.
const (
	ProductStatusAvailable = "Disponible"
)

// Product representa un producto del catálogo.
// StockActual solo lo modifica el gestor de stock y nunca queda negativo.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	StockActual int
	StockMinimo int
	StockMaximo int
	Status      string
	CategoryID  *int64
	SupplierID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BelowMinimum indica si el stock actual está por debajo del mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.StockMinimo > 0 && p.StockActual < p.StockMinimo
}

// ProductImage vincula una imagen almacenada (URL) con un producto.
type ProductImage struct {
	ID        int64
	ProductID int64
	URL       string
}
