package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus estado de la venta. Voided es irreversible.
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "Completed"
	SaleStatusVoided    SaleStatus = "Voided"
)

// ParseSaleStatus normaliza valores almacenados, incluidos los históricos en español.
func ParseSaleStatus(s string) SaleStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "voided", "anulada":
		return SaleStatusVoided
	default:
		return SaleStatusCompleted
	}
}

// Tipos de comprobante.
const (
	ReceiptTypeBoleta  = "Boleta"
	ReceiptTypeFactura = "Factura"
)

// Sale cabecera de una venta. OrderID es nil para ventas sin pedido de origen.
type Sale struct {
	ID            int64
	OrderID       *int64
	SoldAt        time.Time
	Subtotal      decimal.Decimal
	IGV           decimal.Decimal
	Total         decimal.Decimal
	ReceiptType   string
	ReceiptNumber string
	Status        SaleStatus
	UserID        int64
}

// SaleLine detalle de venta. Inmutable una vez creada.
type SaleLine struct {
	ID            int64
	SaleID        int64
	ProductID     int64
	Quantity      int
	UnitPrice     decimal.Decimal
	Amount        decimal.Decimal
	IGV           decimal.Decimal
	AmountWithIGV decimal.Decimal
}
