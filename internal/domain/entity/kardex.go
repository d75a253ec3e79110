package entity

import "time"

// KardexMovementType tipo de movimiento del kardex.
type KardexMovementType string

const (
	KardexEntrada KardexMovementType = "Entrada"
	KardexSalida  KardexMovementType = "Salida"
)

// Valid indica si el tipo es uno de los dos admitidos.
func (t KardexMovementType) Valid() bool {
	return t == KardexEntrada || t == KardexSalida
}

// KardexEntry asiento inmutable del kardex de inventario.
// ResultingStock es el stock del producto justo después del movimiento.
type KardexEntry struct {
	ID             int64
	OccurredAt     time.Time
	Type           KardexMovementType
	Quantity       int
	ResultingStock int
	OriginRef      int64 // línea o registro que originó el movimiento
	ProductID      int64
	SupplierID     *int64
}
