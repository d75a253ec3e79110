package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estado del pedido. Delivered y Cancelled son terminales.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusInProcess OrderStatus = "InProcess"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// orderTransitions tabla explícita de transiciones permitidas.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPending, OrderStatusInProcess, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusInProcess: {OrderStatusPending, OrderStatusInProcess, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: nil,
	OrderStatusCancelled: nil,
}

// legacyOrderStatus valores históricos en español aceptados en la entrada.
var legacyOrderStatus = map[string]OrderStatus{
	"pendiente":  OrderStatusPending,
	"en proceso": OrderStatusInProcess,
	"entregado":  OrderStatusDelivered,
	"cancelado":  OrderStatusCancelled,
}

// ParseOrderStatus normaliza el estado recibido. ok=false si no es un estado legal.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(strings.TrimSpace(s))
	if _, ok := orderTransitions[st]; ok {
		return st, true
	}
	if legacy, ok := legacyOrderStatus[strings.ToLower(strings.TrimSpace(s))]; ok {
		return legacy, true
	}
	return "", false
}

// IsTerminal indica si el estado ya no admite transiciones.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo consulta la tabla de transiciones.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order representa la cabecera de un pedido.
type Order struct {
	ID                 int64
	Fecha              string // YYYY-MM-DD enviado por el cliente
	Hora               string // HH:MM:SS
	PaymentMethod      string
	Subtotal           decimal.Decimal
	IGV                decimal.Decimal
	Total              decimal.Decimal
	Status             OrderStatus
	DeliveryAddress    string
	DeliveryDate       string
	PickupResponsible1 string
	PickupResponsible2 string
	DeliveryType       string
	UserID             int64
	CreatedAt          time.Time
}

// OrderLine línea de detalle de un pedido. Inmutable una vez creada.
type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	Amount    decimal.Decimal // importe de la línea
}
