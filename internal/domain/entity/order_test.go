package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

var allStatuses = []entity.OrderStatus{
	entity.OrderStatusPending,
	entity.OrderStatusInProcess,
	entity.OrderStatusDelivered,
	entity.OrderStatusCancelled,
}

func TestOrderStatus_TerminalesSinSalida(t *testing.T) {
	for _, from := range []entity.OrderStatus{entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
		assert.True(t, from.IsTerminal())
		for _, to := range allStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s no debe permitirse", from, to)
		}
	}
}

func TestOrderStatus_NoTerminalesPermitenAvanzar(t *testing.T) {
	for _, from := range []entity.OrderStatus{entity.OrderStatusPending, entity.OrderStatusInProcess} {
		assert.False(t, from.IsTerminal())
		for _, to := range []entity.OrderStatus{entity.OrderStatusInProcess, entity.OrderStatusDelivered, entity.OrderStatusCancelled} {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s debe permitirse", from, to)
		}
	}
}

func TestOrderStatus_NoTerminalesPuedenVolverAPendiente(t *testing.T) {
	assert.True(t, entity.OrderStatusPending.CanTransitionTo(entity.OrderStatusPending))
	assert.True(t, entity.OrderStatusInProcess.CanTransitionTo(entity.OrderStatusPending))
}

func TestParseOrderStatus(t *testing.T) {
	cases := map[string]entity.OrderStatus{
		"Pending":    entity.OrderStatusPending,
		"InProcess":  entity.OrderStatusInProcess,
		"Delivered":  entity.OrderStatusDelivered,
		"Cancelled":  entity.OrderStatusCancelled,
		"Pendiente":  entity.OrderStatusPending,
		"En Proceso": entity.OrderStatusInProcess,
		"Entregado":  entity.OrderStatusDelivered,
		"cancelado":  entity.OrderStatusCancelled,
	}
	for in, want := range cases {
		got, ok := entity.ParseOrderStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "Shipped", "Anulado"} {
		_, ok := entity.ParseOrderStatus(in)
		assert.False(t, ok, in)
	}
}

func TestParseSaleStatus(t *testing.T) {
	assert.Equal(t, entity.SaleStatusVoided, entity.ParseSaleStatus("Anulada"))
	assert.Equal(t, entity.SaleStatusVoided, entity.ParseSaleStatus("Voided"))
	assert.Equal(t, entity.SaleStatusCompleted, entity.ParseSaleStatus("Completada"))
}
