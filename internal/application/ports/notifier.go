package ports

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/application/dto"
)

// OrderNotifier encola el correo de confirmación de un pedido ya confirmado.
// Se invoca después del Commit; un error aquí solo se registra, nunca revierte el pedido.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, job dto.OrderConfirmationJob) error
}

// Mailer envía un correo HTML a un destinatario.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
