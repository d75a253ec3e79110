package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
	"github.com/jhoicas/morvic-api/internal/infrastructure/mail"
)

// EmailWorker envía el correo de confirmación de pedido.
type EmailWorker struct {
	mailer ports.Mailer
	users  repository.UserRepository
	store  string
	log    zerolog.Logger
}

// NewEmailWorker construye el worker. users resuelve el destinatario a partir de job.IDUsuario.
func NewEmailWorker(mailer ports.Mailer, users repository.UserRepository, store string, log zerolog.Logger) *EmailWorker {
	return &EmailWorker{mailer: mailer, users: users, store: store, log: log}
}

// Process decodifica la confirmación, arma el HTML y lo envía.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job dto.OrderConfirmationJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("email_worker: payload inválido: %w", err)
	}
	return w.Send(ctx, job)
}

// Send entrega una confirmación ya decodificada. Sin destinatario no hay nada que enviar.
func (w *EmailWorker) Send(ctx context.Context, job dto.OrderConfirmationJob) error {
	if err := w.resolveRecipient(ctx, &job); err != nil {
		return err
	}
	if job.To == "" {
		w.log.Warn().Int64("id_pedido", job.Order.IDPedido).Msg("pedido sin correo de destino, se omite")
		return nil
	}
	body, err := mail.RenderOrderConfirmation(w.store, job)
	if err != nil {
		return err
	}
	if err := w.mailer.Send(ctx, job.To, mail.OrderConfirmationSubject, body); err != nil {
		return err
	}
	w.log.Info().Int64("id_pedido", job.Order.IDPedido).Str("to", job.To).Msg("confirmación enviada")
	return nil
}

// resolveRecipient completa correo y datos de contacto desde el usuario dueño del pedido.
func (w *EmailWorker) resolveRecipient(ctx context.Context, job *dto.OrderConfirmationJob) error {
	if job.To != "" || job.IDUsuario <= 0 || w.users == nil {
		return nil
	}
	user, err := w.users.GetByID(ctx, job.IDUsuario)
	if err != nil {
		return fmt.Errorf("email_worker: leer usuario %d: %w", job.IDUsuario, err)
	}
	if user == nil {
		return nil
	}
	job.To = user.Email
	job.Cliente = user.FullName()
	job.Direccion = user.Address
	job.Telefono = user.Phone
	return nil
}

var _ ports.OrderNotifier = (*DirectNotifier)(nil)

// DirectNotifier envía la confirmación en una goroutine propia, sin cola.
// Se usa cuando Redis no está disponible al arrancar.
type DirectNotifier struct {
	worker *EmailWorker
	log    zerolog.Logger
	wg     sync.WaitGroup
}

// NewDirectNotifier construye el notificador sin cola.
func NewDirectNotifier(worker *EmailWorker, log zerolog.Logger) *DirectNotifier {
	return &DirectNotifier{worker: worker, log: log}
}

// NotifyOrderCreated dispara el envío y retorna de inmediato.
func (n *DirectNotifier) NotifyOrderCreated(ctx context.Context, job dto.OrderConfirmationJob) error {
	ctx = context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.worker.Send(ctx, job); err != nil {
			n.log.Error().Err(err).Int64("id_pedido", job.Order.IDPedido).Msg("no se pudo enviar la confirmación")
		}
	}()
	return nil
}

// Wait espera los envíos en curso hasta que terminen o venza ctx.
func (n *DirectNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
