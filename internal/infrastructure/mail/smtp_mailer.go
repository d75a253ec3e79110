// Package mail envía correos transaccionales por SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"

	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/pkg/config"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// SMTPMailer envía correos HTML con autenticación PLAIN (Gmail en puerto 587 con STARTTLS).
type SMTPMailer struct {
	host string
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer construye el mailer desde la configuración.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.Host,
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		from: cfg.From,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

// Send envía el cuerpo HTML al destinatario. net/smtp no acepta contexto; si ya expiró no se intenta.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)

	if err := e.Send(m.addr, m.auth); err != nil {
		return fmt.Errorf("mailer: enviar a %s: %w", to, err)
	}
	return nil
}
