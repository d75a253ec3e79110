package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/pkg/money"
)

// OrderConfirmationSubject asunto del correo de confirmación de pedido.
const OrderConfirmationSubject = "Confirmación de tu pedido"

var orderTmpl = template.Must(template.New("order").Funcs(template.FuncMap{
	"soles": money.Format,
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: auto; border: 1px solid #ddd; padding: 20px;">
    <h2 style="text-align: center; color: #9e1b32;">BOLETA DE COMPRA</h2>
    <p><strong>{{.Store}}</strong></p>
    <p>
      <strong>Cliente:</strong> {{.Job.Cliente}}<br>
      <strong>Correo:</strong> {{.Job.To}}<br>
      <strong>Dirección:</strong> {{.Job.Direccion}}<br>
      <strong>Teléfono:</strong> {{.Job.Telefono}}<br>
      <strong>Fecha:</strong> {{.Job.Order.Fecha}} {{.Job.Order.Hora}}<br>
      <strong>Pedido N°:</strong> {{.Job.Order.IDPedido}}
    </p>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background: #9e1b32; color: #fff;">
          <th style="text-align: left; padding: 6px;">Producto</th>
          <th style="text-align: center; padding: 6px;">Cant.</th>
          <th style="text-align: right; padding: 6px;">Importe</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Job.Order.Detalles}}
        <tr>
          <td style="padding: 6px; border-bottom: 1px solid #eee;">{{.Producto.Nombre}}</td>
          <td style="text-align: center; padding: 6px; border-bottom: 1px solid #eee;">{{.Cantidad}}</td>
          <td style="text-align: right; padding: 6px; border-bottom: 1px solid #eee;">{{soles .Importe}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
    <p style="text-align: right;">
      Subtotal: {{soles .Job.Order.Subtotal}}<br>
      IGV (18%): {{soles .Job.Order.IGV}}<br>
      <strong>Total: {{soles .Job.Order.Total}}</strong>
    </p>
    <p style="text-align: center; font-size: 12px; color: #777;">Gracias por tu compra.</p>
  </div>
</body>
</html>`))

// RenderOrderConfirmation arma el cuerpo HTML del correo de confirmación.
func RenderOrderConfirmation(store string, job dto.OrderConfirmationJob) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Store string
		Job   dto.OrderConfirmationJob
	}{Store: store, Job: job}
	if err := orderTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render confirmación: %w", err)
	}
	return buf.String(), nil
}
