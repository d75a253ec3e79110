package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/infrastructure/pdf"
)

func TestGenerateReceiptPDF(t *testing.T) {
	orderID := int64(12)
	receipt := dto.SaleResponse{
		IDVenta:           1,
		IDPedido:          &orderID,
		FechaVenta:        "2024-05-01",
		HoraVenta:         "10:30:00",
		Subtotal:          decimal.RequireFromString("100.00"),
		IGV:               decimal.RequireFromString("18.00"),
		Total:             decimal.RequireFromString("118.00"),
		TipoComprobante:   "Boleta",
		NumeroComprobante: "B001-00001",
		Estado:            "Completed",
		Detalles: []dto.SaleLineResponse{{
			IDProducto:     3,
			NombreProducto: "Polo algodón",
			Cantidad:       2,
			PrecioUnitario: decimal.RequireFromString("50.00"),
			Importe:        decimal.RequireFromString("100.00"),
			IGV:            decimal.RequireFromString("18.00"),
			ImporteConIGV:  decimal.RequireFromString("118.00"),
		}},
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateReceiptPDF(context.Background(), receipt, "Morvic")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida debe ser un PDF")
}
