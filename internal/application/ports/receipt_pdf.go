package ports

import (
	"context"

	"github.com/jhoicas/morvic-api/internal/application/dto"
)

// ReceiptPDFGenerator genera la representación impresa de un comprobante de venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, receipt dto.SaleResponse, storeName string) ([]byte, error)
}
