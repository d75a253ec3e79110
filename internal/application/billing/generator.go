// Package billing genera ventas a partir de pedidos o de líneas sueltas, asigna el número
// de comprobante y gestiona la anulación.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/morvic-api/internal/domain"
	dombilling "github.com/jhoicas/morvic-api/internal/domain/billing"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// LineInput línea de venta directa: el importe se calcula como round2(precio × cantidad).
type LineInput struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// StandaloneInput datos de una venta sin pedido de origen (o con pedido, registrada a mano).
type StandaloneInput struct {
	OrderID     *int64
	UserID      int64
	ReceiptType string
	Lines       []LineInput
}

// Receipt venta persistida con sus líneas y los nombres de producto para la respuesta.
type Receipt struct {
	Sale  *entity.Sale
	Lines []*entity.SaleLine
	Names map[int64]string
}

// SaleGenerator materializa ventas. No mueve stock: el stock se descuenta al crear el pedido.
type SaleGenerator struct {
	numbering ReceiptNumbering
	now       func() time.Time
}

// NewSaleGenerator construye el generador.
func NewSaleGenerator() *SaleGenerator {
	return &SaleGenerator{now: time.Now}
}

type draftLine struct {
	productID int64
	quantity  int
	unitPrice decimal.Decimal
	totals    dombilling.LineTotals
}

// FromOrder crea la venta de un pedido a partir de sus líneas guardadas; el importe de cada
// línea es el del pedido, no se recalcula con el precio de catálogo.
func (g *SaleGenerator) FromOrder(ctx context.Context, repos repository.TxRepos, order *entity.Order) (*Receipt, error) {
	lines, err := repos.Orders.ListLines(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("leer líneas del pedido %d: %w", order.ID, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: el pedido %d no tiene líneas", domain.ErrInvalidInput, order.ID)
	}
	names := make(map[int64]string, len(lines))
	drafts := make([]draftLine, 0, len(lines))
	for _, l := range lines {
		p, err := repos.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("leer producto %d: %w", l.ProductID, err)
		}
		if p != nil {
			names[p.ID] = p.Name
		}
		drafts = append(drafts, draftLine{
			productID: l.ProductID,
			quantity:  l.Quantity,
			unitPrice: dombilling.UnitPrice(l.Amount, l.Quantity),
			totals:    dombilling.ComputeLine(l.Amount),
		})
	}
	orderID := order.ID
	return g.persist(ctx, repos, &orderID, order.UserID, entity.ReceiptTypeBoleta, drafts, names)
}

// Standalone crea una venta desde líneas del llamador. Todos los productos deben existir.
func (g *SaleGenerator) Standalone(ctx context.Context, repos repository.TxRepos, in StandaloneInput) (*Receipt, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	receiptType := in.ReceiptType
	if receiptType == "" {
		receiptType = entity.ReceiptTypeBoleta
	}
	names := make(map[int64]string, len(in.Lines))
	drafts := make([]draftLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Quantity <= 0 || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		p, err := repos.Products.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, fmt.Errorf("leer producto %d: %w", l.ProductID, err)
		}
		if p == nil {
			return nil, domain.ErrProductNotFound
		}
		names[p.ID] = p.Name
		amount := dombilling.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
		drafts = append(drafts, draftLine{
			productID: l.ProductID,
			quantity:  l.Quantity,
			unitPrice: l.UnitPrice,
			totals:    dombilling.ComputeLine(amount),
		})
	}
	return g.persist(ctx, repos, in.OrderID, in.UserID, receiptType, drafts, names)
}

func (g *SaleGenerator) persist(
	ctx context.Context,
	repos repository.TxRepos,
	orderID *int64,
	userID int64,
	receiptType string,
	drafts []draftLine,
	names map[int64]string,
) (*Receipt, error) {
	lineTotals := make([]dombilling.LineTotals, 0, len(drafts))
	for _, d := range drafts {
		lineTotals = append(lineTotals, d.totals)
	}
	totals := dombilling.ComputeSale(lineTotals)

	number, err := g.numbering.Next(ctx, repos.Sales)
	if err != nil {
		return nil, err
	}

	sale := &entity.Sale{
		OrderID:       orderID,
		SoldAt:        g.now(),
		Subtotal:      totals.Subtotal,
		IGV:           totals.IGV,
		Total:         totals.Total,
		ReceiptType:   receiptType,
		ReceiptNumber: number,
		Status:        entity.SaleStatusCompleted,
		UserID:        userID,
	}
	if err := repos.Sales.Create(ctx, sale); err != nil {
		return nil, err
	}

	lines := make([]*entity.SaleLine, 0, len(drafts))
	for _, d := range drafts {
		line := &entity.SaleLine{
			SaleID:        sale.ID,
			ProductID:     d.productID,
			Quantity:      d.quantity,
			UnitPrice:     d.unitPrice,
			Amount:        d.totals.Amount,
			IGV:           d.totals.IGV,
			AmountWithIGV: d.totals.AmountWithIGV,
		}
		if err := repos.Sales.CreateLine(ctx, line); err != nil {
			return nil, fmt.Errorf("guardar línea de venta: %w", err)
		}
		lines = append(lines, line)
	}
	return &Receipt{Sale: sale, Lines: lines, Names: names}, nil
}
