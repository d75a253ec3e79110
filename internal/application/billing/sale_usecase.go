package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// SaleUseCase registro, anulación y consulta de ventas.
type SaleUseCase struct {
	tx        ports.TxRunner
	reads     repository.TxRepos
	generator *SaleGenerator
	pdf       ports.ReceiptPDFGenerator
	storeName string
	log       zerolog.Logger
}

// NewSaleUseCase construye el caso de uso. reads son repositorios fuera de transacción para consultas.
func NewSaleUseCase(
	tx ports.TxRunner,
	reads repository.TxRepos,
	generator *SaleGenerator,
	pdf ports.ReceiptPDFGenerator,
	storeName string,
	log zerolog.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		tx:        tx,
		reads:     reads,
		generator: generator,
		pdf:       pdf,
		storeName: storeName,
		log:       log,
	}
}

// Register registra una venta. Con idPedido el pedido debe existir y no estar en estado
// terminal; queda Delivered en la misma transacción. Sin idPedido el dueño es el actor.
func (uc *SaleUseCase) Register(ctx context.Context, actorID int64, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Detalles) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]LineInput, 0, len(in.Detalles))
	for _, d := range in.Detalles {
		if d.IDProducto <= 0 || d.Cantidad <= 0 || d.PrecioUnitario.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		lines = append(lines, LineInput{ProductID: d.IDProducto, Quantity: d.Cantidad, UnitPrice: d.PrecioUnitario})
	}
	if in.TipoComprobante != "" && in.TipoComprobante != entity.ReceiptTypeBoleta && in.TipoComprobante != entity.ReceiptTypeFactura {
		return nil, domain.ErrInvalidInput
	}

	var receipt *Receipt
	err := RunWithReceiptRetry(ctx, uc.tx, func(repos repository.TxRepos) error {
		input := StandaloneInput{UserID: actorID, ReceiptType: in.TipoComprobante, Lines: lines}
		if in.IDPedido != nil {
			order, err := repos.Orders.GetForUpdate(ctx, *in.IDPedido)
			if err != nil {
				return fmt.Errorf("leer pedido: %w", err)
			}
			if order == nil {
				return domain.ErrOrderNotFound
			}
			if order.Status.IsTerminal() {
				return fmt.Errorf("%w: pedido %d en estado %s", domain.ErrTerminalState, order.ID, order.Status)
			}
			input.OrderID = &order.ID
			input.UserID = order.UserID
		}
		r, err := uc.generator.Standalone(ctx, repos, input)
		if err != nil {
			return err
		}
		if in.IDPedido != nil {
			if err := repos.Orders.UpdateStatus(ctx, *in.IDPedido, entity.OrderStatusDelivered); err != nil {
				return fmt.Errorf("marcar pedido entregado: %w", err)
			}
		}
		receipt = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int64("sale_id", receipt.Sale.ID).
		Str("receipt", receipt.Sale.ReceiptNumber).
		Str("total", receipt.Sale.Total.StringFixed(2)).
		Msg("venta registrada")
	out := dto.SaleToResponse(receipt.Sale, receipt.Lines, receipt.Names)
	return &out, nil
}

// Void anula una venta y devuelve el pedido vinculado a Pending. El stock no se restituye:
// se descontó al crear el pedido y solo vuelve si el pedido se cancela.
func (uc *SaleUseCase) Void(ctx context.Context, saleID int64) error {
	if saleID <= 0 {
		return domain.ErrInvalidInput
	}
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		sale, err := repos.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return fmt.Errorf("leer venta: %w", err)
		}
		if sale == nil {
			return domain.ErrSaleNotFound
		}
		if sale.Status == entity.SaleStatusVoided {
			return domain.ErrAlreadyVoided
		}
		if err := repos.Sales.UpdateStatus(ctx, saleID, entity.SaleStatusVoided); err != nil {
			return fmt.Errorf("anular venta: %w", err)
		}
		if sale.OrderID != nil {
			if err := repos.Orders.UpdateStatus(ctx, *sale.OrderID, entity.OrderStatusPending); err != nil {
				return fmt.Errorf("reabrir pedido: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("sale_id", saleID).Msg("venta anulada")
	return nil
}

// Get devuelve la venta con sus líneas.
func (uc *SaleUseCase) Get(ctx context.Context, saleID int64) (*dto.SaleResponse, error) {
	sale, err := uc.reads.Sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("leer venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrSaleNotFound
	}
	lines, err := uc.reads.Sales.ListLines(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("leer líneas de venta: %w", err)
	}
	names := make(map[int64]string, len(lines))
	for _, l := range lines {
		if _, ok := names[l.ProductID]; ok {
			continue
		}
		if p, pErr := uc.reads.Products.GetByID(ctx, l.ProductID); pErr == nil && p != nil {
			names[p.ID] = p.Name
		}
	}
	out := dto.SaleToResponse(sale, lines, names)
	return &out, nil
}

// ReceiptPDF genera el comprobante impreso de la venta y el nombre de archivo sugerido.
func (uc *SaleUseCase) ReceiptPDF(ctx context.Context, saleID int64) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	sale, err := uc.Get(ctx, saleID)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.pdf.GenerateReceiptPDF(ctx, *sale, uc.storeName)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return doc, fmt.Sprintf("comprobante_%s.pdf", sale.NumeroComprobante), nil
}
