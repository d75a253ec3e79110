// Package order implementa el flujo de pedidos: alta con reserva de stock, transiciones de
// estado (cancelación con devolución de stock, entrega con generación de venta) y consulta.
package order

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/application/inventory"
	"github.com/jhoicas/morvic-api/internal/application/ports"
	"github.com/jhoicas/morvic-api/internal/domain"
	dombilling "github.com/jhoicas/morvic-api/internal/domain/billing"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
	"github.com/jhoicas/morvic-api/internal/domain/repository"
)

// UseCase casos de uso de pedidos.
type UseCase struct {
	tx        ports.TxRunner
	reads     repository.TxRepos
	generator *billing.SaleGenerator
	notifier  ports.OrderNotifier
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso. notifier puede ser nil (sin correo de confirmación).
func NewUseCase(
	tx ports.TxRunner,
	reads repository.TxRepos,
	generator *billing.SaleGenerator,
	notifier ports.OrderNotifier,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		tx:        tx,
		reads:     reads,
		generator: generator,
		notifier:  notifier,
		log:       log,
	}
}

// Create registra el pedido, sus líneas, el descuento de stock y los asientos Salida en una
// sola transacción. Cualquier línea que falle revierte el pedido completo.
// El dueño es pedido.usuario.idUsuario si viene informado; si no, el actor autenticado.
func (uc *UseCase) Create(ctx context.Context, actorID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.DetallesPedido) == 0 || !in.Pedido.Total.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	for _, d := range in.DetallesPedido {
		if d.Producto.IDProducto <= 0 || d.Cantidad <= 0 || d.Importe.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	ownerID := actorID
	if in.Pedido.Usuario != nil && in.Pedido.Usuario.IDUsuario > 0 {
		ownerID = in.Pedido.Usuario.IDUsuario
	}

	subtotal, igv := dombilling.SplitGrossTotal(in.Pedido.Total)
	h := in.Pedido

	var (
		order *entity.Order
		lines []*entity.OrderLine
		names map[int64]string
	)
	err := uc.tx.Run(ctx, func(repos repository.TxRepos) error {
		order = &entity.Order{
			Fecha:              h.Fecha,
			Hora:               h.Hora,
			PaymentMethod:      h.MetodoPago,
			Subtotal:           subtotal,
			IGV:                igv,
			Total:              dombilling.Round2(h.Total),
			Status:             entity.OrderStatusPending,
			DeliveryAddress:    h.DireccionEntrega,
			DeliveryDate:       h.FechaEntrega,
			PickupResponsible1: h.ResponsableRecojo1,
			PickupResponsible2: h.ResponsableRecojo2,
			DeliveryType:       h.TipoEntrega,
			UserID:             ownerID,
		}
		if err := repos.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("guardar pedido: %w", err)
		}

		stock := inventory.NewStockManager(repos.Products)
		ledger := inventory.NewLedgerWriter(repos.Kardex)
		lines = make([]*entity.OrderLine, 0, len(in.DetallesPedido))
		names = make(map[int64]string, len(in.DetallesPedido))

		for _, d := range in.DetallesPedido {
			productID := d.Producto.IDProducto
			next, err := stock.Reserve(ctx, productID, d.Cantidad)
			if err != nil {
				return err
			}
			line := &entity.OrderLine{
				OrderID:   order.ID,
				ProductID: productID,
				Quantity:  d.Cantidad,
				Amount:    dombilling.Round2(d.Importe),
			}
			if err := repos.Orders.CreateLine(ctx, line); err != nil {
				return fmt.Errorf("guardar línea de pedido: %w", err)
			}
			if _, err := ledger.Record(ctx, inventory.LedgerRecord{
				ProductID:      productID,
				Type:           entity.KardexSalida,
				Quantity:       d.Cantidad,
				ResultingStock: next,
				OriginRef:      line.ID,
			}); err != nil {
				return err
			}
			lines = append(lines, line)
			if d.Producto.Nombre != "" {
				names[productID] = d.Producto.Nombre
			} else if p, err := repos.Products.GetByID(ctx, productID); err == nil && p != nil {
				names[productID] = p.Name
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := dto.OrderToResponse(order, lines, names)
	uc.log.Info().Int64("order_id", order.ID).Int("lines", len(lines)).Msg("pedido registrado")
	uc.notifyCreated(ctx, ownerID, out)
	return &out, nil
}

// notifyCreated encola el correo de confirmación. Se ejecuta tras el Commit y nunca falla el pedido;
// no lee nada de la BD para no demorar la respuesta.
func (uc *UseCase) notifyCreated(ctx context.Context, ownerID int64, out dto.OrderResponse) {
	if uc.notifier == nil {
		return
	}
	job := dto.OrderConfirmationJob{IDUsuario: ownerID, Order: out}
	if err := uc.notifier.NotifyOrderCreated(ctx, job); err != nil {
		uc.log.Error().Err(err).Int64("order_id", out.IDPedido).Msg("no se pudo encolar el correo de confirmación")
	}
}

// UpdateStatus aplica una transición de estado con el pedido bloqueado.
//   - Cancelled: devuelve el stock de cada línea y registra un asiento Entrada por línea.
//   - Delivered: genera la venta del pedido en la misma transacción.
//   - Pending / InProcess: solo cambia el estado.
func (uc *UseCase) UpdateStatus(ctx context.Context, orderID int64, estado string) (*dto.UpdateOrderStatusResponse, error) {
	next, ok := entity.ParseOrderStatus(estado)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}
	if orderID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	var saleID int64
	run := uc.tx.Run
	if next == entity.OrderStatusDelivered {
		run = func(ctx context.Context, fn func(repository.TxRepos) error) error {
			return billing.RunWithReceiptRetry(ctx, uc.tx, fn)
		}
	}
	err := run(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("leer pedido: %w", err)
		}
		if order == nil {
			return domain.ErrOrderNotFound
		}
		if !order.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: no se puede modificar un pedido en estado %s", domain.ErrTerminalState, order.Status)
		}

		switch next {
		case entity.OrderStatusCancelled:
			if err := uc.releaseLines(ctx, repos, order.ID); err != nil {
				return err
			}
		case entity.OrderStatusDelivered:
			receipt, err := uc.generator.FromOrder(ctx, repos, order)
			if err != nil {
				return err
			}
			saleID = receipt.Sale.ID
		}

		if err := repos.Orders.UpdateStatus(ctx, order.ID, next); err != nil {
			return fmt.Errorf("actualizar estado: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := uc.log.Info().Int64("order_id", orderID).Str("status", string(next))
	if saleID != 0 {
		ev = ev.Int64("sale_id", saleID)
	}
	ev.Msg("estado de pedido actualizado")

	return &dto.UpdateOrderStatusResponse{
		Message:  fmt.Sprintf("Pedido actualizado a %s", next),
		IDPedido: orderID,
		Estado:   string(next),
	}, nil
}

func (uc *UseCase) releaseLines(ctx context.Context, repos repository.TxRepos, orderID int64) error {
	lines, err := repos.Orders.ListLines(ctx, orderID)
	if err != nil {
		return fmt.Errorf("leer líneas del pedido: %w", err)
	}
	stock := inventory.NewStockManager(repos.Products)
	ledger := inventory.NewLedgerWriter(repos.Kardex)
	for _, l := range lines {
		if _, err := inventory.Move(ctx, stock, ledger, inventory.Movement{
			ProductID: l.ProductID,
			Type:      entity.KardexEntrada,
			Quantity:  l.Quantity,
			OriginRef: l.ID,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Get devuelve el pedido con sus líneas.
func (uc *UseCase) Get(ctx context.Context, orderID int64) (*dto.OrderResponse, error) {
	order, err := uc.reads.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer pedido: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	lines, err := uc.reads.Orders.ListLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("leer líneas del pedido: %w", err)
	}
	names := make(map[int64]string, len(lines))
	for _, l := range lines {
		if p, pErr := uc.reads.Products.GetByID(ctx, l.ProductID); pErr == nil && p != nil {
			names[p.ID] = p.Name
		}
	}
	out := dto.OrderToResponse(order, lines, names)
	return &out, nil
}
