package dto

import (
	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// OrderToResponse proyecta un pedido y sus líneas. names resuelve el nombre de cada producto;
// puede ser nil.
func OrderToResponse(o *entity.Order, lines []*entity.OrderLine, names map[int64]string) OrderResponse {
	out := OrderResponse{
		IDPedido:           o.ID,
		Fecha:              o.Fecha,
		Hora:               o.Hora,
		MetodoPago:         o.PaymentMethod,
		Subtotal:           o.Subtotal,
		IGV:                o.IGV,
		Total:              o.Total,
		Estado:             string(o.Status),
		DireccionEntrega:   o.DeliveryAddress,
		FechaEntrega:       o.DeliveryDate,
		ResponsableRecojo1: o.PickupResponsible1,
		ResponsableRecojo2: o.PickupResponsible2,
		TipoEntrega:        o.DeliveryType,
		Usuario:            UserRef{IDUsuario: o.UserID},
		Detalles:           make([]OrderLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Detalles = append(out.Detalles, OrderLineResponse{
			ID:       l.ID,
			Cantidad: l.Quantity,
			Importe:  l.Amount,
			Producto: ProductRef{IDProducto: l.ProductID, Nombre: names[l.ProductID]},
		})
	}
	return out
}

// SaleToResponse proyecta una venta y sus líneas.
func SaleToResponse(s *entity.Sale, lines []*entity.SaleLine, names map[int64]string) SaleResponse {
	out := SaleResponse{
		IDVenta:           s.ID,
		IDPedido:          s.OrderID,
		FechaVenta:        s.SoldAt.Format(dateLayout),
		HoraVenta:         s.SoldAt.Format(timeLayout),
		Subtotal:          s.Subtotal,
		IGV:               s.IGV,
		Total:             s.Total,
		TipoComprobante:   s.ReceiptType,
		NumeroComprobante: s.ReceiptNumber,
		Estado:            string(s.Status),
		IDUsuario:         s.UserID,
		Detalles:          make([]SaleLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		out.Detalles = append(out.Detalles, SaleLineResponse{
			IDDetalleVenta: l.ID,
			IDProducto:     l.ProductID,
			NombreProducto: names[l.ProductID],
			Cantidad:       l.Quantity,
			PrecioUnitario: l.UnitPrice,
			Importe:        l.Amount,
			IGV:            l.IGV,
			ImporteConIGV:  l.AmountWithIGV,
		})
	}
	return out
}

// KardexToResponse proyecta un asiento del kardex.
func KardexToResponse(e *entity.KardexEntry) KardexEntryResponse {
	return KardexEntryResponse{
		IDKardex:        e.ID,
		FechaMovimiento: e.OccurredAt.Format(dateLayout),
		HoraMovimiento:  e.OccurredAt.Format(timeLayout),
		TipoMovimiento:  string(e.Type),
		Cantidad:        e.Quantity,
		StockResultante: e.ResultingStock,
		IDOrigen:        e.OriginRef,
		IDProducto:      e.ProductID,
		IDProveedor:     e.SupplierID,
		OccurredAt:      e.OccurredAt,
	}
}

// UserToResponse proyecta un usuario sin credenciales.
func UserToResponse(u *entity.User) UserResponse {
	return UserResponse{
		IDUsuario: u.ID,
		Nombre:    u.Name,
		Apellido:  u.LastName,
		Correo:    u.Email,
		Rol:       u.Role,
	}
}
