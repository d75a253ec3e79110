package dto

import "github.com/shopspring/decimal"

// RegisterSaleRequest body para POST /sale. Sin idPedido se registra una venta directa.
type RegisterSaleRequest struct {
	IDPedido        *int64            `json:"idPedido,omitempty" validate:"omitempty,gt=0"`
	Detalles        []SaleLineRequest `json:"detalles" validate:"required,min=1,dive"`
	TipoComprobante string            `json:"tipoComprobante,omitempty" validate:"omitempty,oneof=Boleta Factura"`
}

// SaleLineRequest línea de venta con precio unitario explícito.
type SaleLineRequest struct {
	IDProducto     int64           `json:"idProducto" validate:"required,gt=0"`
	Cantidad       int             `json:"cantidad" validate:"required,gt=0"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario" validate:"gte=0"`
}

// SaleResponse venta con totales y líneas.
type SaleResponse struct {
	IDVenta           int64              `json:"idVenta"`
	IDPedido          *int64             `json:"idPedido"`
	FechaVenta        string             `json:"fechaVenta"`
	HoraVenta         string             `json:"horaVenta"`
	Subtotal          decimal.Decimal    `json:"subtotal"`
	IGV               decimal.Decimal    `json:"igv"`
	Total             decimal.Decimal    `json:"total"`
	TipoComprobante   string             `json:"tipoComprobante"`
	NumeroComprobante string             `json:"numeroComprobante"`
	Estado            string             `json:"estado"`
	IDUsuario         int64              `json:"idUsuario"`
	Detalles          []SaleLineResponse `json:"detalles"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	IDDetalleVenta int64           `json:"idDetalleVenta"`
	IDProducto     int64           `json:"idProducto"`
	NombreProducto string          `json:"nombreProducto,omitempty"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
	Importe        decimal.Decimal `json:"importe"`
	IGV            decimal.Decimal `json:"igv"`
	ImporteConIGV  decimal.Decimal `json:"importeConIgv"`
}
