package dto

import "github.com/shopspring/decimal"

// SaleListItemResponse fila del listado de ventas (sin líneas).
type SaleListItemResponse struct {
	IDVenta           int64           `json:"idVenta"`
	IDPedido          *int64          `json:"idPedido"`
	FechaVenta        string          `json:"fechaVenta"`
	HoraVenta         string          `json:"horaVenta"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	IGV               decimal.Decimal `json:"igv"`
	Total             decimal.Decimal `json:"total"`
	TipoComprobante   string          `json:"tipoComprobante"`
	NumeroComprobante string          `json:"numeroComprobante"`
	Estado            string          `json:"estado"`
	IDUsuario         int64           `json:"idUsuario"`
	Cliente           string          `json:"cliente"`
	Correo            string          `json:"correo"`
}

// SalesSummaryResponse total y cantidad de ventas completadas, con el desglose mensual.
type SalesSummaryResponse struct {
	TotalVentas    decimal.Decimal        `json:"totalVentas"`
	CantidadVentas int                    `json:"cantidadVentas"`
	PorMes         []MonthlySalesResponse `json:"porMes"`
}

// MonthlySalesResponse agregado de un mes. Mes en formato YYYY-MM, Etiqueta legible ("Mayo 2024").
type MonthlySalesResponse struct {
	Mes            string          `json:"mes"`
	Etiqueta       string          `json:"etiqueta"`
	CantidadVentas int             `json:"cantidadVentas"`
	TotalSubtotal  decimal.Decimal `json:"totalSubtotal"`
	TotalIGV       decimal.Decimal `json:"totalIgv"`
	TotalVentas    decimal.Decimal `json:"totalVentas"`
}

// MonthlyOrdersResponse pedidos registrados en un mes.
type MonthlyOrdersResponse struct {
	Mes          string `json:"mes"`
	Etiqueta     string `json:"etiqueta"`
	TotalPedidos int    `json:"totalPedidos"`
}
