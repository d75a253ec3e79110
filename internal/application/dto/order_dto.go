package dto

import "github.com/shopspring/decimal"

// CreateOrderRequest body para POST /order.
type CreateOrderRequest struct {
	Pedido         OrderHeaderRequest `json:"pedido" validate:"required"`
	DetallesPedido []OrderLineRequest `json:"detallesPedido" validate:"required,min=1,dive"`
}

// OrderHeaderRequest cabecera del pedido. Total incluye IGV.
type OrderHeaderRequest struct {
	Fecha              string          `json:"fecha" validate:"required,datetime=2006-01-02"`
	Hora               string          `json:"hora" validate:"required"`
	MetodoPago         string          `json:"metodoPago" validate:"required,max=50"`
	Total              decimal.Decimal `json:"total" validate:"gt=0"`
	Estado             string          `json:"estado,omitempty"`
	DireccionEntrega   string          `json:"direccionEntrega,omitempty" validate:"max=255"`
	FechaEntrega       string          `json:"fechaEntrega,omitempty"`
	ResponsableRecojo1 string          `json:"responsableRecojo1,omitempty" validate:"max=100"`
	ResponsableRecojo2 string          `json:"responsableRecojo2,omitempty" validate:"max=100"`
	TipoEntrega        string          `json:"tipoEntrega,omitempty" validate:"max=50"`
	Usuario            *UserRef        `json:"usuario,omitempty"`
}

// UserRef referencia a un usuario dentro de otro recurso.
type UserRef struct {
	IDUsuario int64 `json:"idUsuario"`
}

// OrderLineRequest línea del pedido: producto, cantidad e importe de la línea.
type OrderLineRequest struct {
	Producto ProductRef      `json:"producto" validate:"required"`
	Cantidad int             `json:"cantidad" validate:"required,gt=0"`
	Importe  decimal.Decimal `json:"importe" validate:"gte=0"`
}

// ProductRef referencia a un producto del catálogo.
type ProductRef struct {
	IDProducto int64  `json:"idProducto" validate:"required,gt=0"`
	Nombre     string `json:"nombre,omitempty"`
}

// UpdateOrderStatusRequest body para PUT /order/:id/status.
type UpdateOrderStatusRequest struct {
	Estado string `json:"estado" validate:"required"`
}

// UpdateOrderStatusResponse confirma la transición aplicada.
type UpdateOrderStatusResponse struct {
	Message  string `json:"message"`
	IDPedido int64  `json:"idPedido"`
	Estado   string `json:"estado"`
}

// OrderResponse pedido con sus líneas.
type OrderResponse struct {
	IDPedido           int64               `json:"idPedido"`
	Fecha              string              `json:"fecha"`
	Hora               string              `json:"hora"`
	MetodoPago         string              `json:"metodoPago"`
	Subtotal           decimal.Decimal     `json:"subtotal"`
	IGV                decimal.Decimal     `json:"igv"`
	Total              decimal.Decimal     `json:"total"`
	Estado             string              `json:"estado"`
	DireccionEntrega   string              `json:"direccionEntrega"`
	FechaEntrega       string              `json:"fechaEntrega"`
	ResponsableRecojo1 string              `json:"responsableRecojo1"`
	ResponsableRecojo2 string              `json:"responsableRecojo2"`
	TipoEntrega        string              `json:"tipoEntrega"`
	Usuario            UserRef             `json:"usuario"`
	Detalles           []OrderLineResponse `json:"detalles"`
}

// OrderLineResponse línea de pedido en respuestas.
type OrderLineResponse struct {
	ID       int64           `json:"id"`
	Cantidad int             `json:"cantidad"`
	Importe  decimal.Decimal `json:"importe"`
	Producto ProductRef      `json:"producto"`
}

// OrderConfirmationJob carga del correo de confirmación; viaja serializada por la cola.
// El pedido solo informa IDUsuario; el worker resuelve destinatario y datos de contacto.
type OrderConfirmationJob struct {
	IDUsuario int64         `json:"idUsuario"`
	To        string        `json:"to,omitempty"`
	Cliente   string        `json:"cliente"`
	Direccion string        `json:"direccion"`
	Telefono  string        `json:"telefono"`
	Order     OrderResponse `json:"order"`
}
