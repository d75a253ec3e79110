package dto

import "time"

// KardexEntryResponse asiento del kardex para GET /inventory/:productId.
type KardexEntryResponse struct {
	IDKardex        int64     `json:"idKardex"`
	FechaMovimiento string    `json:"fechaMovimiento"`
	HoraMovimiento  string    `json:"horaMovimiento"`
	TipoMovimiento  string    `json:"tipoMovimiento"`
	Cantidad        int       `json:"cantidad"`
	StockResultante int       `json:"stockResultante"`
	IDOrigen        int64     `json:"idOrigen"`
	IDProducto      int64     `json:"idProducto"`
	IDProveedor     *int64    `json:"idProveedor,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// ProductImageResponse respuesta de POST /product/:id/image.
type ProductImageResponse struct {
	IDImagen   int64  `json:"idImagen"`
	IDProducto int64  `json:"idProducto"`
	URL        string `json:"url"`
}
