package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidStatus = errors.New("estado no válido")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")

	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrTerminalState     = errors.New("el pedido está en un estado terminal")
	ErrAlreadyVoided     = errors.New("la venta ya está anulada")
	ErrDuplicateReceipt  = errors.New("número de comprobante duplicado")
)

// Variantes de ErrNotFound por entidad; errors.Is(err, ErrNotFound) sigue siendo verdadero.
var (
	ErrProductNotFound = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("pedido no encontrado: %w", ErrNotFound)
	ErrSaleNotFound    = fmt.Errorf("venta no encontrada: %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("usuario no encontrado: %w", ErrNotFound)
)
