package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/analytics"
	"github.com/jhoicas/morvic-api/internal/application/auth"
	"github.com/jhoicas/morvic-api/internal/application/billing"
	"github.com/jhoicas/morvic-api/internal/application/inventory"
	"github.com/jhoicas/morvic-api/internal/application/order"
	"github.com/jhoicas/morvic-api/internal/application/usecase"
	"github.com/jhoicas/morvic-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC        *order.UseCase
	SaleUC         *billing.SaleUseCase
	KardexUC       *inventory.KardexUseCase
	ReportUC       *analytics.ReportUseCase
	ProductUC      *usecase.ProductUseCase
	AuthUC         *auth.AuthUseCase
	DB             Pinger
	JWTSecret      string
	RequestTimeout time.Duration
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.DB))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	app.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := app.Group("", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	tx := withTimeout(deps.RequestTimeout)

	// Pedidos: cualquier usuario autenticado crea; solo admin lista y cambia el estado.
	// Las rutas fijas van antes de /:id.
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Log)
	reportHandler := NewReportHandler(deps.ReportUC, deps.Log)
	orders := protected.Group("/order")
	orders.Post("/", tx(orderHandler.Create))
	orders.Get("/", adminOnly, reportHandler.ListOrders)
	orders.Get("/by-month", adminOnly, reportHandler.OrdersByMonth)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id/status", adminOnly, tx(orderHandler.UpdateStatus))

	// Ventas (admin)
	saleHandler := NewSaleHandler(deps.SaleUC, deps.Log)
	sales := protected.Group("/sale", adminOnly)
	sales.Post("/", tx(saleHandler.Register))
	sales.Get("/", reportHandler.ListSales)
	sales.Get("/summary", reportHandler.SalesSummary)
	sales.Get("/by-order/:idPedido", reportHandler.SaleByOrder)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/pdf", saleHandler.ReceiptPDF)
	sales.Put("/:id/void", tx(saleHandler.Void))

	// Kardex (admin)
	inventoryHandler := NewInventoryHandler(deps.KardexUC, deps.Log)
	protected.Get("/inventory/:productId", adminOnly, inventoryHandler.ListKardex)

	// Imágenes de producto (admin)
	if deps.ProductUC != nil {
		productHandler := NewProductHandler(deps.ProductUC, deps.Log)
		protected.Post("/product/:id/image", adminOnly, productHandler.UploadImage)
	}
}

// withTimeout acota la duración de los handlers transaccionales; al vencer, el contexto
// cancela la transacción y pgx hace rollback.
func withTimeout(d time.Duration) func(fiber.Handler) fiber.Handler {
	return func(h fiber.Handler) fiber.Handler {
		if d <= 0 {
			return h
		}
		return timeout.NewWithContext(h, d)
	}
}
