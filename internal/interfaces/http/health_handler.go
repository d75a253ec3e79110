package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger comprueba la conexión con una dependencia (pgxpool.Pool lo implementa).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health responde 200 si la base de datos contesta, 503 si no.
func Health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db == nil {
			return c.JSON(fiber.Map{"status": "ok"})
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": "unreachable"})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
	}
}
