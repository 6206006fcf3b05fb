package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/facturati/facturati-api/internal/infrastructure/metrics"
)

// MetricsMiddleware incrémente le compteur de requêtes par méthode, route et
// statut. La route est le pattern Fiber (/api/products/:id), pas l'URL brute,
// pour garder une cardinalité bornée.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(
			c.Method(),
			route,
			strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		return err
	}
}
