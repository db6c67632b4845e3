package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// Пустой AllowHeaders заставляет fiber отражать Access-Control-Request-Headers,
// то есть разрешены любые заголовки.
func CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "",
		// fiber запрещает credentials вместе с wildcard origin
		AllowCredentials: allowOrigins != "*",
		ExposeHeaders:    RequestIDHeader,
	})
}
