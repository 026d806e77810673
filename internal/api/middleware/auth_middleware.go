package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	config "github.com/creatorpulse/analytics-api/configs"
	"github.com/creatorpulse/analytics-api/internal/service"
	"github.com/creatorpulse/analytics-api/pkg/utils"
)

type AuthMiddleware struct {
	s   service.ApiKeyService
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config, service service.ApiKeyService) *AuthMiddleware {
	return &AuthMiddleware{s: service, cfg: cfg}
}

func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			apiKey = c.Query("api_key")
		}
		bearer := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")

		if apiKey == "" && bearer == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing API key or bearer token",
			})
		}

		if apiKey != "" {
			if err := m.s.Validate(c.Context(), apiKey); err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			c.Locals("operator", "api-key")
		} else {
			claims, err := utils.ValidateToken(m.cfg.SecretKey, bearer)
			if err != nil {
				log.Printf("Token validation failed: %v", err)
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid or expired token",
				})
			}
			c.Locals("operator", claims.Operator)
		}
		return c.Next()
	}
}
