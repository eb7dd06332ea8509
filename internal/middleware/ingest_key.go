package middleware

import (
	"flathunt-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const ingestKeyHeader = "X-Ingest-Key"

// IngestKey guards the crawler-facing reconcile endpoint: the caller must
// present the key whose bcrypt hash is configured. An empty hash disables
// the check (local development).
func IngestKey(keyHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if keyHash == "" {
			return c.Next()
		}
		key := c.Get(ingestKeyHeader)
		if key == "" {
			return response.Unauthorized(c, "Missing ingest key")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(key)); err != nil {
			return response.Unauthorized(c, "Invalid ingest key")
		}
		return c.Next()
	}
}
