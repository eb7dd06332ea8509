package health

import (
	"context"
	"time"

	"flathunt-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Handlers reports liveness plus store/cache connectivity and a couple of
// domain figures (listing count, newest crawl).
type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

type depStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// JSON handles GET /health.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx := context.Background()
	deps := map[string]depStatus{
		"database": h.databaseStatus(),
		"redis":    h.redisStatus(ctx),
	}

	status := "ok"
	for _, d := range deps {
		if d.Status != "connected" && d.Status != "disabled" {
			status = "issue"
		}
	}

	out := fiber.Map{
		"service":      "flathunt-api",
		"status":       status,
		"dependencies": deps,
	}

	if h.DB != nil {
		var count int64
		if err := h.DB.Model(&domain.Listing{}).Count(&count).Error; err == nil {
			out["listings"] = count
		}
		var latest domain.Listing
		if err := h.DB.Order("last_seen DESC").First(&latest).Error; err == nil {
			out["last_crawl"] = latest.LastSeen
		}
	}

	return c.JSON(out)
}

func (h *Handlers) databaseStatus() depStatus {
	if h.DB == nil {
		return depStatus{Status: "disconnected"}
	}
	sqlDB, err := h.DB.DB()
	if err != nil {
		return depStatus{Status: "error"}
	}
	start := time.Now()
	if err := sqlDB.Ping(); err != nil {
		return depStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return depStatus{Status: "connected", PingMs: &ms}
}

// redisStatus reports "disabled" when no cache is configured; that is not an
// unhealthy state.
func (h *Handlers) redisStatus(ctx context.Context) depStatus {
	if h.Rdb == nil {
		return depStatus{Status: "disabled"}
	}
	start := time.Now()
	if err := h.Rdb.Ping(ctx).Err(); err != nil {
		return depStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return depStatus{Status: "connected", PingMs: &ms}
}
