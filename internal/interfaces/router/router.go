package router

import (
	"flathunt-backend/internal/application/reconcile"
	"flathunt-backend/internal/application/search"
	"flathunt-backend/internal/config"
	"flathunt-backend/internal/infrastructure/database"
	healthhandler "flathunt-backend/internal/interfaces/handlers/health"
	listhandler "flathunt-backend/internal/interfaces/handlers/listings"
	"flathunt-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and routes, and
// opens the store and the optional Redis cache.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
	}

	cache := &search.Cache{Rdb: rdb, TTL: cfg.CacheTTL}
	reconciler := &reconcile.Service{DB: db, Grace: cfg.PruneGrace}
	searcher := &search.Service{DB: db, Cache: cache}

	hh := &healthhandler.Handlers{DB: db, Rdb: rdb}
	app.Get("/health", hh.JSON)

	lh := &listhandler.Handlers{
		Reconciler: reconciler,
		Searcher:   searcher,
		Cache:      cache,
	}
	group := app.Group("/api/v1/listings")
	group.Post("/reconcile", middleware.IngestKey(cfg.IngestKeyHash), lh.Reconcile)
	group.Post("/search", lh.Search)
	group.Get("/:id", lh.Get)
	group.Get("/:id/events", lh.Events)

	return app, db, rdb, nil
}
