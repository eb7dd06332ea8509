package listings

import (
	"encoding/json"
	"errors"
	"time"

	"flathunt-backend/internal/application/ingest"
	"flathunt-backend/internal/application/reconcile"
	"flathunt-backend/internal/application/search"
	"flathunt-backend/internal/domain"
	"flathunt-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	Reconciler *reconcile.Service
	Searcher   *search.Service
	Cache      *search.Cache
}

// ReconcileRequest is the crawler-facing batch payload.
type ReconcileRequest struct {
	CrawlTime time.Time       `json:"crawl_time"`
	Listings  []ingest.Record `json:"listings"`
}

// POST /api/v1/listings/reconcile — merge a crawl batch into the store.
func (h *Handlers) Reconcile(c *fiber.Ctx) error {
	var req ReconcileRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	crawlTime := req.CrawlTime
	if crawlTime.IsZero() {
		crawlTime = time.Now().UTC()
	}

	batch, malformed := ingest.ParseBatch(req.Listings, crawlTime)
	report, err := h.Reconciler.Reconcile(c.Context(), batch, crawlTime)
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	report.Skipped += malformed

	h.Cache.Invalidate(c.Context())

	return response.Success(c, "Batch reconciled", fiber.Map{
		"crawl_time": crawlTime,
		"inserted":   len(report.Inserted),
		"updated":    len(report.Updated),
		"unchanged":  report.Unchanged,
		"pruned":     report.Pruned,
		"skipped":    report.Skipped,
		"new":        report.Inserted,
		"changed":    report.Updated,
	}, nil)
}

// POST /api/v1/listings/search — rank stored listings against a preference
// specification.
func (h *Handlers) Search(c *fiber.Ctx) error {
	// Pre-fill weights so absent fields keep their default of 1.
	prefs := domain.Preferences{Weights: domain.DefaultWeights()}
	if err := json.Unmarshal(c.Body(), &prefs); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	result, err := h.Searcher.Search(c.Context(), &prefs)
	if err != nil {
		if errors.Is(err, domain.ErrNegativeWeight) || errors.Is(err, domain.ErrMinScoreRange) {
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}

	return response.Success(c, "Listings ranked", result, fiber.Map{"count": len(result)})
}

// GET /api/v1/listings/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	listing, err := h.Searcher.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, "Listing not found", fiber.StatusNotFound, nil)
		}
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Listing fetched", listing, nil)
}

// GET /api/v1/listings/:id/events — the audit trail for one listing.
func (h *Handlers) Events(c *fiber.Ctx) error {
	events, err := h.Reconciler.Events(c.Context(), c.Params("id"))
	if err != nil {
		return response.Error(c, err.Error(), fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Events fetched", events, fiber.Map{"count": len(events)})
}
