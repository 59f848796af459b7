package api

import (
	"context"
	"errors"
	"sort"
	"time"

	"temperature-dashboard/internal/models"
	"temperature-dashboard/internal/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var validate = validator.New()

type Handler struct {
	dashboard *services.Dashboard
	logger    *zap.Logger
}

func NewHandler(dashboard *services.Dashboard, logger *zap.Logger) *Handler {
	return &Handler{
		dashboard: dashboard,
		logger:    logger,
	}
}

// StartFetch handles POST /api/v1/fetch. The run executes in the
// background; clients poll GetStatus for completion.
func (h *Handler) StartFetch(c *fiber.Ctx) error {
	// The run outlives this request, so it must not borrow the request
	// context.
	_, err := h.dashboard.StartFetch(context.Background())
	if err != nil {
		if errors.Is(err, services.ErrRunInProgress) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A fetch run is already in progress",
			})
		}
		h.logger.Error("Failed to start fetch run", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to start fetch run",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"started": true,
		"cities":  len(h.dashboard.Cities()),
	})
}

// GetStatus handles GET /api/v1/fetch/status.
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.dashboard.Status())
}

// recordsQuery holds query parameters for the records endpoint.
type recordsQuery struct {
	Order string `validate:"omitempty,oneof=fetch table"`
}

// GetRecords handles GET /api/v1/records. Default order is the city-list
// fetch order; order=table sorts by max temperature descending, the way the
// dashboard table displays it.
func (h *Handler) GetRecords(c *fiber.Ctx) error {
	q := recordsQuery{Order: c.Query("order")}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order must be one of: fetch, table",
		})
	}

	records, err := h.dashboard.Records()
	if err != nil {
		return h.noDataError(c, err)
	}

	if q.Order == "table" {
		sorted := make(models.ResultSet, len(records))
		copy(sorted, records)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].MaxTempC > sorted[j].MaxTempC
		})
		records = sorted
	}

	return c.JSON(fiber.Map{
		"count":   len(records),
		"records": records,
	})
}

// GetSummary handles GET /api/v1/summary.
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary()
	if err != nil {
		return h.noDataError(c, err)
	}
	return c.JSON(summary)
}

// exportQuery holds query parameters for the export endpoint.
type exportQuery struct {
	Format string `validate:"required,oneof=csv json"`
}

// Export handles POST /api/v1/export?format=csv|json and responds with the
// written file path.
func (h *Handler) Export(c *fiber.Ctx) error {
	q := exportQuery{Format: c.Query("format")}
	if err := validate.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Format must be one of: csv, json",
		})
	}

	var path string
	var err error
	switch q.Format {
	case "csv":
		path, err = h.dashboard.ExportCSV()
	case "json":
		path, err = h.dashboard.ExportJSON()
	}
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return h.noDataError(c, err)
		}
		h.logger.Error("Export failed",
			zap.String("format", q.Format),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Export failed",
		})
	}

	return c.JSON(fiber.Map{
		"format": q.Format,
		"path":   path,
	})
}

// GetCities handles GET /api/v1/cities.
func (h *Handler) GetCities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"cities": h.dashboard.Cities(),
	})
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"fetch":     h.dashboard.Status(),
	})
}

func (h *Handler) noDataError(c *fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrNoData) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No temperature data available. Trigger a fetch first.",
		})
	}
	h.logger.Error("Request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal error",
	})
}

var startTime = time.Now()
