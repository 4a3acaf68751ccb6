package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/liturgy-api/internal/calendar"
	"github.com/zapponejosh/liturgy-api/internal/celebration"
	"github.com/zapponejosh/liturgy-api/internal/config"
	"github.com/zapponejosh/liturgy-api/internal/database"
	"github.com/zapponejosh/liturgy-api/internal/liturgy"
	"github.com/zapponejosh/liturgy-api/internal/scheduler"
)

// maxRangeDays limits /calendar/range to keep responses bounded.
const maxRangeDays = 90

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db       *database.DB
	cfg      *config.Config
	logger   *slog.Logger
	catalogs []celebration.Catalog
	hours    *liturgy.Service
	today    *scheduler.Today[DateView]

	// resolver is replaced wholesale when editors change celebrations.
	resolver atomic.Pointer[celebration.Resolver]
}

// NewHandlers loads the bundled catalogs and liturgy library, merges the
// stored celebration records, and returns ready handlers.
func NewHandlers(ctx context.Context, db *database.DB, cfg *config.Config, logger *slog.Logger) (*Handlers, error) {
	catalogs, err := celebration.BundledCatalogs()
	if err != nil {
		return nil, fmt.Errorf("load celebration catalogs: %w", err)
	}
	library, err := liturgy.BundledLibrary()
	if err != nil {
		return nil, fmt.Errorf("load liturgy library: %w", err)
	}

	h := &Handlers{
		db:       db,
		cfg:      cfg,
		logger:   logger,
		catalogs: catalogs,
		hours:    liturgy.NewService(library, logger),
	}
	h.today = scheduler.NewToday(cfg.Location(), h.dateView)

	if err := h.ReloadCelebrations(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// ReloadCelebrations rebuilds the celebration registry from the bundled
// catalogs and the stored records, then swaps it in. Requests in flight keep
// the registry they started with.
func (h *Handlers) ReloadCelebrations(ctx context.Context) error {
	records, err := h.db.RegistryRecords(ctx)
	if err != nil {
		return fmt.Errorf("load celebration records: %w", err)
	}

	registry := celebration.NewRegistry(h.catalogs,
		celebration.WithPolicy(h.cfg.Policy()),
		celebration.WithLogger(h.logger),
		celebration.WithRecords(records),
	)
	h.resolver.Store(celebration.NewResolver(registry, h.logger))
	h.today.Refresh()

	h.logger.Info("celebration registry loaded",
		slog.Int("catalogs", len(h.catalogs)),
		slog.Int("records", len(records)),
	)
	return nil
}

// RefreshToday recomputes the cached view of today. The scheduler calls it
// shortly after local midnight.
func (h *Handlers) RefreshToday() {
	snap := h.today.Refresh()
	h.logger.Info("today refreshed", slog.String("date", snap.Date))
}

func (h *Handlers) currentResolver() *celebration.Resolver {
	return h.resolver.Load()
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
		"today":  h.today.Get().Date,
	})
}

// =============================================================================
// Request helpers
// =============================================================================

// decodeJSON decodes JSON request body.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathDate parses the {date} URL parameter. "today" resolves in the
// configured time zone.
func (h *Handlers) pathDate(r *http.Request) (time.Time, error) {
	raw := chi.URLParam(r, "date")
	if raw == "" {
		return time.Time{}, errors.New("date parameter is required")
	}
	if raw == "today" {
		return h.today.Date(), nil
	}
	date, err := calendar.ParseDateString(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s. Use YYYY-MM-DD", raw)
	}
	return date, nil
}

// pathYear parses the {year} URL parameter.
func pathYear(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return 0, fmt.Errorf("invalid year: %s", raw)
	}
	return year, nil
}
