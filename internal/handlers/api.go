package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const cacheControl = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) ok(w http.ResponseWriter, data any) {
	errors.WriteSuccessWithHeaders(w, data, map[string]string{"Cache-Control": cacheControl})
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	summary, err := h.analytics.Summarize(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	h.ok(w, summary)
}

func (h *APIHandlers) HandleOverview(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sales, err := h.analytics.Table(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	h.ok(w, h.analytics.Overview(sales))
}

func (h *APIHandlers) HandleLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	top, err := parseTop(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sales, err := h.analytics.Table(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}

	locations := services.RevenueByLocation(sales)
	if top > 0 {
		locations = services.TopLocations(locations, top)
	}
	h.ok(w, locations)
}

func (h *APIHandlers) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sales, err := h.analytics.Table(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	h.ok(w, services.RevenueByMonth(sales, h.analytics.Locale()))
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sales, err := h.analytics.Table(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	h.ok(w, services.RevenueByCategory(sales))
}

// HandleSalespeople returns per-salesperson stats. With top set, the list is
// ranked by the "by" metric (revenue or count) and truncated.
func (h *APIHandlers) HandleSalespeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := parseFilter(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	top, err := parseTop(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	by, ok := services.ParseMetric(q.Get("by"))
	if !ok {
		h.fail(w, r, errors.BadRequest("by must be revenue or count"))
		return
	}

	sales, err := h.analytics.Table(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}

	stats := services.SalespersonStats(sales)
	if top > 0 {
		stats = services.TopSalespeople(stats, by, top)
	}
	h.ok(w, stats)
}

func (h *APIHandlers) HandleSalespersonNames(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	names, err := h.analytics.Salespeople(r.Context(), f)
	if err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	h.ok(w, names)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}

// HandleRefresh reloads the base table from the products API, bypassing the
// response cache.
func (h *APIHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.analytics.Refresh(r.Context()); err != nil {
		h.fail(w, r, serviceError(err))
		return
	}
	errors.WriteSuccess(w, h.analytics.Stats())
}
