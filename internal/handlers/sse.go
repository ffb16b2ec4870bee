package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const maxTopLocations = 5

// dashboardSignals mirrors the sidebar state the browser sends with every
// datastar request.
type dashboardSignals struct {
	Region      string   `json:"region"`
	AllYears    bool     `json:"allYears"`
	Year        int      `json:"year"`
	Salespeople []string `json:"salespeople"`
	TopN        int      `json:"topN"`
}

func (s dashboardSignals) filter() services.Filter {
	f := services.Filter{
		Region:      services.NormalizeRegion(s.Region),
		Salespeople: s.Salespeople,
	}
	if !s.AllYears {
		f.Year = s.Year
	}
	return f
}

type chartData struct {
	Locations    []models.LocationSummary    `json:"locations"`
	TopLocations []models.LocationSummary    `json:"topLocations"`
	Monthly      []models.MonthlySummary     `json:"monthly"`
	Categories   []models.CategorySummary    `json:"categories"`
	TopByRevenue []models.SalespersonSummary `json:"topByRevenue"`
	TopByCount   []models.SalespersonSummary `json:"topByCount"`
}

type SSEHandlers struct {
	analytics   *services.Analytics
	logger      *slog.Logger
	defaultTopN int
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger, defaultTopN int) *SSEHandlers {
	return &SSEHandlers{
		analytics:   analytics,
		logger:      logger,
		defaultTopN: defaultTopN,
	}
}

func (h *SSEHandlers) readSignals(r *http.Request) (dashboardSignals, error) {
	signals := dashboardSignals{AllYears: true, TopN: h.defaultTopN}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return signals, err
	}
	if signals.TopN < 1 {
		signals.TopN = h.defaultTopN
	}
	return signals, nil
}

func (h *SSEHandlers) patchError(ctx context.Context, sse *datastar.ServerSentEventGenerator, message string) {
	html, err := templates.RenderString(ctx, templates.ErrorBanner(message))
	if err != nil {
		h.logger.Error("render error banner", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch error banner", "error", err)
	}
}

// HandleRefresh recomputes every view for the current sidebar state and
// patches metrics, tables and chart signals in one stream.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.logger.Warn("read signals", "error", err)
		h.patchError(r.Context(), sse, "Filtros inválidos")
		return
	}

	summary, err := h.analytics.Summarize(r.Context(), signals.filter())
	if err != nil {
		h.logger.Error("summarize sales", "error", err)
		h.patchError(r.Context(), sse, serviceError(err).Message)
		return
	}

	charts := chartData{
		Locations:    summary.Locations,
		TopLocations: services.TopLocations(summary.Locations, maxTopLocations),
		Monthly:      summary.Monthly,
		Categories:   summary.Categories,
		TopByRevenue: services.TopSalespeople(summary.Salespeople, services.MetricRevenue, signals.TopN),
		TopByCount:   services.TopSalespeople(summary.Salespeople, services.MetricCount, signals.TopN),
	}

	components := make([]templ.Component, 0, len(templates.Tabs)+4)
	for _, tab := range templates.Tabs {
		components = append(components, templates.Metrics(tab.ID, summary.Overview))
	}
	components = append(components,
		templates.LocationTable(charts.TopLocations),
		templates.SalespersonTable("top-sellers-revenue", charts.TopByRevenue),
		templates.SalespersonTable("top-sellers-count", charts.TopByCount),
		templates.ErrorBanner(""),
	)

	fragments := make([]string, 0, len(components))
	for _, c := range components {
		html, err := templates.RenderString(r.Context(), c)
		if err != nil {
			h.logger.Error("render fragment", "error", err)
			return
		}
		fragments = append(fragments, html)
	}

	for _, html := range fragments {
		if err := sse.PatchElements(html); err != nil {
			h.logger.Warn("patch elements", "error", err)
			return
		}
	}

	payload, err := json.Marshal(map[string]any{"chartData": charts})
	if err != nil {
		h.logger.Error("marshal chart data", "error", err)
		return
	}
	if err := sse.PatchSignals(payload); err != nil {
		h.logger.Warn("patch signals", "error", err)
	}
}

// HandleSalespeople refreshes the salesperson multiselect for the current
// region and year.
func (h *SSEHandlers) HandleSalespeople(w http.ResponseWriter, r *http.Request) {
	signals, err := h.readSignals(r)
	sse := datastar.NewSSE(w, r)
	if err != nil {
		h.patchError(r.Context(), sse, "Filtros inválidos")
		return
	}

	names, err := h.analytics.Salespeople(r.Context(), signals.filter())
	if err != nil {
		h.logger.Error("list salespeople", "error", err)
		h.patchError(r.Context(), sse, serviceError(err).Message)
		return
	}

	html, err := templates.RenderString(r.Context(), templates.SalespeopleSelect(names, signals.Salespeople))
	if err != nil {
		h.logger.Error("render salespeople select", "error", err)
		return
	}
	if err := sse.PatchElements(html); err != nil {
		h.logger.Warn("patch elements", "error", err)
	}
}
