package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

// Source supplies raw sale records for an upstream query.
type Source interface {
	Fetch(ctx context.Context, q Query) ([]map[string]any, error)
}

// Options tune how the analytics service normalizes and labels data.
type Options struct {
	Locale         language.Tag
	CurrencyPrefix string
	Normalizer     Normalizer
	Formatter      Formatter
}

// Analytics serves filtered summaries over the products API, or over a
// fixed table when no source is configured.
type Analytics struct {
	mu       sync.RWMutex
	source   Source
	opts     Options
	base     []models.Sale
	baseKey  Query
	loadedAt time.Time
	skipped  int
	logger   *slog.Logger
}

func NewAnalytics(source Source, opts Options, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Formatter.Labels == (ScaleLabels{}) {
		opts.Formatter.Labels = LabelsFor(opts.Locale)
	}
	return &Analytics{
		source: source,
		opts:   opts,
		base:   []models.Sale{},
		logger: logger,
	}
}

// SetData replaces the base table.
func (a *Analytics) SetData(sales []models.Sale) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.base = sales
	a.baseKey = Query{}
	a.loadedAt = time.Now()
	a.skipped = 0
}

// Load fetches and normalizes the records for q and keeps them as the base
// table.
func (a *Analytics) Load(ctx context.Context, q Query) error {
	q.Region = NormalizeRegion(q.Region)
	sales, skipped, err := a.fetch(ctx, q)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.base = sales
	a.baseKey = q
	a.loadedAt = time.Now()
	a.skipped = skipped
	a.mu.Unlock()

	a.logger.Info("sales loaded", "records", len(sales), "skipped", skipped, "region", q.Region, "year", q.Year)
	return nil
}

func (a *Analytics) fetch(ctx context.Context, q Query) ([]models.Sale, int, error) {
	if a.source == nil {
		return nil, 0, errors.New("no sales source configured")
	}

	raw, err := a.source.Fetch(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch sales: %w", err)
	}

	sales, err := a.opts.Normalizer.Normalize(raw)
	if err != nil {
		var skipped *multierror.Error
		if a.opts.Normalizer.SkipInvalid && errors.As(err, &skipped) {
			a.logger.Warn("skipped invalid sale records",
				"skipped", len(skipped.Errors),
				"first_error", skipped.Errors[0],
				"request_id", observability.GetRequestID(ctx),
			)
			return sales, len(skipped.Errors), nil
		}
		return nil, 0, fmt.Errorf("normalize sales: %w", err)
	}
	return sales, 0, nil
}

// Refresh drops any cached upstream responses and reloads the current base
// query.
func (a *Analytics) Refresh(ctx context.Context) error {
	if inv, ok := a.source.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}

	a.mu.RLock()
	key := a.baseKey
	a.mu.RUnlock()

	return a.Load(ctx, key)
}

// Table returns the sales matching f. With a source configured, the region
// and year always go upstream; the source's response cache decides
// freshness, so every view of the same query sees the same records. A fetch
// for the base query also replaces the base table. Without a source the
// table set by SetData is filtered.
func (a *Analytics) Table(ctx context.Context, f Filter) ([]models.Sale, error) {
	f.Region = NormalizeRegion(f.Region)

	if a.source == nil {
		a.mu.RLock()
		base := a.base
		a.mu.RUnlock()
		return ApplyFilter(base, f), nil
	}

	q := f.Query()
	sales, skipped, err := a.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if q == a.baseKey || a.loadedAt.IsZero() {
		a.base = sales
		a.baseKey = q
		a.loadedAt = time.Now()
		a.skipped = skipped
	}
	a.mu.Unlock()

	return ApplyFilter(sales, f), nil
}

// Summarize computes the overview and the four summary views for f. The
// views are independent passes over the same table and run concurrently.
func (a *Analytics) Summarize(ctx context.Context, f Filter) (*models.Summary, error) {
	ctx, span := observability.StartSpan(ctx, "analytics.summarize")
	defer span.Finish()

	sales, err := a.Table(ctx, f)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	span.SetTag("records", fmt.Sprint(len(sales)))

	summary := &models.Summary{Overview: a.Overview(sales)}

	var g errgroup.Group
	g.Go(func() error {
		summary.Locations = RevenueByLocation(sales)
		return nil
	})
	g.Go(func() error {
		summary.Monthly = RevenueByMonth(sales, a.opts.Locale)
		return nil
	})
	g.Go(func() error {
		summary.Categories = RevenueByCategory(sales)
		return nil
	})
	g.Go(func() error {
		summary.Salespeople = SalespersonStats(sales)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}

// Overview computes the headline revenue and sale count metrics.
func (a *Analytics) Overview(sales []models.Sale) models.Overview {
	revenue := TotalRevenue(sales)
	return models.Overview{
		Revenue:          revenue,
		SalesCount:       len(sales),
		FormattedRevenue: a.opts.Formatter.Format(revenue, a.opts.CurrencyPrefix),
		FormattedSales:   a.opts.Formatter.Format(float64(len(sales)), ""),
	}
}

// Salespeople lists the names selectable for f's region and year, ignoring
// any salesperson filter already applied.
func (a *Analytics) Salespeople(ctx context.Context, f Filter) ([]string, error) {
	f.Salespeople = nil
	sales, err := a.Table(ctx, f)
	if err != nil {
		return nil, err
	}
	return DistinctSalespeople(sales), nil
}

func (a *Analytics) Locale() language.Tag {
	return a.opts.Locale
}

func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return map[string]any{
		"record_count":   len(a.base),
		"skipped":        a.skipped,
		"last_loaded":    a.loadedAt,
		"region":         a.baseKey.Region,
		"year":           a.baseKey.Year,
		"locale":         a.opts.Locale.String(),
		"source_enabled": a.source != nil,
	}
}
