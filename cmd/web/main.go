package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/source"
	"sales-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	pageTitle     = "DASHBOARD DE VENDAS"
)

func newDashboardHandler(analytics *services.Analytics, cfg config.DashboardConfig, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		data := templates.PageData{
			Title:   pageTitle,
			Regions: services.Regions,
			MinYear: cfg.MinYear,
			MaxYear: cfg.MaxYear,
			TopN:    cfg.DefaultTopN,
		}

		// The page still renders when the source is down; the SSE refresh
		// reports the failure in the error banner.
		if summary, err := analytics.Summarize(ctx, services.Filter{}); err != nil {
			logger.Warn("initial summary unavailable", "error", err)
		} else {
			data.Summary = summary
			data.Salespeople = make([]string, 0, len(summary.Salespeople))
			for _, sp := range summary.Salespeople {
				data.Salespeople = append(data.Salespeople, sp.Salesperson)
			}
			data.TopLocs = services.TopLocations(summary.Locations, 5)
			data.TopByRevenue = services.TopSalespeople(summary.Salespeople, services.MetricRevenue, cfg.DefaultTopN)
			data.TopByCount = services.TopSalespeople(summary.Salespeople, services.MetricCount, cfg.DefaultTopN)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		if err := templates.Dashboard(data).Render(ctx, w); err != nil {
			logger.Error("render dashboard", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newAnalytics(cfg *config.Config, logger *slog.Logger) *services.Analytics {
	locale, err := services.ParseLocale(cfg.Dashboard.Locale)
	if err != nil {
		logger.Warn("unknown locale, using English", "locale", cfg.Dashboard.Locale, "error", err)
	}

	return services.NewAnalytics(
		source.NewClient(cfg.Source, logger),
		services.Options{
			Locale:         locale,
			CurrencyPrefix: cfg.Dashboard.CurrencyPrefix,
			Normalizer:     services.Normalizer{SkipInvalid: cfg.Dashboard.SkipInvalid},
			Formatter: services.Formatter{
				Labels:   services.LabelsFor(locale),
				Billions: cfg.Dashboard.BillionsScale,
			},
		},
		logger,
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"source", cfg.Source.BaseURL,
		"locale", cfg.Dashboard.Locale,
	)

	analytics := newAnalytics(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.LoadTimeout)
	start := time.Now()
	err = analytics.Load(ctx, services.Query{})
	cancel()
	if err != nil {
		logger.Error("failed to load sales data", "error", err)
		os.Exit(1)
	}
	logger.Info("sales data loaded", "duration", time.Since(start))

	templateHandlers := &server.TemplateHandlers{
		Dashboard: newDashboardHandler(analytics, cfg.Dashboard, logger),
	}
	srv := server.NewServer(analytics, logger, templateHandlers, cfg.Dashboard.DefaultTopN)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	go rateLimiter.Run(limiterCtx)

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)(srv)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server.ShutdownTimeout)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping rate limiter janitor")
		stopLimiter()
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
