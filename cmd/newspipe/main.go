package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aashish5968778/ai-news-pipeline2/internal/app"
	"github.com/aashish5968778/ai-news-pipeline2/internal/config"
	"github.com/aashish5968778/ai-news-pipeline2/internal/ledger"
	"github.com/aashish5968778/ai-news-pipeline2/internal/logger"
	"github.com/aashish5968778/ai-news-pipeline2/internal/metrics"
	"github.com/aashish5968778/ai-news-pipeline2/internal/source"
	"github.com/aashish5968778/ai-news-pipeline2/internal/summary"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	logger.Init()
	log := logger.Logger

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		return
	}

	if cfg.EnableMonitoring {
		go startMonitoringServer(cfg.MonitoringPort, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, err := buildSource(cfg, log)
	if err != nil {
		log.Error("error building news source", "error", err)
		return
	}

	provider, closeProvider, err := buildProvider(ctx, cfg, log)
	if err != nil {
		log.Error("error building summary provider", "error", err)
		return
	}
	defer closeProvider()

	pipeline, err := app.NewPipeline(app.Deps{
		Source:    src,
		Annotator: summary.NewService(provider, summary.NewBudget(cfg.MaxSummaries), log),
		Ledger:    ledger.New(cfg.SpreadsheetName, cfg.CredentialsJSON, log),
		Threshold: cfg.SimilarityThreshold,
		Log:       log,
	})
	if err != nil {
		log.Error("error building pipeline", "error", err)
		return
	}

	if err := pipeline.Run(ctx); err != nil {
		log.Error("pipeline run failed", "error", err)
		return
	}
	log.Info("process complete")
}

func buildSource(cfg *config.Config, log *slog.Logger) (app.Source, error) {
	if cfg.Source == "rss" {
		feeds, err := source.LoadFeeds(cfg.FeedsConfigPath)
		if err != nil {
			return nil, err
		}
		return source.NewRSS(feeds, cfg.NewsLimit, log), nil
	}

	return source.NewNewsdata(source.NewsdataOptions{
		APIKey:   cfg.NewsdataAPIKey,
		Query:    cfg.NewsQuery,
		Language: cfg.NewsLanguage,
		Limit:    cfg.NewsLimit,
		Timeout:  cfg.RequestTimeout,
	}, log), nil
}

// buildProvider returns the configured summary backend, or nil when summaries
// are disabled. A missing API key disables summaries instead of failing the
// run; every row then carries the not-available sentinel.
func buildProvider(ctx context.Context, cfg *config.Config, log *slog.Logger) (summary.Provider, func(), error) {
	noop := func() {}

	switch cfg.SummaryProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Warn("OPENAI_API_KEY not set, summaries disabled")
			return nil, noop, nil
		}
		return summary.NewOpenAI(cfg.OpenAIAPIKey, cfg.SummaryModel, ""), noop, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, summaries disabled")
			return nil, noop, nil
		}
		client, err := summary.NewGemini(ctx, cfg.GeminiAPIKey, cfg.SummaryModel)
		if err != nil {
			return nil, noop, err
		}
		return client, client.Close, nil
	}
	return nil, noop, nil
}

func startMonitoringServer(port int, log *slog.Logger) {
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	addr := fmt.Sprintf(":%d", port)
	log.Info("starting monitoring server", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error("monitoring server error", "error", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
