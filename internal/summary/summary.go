// Package summary produces one-sentence AI summaries for accepted articles.
package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aashish5968778/ai-news-pipeline2/internal/metrics"
)

// Sentinel summaries written to the ledger in place of real summaries.
const (
	NotAvailable = "Summary not available."
	Failed       = "AI summary failed."
)

const systemPrompt = "You are an expert news summarizer."

// Provider makes a single summarization call against an AI backend.
type Provider interface {
	Summarize(ctx context.Context, title, description string) (string, error)
}

// Service wraps a provider with the pipeline's summary policy: an empty
// description, a missing backend or an exhausted budget yields NotAvailable,
// a backend error yields Failed. Neither outcome ever aborts the caller, and
// no call is retried.
type Service struct {
	provider Provider
	budget   *Budget
	log      *slog.Logger
}

func NewService(provider Provider, budget *Budget, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		provider: provider,
		budget:   budget,
		log:      log.With("component", "summary"),
	}
}

// Annotate returns the summary text for one article, trimmed of surrounding
// whitespace. The result is always usable as a ledger cell; failures surface
// only through log lines and the sentinel strings.
func (s *Service) Annotate(ctx context.Context, title, description string) string {
	if s.provider == nil || description == "" {
		return NotAvailable
	}
	if s.budget != nil && !s.budget.Allow() {
		s.log.Debug("summary budget exhausted", "title", title)
		return NotAvailable
	}

	text, err := s.provider.Summarize(ctx, title, description)
	if err != nil {
		s.log.Error("summary request failed", "title", title, "error", err)
		metrics.Global.IncrementSummaryFailures()
		return Failed
	}

	metrics.Global.IncrementSummariesGenerated()
	return strings.TrimSpace(text)
}

// userPrompt builds the per-article request text shared by all providers.
func userPrompt(title, description string) string {
	return fmt.Sprintf("Summarize the following news article in a single, insightful sentence. Title: '%s'. Description: '%s'", title, description)
}
