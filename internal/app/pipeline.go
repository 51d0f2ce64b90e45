// Package app wires the pipeline stages for a single run.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aashish5968778/ai-news-pipeline2/internal/dedup"
	"github.com/aashish5968778/ai-news-pipeline2/internal/metrics"
	"github.com/aashish5968778/ai-news-pipeline2/internal/news"
)

// Ledger columns holding previously published values.
const (
	titleColumn = 2
	linkColumn  = 6
)

// Source fetches the candidate articles for one run, newest first.
type Source interface {
	Fetch(ctx context.Context) ([]news.Article, error)
}

// Annotator produces the summary cell for one accepted article. It never
// fails; unavailable or failed summaries arrive as sentinel strings.
type Annotator interface {
	Annotate(ctx context.Context, title, description string) string
}

// Ledger is the persistent store the pipeline reads known rows from and
// appends new rows to.
type Ledger interface {
	Open(ctx context.Context) error
	ColumnValues(ctx context.Context, column int) ([]string, error)
	Append(ctx context.Context, rows []news.Row) error
}

// Deps carries the pipeline's collaborators. Source, Annotator and Ledger are
// required; Clock, Log and Metrics fall back to the process defaults.
type Deps struct {
	Source    Source
	Annotator Annotator
	Ledger    Ledger
	Threshold int
	Clock     news.Clock
	Log       *slog.Logger
	Metrics   *metrics.Metrics
}

// Pipeline runs the fetch, dedup, enrich and commit stages in order for one
// invocation. It keeps no state between runs; the known-article memory is
// rebuilt from the ledger every time.
type Pipeline struct {
	source    Source
	annotator Annotator
	ledger    Ledger
	filter    *dedup.Filter
	clock     news.Clock
	log       *slog.Logger
	metrics   *metrics.Metrics
}

func NewPipeline(deps Deps) (*Pipeline, error) {
	if err := validateDeps(deps); err != nil {
		return nil, err
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.Global
	}

	return &Pipeline{
		source:    deps.Source,
		annotator: deps.Annotator,
		ledger:    deps.Ledger,
		filter:    dedup.NewFilter(deps.Threshold, deps.Log),
		clock:     deps.Clock,
		log:       deps.Log.With("component", "pipeline"),
		metrics:   deps.Metrics,
	}, nil
}

func validateDeps(deps Deps) error {
	if deps.Source == nil {
		return fmt.Errorf("pipeline needs a source")
	}
	if deps.Annotator == nil {
		return fmt.Errorf("pipeline needs an annotator")
	}
	if deps.Ledger == nil {
		return fmt.Errorf("pipeline needs a ledger")
	}
	if deps.Threshold < 0 || deps.Threshold > 100 {
		return fmt.Errorf("similarity threshold %d out of range", deps.Threshold)
	}
	return nil
}

// Run executes one complete pass. Fatal failures (ledger access, fetch) are
// logged with context and returned with nothing written; summary failures
// only downgrade individual rows to sentinel text and never abort the run.
func (p *Pipeline) Run(ctx context.Context) error {
	start := p.clock()
	defer func() {
		p.metrics.RecordRunDuration(p.clock().Sub(start))
	}()

	p.log.Info("starting news pipeline")

	if err := p.ledger.Open(ctx); err != nil {
		p.log.Error("error connecting to ledger", "error", err)
		p.metrics.SetError(err.Error())
		return err
	}

	p.log.Info("fetching news")
	candidates, err := p.source.Fetch(ctx)
	if err != nil {
		p.log.Error("error fetching news", "error", err)
		p.metrics.SetError(err.Error())
		return err
	}
	p.metrics.AddArticlesFetched(len(candidates))
	p.log.Info("checking articles for duplicates", "count", len(candidates))

	knownLinks, err := p.ledger.ColumnValues(ctx, linkColumn)
	if err != nil {
		p.log.Error("error reading ledger links", "error", err)
		p.metrics.SetError(err.Error())
		return err
	}
	knownTitles, err := p.ledger.ColumnValues(ctx, titleColumn)
	if err != nil {
		p.log.Error("error reading ledger titles", "error", err)
		p.metrics.SetError(err.Error())
		return err
	}

	known := dedup.NewKnownSet(knownLinks, knownTitles)
	accepted := p.filter.Apply(known, candidates)

	rows := make([]news.Row, 0, len(accepted))
	for _, article := range accepted {
		summary := p.annotator.Annotate(ctx, article.Title, article.Description)
		rows = append(rows, news.BuildRow(article, summary, p.clock))
	}

	if len(rows) == 0 {
		p.log.Info("no new articles to add")
		p.metrics.SetLastRun()
		return nil
	}

	if err := p.ledger.Append(ctx, rows); err != nil {
		p.log.Error("error appending rows to ledger", "error", err)
		p.metrics.SetError(err.Error())
		return err
	}

	p.metrics.AddRowsAppended(len(rows))
	p.metrics.SetLastRun()
	p.log.Info("added new articles", "count", len(rows))
	return nil
}
