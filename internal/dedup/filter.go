package dedup

import (
	"log/slog"

	"github.com/aashish5968778/ai-news-pipeline2/internal/metrics"
	"github.com/aashish5968778/ai-news-pipeline2/internal/news"
)

// Filter decides which candidate articles are genuinely new. A candidate is
// rejected when its link is missing, when its exact link is already known, or
// when its title scores above the threshold against any known title.
type Filter struct {
	threshold int
	log       *slog.Logger
}

// NewFilter builds a filter for one similarity threshold. The threshold is a
// strict bound: a score equal to it still passes.
func NewFilter(threshold int, log *slog.Logger) *Filter {
	if log == nil {
		log = slog.Default()
	}
	return &Filter{
		threshold: threshold,
		log:       log.With("component", "dedup"),
	}
}

// Apply walks the candidates in reverse input order (sources return newest
// first, the ledger is appended oldest first) and returns the accepted
// articles in processing order. Every acceptance grows the known set
// immediately, so a batch also deduplicates against itself.
func (f *Filter) Apply(known *KnownSet, candidates []news.Article) []news.Article {
	accepted := make([]news.Article, 0, len(candidates))

	for i := len(candidates) - 1; i >= 0; i-- {
		candidate := candidates[i]

		if candidate.Link == "" {
			f.log.Debug("skipping article without link", "title", candidate.Title)
			continue
		}
		if known.HasLink(candidate.Link) {
			f.log.Info("skipping already recorded link", "link", candidate.Link)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		if existing, score, dup := f.nearDuplicate(known, candidate.Title); dup {
			f.log.Info("skipping similar article",
				"title", candidate.Title,
				"score", score,
				"existing", existing)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		known.Add(candidate.Link, candidate.Title)
		accepted = append(accepted, candidate)
	}

	return accepted
}

// nearDuplicate reports the first known title scoring above the threshold.
func (f *Filter) nearDuplicate(known *KnownSet, title string) (string, int, bool) {
	for _, existing := range known.Titles() {
		if score := TokenSortRatio(title, existing); score > f.threshold {
			return existing, score, true
		}
	}
	return "", 0, false
}
