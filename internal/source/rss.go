package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/aashish5968778/ai-news-pipeline2/internal/news"
)

// FeedsConfig is the YAML feed list structure:
//
//	feeds:
//	  - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed list from a YAML file.
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Feeds, nil
}

// RSS aggregates configured feeds into the same newest-first candidate shape
// the search API returns. Individual feed failures are logged and skipped;
// Fetch fails only when every feed does.
type RSS struct {
	urls   []string
	limit  int
	parser *gofeed.Parser
	log    *slog.Logger
}

func NewRSS(urls []string, limit int, log *slog.Logger) *RSS {
	if log == nil {
		log = slog.Default()
	}
	return &RSS{
		urls:   urls,
		limit:  limit,
		parser: gofeed.NewParser(),
		log:    log.With("component", "rss"),
	}
}

type datedArticle struct {
	article   news.Article
	published time.Time
}

func (r *RSS) Fetch(ctx context.Context) ([]news.Article, error) {
	if len(r.urls) == 0 {
		return nil, fmt.Errorf("no feeds configured")
	}

	var items []datedArticle
	okCount := 0

	for _, feedURL := range r.urls {
		feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			r.log.Warn("failed to parse feed", "url", feedURL, "error", err)
			continue
		}
		okCount++

		sourceID := feedHost(feed.Link, feedURL)
		for _, item := range feed.Items {
			var published time.Time
			if item.PublishedParsed != nil {
				published = *item.PublishedParsed
			}
			items = append(items, datedArticle{
				article: news.Article{
					Title:       item.Title,
					Description: stripHTML(item.Description),
					Link:        item.Link,
					ImageURL:    itemImage(item),
					SourceID:    sourceID,
					PubDate:     item.Published,
				},
				published: published,
			})
		}
		r.log.Debug("loaded feed", "url", feedURL, "items", len(feed.Items))
	}

	if okCount == 0 {
		return nil, fmt.Errorf("all %d feeds failed", len(r.urls))
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].published.After(items[j].published)
	})
	if r.limit > 0 && len(items) > r.limit {
		items = items[:r.limit]
	}

	articles := make([]news.Article, 0, len(items))
	for _, it := range items {
		articles = append(articles, it.article)
	}
	return articles, nil
}

// stripHTML reduces a feed's HTML description to plain text with collapsed
// whitespace.
func stripHTML(value string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(value))
	if err != nil {
		return strings.TrimSpace(value)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// feedHost names the feed's site for the row's source column, falling back to
// the subscription URL when the feed omits its own link.
func feedHost(feedLink, feedURL string) string {
	for _, candidate := range []string{feedLink, feedURL} {
		if u, err := url.Parse(candidate); err == nil && u.Hostname() != "" {
			return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
		}
	}
	return ""
}
