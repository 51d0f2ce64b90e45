// Package source fetches candidate articles for the pipeline.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aashish5968778/ai-news-pipeline2/internal/news"
)

const newsdataBaseURL = "https://newsdata.io/api/1/latest"

// NewsdataOptions configures the newsdata.io client.
type NewsdataOptions struct {
	APIKey   string
	Query    string
	Language string
	Limit    int           // omitted from the request when <= 0
	BaseURL  string        // empty = production endpoint
	Timeout  time.Duration // zero = no client timeout
}

// Newsdata fetches recent articles from the newsdata.io search API. The API
// returns results newest first.
type Newsdata struct {
	opts   NewsdataOptions
	client *http.Client
	log    *slog.Logger
}

func NewNewsdata(opts NewsdataOptions, log *slog.Logger) *Newsdata {
	if opts.BaseURL == "" {
		opts.BaseURL = newsdataBaseURL
	}
	if log == nil {
		log = slog.Default()
	}
	return &Newsdata{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		log:    log.With("component", "newsdata"),
	}
}

// Fetch runs one search call and returns the decoded candidate list. Any
// transport or HTTP failure is returned to the caller untouched.
func (n *Newsdata) Fetch(ctx context.Context) ([]news.Article, error) {
	params := url.Values{}
	params.Set("apikey", n.opts.APIKey)
	params.Set("q", n.opts.Query)
	params.Set("language", n.opts.Language)
	if n.opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(n.opts.Limit))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.opts.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsdata API returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []news.Article `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	n.log.Debug("fetched articles", "count", len(payload.Results))
	return payload.Results, nil
}
