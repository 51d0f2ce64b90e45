package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewsdataFetch(t *testing.T) {
	var gotQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"status": "success",
			"results": [
				{"title":"Newest","description":"d1","link":"https://example.com/1","image_url":"https://img.example.com/1.png","source_id":"alpha","pubDate":"2025-06-03 10:00:00"},
				{"title":"Older","description":"d2","link":"https://example.com/2","source_id":"beta","pubDate":"2025-06-03 09:00:00"}
			]
		}`)
	}))
	defer server.Close()

	src := NewNewsdata(NewsdataOptions{
		APIKey:   "test-key",
		Query:    "AI, openai, chatgpt, google",
		Language: "en",
		Limit:    4,
		BaseURL:  server.URL,
	}, discardLogger())

	articles, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Fetch() returned %d articles, want 2", len(articles))
	}

	first := articles[0]
	if first.Title != "Newest" || first.Link != "https://example.com/1" {
		t.Errorf("first article = %+v", first)
	}
	if first.ImageURL != "https://img.example.com/1.png" || first.SourceID != "alpha" {
		t.Errorf("first article media fields = %+v", first)
	}
	if first.PubDate != "2025-06-03 10:00:00" {
		t.Errorf("PubDate = %q, want the provider string untouched", first.PubDate)
	}

	if gotQuery.Get("apikey") != "test-key" {
		t.Errorf("apikey param = %q", gotQuery.Get("apikey"))
	}
	if gotQuery.Get("q") != "AI, openai, chatgpt, google" {
		t.Errorf("q param = %q", gotQuery.Get("q"))
	}
	if gotQuery.Get("language") != "en" {
		t.Errorf("language param = %q", gotQuery.Get("language"))
	}
	if gotQuery.Get("limit") != "4" {
		t.Errorf("limit param = %q, want 4", gotQuery.Get("limit"))
	}
}

func TestNewsdataFetchOmitsLimitWhenUnset(t *testing.T) {
	var gotQuery url.Values

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer server.Close()

	src := NewNewsdata(NewsdataOptions{APIKey: "k", Query: "q", Language: "en", BaseURL: server.URL}, discardLogger())

	if _, err := src.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotQuery.Has("limit") {
		t.Errorf("limit param sent as %q, want omitted", gotQuery.Get("limit"))
	}
}

func TestNewsdataFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	src := NewNewsdata(NewsdataOptions{APIKey: "bad", Query: "q", Language: "en", BaseURL: server.URL}, discardLogger())

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() succeeded against a failing API")
	}
}

func TestNewsdataFetchBadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":`)
	}))
	defer server.Close()

	src := NewNewsdata(NewsdataOptions{APIKey: "k", Query: "q", Language: "en", BaseURL: server.URL}, discardLogger())

	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() succeeded on a truncated response body")
	}
}

func TestNewsdataFetchMissingResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer server.Close()

	src := NewNewsdata(NewsdataOptions{APIKey: "k", Query: "q", Language: "en", BaseURL: server.URL}, discardLogger())

	articles, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Fetch() returned %d articles, want 0", len(articles))
	}
}
