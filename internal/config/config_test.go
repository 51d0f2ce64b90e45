package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so ambient shell state cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"NEWSDATA_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "SUMMARY_MODEL",
		"SOURCE", "NEWS_QUERY", "NEWS_LANGUAGE", "NEWS_LIMIT", "FEEDS_CONFIG_PATH",
		"SPREADSHEET_NAME", "SIMILARITY_THRESHOLD", "SUMMARY_PROVIDER", "MAX_SUMMARIES",
		"REQUEST_TIMEOUT", "DEBUG", "ENABLE_HTTP_MONITORING", "MONITORING_PORT",
		"GOOGLE_SHEETS_CREDENTIALS_JSON", "SERVICE_ACCOUNT_FILE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDATA_API_KEY", "test-key")
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_JSON", `{"type":"service_account"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != "newsdata" {
		t.Errorf("Source = %q, want newsdata", cfg.Source)
	}
	if cfg.NewsQuery != "AI, openai, chatgpt, google" {
		t.Errorf("NewsQuery = %q", cfg.NewsQuery)
	}
	if cfg.NewsLanguage != "en" {
		t.Errorf("NewsLanguage = %q, want en", cfg.NewsLanguage)
	}
	if cfg.NewsLimit != 4 {
		t.Errorf("NewsLimit = %d, want 4", cfg.NewsLimit)
	}
	if cfg.SpreadsheetName != "AI News" {
		t.Errorf("SpreadsheetName = %q, want AI News", cfg.SpreadsheetName)
	}
	if cfg.SimilarityThreshold != 50 {
		t.Errorf("SimilarityThreshold = %d, want 50", cfg.SimilarityThreshold)
	}
	if cfg.SummaryProvider != "openai" {
		t.Errorf("SummaryProvider = %q, want openai", cfg.SummaryProvider)
	}
	if cfg.MaxSummaries != 0 {
		t.Errorf("MaxSummaries = %d, want 0", cfg.MaxSummaries)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.CredentialsSource != InlineCredentials {
		t.Errorf("CredentialsSource = %v, want inline", cfg.CredentialsSource)
	}
	if string(cfg.CredentialsJSON) != `{"type":"service_account"}` {
		t.Errorf("CredentialsJSON = %s", cfg.CredentialsJSON)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_JSON", `{}`)
	t.Setenv("SOURCE", "rss")
	t.Setenv("NEWS_QUERY", "robotics")
	t.Setenv("NEWS_LIMIT", "10")
	t.Setenv("SIMILARITY_THRESHOLD", "80")
	t.Setenv("SUMMARY_PROVIDER", "none")
	t.Setenv("SPREADSHEET_NAME", "Robot Digest")
	t.Setenv("REQUEST_TIMEOUT", "5")
	t.Setenv("MAX_SUMMARIES", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Source != "rss" {
		t.Errorf("Source = %q, want rss", cfg.Source)
	}
	if cfg.NewsQuery != "robotics" {
		t.Errorf("NewsQuery = %q, want robotics", cfg.NewsQuery)
	}
	if cfg.NewsLimit != 10 {
		t.Errorf("NewsLimit = %d, want 10", cfg.NewsLimit)
	}
	if cfg.SimilarityThreshold != 80 {
		t.Errorf("SimilarityThreshold = %d, want 80", cfg.SimilarityThreshold)
	}
	if cfg.SummaryProvider != "none" {
		t.Errorf("SummaryProvider = %q, want none", cfg.SummaryProvider)
	}
	if cfg.SpreadsheetName != "Robot Digest" {
		t.Errorf("SpreadsheetName = %q", cfg.SpreadsheetName)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", cfg.RequestTimeout)
	}
	if cfg.MaxSummaries != 2 {
		t.Errorf("MaxSummaries = %d, want 2", cfg.MaxSummaries)
	}
}

func TestLoadCredentialsFromFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDATA_API_KEY", "test-key")

	path := filepath.Join(t.TempDir(), "creds.json")
	if err := os.WriteFile(path, []byte(`{"client_email":"bot@test"}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SERVICE_ACCOUNT_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.CredentialsSource != FileCredentials {
		t.Errorf("CredentialsSource = %v, want file", cfg.CredentialsSource)
	}
	if string(cfg.CredentialsJSON) != `{"client_email":"bot@test"}` {
		t.Errorf("CredentialsJSON = %s", cfg.CredentialsJSON)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWSDATA_API_KEY", "test-key")
	t.Setenv("SERVICE_ACCOUNT_FILE", filepath.Join(t.TempDir(), "nope.json"))

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without any ledger credentials")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "unknown source",
			mutate:  func(c *Config) { c.Source = "usenet" },
			wantErr: "SOURCE",
		},
		{
			name:    "newsdata without api key",
			mutate:  func(c *Config) { c.NewsdataAPIKey = "" },
			wantErr: "NEWSDATA_API_KEY",
		},
		{
			name:    "empty spreadsheet name",
			mutate:  func(c *Config) { c.SpreadsheetName = "" },
			wantErr: "SPREADSHEET_NAME",
		},
		{
			name:    "threshold out of range",
			mutate:  func(c *Config) { c.SimilarityThreshold = 101 },
			wantErr: "SIMILARITY_THRESHOLD",
		},
		{
			name:    "unknown summary provider",
			mutate:  func(c *Config) { c.SummaryProvider = "watson" },
			wantErr: "SUMMARY_PROVIDER",
		},
		{
			name:    "missing summarizer key is allowed",
			mutate:  func(c *Config) { c.OpenAIAPIKey = "" },
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Source:              "newsdata",
				NewsdataAPIKey:      "key",
				SpreadsheetName:     "AI News",
				SimilarityThreshold: 50,
				SummaryProvider:     "openai",
				OpenAIAPIKey:        "key",
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}
