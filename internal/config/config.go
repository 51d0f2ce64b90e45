// Package config loads the pipeline configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// CredentialsSource records where the ledger's service account JSON came
// from. It is resolved exactly once in Load; nothing branches on it later.
type CredentialsSource int

const (
	InlineCredentials CredentialsSource = iota
	FileCredentials
)

func (s CredentialsSource) String() string {
	if s == InlineCredentials {
		return "inline"
	}
	return "file"
}

type Config struct {
	// News source settings
	Source          string // "newsdata" or "rss"
	NewsdataAPIKey  string
	NewsQuery       string
	NewsLanguage    string
	NewsLimit       int
	FeedsConfigPath string

	// Ledger settings
	SpreadsheetName   string
	CredentialsSource CredentialsSource
	CredentialsJSON   []byte

	// Dedup settings
	SimilarityThreshold int

	// Summary settings
	SummaryProvider string // "openai", "gemini" or "none"
	OpenAIAPIKey    string
	GeminiAPIKey    string
	SummaryModel    string // empty = provider default
	MaxSummaries    int    // maximum AI calls per run (0 = unlimited)

	// App settings
	Debug          bool
	RequestTimeout time.Duration

	// Monitoring settings
	EnableMonitoring bool
	MonitoringPort   int
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		Source:              "newsdata",
		NewsQuery:           "AI, openai, chatgpt, google",
		NewsLanguage:        "en",
		NewsLimit:           4,
		FeedsConfigPath:     "feeds.yaml",
		SpreadsheetName:     "AI News",
		SimilarityThreshold: 50,
		SummaryProvider:     "openai",
		RequestTimeout:      30 * time.Second,
		MonitoringPort:      8080,
	}

	// Load from environment
	cfg.NewsdataAPIKey = os.Getenv("NEWSDATA_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.SummaryModel = os.Getenv("SUMMARY_MODEL")

	cfg.Source = getEnvOrDefault("SOURCE", cfg.Source)
	cfg.NewsQuery = getEnvOrDefault("NEWS_QUERY", cfg.NewsQuery)
	cfg.NewsLanguage = getEnvOrDefault("NEWS_LANGUAGE", cfg.NewsLanguage)
	cfg.NewsLimit = getEnvIntOrDefault("NEWS_LIMIT", cfg.NewsLimit)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.SpreadsheetName = getEnvOrDefault("SPREADSHEET_NAME", cfg.SpreadsheetName)
	cfg.SimilarityThreshold = getEnvIntOrDefault("SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)
	cfg.SummaryProvider = getEnvOrDefault("SUMMARY_PROVIDER", cfg.SummaryProvider)
	cfg.MaxSummaries = getEnvIntOrDefault("MAX_SUMMARIES", 0)

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.RequestTimeout = time.Duration(val) * time.Second
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	cfg.EnableMonitoring = os.Getenv("ENABLE_HTTP_MONITORING") == "true"
	cfg.MonitoringPort = getEnvIntOrDefault("MONITORING_PORT", cfg.MonitoringPort)

	if err := cfg.loadLedgerCredentials(); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// loadLedgerCredentials resolves the service account JSON: the inline
// environment value wins, otherwise the credentials file is read.
func (c *Config) loadLedgerCredentials() error {
	if inline := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"); inline != "" {
		c.CredentialsSource = InlineCredentials
		c.CredentialsJSON = []byte(inline)
		return nil
	}

	path := getEnvOrDefault("SERVICE_ACCOUNT_FILE", "service_account.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read service account file %s: %w", path, err)
	}
	c.CredentialsSource = FileCredentials
	c.CredentialsJSON = data
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.Source != "newsdata" && c.Source != "rss" {
		return fmt.Errorf("SOURCE must be 'newsdata' or 'rss'")
	}
	if c.Source == "newsdata" && c.NewsdataAPIKey == "" {
		return fmt.Errorf("NEWSDATA_API_KEY is required")
	}
	if c.SpreadsheetName == "" {
		return fmt.Errorf("SPREADSHEET_NAME is required")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be between 0 and 100")
	}
	switch c.SummaryProvider {
	case "openai", "gemini", "none":
	default:
		return fmt.Errorf("SUMMARY_PROVIDER must be 'openai', 'gemini' or 'none'")
	}
	return nil
}
