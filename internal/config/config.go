// Package config loads runtime configuration from environment variables
// and optional HCL config files.
package config

import (
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
)

// Config holds every runtime setting. Credentials have no defaults and
// are validated where they are first needed, so a --dry-run or
// articles-only run does not demand unused secrets.
type Config struct {
	SearchTerms       []string      `hcl:"search_terms" env:"SEARCH_TERMS" default:"Cursor AI,Claude Code,Google Antigravity AI" usage:"comma-separated search terms"`
	MaxResultsPerTerm int           `hcl:"max_results_per_term" env:"MAX_RESULTS_PER_TERM" default:"10" usage:"max results fetched per search term"`
	DaysLookback      int           `hcl:"days_lookback" env:"DAYS_LOOKBACK" default:"7" usage:"lookback window in days"`
	TopN              int           `hcl:"top_n" env:"TOP_N" default:"3" usage:"records kept per report section"`
	YouTubeAPIKey     string        `hcl:"youtube_api_key" env:"YOUTUBE_API_KEY" usage:"YouTube Data API key"`
	SlackWebhookURL   string        `hcl:"slack_webhook_url" env:"SLACK_WEBHOOK_URL" usage:"Slack incoming webhook URL"`
	RequestTimeout    time.Duration `hcl:"request_timeout" env:"REQUEST_TIMEOUT" default:"30s" usage:"per-request network timeout"`
}

// Window returns the lookback window as a duration.
func (c Config) Window() time.Duration {
	return time.Duration(c.DaysLookback) * 24 * time.Hour
}

// Load reads configuration from ./config.hcl, ./config.local.hcl, and the
// environment (environment wins). Missing files are skipped.
func Load() (Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		Files:     []string{"./config.hcl", "./config.local.hcl"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})

	if err := loader.Load(); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.MaxResultsPerTerm <= 0 {
		return Config{}, fmt.Errorf("MAX_RESULTS_PER_TERM must be positive, got %d", cfg.MaxResultsPerTerm)
	}
	if cfg.DaysLookback <= 0 {
		return Config{}, fmt.Errorf("DAYS_LOOKBACK must be positive, got %d", cfg.DaysLookback)
	}
	if cfg.TopN <= 0 {
		return Config{}, fmt.Errorf("TOP_N must be positive, got %d", cfg.TopN)
	}
	if len(cfg.SearchTerms) == 0 {
		return Config{}, fmt.Errorf("SEARCH_TERMS must not be empty")
	}

	return cfg, nil
}
