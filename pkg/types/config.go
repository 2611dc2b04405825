package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single page load, including the wait for the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with every page request.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// RetryPolicy is the fixed retry shape used at every page-load site:
// a bounded number of attempts separated by a constant delay. There is no
// backoff and no jitter.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first (default 3).
	Attempts int `json:"attempts" yaml:"attempts"`

	// Delay is the pause between consecutive attempts. Zero means no pause;
	// the CLI defaults it to DefaultPageDelay.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// ScholarConfig holds settings for the stages that read the bibliographic source.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the source's origin (default "https://scholar.google.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageLoad is the retry policy applied to every page load.
	PageLoad RetryPolicy `json:"page_load" yaml:"page_load"`

	// MaxArticles caps the number of summaries taken from one profile (default 100).
	MaxArticles int `json:"max_articles" yaml:"max_articles"`

	// PageSize is the number of profile rows requested per pagination step (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Provider selects the oracle backend: "openai" or "claude".
	Provider string `json:"provider" yaml:"provider"`

	// Model is the AI model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. An empty key disables
	// classification.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the provider endpoint; empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxAttempts is the total number of oracle calls per article (default 4).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RetryDelay is the pause between oracle attempts (default none).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`
}

// OutputFormat selects an additional export format for the merged tables.
type OutputFormat string

const (
	OutputXLSX OutputFormat = "xlsx"
	OutputYAML OutputFormat = "yaml"
	OutputJSON OutputFormat = "json"
)

// OutputConfig holds settings for writing run results.
type OutputConfig struct {
	// Dir is the directory receiving workbooks and exports (default "output").
	Dir string `json:"dir" yaml:"dir"`

	// Prefix is prepended to every output file name, typically the operator's name.
	Prefix string `json:"prefix" yaml:"prefix"`

	// DBPath is the SQLite database recording every run. Empty disables persistence.
	DBPath string `json:"db_path" yaml:"db_path"`

	// Formats lists the export formats to write (default xlsx only).
	Formats []OutputFormat `json:"formats" yaml:"formats"`
}

// PipelineConfig groups all stage configurations for a harvest run.
type PipelineConfig struct {
	Scholar  ScholarConfig `json:"scholar" yaml:"scholar"`
	Classify AIConfig      `json:"classify" yaml:"classify"`
	Output   OutputConfig  `json:"output" yaml:"output"`
}

// Defaults for the source stages.
const (
	DefaultBaseURL       = "https://scholar.google.com"
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultTimeout       = 10 * time.Second
	DefaultPageAttempts  = 3
	DefaultPageDelay     = 2 * time.Second
	DefaultMaxArticles   = 100
	DefaultPageSize      = 100
	DefaultOracleModel   = "gpt-4o"
	DefaultOracleAttempt = 4
)

// WithDefaults returns a copy of c with zero fields replaced by defaults.
func (c ScholarConfig) WithDefaults() ScholarConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PageLoad.Attempts <= 0 {
		c.PageLoad.Attempts = DefaultPageAttempts
	}
	if c.MaxArticles <= 0 {
		c.MaxArticles = DefaultMaxArticles
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	return c
}
