// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-harvest/internal/secrets"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Configuration keys.
const (
	keyBaseURL      = "scholar.base_url"
	keyTimeout      = "scholar.timeout"
	keyUserAgent    = "scholar.user_agent"
	keyPageAttempts = "scholar.page_attempts"
	keyPageDelay    = "scholar.page_delay"
	keyMaxArticles  = "scholar.max_articles"
	keyPageSize     = "scholar.page_size"

	keyProvider    = "classify.provider"
	keyModel       = "classify.model"
	keyAPIKey      = "classify.api_key"
	keyOracleURL   = "classify.base_url"
	keyMaxAttempts = "classify.max_attempts"
	keyRetryDelay  = "classify.retry_delay"

	keyOutputDir = "output.dir"
	keyPrefix    = "output.prefix"
	keyDB        = "output.db"
	keyFormats   = "output.formats"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyBaseURL, types.DefaultBaseURL)
	v.SetDefault(keyTimeout, types.DefaultTimeout)
	v.SetDefault(keyUserAgent, types.DefaultUserAgent)
	v.SetDefault(keyPageAttempts, types.DefaultPageAttempts)
	v.SetDefault(keyPageDelay, types.DefaultPageDelay)
	v.SetDefault(keyMaxArticles, types.DefaultMaxArticles)
	v.SetDefault(keyPageSize, types.DefaultPageSize)
	v.SetDefault(keyProvider, "openai")
	v.SetDefault(keyMaxAttempts, types.DefaultOracleAttempt)
	v.SetDefault(keyOutputDir, "output")
	v.SetDefault(keyFormats, []string{string(types.OutputXLSX)})
}

// bindEnv makes nested keys readable from SCHOLAR_HARVEST_SCHOLAR_BASE_URL
// and the like.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SCHOLAR_HARVEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// pipelineConfig reads the run configuration from v. An API key set in
// configuration or the environment wins over one from the secrets directory.
func pipelineConfig(v *viper.Viper, s secrets.Secrets) types.PipelineConfig {
	cfg := types.PipelineConfig{
		Scholar: types.ScholarConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(keyTimeout),
				UserAgent: v.GetString(keyUserAgent),
			},
			BaseURL: v.GetString(keyBaseURL),
			PageLoad: types.RetryPolicy{
				Attempts: v.GetInt(keyPageAttempts),
				Delay:    v.GetDuration(keyPageDelay),
			},
			MaxArticles: v.GetInt(keyMaxArticles),
			PageSize:    v.GetInt(keyPageSize),
		},
		Classify: types.AIConfig{
			Provider:    v.GetString(keyProvider),
			Model:       v.GetString(keyModel),
			APIKey:      v.GetString(keyAPIKey),
			BaseURL:     v.GetString(keyOracleURL),
			MaxAttempts: v.GetInt(keyMaxAttempts),
			RetryDelay:  v.GetDuration(keyRetryDelay),
		},
		Output: types.OutputConfig{
			Dir:    v.GetString(keyOutputDir),
			Prefix: v.GetString(keyPrefix),
			DBPath: v.GetString(keyDB),
		},
	}
	if cfg.Classify.APIKey == "" {
		cfg.Classify.APIKey = s.OracleKey(cfg.Classify.Provider)
	}
	for _, f := range v.GetStringSlice(keyFormats) {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			cfg.Output.Formats = append(cfg.Output.Formats, types.OutputFormat(f))
		}
	}
	cfg.Scholar = cfg.Scholar.WithDefaults()
	return cfg
}

// wants reports whether format is among the configured output formats.
func wants(cfg types.OutputConfig, format types.OutputFormat) bool {
	for _, f := range cfg.Formats {
		if f == format {
			return true
		}
	}
	return false
}
