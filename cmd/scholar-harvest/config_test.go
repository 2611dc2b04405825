// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/scholar-harvest/internal/classify"
	"github.com/pdiddy/scholar-harvest/internal/export"
	"github.com/pdiddy/scholar-harvest/internal/pipeline"
	"github.com/pdiddy/scholar-harvest/internal/secrets"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

func TestPipelineConfig_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := pipelineConfig(v, secrets.Secrets{})
	assert.Equal(t, types.DefaultBaseURL, cfg.Scholar.BaseURL)
	assert.Equal(t, types.DefaultTimeout, cfg.Scholar.Timeout)
	assert.Equal(t, types.RetryPolicy{Attempts: 3, Delay: 2 * time.Second}, cfg.Scholar.PageLoad)
	assert.Equal(t, 100, cfg.Scholar.MaxArticles)
	assert.Equal(t, "openai", cfg.Classify.Provider)
	assert.Equal(t, 4, cfg.Classify.MaxAttempts)
	assert.Empty(t, cfg.Classify.APIKey)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, []types.OutputFormat{types.OutputXLSX}, cfg.Output.Formats)
}

func TestPipelineConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scholar-harvest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`scholar:
  base_url: http://localhost:8080
  page_delay: 0s
  max_articles: 20
classify:
  provider: claude
output:
  prefix: Addison
  formats: [XLSX, yaml]
`), 0o644))

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := pipelineConfig(v, secrets.Secrets{
		secrets.OpenAIKey:    "sk-openai",
		secrets.AnthropicKey: "sk-ant",
	})
	assert.Equal(t, "http://localhost:8080", cfg.Scholar.BaseURL)
	assert.Zero(t, cfg.Scholar.PageLoad.Delay)
	assert.Equal(t, 20, cfg.Scholar.MaxArticles)
	assert.Equal(t, "sk-ant", cfg.Classify.APIKey, "key follows the provider")
	assert.Equal(t, "Addison", cfg.Output.Prefix)
	assert.True(t, wants(cfg.Output, types.OutputXLSX))
	assert.True(t, wants(cfg.Output, types.OutputYAML))
	assert.False(t, wants(cfg.Output, types.OutputJSON))
}

func TestPipelineConfig_EnvKeyWinsOverSecrets(t *testing.T) {
	t.Setenv("SCHOLAR_HARVEST_CLASSIFY_API_KEY", "sk-env")
	t.Setenv("SCHOLAR_HARVEST_OUTPUT_PREFIX", "Env")

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	cfg := pipelineConfig(v, secrets.Secrets{secrets.OpenAIKey: "sk-file"})
	assert.Equal(t, "sk-env", cfg.Classify.APIKey)
	assert.Equal(t, "Env", cfg.Output.Prefix)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := newLogger(&buf, "json", false)
	require.NoError(t, err)
	l.Debug("hidden")
	l.Info("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	l, err = newLogger(&buf, "text", true)
	require.NoError(t, err)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "level=DEBUG")

	_, err = newLogger(&buf, "xml", false)
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	dir := t.TempDir()
	at := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)
	res := &pipeline.Result{
		Tables: types.Tables{
			Articles: []types.ArticleRow{{ArticleID: "A1", AuthorID: "U1", Title: "Green Paper"}},
			Authors:  []types.AuthorRow{{ArticleID: "A1", AuthorID: "U1", Rank: 1}},
		},
	}
	cfg := types.OutputConfig{Dir: dir, Prefix: "Addison", Formats: []types.OutputFormat{types.OutputXLSX, types.OutputYAML}}

	var out bytes.Buffer
	require.NoError(t, writeResults(cfg, "run-1", res, at, &out))

	assert.FileExists(t, export.ResultsPath(dir, "Addison", at))
	yamlPath := export.TablesPath(dir, "Addison", at, "yaml")
	assert.Equal(t, filepath.Join(dir, "Addison harvest_tables 2026-03-01 140509.yaml"), yamlPath)
	tf, err := export.ReadYAML(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "run-1", tf.RunID)
	assert.Equal(t, res.Tables.Articles, tf.Articles)
	assert.NoFileExists(t, export.TablesPath(dir, "Addison", at, "json"))
}

func TestNewPipeline_DisabledWithoutKey(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	v := viper.New()
	setDefaults(v)

	p, err := newPipeline(pipelineConfig(v, secrets.Secrets{}), []string{"Green Logistics"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, p.Profiles)
	assert.NotNil(t, p.Checkpoint)
	assert.Equal(t, types.Unclassified, p.Classifier.Classify(context.Background(), "t", "a").Theme)
}

func TestNewPipeline_EmptyVocabularyWithKey(t *testing.T) {
	logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	v := viper.New()
	setDefaults(v)

	_, err := newPipeline(pipelineConfig(v, secrets.Secrets{secrets.OpenAIKey: "sk-file"}), nil, nil)
	assert.ErrorIs(t, err, classify.ErrEmptyVocabulary)
}
