// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// Provider names accepted in configuration.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

const (
	defaultOpenAIURL   = "https://api.openai.com/v1/chat/completions"
	defaultClaudeURL   = "https://api.anthropic.com/v1/messages"
	defaultClaudeModel = "claude-sonnet-4-5"
	oracleTimeout      = 60 * time.Second
	maxResponseTokens  = 256
)

// ErrEmptyVocabulary is returned by New when an oracle is configured but no
// themes are given to classify against.
var ErrEmptyVocabulary = errors.New("theme vocabulary is empty")

// New selects the classifier for cfg. Without an API key the Disabled
// classifier is returned.
func New(cfg types.AIConfig, vocabulary []string, logger *slog.Logger) (Classifier, error) {
	if cfg.APIKey == "" {
		return Disabled{}, nil
	}
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("%w: add themes to the roster", ErrEmptyVocabulary)
	}
	client := &http.Client{Timeout: oracleTimeout}

	var o Oracle
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		model := cfg.Model
		if model == "" {
			model = types.DefaultOracleModel
		}
		o = &OpenAIOracle{APIKey: cfg.APIKey, Model: model, URL: cfg.BaseURL, Client: client}
	case ProviderClaude, "anthropic":
		model := cfg.Model
		if model == "" {
			model = defaultClaudeModel
		}
		o = &ClaudeOracle{APIKey: cfg.APIKey, Model: model, URL: cfg.BaseURL, Client: client}
	default:
		return nil, fmt.Errorf("unknown classify provider %q", cfg.Provider)
	}
	return NewOracleClassifier(o, vocabulary, cfg, logger), nil
}

// OpenAIOracle calls the OpenAI chat completions API.
type OpenAIOracle struct {
	APIKey string
	Model  string
	// URL overrides the endpoint; empty uses the public API.
	URL    string
	Client *http.Client
}

type openAIRequest struct {
	Model     string          `json:"model"`
	Messages  []oracleMessage `json:"messages"`
	MaxTokens int             `json:"max_tokens"`
}

type oracleMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message oracleMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements Oracle.
func (o *OpenAIOracle) Complete(ctx context.Context, prompt string) (string, error) {
	endpoint := o.URL
	if endpoint == "" {
		endpoint = defaultOpenAIURL
	}
	body := openAIRequest{
		Model:     o.Model,
		Messages:  []oracleMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxResponseTokens,
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}

	var resp openAIResponse
	if err := postJSON(ctx, o.Client, endpoint, headers, body, &resp); err != nil {
		return "", fmt.Errorf("OpenAI API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ClaudeOracle calls the Claude messages API.
type ClaudeOracle struct {
	APIKey string
	Model  string
	// URL overrides the endpoint; empty uses the public API.
	URL    string
	Client *http.Client
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []oracleMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements Oracle.
func (c *ClaudeOracle) Complete(ctx context.Context, prompt string) (string, error) {
	endpoint := c.URL
	if endpoint == "" {
		endpoint = defaultClaudeURL
	}
	body := claudeRequest{
		Model:     c.Model,
		MaxTokens: maxResponseTokens,
		Messages:  []oracleMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         c.APIKey,
		"anthropic-version": "2023-06-01",
	}

	var resp claudeResponse
	if err := postJSON(ctx, c.Client, endpoint, headers, body, &resp); err != nil {
		return "", fmt.Errorf("Claude API: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
