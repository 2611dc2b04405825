// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify decides whether a publication is about sustainability and,
// if so, which theme of a controlled vocabulary it belongs to. The decision is
// delegated to a text-classification oracle under a strict two-line response
// contract; failures degrade to exclusion sentinels and never abort a run.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/scholar-harvest/internal/httputil"
	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// ErrMalformedResponse marks an oracle response that breaks the
// Classification;<theme> / Language;<language> contract.
var ErrMalformedResponse = errors.New("malformed oracle response")

// Oracle answers a natural-language prompt with raw text. Network and
// authentication failures are returned as errors.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier assigns a theme or exclusion and a language to one publication.
type Classifier interface {
	Classify(ctx context.Context, title, abstract string) types.Classification
}

// Disabled is the classifier used when no oracle is configured. Its result
// is not an exclusion, so every article proceeds to author resolution.
type Disabled struct{}

// Classify implements Classifier.
func (Disabled) Classify(context.Context, string, string) types.Classification {
	return types.Classification{Theme: types.Unclassified, Language: types.Unclassified}
}

// OracleClassifier prompts an Oracle and validates its answer.
type OracleClassifier struct {
	oracle     Oracle
	vocabulary []string
	policy     types.RetryPolicy
	logger     *slog.Logger
}

// NewOracleClassifier returns a classifier that restricts themes to
// vocabulary. maxAttempts below one uses the default of four.
func NewOracleClassifier(o Oracle, vocabulary []string, cfg types.AIConfig, logger *slog.Logger) *OracleClassifier {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = types.DefaultOracleAttempt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OracleClassifier{
		oracle:     o,
		vocabulary: vocabulary,
		policy:     types.RetryPolicy{Attempts: attempts, Delay: cfg.RetryDelay},
		logger:     logger.With("stage", "classify"),
	}
}

// Classify implements Classifier. Parse and transport failures share one
// attempt budget; the kind of the last failure picks the exclusion sentinel
// and its text becomes the language.
func (c *OracleClassifier) Classify(ctx context.Context, title, abstract string) types.Classification {
	log := c.logger.With("title", title)

	prompt, err := RenderPrompt(title, abstract, c.vocabulary)
	if err != nil {
		log.Error("rendering prompt", "error", err)
		return types.Classification{Theme: types.ExcludeParseError, Language: err.Error()}
	}

	var (
		result    types.Classification
		lastErr   error
		transport bool
	)
	err = httputil.Retry(ctx, c.policy, func(attempt int) error {
		text, err := c.oracle.Complete(ctx, prompt)
		if err != nil {
			lastErr, transport = err, true
			log.Warn("oracle call failed", "attempt", attempt, "error", err)
			return err
		}
		parsed, err := ParseResponse(text, c.vocabulary)
		if err != nil {
			lastErr, transport = err, false
			log.Warn("oracle response rejected", "attempt", attempt, "error", err)
			return err
		}
		result = parsed
		return nil
	})
	if err == nil {
		log.Info("classified", "theme", result.Theme, "language", result.Language)
		return result
	}

	if lastErr == nil {
		lastErr, transport = err, true
	}
	if transport {
		return types.Classification{Theme: types.ExcludeOracleError, Language: lastErr.Error()}
	}
	return types.Classification{Theme: types.ExcludeParseError, Language: lastErr.Error()}
}

// oracleSentinels are the exclusions the oracle itself may answer with.
var oracleSentinels = []string{
	types.ExcludeNotSustainability,
	types.ExcludeInsufficientData,
}

// ParseResponse validates an oracle answer. It must hold exactly two
// non-blank lines, each split on its first ';'. The theme must match a
// vocabulary entry or an oracle sentinel, ignoring case and surrounding
// quotes, and is returned in its canonical spelling.
func ParseResponse(text string, vocabulary []string) (types.Classification, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) != 2 {
		return types.Classification{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrMalformedResponse, len(lines))
	}
	for i := range lines {
		if lines[i] = strings.TrimSpace(lines[i]); lines[i] == "" {
			return types.Classification{}, fmt.Errorf("%w: line %d is blank", ErrMalformedResponse, i+1)
		}
	}

	_, theme, ok := strings.Cut(lines[0], ";")
	if !ok {
		return types.Classification{}, fmt.Errorf("%w: no separator in %q", ErrMalformedResponse, lines[0])
	}
	_, language, ok := strings.Cut(lines[1], ";")
	if !ok {
		return types.Classification{}, fmt.Errorf("%w: no separator in %q", ErrMalformedResponse, lines[1])
	}

	canonical, ok := matchTheme(unquote(theme), vocabulary)
	if !ok {
		return types.Classification{}, fmt.Errorf("%w: theme %q is not in the vocabulary", ErrMalformedResponse, unquote(theme))
	}

	language = unquote(language)
	if language == "" {
		language = types.LanguageNotDetected
	}
	return types.Classification{Theme: canonical, Language: language}, nil
}

func matchTheme(theme string, vocabulary []string) (string, bool) {
	for _, v := range vocabulary {
		if strings.EqualFold(theme, strings.TrimSpace(v)) {
			return v, true
		}
	}
	for _, s := range oracleSentinels {
		if strings.EqualFold(theme, s) {
			return s, true
		}
	}
	return "", false
}

func unquote(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "'\"`"))
}
