// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads oracle API keys from a directory of plain-text files.
// The file name is the key name and the trimmed contents are the value.
//
// Recognised files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir is the secrets directory used when none is configured.
const DefaultDir = ".secrets"

// Key file names.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Unreadable or empty files are skipped.
func Load(dir string) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// OracleKey returns the API key for a classify provider ("openai" or
// "claude"); "" selects openai. Unknown providers have no key.
func (s Secrets) OracleKey(provider string) string {
	switch strings.ToLower(provider) {
	case "", "openai":
		return s[OpenAIKey]
	case "claude", "anthropic":
		return s[AnthropicKey]
	}
	return ""
}
