// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/scholar-harvest/pkg/types"
)

// promptTmpl is the single prompt sent to the oracle for each publication.
var promptTmpl = template.Must(template.New("classify").Parse(`Use the title and abstract of a paper to decide whether the paper is about sustainability.

Title: {{.Title}}
Abstract: {{.Abstract}}

If the paper is not about sustainability, answer "{{.NotSustainability}}".
If the paper is about sustainability, classify it into exactly one of these themes:
{{range .Vocabulary}}- {{.}}
{{end}}
Return the theme exactly as written in the list, without additional words and without quotes. A paper has only one theme.
If the paper does not clearly fall into one theme, or there is any ambiguity, answer "{{.NotSustainability}}". Be conservative: only papers that are obviously about sustainability qualify.
If there is not enough information to decide, answer "{{.InsufficientData}}".

Detect the natural language of the title and abstract (for example English or Spanish). If you cannot detect it, answer "{{.LanguageNotDetected}}".

Respond with exactly two lines and nothing else:
Classification;<theme>
Language;<language>
`))

// RenderPrompt builds the oracle prompt for one publication.
func RenderPrompt(title, abstract string, vocabulary []string) (string, error) {
	var buf bytes.Buffer
	err := promptTmpl.Execute(&buf, struct {
		Title               string
		Abstract            string
		Vocabulary          []string
		NotSustainability   string
		InsufficientData    string
		LanguageNotDetected string
	}{
		Title:               strings.TrimSpace(title),
		Abstract:            strings.TrimSpace(abstract),
		Vocabulary:          vocabulary,
		NotSustainability:   types.ExcludeNotSustainability,
		InsufficientData:    types.ExcludeInsufficientData,
		LanguageNotDetected: types.LanguageNotDetected,
	})
	if err != nil {
		return "", fmt.Errorf("executing prompt template: %w", err)
	}
	return buf.String(), nil
}
