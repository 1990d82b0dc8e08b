// Package extract scans contract template text for mustache-style
// placeholders and classifies the variable names it finds. The scan is a pure
// function over the text: the document-to-text conversion happens upstream,
// either server-side through the form service upload endpoint or by whatever
// collaborator the caller wires in.
package extract

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-fieldsets/pkg/naming"
)

// placeholderPattern matches {{...}} non-greedily so adjacent tags never
// merge. Nested braces are not supported by the template dialect.
var placeholderPattern = regexp.MustCompile(`\{\{(.*?)\}\}`)

// Result classifies every placeholder occurrence found in a document.
// ValidVariables preserves first-seen order and holds unique canonical names;
// InvalidVariables preserves the offending tokens verbatim for operator
// inspection. TotalVariablesFound counts raw occurrences, so it can exceed
// the combined list lengths when a valid name repeats.
type Result struct {
	ValidVariables      []string `json:"valid_variables"`
	InvalidVariables    []string `json:"invalid_variables"`
	TotalVariablesFound int      `json:"total_variables_found"`
}

// Extract scans text for {{name}} placeholders and applies the naming rule to
// each candidate. Conditional block markers {{#name}} and {{/name}} reference
// the same variable as {{name}}: the marker prefix is stripped before
// validation so they are never misclassified as distinct variables.
func Extract(text string) Result {
	var result Result
	seen := make(map[string]struct{})

	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		token := match[1]
		result.TotalVariablesFound++

		candidate := strings.TrimPrefix(token, "#")
		if candidate == token {
			candidate = strings.TrimPrefix(token, "/")
		}

		if !naming.IsValidName(candidate) {
			result.InvalidVariables = append(result.InvalidVariables, token)
			continue
		}

		canonical := naming.Normalize(candidate)
		if _, exists := seen[canonical]; exists {
			continue
		}
		seen[canonical] = struct{}{}
		result.ValidVariables = append(result.ValidVariables, canonical)
	}

	return result
}
