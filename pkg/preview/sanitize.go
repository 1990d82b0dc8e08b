package preview

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy     *bluemonday.Policy
	textPolicyOnce sync.Once
)

// sanitizeText strips any markup from operator-supplied strings before they
// reach the template context. Labels and descriptions are free-form input.
func sanitizeText(input string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(input))
}
