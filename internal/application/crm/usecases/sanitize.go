package usecases

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips markup from free text typed by users or visitors.
func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
