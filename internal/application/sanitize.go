package application

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var plainTextPolicy = bluemonday.StrictPolicy()

// stripHTML removes all markup from s and trims surrounding whitespace.
// Entities produced by the sanitizer are decoded back to plain text.
func stripHTML(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}
