package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// SanitizeName strips complete tags from a user supplied label and returns
// plain text. Escaped markup ("&lt;b&gt;") is unescaped and stripped as well.
// A label with no closing bracket holds no tag and is kept as typed, so
// "a<b" stays "a<b"; pages must still escape names when rendering them.
func SanitizeName(input string) string {
	s := strings.TrimSpace(input)
	for i := 0; i < 3; i++ {
		if !strings.Contains(html.UnescapeString(s), ">") {
			break
		}
		next := html.UnescapeString(sanitizer.Sanitize(s))
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}
