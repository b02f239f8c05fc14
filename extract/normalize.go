package extract

import (
	"regexp"
	"strings"
)

var (
	horizontalRun = regexp.MustCompile(`[ \t]+`)
	aroundNewline = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLineRun  = regexp.MustCompile(`\n{2,}`)
)

// NormalizeWhitespace collapses non-breaking spaces, horizontal whitespace
// runs, and blank-line runs, then trims. The operation is idempotent.
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = horizontalRun.ReplaceAllString(s, " ")
	s = aroundNewline.ReplaceAllString(s, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
