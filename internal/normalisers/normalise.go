package normalisers

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText normalises extracted text: whitespace runs collapse to a
// single space, embedded NUL bytes are stripped, and the result is
// trimmed. The function is idempotent: re-normalising already-clean
// text must not shift chunk boundaries.
func CleanText(text string) string {
	// NULs go first: stripping one between two spaces after collapsing
	// would leave a run a second pass could still shrink.
	text = strings.ReplaceAll(text, "\x00", "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
