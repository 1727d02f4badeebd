package strings

import (
	"strings"
)

// DefaultLineMaxLen is the width used for single-line cells in tables.
const DefaultLineMaxLen = 60

// MinTruncateLen leaves room for one character plus "...".
const MinTruncateLen = 4

// TruncateLine collapses all whitespace in s to single spaces and cuts the
// result to maxLen runes, ending with "..." when cut. maxLen is clamped to
// MinTruncateLen.
func TruncateLine(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
