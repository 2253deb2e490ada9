package textfs

import (
	"fmt"
	"unicode/utf8"
)

const TruncationMarker = "\n\n[... truncated, use max_chars to read more ...]"

func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	}
	return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
}

// TruncateChars keeps the first maxChars characters of content and appends
// TruncationMarker when anything was cut. The cut never splits a rune.
func TruncateChars(content string, maxChars int) (string, bool) {
	if maxChars < 0 {
		maxChars = 0
	}
	if len(content) <= maxChars || utf8.RuneCountInString(content) <= maxChars {
		return content, false
	}
	count := 0
	for i := range content {
		if count == maxChars {
			return content[:i] + TruncationMarker, true
		}
		count++
	}
	return content, false
}
