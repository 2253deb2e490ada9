package textfs

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateCharsUnderLimit(t *testing.T) {
	for _, content := range []string{"", "short", strings.Repeat("x", 10)} {
		got, truncated := TruncateChars(content, 10)
		if truncated || got != content {
			t.Fatalf("TruncateChars(%q, 10) = %q, %v", content, got, truncated)
		}
	}
}

func TestTruncateCharsOverLimit(t *testing.T) {
	got, truncated := TruncateChars("abcdefghij", 4)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	if want := "abcd" + TruncationMarker; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTruncateCharsKeepsRunes(t *testing.T) {
	content := strings.Repeat("日本語", 5)
	got, truncated := TruncateChars(content, 7)
	if !truncated {
		t.Fatalf("expected truncation")
	}
	kept := strings.TrimSuffix(got, TruncationMarker)
	if !utf8.ValidString(kept) {
		t.Fatalf("cut split a rune: %q", kept)
	}
	if n := utf8.RuneCountInString(kept); n != 7 {
		t.Fatalf("expected 7 runes, got %d", n)
	}
}

func TestTruncateCharsCountsRunesNotBytes(t *testing.T) {
	// 4 runes, 12 bytes: fits a limit of 4 characters.
	content := "ééé✓"
	got, truncated := TruncateChars(content, 4)
	if truncated || got != content {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestFormatSize(t *testing.T) {
	cases := map[int64]string{
		512:              "512B",
		2048:             "2.0KB",
		60 * 1024 * 1024: "60.0MB",
	}
	for in, want := range cases {
		if got := FormatSize(in); got != want {
			t.Fatalf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
