package aitokens

import "testing"

func TestApproxTokens(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"日本語のテキスト", 2},
	}
	for _, tc := range cases {
		if got := ApproxTokens(tc.text); got != tc.want {
			t.Fatalf("ApproxTokens(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}
