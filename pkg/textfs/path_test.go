package textfs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestJoinWorkspace(t *testing.T) {
	if got := JoinWorkspace("/work", "decks/a.pptx"); got != "/work/decks/a.pptx" {
		t.Fatalf("unexpected join: %s", got)
	}
	if got := JoinWorkspace("/work", "/tmp/a.pptx"); got != "/tmp/a.pptx" {
		t.Fatalf("absolute path should pass through, got %s", got)
	}
}

func TestIsWithin(t *testing.T) {
	cases := []struct {
		root, path string
		want       bool
	}{
		{"/work", "/work", true},
		{"/work", "/work/a.pptx", true},
		{"/work", "/work/sub/deep/a.pptx", true},
		{"/work", "/workspace/a.pptx", false},
		{"/work", "/etc/passwd", false},
		{"/work", "/work/../etc", false},
		{"/work", "/work/..data/a.pptx", true},
	}
	for _, tc := range cases {
		if got := IsWithin(tc.root, filepath.Clean(tc.path)); got != tc.want {
			t.Fatalf("IsWithin(%q, %q) = %v, want %v", tc.root, tc.path, got, tc.want)
		}
	}
}

func TestCanonicalizeFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.pptx")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	link := filepath.Join(dir, "link.pptx")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	got, err := Canonicalize(link)
	if err != nil {
		t.Fatalf("canonicalize: %v", err)
	}
	want, err := filepath.EvalSymlinks(target)
	if err != nil {
		t.Fatalf("eval target: %v", err)
	}
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCanonicalizeMissing(t *testing.T) {
	if _, err := Canonicalize(filepath.Join(t.TempDir(), "missing.pptx")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := ExpandHome("~/decks"); got != filepath.Join(home, "decks") {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := ExpandHome("decks/~"); got != "decks/~" {
		t.Fatalf("non-leading tilde must be kept: %s", got)
	}
}
