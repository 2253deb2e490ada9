package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

type zipPart struct {
	name string
	body string
}

func buildZip(t *testing.T, parts ...zipPart) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			t.Fatalf("create %s: %v", part.name, err)
		}
		if _, err := w.Write([]byte(part.body)); err != nil {
			t.Fatalf("write %s: %v", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func slideXML(runs ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><p:sld><p:cSld><p:spTree><p:sp><p:txBody>`)
	for _, run := range runs {
		b.WriteString(`<a:p><a:r><a:rPr lang="en-US"/><a:t>`)
		b.WriteString(run)
		b.WriteString(`</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func TestScanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"runs joined with spaces", `<a:t>Hello</a:t><a:t>World</a:t></a:p>`, "Hello World \n"},
		{"single pass entity decode", `<a:t>&amp;lt;b&amp;gt;</a:t>`, "&lt;b&gt; "},
		{"all entities", `<a:t>&lt;&gt;&quot;&apos;&#39;&amp;</a:t>`, `<>"''& `},
		{"run with attributes", `<a:t xml:space="preserve"> x </a:t>`, " x  "},
		{"unterminated run", `<a:t>lost`, ""},
		{"reopened run drops prior text", `<a:t>one<a:t>two</a:t>`, "two "},
		{"partial tag discarded", `<a:t>kept</a:t><a:p`, "kept "},
		{"text outside runs discarded", `stray<a:p>also stray</a:p>`, ""},
		{"line breaks collapse", `<a:t>a</a:t><a:br/><a:br/><a:t>b</a:t>`, "a \nb "},
		{"leading break ignored", `</a:p><a:br><a:t>a</a:t>`, "a "},
		{"similar tags ignored", `<a:tab/><a:t>x</a:t><a:tbl>y</a:tbl>`, "x "},
		{"empty run", `<a:t></a:t><a:t>z</a:t>`, "z "},
		{"closing tag outside run", `</a:t><a:t>q</a:t>`, "q "},
		{"multibyte text", `<a:t>日本語 ✓</a:t>`, "日本語 ✓ "},
		{"empty input", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScanText(tc.in); got != tc.want {
				t.Fatalf("ScanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsSlidePart(t *testing.T) {
	cases := map[string]bool{
		"ppt/slides/slide1.xml":             true,
		"ppt/slides/slide10.xml":            true,
		"ppt/slides/slideX.xml":             true,
		"ppt/slides/_rels/slide1.xml.rels":  false,
		"ppt/slides/sub/slide3.xml":         false,
		"ppt/notesSlides/notesSlide1.xml":   false,
		"ppt/slideLayouts/slideLayout1.xml": false,
		"ppt/slideMasters/slideMaster1.xml": false,
		"PPT/SLIDES/SLIDE1.XML":             false,
		"other/ppt/slides/slide1.xml":       false,
		"ppt/slides/Slide1.xml":             false,
		"ppt/slides/slide1.xml.bak":         false,
	}
	for name, want := range cases {
		if got := IsSlidePart(name); got != want {
			t.Fatalf("IsSlidePart(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestSlideOrdinal(t *testing.T) {
	if n, ok := SlideOrdinal("ppt/slides/slide12.xml"); !ok || n != 12 {
		t.Fatalf("expected 12, got %d (%v)", n, ok)
	}
	if _, ok := SlideOrdinal("ppt/slides/slideX.xml"); ok {
		t.Fatalf("expected no ordinal for slideX.xml")
	}
	if _, ok := SlideOrdinal("ppt/slides/slide99999999999.xml"); ok {
		t.Fatalf("expected overflow to fail")
	}
}

func TestSlideEntriesOrdering(t *testing.T) {
	names := []string{
		"ppt/slides/slide2.xml",
		"ppt/slides/slide10.xml",
		"ppt/notesSlides/notesSlide1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slideB.xml",
		"ppt/slides/slideA.xml",
	}
	entries := SlideEntries(names)
	var got []string
	for _, entry := range entries {
		got = append(got, entry.Name)
	}
	want := []string{
		"ppt/slides/slideB.xml",
		"ppt/slides/slideA.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/slide10.xml",
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected order:\n got %v\nwant %v", got, want)
	}
	if entries[0].HasOrdinal || !entries[2].HasOrdinal {
		t.Fatalf("unexpected ordinal flags: %+v", entries)
	}
}

func TestExtractTextSingleSlide(t *testing.T) {
	data := buildZip(t, zipPart{"ppt/slides/slide1.xml", `<a:t>Hello</a:t><a:t>World</a:t></a:p>`})
	got, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "--- Slide 1 ---\nHello World \n\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractTextNumericOrderAndNumbering(t *testing.T) {
	data := buildZip(t,
		zipPart{"[Content_Types].xml", `<Types/>`},
		zipPart{"ppt/slides/slide2.xml", slideXML("two")},
		zipPart{"ppt/slides/slide10.xml", slideXML("ten")},
		zipPart{"ppt/slides/slide3.xml", slideXML()},
		zipPart{"ppt/slides/slide1.xml", slideXML("one")},
		zipPart{"ppt/notesSlides/notesSlide1.xml", slideXML("speaker notes")},
	)
	got, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	want := "--- Slide 1 ---\none \n\n" +
		"--- Slide 2 ---\ntwo \n\n" +
		"--- Slide 3 ---\nten \n\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractTextWithoutTrailingParagraph(t *testing.T) {
	data := buildZip(t, zipPart{"ppt/slides/slide1.xml", `<a:t>bare</a:t>`})
	got, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if want := "--- Slide 1 ---\nbare \n\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExtractTextNoSlides(t *testing.T) {
	data := buildZip(t, zipPart{"docProps/app.xml", `<a:t>not a slide</a:t>`})
	got, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractTextIsDeterministic(t *testing.T) {
	data := buildZip(t,
		zipPart{"ppt/slides/slide1.xml", slideXML("a &amp; b", "c")},
		zipPart{"ppt/slides/slide2.xml", slideXML("d")},
	)
	first, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	second, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if first != second {
		t.Fatalf("extraction not deterministic: %q vs %q", first, second)
	}
}

func TestExtractTextInvalidArchive(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a zip file"))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
}

func TestExtractTextInvalidUTF8(t *testing.T) {
	data := buildZip(t, zipPart{"ppt/slides/slide1.xml", "<a:t>\xff\xfe</a:t>"})
	_, err := ExtractText(data)
	if !errors.Is(err, ErrEntryRead) {
		t.Fatalf("expected ErrEntryRead, got %v", err)
	}
}

func TestArchiveReadEntryMissing(t *testing.T) {
	archive, err := Open(buildZip(t, zipPart{"a.txt", "a"}))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if names := archive.Names(); len(names) != 1 || names[0] != "a.txt" {
		t.Fatalf("unexpected names: %v", names)
	}
	if _, err := archive.ReadEntry("b.txt"); !errors.Is(err, ErrEntryRead) {
		t.Fatalf("expected ErrEntryRead, got %v", err)
	}
}

func TestWorkerExtract(t *testing.T) {
	w := NewWorker(1)
	data := buildZip(t, zipPart{"ppt/slides/slide1.xml", slideXML("hi")})
	got, err := w.Extract(context.Background(), data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "--- Slide 1 ---\nhi \n\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestWorkerRecoversPanic(t *testing.T) {
	w := NewWorker(1)
	w.extract = func([]byte) (string, error) {
		panic("boom")
	}
	_, err := w.Extract(context.Background(), nil)
	if !errors.Is(err, ErrTaskFailed) {
		t.Fatalf("expected ErrTaskFailed, got %v", err)
	}
	// The slot must be released after a panic.
	w.extract = func([]byte) (string, error) { return "ok", nil }
	if got, err := w.Extract(context.Background(), nil); err != nil || got != "ok" {
		t.Fatalf("worker unusable after panic: %q, %v", got, err)
	}
}

func TestWorkerCancelled(t *testing.T) {
	w := NewWorker(1)
	block := make(chan struct{})
	w.extract = func([]byte) (string, error) {
		<-block
		return "", nil
	}
	defer close(block)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Extract(ctx, nil)
	if !errors.Is(err, ErrTaskFailed) {
		t.Fatalf("expected ErrTaskFailed, got %v", err)
	}
}
