package pptx

import (
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	slidesDir    = "ppt/slides/"
	slidePrefix  = "slide"
	slideSuffix  = ".xml"
	slideHeading = "--- Slide %d ---\n"
)

// SlideEntry is an archive entry that holds a slide part.
type SlideEntry struct {
	Name       string
	Ordinal    uint32
	HasOrdinal bool
}

// IsSlidePart reports whether name is a slide part, i.e. a file directly in
// ppt/slides whose name starts with "slide" and ends with ".xml".
// Notes, layouts and relationship parts never match.
func IsSlidePart(name string) bool {
	dir, file := path.Split(name)
	if dir != slidesDir {
		return false
	}
	return strings.HasPrefix(file, slidePrefix) && strings.HasSuffix(file, slideSuffix)
}

// SlideOrdinal parses the slide number out of a name like
// "ppt/slides/slide12.xml".
func SlideOrdinal(name string) (uint32, bool) {
	file := name[strings.LastIndexByte(name, '/')+1:]
	digits, ok := strings.CutPrefix(file, slidePrefix)
	if !ok {
		return 0, false
	}
	digits, ok = strings.CutSuffix(digits, slideSuffix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// SlideEntries filters names down to slide parts and orders them by slide
// number. Names without a parsable number sort as slide 0; ties keep their
// archive order.
func SlideEntries(names []string) []SlideEntry {
	entries := make([]SlideEntry, 0, len(names))
	for _, name := range names {
		if !IsSlidePart(name) {
			continue
		}
		ordinal, ok := SlideOrdinal(name)
		entries = append(entries, SlideEntry{Name: name, Ordinal: ordinal, HasOrdinal: ok})
	}
	slices.SortStableFunc(entries, func(a, b SlideEntry) int {
		switch {
		case a.Ordinal < b.Ordinal:
			return -1
		case a.Ordinal > b.Ordinal:
			return 1
		}
		return 0
	})
	return entries
}

// Collect extracts the text of every slide in the archive, in slide order.
// Slides without text are skipped and do not consume a slide number.
func Collect(a *Archive) (string, error) {
	var result strings.Builder
	n := 0
	for _, entry := range SlideEntries(a.Names()) {
		data, err := a.ReadEntry(entry.Name)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrEntryRead, entry.Name)
		}
		text := ScanText(string(data))
		if strings.TrimSpace(text) == "" {
			continue
		}
		n++
		fmt.Fprintf(&result, slideHeading, n)
		result.WriteString(text)
		if !strings.HasSuffix(text, "\n") {
			result.WriteByte('\n')
		}
		result.WriteByte('\n')
	}
	return result.String(), nil
}

// ExtractText opens a PPTX container held in memory and returns the text of
// all its slides.
func ExtractText(data []byte) (string, error) {
	archive, err := Open(data)
	if err != nil {
		return "", err
	}
	return Collect(archive)
}
