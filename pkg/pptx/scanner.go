package pptx

import "strings"

// entityDecoder replaces the predefined XML entities in a single pass, so
// "&amp;lt;" decodes to "&lt;" and not "<".
var entityDecoder = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&#39;", "'",
)

// ScanText extracts the text runs of a DrawingML fragment.
//
// It is a two-state scanner over a small tag vocabulary: <a:t> runs are
// collected, </a:p> and <a:br> become line breaks, every other tag is ignored.
// Malformed markup never fails; an unterminated tag or run is dropped.
func ScanText(xml string) string {
	var (
		out     strings.Builder
		pending strings.Builder
		inRun   bool
		lastNL  bool
	)
	out.Grow(len(xml) / 4)

	for i := 0; i < len(xml); {
		c := xml[i]
		if c != '<' {
			if inRun {
				pending.WriteByte(c)
			}
			i++
			continue
		}

		end := strings.IndexByte(xml[i+1:], '>')
		if end < 0 {
			// Partial tag at end of input.
			break
		}
		tag := xml[i+1 : i+1+end]
		i += end + 2

		switch {
		case tag == "a:t" || strings.HasPrefix(tag, "a:t "):
			inRun = true
			pending.Reset()
		case tag == "/a:t":
			if inRun && pending.Len() > 0 {
				out.WriteString(pending.String())
				out.WriteByte(' ')
				lastNL = false
			}
			inRun = false
		case tag == "/a:p" || tag == "a:br" || tag == "a:br/":
			if out.Len() > 0 && !lastNL {
				out.WriteByte('\n')
				lastNL = true
			}
		}
	}

	return entityDecoder.Replace(out.String())
}
