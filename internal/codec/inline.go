package codec

import "regexp"

// Inline markers, tried longest-match-first at each position. Nested
// styles are not part of the dialect: a marker inside an active span of
// the other kind simply terminates or survives as literal text, it is
// never an error.
var (
	inlineRe = regexp.MustCompile(`\*\*\*(.+?)\*\*\*|\[([^\]]+)\]\(([^)]+)\)|\*\*(.+?)\*\*|\*([^*]+?)\*`)
	linkRe   = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)
)

// ParseSpans tokenizes a block's raw text into styled spans. Malformed
// markers (unterminated **, [text] without a url) degrade to literal text.
func ParseSpans(text string) []Span {
	var spans []Span
	last := 0

	for _, m := range inlineRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		spans = append(spans, matchedSpan(text, m))
		last = m[1]
	}

	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	if spans == nil {
		spans = []Span{{Text: text}}
	}
	return spans
}

// matchedSpan builds a span from one inlineRe match. Submatch pairs:
// 1 bold+italic, 2/3 link text+url, 4 bold, 5 italic.
func matchedSpan(text string, m []int) Span {
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return text[m[2*i]:m[2*i+1]], true
	}

	if inner, ok := group(1); ok {
		return styled(inner, true, true)
	}
	if linkText, ok := group(2); ok {
		url, _ := group(3)
		return Span{Text: linkText, URL: url}
	}
	if inner, ok := group(4); ok {
		return styled(inner, true, false)
	}
	inner, _ := group(5)
	return styled(inner, false, true)
}

// styled builds a bold/italic span, unwrapping a content that is exactly
// one link so that **[text](url)** keeps both the style and the URL.
func styled(inner string, bold, italic bool) Span {
	if lm := linkRe.FindStringSubmatch(inner); lm != nil {
		return Span{Text: lm[1], URL: lm[2], Bold: bold, Italic: italic}
	}
	return Span{Text: inner, Bold: bold, Italic: italic}
}

// RenderSpans is the inverse of ParseSpans: link first, then bold, then
// italic, so bold+italic comes out as ***text***.
func RenderSpans(spans []Span) string {
	var out string
	for _, s := range spans {
		content := s.Text
		if s.URL != "" {
			content = "[" + content + "](" + s.URL + ")"
		}
		if s.Bold {
			content = "**" + content + "**"
		}
		if s.Italic {
			content = "*" + content + "*"
		}
		out += content
	}
	return out
}
