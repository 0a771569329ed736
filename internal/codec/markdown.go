package codec

import (
	"fmt"
	"regexp"
	"strings"
)

var numberedRe = regexp.MustCompile(`^\d+\.\s`)

// indentUnit is the fixed nesting indent the dialect recognises. A tab
// counts as one unit on parse.
const indentUnit = "  "

// Parse converts dialect Markdown into a block sequence. It never fails:
// unrecognised lines become paragraphs, blank lines terminate runs and
// produce no node, and indentation deeper than one unit is flattened to
// the single nesting level the dialect defines.
func Parse(markdown string) []Block {
	var blocks []Block

	for _, line := range strings.Split(markdown, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		indented, content := splitIndent(line)
		b := parseLine(content)

		if indented && b.Kind.IsListItem() && len(blocks) > 0 && blocks[len(blocks)-1].Kind.IsListItem() {
			parent := &blocks[len(blocks)-1]
			parent.Children = append(parent.Children, b)
			continue
		}
		blocks = append(blocks, b)
	}

	return blocks
}

// splitIndent strips leading whitespace and reports whether the line was
// indented by at least one unit.
func splitIndent(line string) (bool, string) {
	content := strings.TrimLeft(line, " \t")
	lead := line[:len(line)-len(content)]
	return strings.Contains(lead, "\t") || strings.Count(lead, " ") >= len(indentUnit), content
}

func parseLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "### "):
		return Block{Kind: Heading3, Spans: ParseSpans(line[4:])}
	case strings.HasPrefix(line, "## "):
		return Block{Kind: Heading2, Spans: ParseSpans(line[3:])}
	case strings.HasPrefix(line, "# "):
		return Block{Kind: Heading1, Spans: ParseSpans(line[2:])}
	case strings.HasPrefix(line, "> "):
		return Block{Kind: Quote, Spans: ParseSpans(line[2:])}
	case strings.HasPrefix(line, "- "):
		return Block{Kind: BulletedItem, Spans: ParseSpans(line[2:])}
	case numberedRe.MatchString(line):
		rest := numberedRe.ReplaceAllString(line, "")
		return Block{Kind: NumberedItem, Spans: ParseSpans(rest)}
	}
	return Block{Kind: Paragraph, Spans: ParseSpans(line)}
}

// Render converts a block sequence back into dialect Markdown. Numbered
// counters restart at the start of each list run. One blank line separates
// top-level blocks, except inside a run of same-kind list items, which
// stay on consecutive lines so that Parse sees them as one run again.
func Render(blocks []Block) string {
	var sb strings.Builder
	counter := 0

	for i, b := range blocks {
		if b.Kind == NumberedItem {
			counter++
		} else {
			counter = 0
		}
		if i > 0 {
			if b.Kind.IsListItem() && blocks[i-1].Kind == b.Kind {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		renderBlock(&sb, b, counter)
	}

	return sb.String()
}

func renderBlock(sb *strings.Builder, b Block, n int) {
	sb.WriteString(marker(b.Kind, n))
	sb.WriteString(RenderSpans(b.Spans))

	childCounter := 0
	for _, c := range b.Children {
		if c.Kind == NumberedItem {
			childCounter++
		} else {
			childCounter = 0
		}
		sb.WriteString("\n")
		sb.WriteString(indentUnit)
		sb.WriteString(marker(c.Kind, childCounter))
		sb.WriteString(RenderSpans(c.Spans))
	}
}

func marker(k Kind, n int) string {
	switch k {
	case Heading1:
		return "# "
	case Heading2:
		return "## "
	case Heading3:
		return "### "
	case Quote:
		return "> "
	case BulletedItem:
		return "- "
	case NumberedItem:
		return fmt.Sprintf("%d. ", n)
	}
	return ""
}
