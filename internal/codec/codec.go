// Package codec converts between a constrained Markdown dialect and
// abstract block trees. The dialect supports #/##/### headings, - bullets,
// 1. numbered items (one nesting level), > quotes, plain paragraphs, and
// inline **bold**, *italic*, and [text](url) links. Parsing never fails:
// anything the dialect does not recognise degrades to literal text.
package codec

// Kind identifies the structural type of a block.
type Kind string

const (
	Heading1     Kind = "heading_1"
	Heading2     Kind = "heading_2"
	Heading3     Kind = "heading_3"
	BulletedItem Kind = "bulleted_list_item"
	NumberedItem Kind = "numbered_list_item"
	Quote        Kind = "quote"
	Paragraph    Kind = "paragraph"
)

// IsListItem reports whether the kind may carry nested children.
func (k Kind) IsListItem() bool {
	return k == BulletedItem || k == NumberedItem
}

// Span is a contiguous run of text with one style combination and an
// optional link. Text carries no nested Markdown.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	URL    string
}

// Block is one node in a document's content tree. Children is non-empty
// only for list item kinds.
type Block struct {
	Kind     Kind
	Spans    []Span
	Children []Block
}

// PlainText concatenates the raw text of all spans, ignoring styling.
func (b Block) PlainText() string {
	var out string
	for _, s := range b.Spans {
		out += s.Text
	}
	return out
}
