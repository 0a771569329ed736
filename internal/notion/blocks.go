package notion

import (
	"encoding/json"
	"fmt"

	"github.com/starford/ansuz/internal/codec"
)

// EncodeBlocks converts an abstract block tree into wire blocks. The
// mapping is total: every codec kind has a wire kind.
func EncodeBlocks(blocks []codec.Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, encodeBlock(b))
	}
	return out
}

func encodeBlock(b codec.Block) Block {
	payload := &BlockText{RichText: encodeSpans(b.Spans)}
	if len(b.Children) > 0 {
		payload.Children = EncodeBlocks(b.Children)
	}

	wire := Block{Object: "block", Type: string(b.Kind)}
	switch b.Kind {
	case codec.Heading1:
		wire.Heading1 = payload
	case codec.Heading2:
		wire.Heading2 = payload
	case codec.Heading3:
		wire.Heading3 = payload
	case codec.BulletedItem:
		wire.Bulleted = payload
	case codec.NumberedItem:
		wire.Numbered = payload
	case codec.Quote:
		wire.Quote = payload
	default:
		wire.Type = string(codec.Paragraph)
		wire.Paragraph = payload
	}
	return wire
}

func encodeSpans(spans []codec.Span) []RichText {
	out := make([]RichText, 0, len(spans))
	for _, s := range spans {
		rt := RichText{Type: "text", Text: &Text{Content: s.Text}}
		if s.URL != "" {
			rt.Text.Link = &Link{URL: s.URL}
		}
		if s.Bold || s.Italic {
			rt.Annotations = &Annotations{Bold: s.Bold, Italic: s.Italic}
		}
		out = append(out, rt)
	}
	return out
}

// DecodeBlocks converts wire blocks into the abstract model. Supported
// kinds map losslessly; anything else degrades to a paragraph carrying a
// plain-text flattening of the block's visible text, never an error.
func DecodeBlocks(blocks []Block) []codec.Block {
	out := make([]codec.Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, decodeBlock(b))
	}
	return out
}

func decodeBlock(b Block) codec.Block {
	if payload := b.payload(); payload != nil {
		node := codec.Block{Kind: codec.Kind(b.Type), Spans: decodeSpans(payload.RichText)}
		if len(payload.Children) > 0 {
			node.Children = DecodeBlocks(payload.Children)
		}
		return node
	}
	return codec.Block{Kind: codec.Paragraph, Spans: []codec.Span{{Text: flatten(b)}}}
}

func decodeSpans(rts []RichText) []codec.Span {
	spans := make([]codec.Span, 0, len(rts))
	for _, rt := range rts {
		s := codec.Span{Text: rt.Content()}
		if rt.Text != nil && rt.Text.Link != nil {
			s.URL = rt.Text.Link.URL
		}
		if rt.Annotations != nil {
			s.Bold = rt.Annotations.Bold
			s.Italic = rt.Annotations.Italic
		}
		spans = append(spans, s)
	}
	return spans
}

// flatten extracts the visible text of an unsupported block. Dividers and
// code keep their conventional Markdown rendering; everything else falls
// back to the payload's rich text, or a kind placeholder when it has none.
func flatten(b Block) string {
	switch b.Type {
	case "divider":
		return "---"
	case "code":
		if b.Code != nil {
			return "```" + b.Code.Language + "\n" + plainText(b.Code.RichText) + "\n```"
		}
	}

	if len(b.Unknown) > 0 {
		var payload struct {
			RichText []RichText `json:"rich_text"`
		}
		if err := json.Unmarshal(b.Unknown, &payload); err == nil && len(payload.RichText) > 0 {
			return plainText(payload.RichText)
		}
	}
	return fmt.Sprintf("[%s block]", b.Type)
}

func plainText(rts []RichText) string {
	var out string
	for _, rt := range rts {
		out += rt.Content()
	}
	return out
}
