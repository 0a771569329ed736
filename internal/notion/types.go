// Package notion implements the wire representation of the remote
// document store and an HTTP client for its versioned JSON API.
package notion

import "encoding/json"

// RichText is one styled run of text in a block or property.
type RichText struct {
	Type        string       `json:"type,omitempty"`
	Text        *Text        `json:"text,omitempty"`
	Annotations *Annotations `json:"annotations,omitempty"`
	PlainText   string       `json:"plain_text,omitempty"`
}

// Text carries the raw content and optional link of a rich text element.
type Text struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link wraps a URL.
type Link struct {
	URL string `json:"url"`
}

// Annotations holds the style flags the dialect supports. The store
// defines more (strikethrough, code, color); they are ignored.
type Annotations struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// Content returns the element's text, preferring the writable form.
func (rt RichText) Content() string {
	if rt.Text != nil && rt.Text.Content != "" {
		return rt.Text.Content
	}
	return rt.PlainText
}

// BlockText is the payload shared by every supported block kind.
type BlockText struct {
	RichText []RichText `json:"rich_text"`
	Children []Block    `json:"children,omitempty"`
}

// CodeBlock is the payload of a code block (read side only).
type CodeBlock struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// Block is one wire block. Exactly one type-keyed payload is set,
// matching Type. Kinds outside the supported set keep their raw payload
// in Unknown so reads can flatten them instead of failing.
type Block struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`

	Paragraph *BlockText `json:"paragraph,omitempty"`
	Heading1  *BlockText `json:"heading_1,omitempty"`
	Heading2  *BlockText `json:"heading_2,omitempty"`
	Heading3  *BlockText `json:"heading_3,omitempty"`
	Bulleted  *BlockText `json:"bulleted_list_item,omitempty"`
	Numbered  *BlockText `json:"numbered_list_item,omitempty"`
	Quote     *BlockText `json:"quote,omitempty"`
	Code      *CodeBlock `json:"code,omitempty"`

	Unknown json.RawMessage `json:"-"`
}

// payload returns the supported type-keyed payload, or nil.
func (b *Block) payload() *BlockText {
	switch b.Type {
	case "paragraph":
		return b.Paragraph
	case "heading_1":
		return b.Heading1
	case "heading_2":
		return b.Heading2
	case "heading_3":
		return b.Heading3
	case "bulleted_list_item":
		return b.Bulleted
	case "numbered_list_item":
		return b.Numbered
	case "quote":
		return b.Quote
	}
	return nil
}

// UnmarshalJSON keeps the raw payload of unsupported block kinds so that
// their visible text can still be flattened.
func (b *Block) UnmarshalJSON(data []byte) error {
	type alias Block
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*b = Block(a)
	if b.payload() == nil && b.Code == nil && b.Type != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err == nil {
			b.Unknown = fields[b.Type]
		}
	}
	return nil
}

// Parent identifies where a page lives.
type Parent struct {
	Type       string `json:"type,omitempty"`
	PageID     string `json:"page_id,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

// Page is a page or database object as returned by the store. Databases
// carry their title at the top level; pages carry it in Properties.
type Page struct {
	Object     string                     `json:"object,omitempty"`
	ID         string                     `json:"id,omitempty"`
	URL        string                     `json:"url,omitempty"`
	Archived   bool                       `json:"archived,omitempty"`
	Parent     *Parent                    `json:"parent,omitempty"`
	Title      []RichText                 `json:"title,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// PropertySchema is one column definition in a database schema.
type PropertySchema struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Database is a database object with its property schema.
type Database struct {
	Object     string                    `json:"object,omitempty"`
	ID         string                    `json:"id,omitempty"`
	URL        string                    `json:"url,omitempty"`
	Title      []RichText                `json:"title,omitempty"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
}

// PagePatch is the body of a page update: property patch, parent
// reassignment, or archival. Zero fields are omitted from the wire.
type PagePatch struct {
	Properties map[string]any `json:"properties,omitempty"`
	Parent     *Parent        `json:"parent,omitempty"`
	Archived   *bool          `json:"archived,omitempty"`
}

// DatabasePatch is the body of a database schema update.
type DatabasePatch struct {
	Title      []RichText     `json:"title,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// TitleProperty builds the writable title property value for a page.
func TitleProperty(title string) map[string]any {
	return map[string]any{
		"title": []map[string]any{
			{"text": map[string]any{"content": title}},
		},
	}
}
