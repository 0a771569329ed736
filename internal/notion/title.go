package notion

import "encoding/json"

// DefaultTitle is used when a page carries no recognisable title property.
const DefaultTitle = "Untitled"

// Common title property names, tried in order before scanning the rest.
var titlePropertyNames = []string{"title", "Title", "Name", "name"}

// ExtractTitle returns a page's display title. Databases carry it at the
// top level; pages carry it in a title-typed property under a
// store-chosen name.
func ExtractTitle(p *Page) string {
	if len(p.Title) > 0 {
		if t := plainText(p.Title); t != "" {
			return t
		}
	}

	for _, name := range titlePropertyNames {
		if t := titleFromProperty(p.Properties[name]); t != "" {
			return t
		}
	}
	for _, raw := range p.Properties {
		if t := titleFromProperty(raw); t != "" {
			return t
		}
	}
	return DefaultTitle
}

func titleFromProperty(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var prop struct {
		Type  string     `json:"type"`
		Title []RichText `json:"title"`
	}
	if err := json.Unmarshal(raw, &prop); err != nil || prop.Type != "title" {
		return ""
	}
	return plainText(prop.Title)
}
