package pageservice

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/starford/ansuz/internal/notion"
)

// propertyValue is the union of readable property payloads.
type propertyValue struct {
	Type        string            `json:"type"`
	Title       []notion.RichText `json:"title"`
	RichText    []notion.RichText `json:"rich_text"`
	Number      *float64          `json:"number"`
	Select      *namedOption      `json:"select"`
	MultiSelect []namedOption     `json:"multi_select"`
	Date        *dateValue        `json:"date"`
	Checkbox    bool              `json:"checkbox"`
	URL         *string           `json:"url"`
	Email       *string           `json:"email"`
	PhoneNumber *string           `json:"phone_number"`
	Status      *namedOption      `json:"status"`
}

type namedOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// SimplifyProperties converts wire properties to flat key-value pairs
// for reading. Types outside the supported set become a "[type]" marker.
func SimplifyProperties(props map[string]json.RawMessage) map[string]any {
	out := make(map[string]any, len(props))
	for name, raw := range props {
		out[name] = simplifyProperty(raw)
	}
	return out
}

func simplifyProperty(raw json.RawMessage) any {
	var p propertyValue
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}

	switch p.Type {
	case "title":
		return richTextString(p.Title)
	case "rich_text":
		return richTextString(p.RichText)
	case "number":
		if p.Number == nil {
			return nil
		}
		return *p.Number
	case "select":
		return optionName(p.Select)
	case "multi_select":
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return names
	case "date":
		if p.Date == nil {
			return nil
		}
		return p.Date.Start
	case "checkbox":
		return p.Checkbox
	case "url":
		return deref(p.URL)
	case "email":
		return deref(p.Email)
	case "phone_number":
		return deref(p.PhoneNumber)
	case "status":
		return optionName(p.Status)
	}
	return fmt.Sprintf("[%s]", p.Type)
}

func richTextString(rts []notion.RichText) string {
	var out string
	for _, rt := range rts {
		out += rt.Content()
	}
	return out
}

func optionName(o *namedOption) any {
	if o == nil {
		return nil
	}
	return o.Name
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// FormatProperties turns user-supplied simple values into wire property
// values according to the database schema. The schema's title property is
// always set from title; values already in wire shape pass through;
// keys absent from the schema are dropped.
func FormatProperties(user map[string]any, schema map[string]notion.PropertySchema, title string) map[string]any {
	formatted := make(map[string]any)

	titleName := ""
	for name, def := range schema {
		if def.Type == "title" {
			titleName = name
			break
		}
	}
	if titleName != "" {
		formatted[titleName] = notion.TitleProperty(title)
	}

	for name, value := range user {
		if name == titleName {
			continue
		}
		def, ok := schema[name]
		if !ok {
			continue
		}
		// Already wire-shaped values pass through verbatim.
		if m, ok := value.(map[string]any); ok {
			if _, shaped := m[def.Type]; shaped {
				formatted[name] = value
				continue
			}
		}
		if v := formatValue(def.Type, value); v != nil {
			formatted[name] = v
		}
	}

	return formatted
}

func formatValue(propType string, value any) any {
	switch propType {
	case "title":
		return notion.TitleProperty(stringify(value))
	case "rich_text":
		return map[string]any{
			"rich_text": []map[string]any{
				{"text": map[string]any{"content": stringify(value)}},
			},
		}
	case "number":
		return map[string]any{"number": toNumber(value)}
	case "select":
		return map[string]any{"select": option(value)}
	case "multi_select":
		return map[string]any{"multi_select": options(value)}
	case "date":
		if value == nil {
			return map[string]any{"date": nil}
		}
		return map[string]any{"date": map[string]any{"start": stringify(value)}}
	case "checkbox":
		b, _ := value.(bool)
		return map[string]any{"checkbox": b}
	case "url":
		return map[string]any{"url": nullableString(value)}
	case "email":
		return map[string]any{"email": nullableString(value)}
	case "phone_number":
		return map[string]any{"phone_number": nullableString(value)}
	case "status":
		return map[string]any{"status": option(value)}
	}
	return nil
}

func option(value any) any {
	if value == nil {
		return nil
	}
	return map[string]any{"name": stringify(value)}
}

func options(value any) []map[string]any {
	items, ok := value.([]any)
	if !ok {
		items = []any{value}
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		out = append(out, map[string]any{"name": stringify(it)})
	}
	return out
}

func nullableString(value any) any {
	if value == nil {
		return nil
	}
	return stringify(value)
}

func toNumber(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return nil
}

func stringify(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
