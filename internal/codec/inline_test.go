package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSpans_PlainText(t *testing.T) {
	got := ParseSpans("just some text")
	want := []Span{{Text: "just some text"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_BoldItalicLink(t *testing.T) {
	got := ParseSpans("a **bold** and *italic* and [site](https://example.com) end")
	want := []Span{
		{Text: "a "},
		{Text: "bold", Bold: true},
		{Text: " and "},
		{Text: "italic", Italic: true},
		{Text: " and "},
		{Text: "site", URL: "https://example.com"},
		{Text: " end"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_BoldItalicCombined(t *testing.T) {
	got := ParseSpans("***both***")
	want := []Span{{Text: "both", Bold: true, Italic: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_StyledLink(t *testing.T) {
	got := ParseSpans("**[site](https://example.com)**")
	want := []Span{{Text: "site", URL: "https://example.com", Bold: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_UnterminatedBoldIsLiteral(t *testing.T) {
	got := ParseSpans("**bold")
	want := []Span{{Text: "**bold"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_BracketsWithoutURLAreLiteral(t *testing.T) {
	got := ParseSpans("[text] with no url")
	want := []Span{{Text: "[text] with no url"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSpans_EmptyInput(t *testing.T) {
	got := ParseSpans("")
	if len(got) != 1 || got[0].Text != "" {
		t.Errorf("spans = %v, want single empty span", got)
	}
}

func TestRenderSpans_StyleWrapping(t *testing.T) {
	spans := []Span{
		{Text: "bold", Bold: true},
		{Text: " "},
		{Text: "both", Bold: true, Italic: true},
		{Text: " "},
		{Text: "site", URL: "https://example.com", Italic: true},
	}
	got := RenderSpans(spans)
	want := "**bold** ***both*** *[site](https://example.com)*"
	if got != want {
		t.Errorf("RenderSpans = %q, want %q", got, want)
	}
}

// Every supported style combination must survive a render/parse cycle
// with text, styles, and link intact.
func TestSpanRoundTrip(t *testing.T) {
	cases := []Span{
		{Text: "plain"},
		{Text: "bold", Bold: true},
		{Text: "italic", Italic: true},
		{Text: "both", Bold: true, Italic: true},
		{Text: "link", URL: "https://example.com"},
		{Text: "bold link", Bold: true, URL: "https://example.com"},
		{Text: "italic link", Italic: true, URL: "https://example.com"},
		{Text: "both link", Bold: true, Italic: true, URL: "https://example.com"},
	}
	for _, span := range cases {
		got := ParseSpans(RenderSpans([]Span{span}))
		if diff := cmp.Diff([]Span{span}, got); diff != "" {
			t.Errorf("round trip of %+v (-want +got):\n%s", span, diff)
		}
	}
}
