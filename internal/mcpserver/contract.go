package mcpserver

// DialectContract describes the constrained Markdown dialect that tool
// consumers should use for page content.
const DialectContract = `# Ansuz Markdown Dialect

Page content written through create_page and update_page uses a small,
forgiving Markdown dialect. Anything outside it is kept as plain text —
the parser never rejects input.

## Block constructs (one per line)

` + "```" + `markdown
# Heading 1
## Heading 2
### Heading 3
- Bulleted item
1. Numbered item
> Quote
Plain paragraph text.
` + "```" + `

Blank lines separate blocks. List items on consecutive lines form one
list. One level of nesting is supported by indenting an item with two
spaces (or a tab) under the previous item:

` + "```" + `markdown
- Parent item
  - Nested item
` + "```" + `

Deeper indentation is flattened to that single level.

## Inline styles

` + "```" + `markdown
**bold**  *italic*  ***bold italic***  [link text](https://example.com)
` + "```" + `

Styles do not nest: a marker inside a span of the other kind is literal
text. Unterminated markers (e.g. ` + "`" + `**bold` + "`" + ` with no closing
` + "`" + `**` + "`" + `) stay literal rather than failing.

## Not supported

Tables, callouts, toggles, embeds, synced blocks, equations, code fences,
images. Reading a page containing such blocks flattens them to plain
paragraphs; writing them is not possible through this dialect.
`
