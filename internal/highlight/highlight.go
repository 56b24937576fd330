// Package highlight renders code block bodies with chroma.
package highlight

import (
	"bytes"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle is the chroma style used for the stylesheet.
const DefaultStyle = "github"

// Chroma highlights code with CSS classes. The surrounding pre element is
// left to the caller.
type Chroma struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// New creates a highlighter for the named chroma style. Unknown names fall
// back to chroma's default style.
func New(style string) *Chroma {
	if style == "" {
		style = DefaultStyle
	}
	return &Chroma{
		style: styles.Get(style),
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
}

// Highlight returns highlighted HTML for code in lang. ok is false when no
// lexer matches the language or tokenising fails.
func (c *Chroma) Highlight(lang, code string) (string, bool) {
	lexer := lexers.Get(strings.ToLower(strings.TrimSpace(lang)))
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := c.formatter.Format(&buf, c.style, it); err != nil {
		return "", false
	}
	return buf.String(), true
}

// WriteCSS writes the stylesheet matching the highlighter's classes.
func (c *Chroma) WriteCSS(w io.Writer) error {
	return c.formatter.WriteCSS(w, c.style)
}
