package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"
)

// ErrPageRender reports a page shell that failed to execute.
var ErrPageRender = errors.New("page template rendering failed")

// PageData fills the standalone page shell.
type PageData struct {
	Lang  string
	Title string
	Body  template.HTML
}

// PageRenderer wraps converted fragments into a complete HTML document.
type PageRenderer struct {
	tmpl *template.Template
}

// NewPageRenderer parses the page shell.
func NewPageRenderer(tmplContent string) (*PageRenderer, error) {
	tmpl, err := template.New("page").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &PageRenderer{tmpl: tmpl}, nil
}

// Render executes the shell with data and injects css into the result.
func (p *PageRenderer) Render(ctx context.Context, data PageData, css string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if data.Lang == "" {
		data.Lang = "en"
	}

	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return InjectCSS(buf.String(), css), nil
}

// InjectCSS inserts a style block before </head>, else right after <body>,
// else at the front.
func InjectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(css) + "</style>\n"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS keeps stylesheet text from closing the style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

var (
	firstHeading = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	anyTag       = regexp.MustCompile(`<[^>]*>`)
)

// FirstHeading returns the text of the first h1 in a fragment, with tags
// stripped and entities decoded.
func FirstHeading(fragment string) string {
	m := firstHeading.FindStringSubmatch(fragment)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(anyTag.ReplaceAllString(m[1], "")))
}
