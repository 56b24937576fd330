package textile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-textile/internal/assets"
	"github.com/alnah/go-textile/internal/highlight"
	"github.com/alnah/go-textile/internal/hints"
	"github.com/alnah/go-textile/internal/imagesize"
	"github.com/alnah/go-textile/internal/pipeline"
	"github.com/alnah/go-textile/internal/sanitize"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.ImageSizer  = (*imagesize.Prober)(nil)
	_ pipeline.Highlighter = (*highlight.Chroma)(nil)
	_ ImageSizer           = (*imagesize.Prober)(nil)
)

// Converter renders Textile to HTML. Every call to Convert works on a
// fresh document, so a Converter is safe for concurrent use.
type Converter struct {
	cfg         converterConfig
	assetLoader assets.AssetLoader
	highlighter *highlight.Chroma
	page        *pipeline.PageRenderer
	css         string
}

// NewConverter validates the options and prepares the collaborators they
// require. Standalone mode loads its stylesheet and page template here.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         defaultConfig(),
		assetLoader: assets.NewEmbeddedLoader(),
	}
	for _, opt := range opts {
		opt(&c.cfg)
	}

	if err := c.cfg.validate(); err != nil {
		return nil, err
	}

	if c.cfg.imageSizes && c.cfg.imageSizer == nil {
		var popts []imagesize.Option
		if c.cfg.probeTimeout > 0 {
			popts = append(popts, imagesize.WithTimeout(c.cfg.probeTimeout))
		}
		c.cfg.imageSizer = imagesize.New(popts...)
	}

	if c.cfg.highlight != "" {
		c.highlighter = highlight.New(c.cfg.highlight)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	if c.cfg.standalone {
		if err := c.preparePage(); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (cfg *converterConfig) validate() error {
	if !cfg.dialect.Valid() {
		return fmt.Errorf("%w: %q (must be %s or %s)", ErrUnknownDialect, cfg.dialect, DialectXHTML, DialectHTML5)
	}
	if cfg.maxSpanDepth < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSpanDepth, cfg.maxSpanDepth)
	}
	if cfg.probeTimeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.probeTimeout)
	}
	return nil
}

// preparePage loads the stylesheet and the page shell of standalone output.
func (c *Converter) preparePage() error {
	style := c.cfg.style
	if style == "" {
		style = assets.DefaultStyleName
	}
	css, err := c.assetLoader.LoadStyle(style)
	if err != nil {
		if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return fmt.Errorf("%w: %q%s", ErrStyleNotFound, style, hints.ForStyleNotFound(assets.StyleNames()))
		}
		return fmt.Errorf("loading style %q: %w", style, err)
	}

	if c.highlighter != nil {
		var buf bytes.Buffer
		if err := c.highlighter.WriteCSS(&buf); err != nil {
			return fmt.Errorf("generating highlight CSS: %w", err)
		}
		css += "\n" + buf.String()
	}
	c.css = css

	shell, err := c.assetLoader.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return fmt.Errorf("loading page template: %w", err)
	}
	c.page, err = pipeline.NewPageRenderer(shell)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return nil
}

// Convert renders input and returns the HTML with its front matter.
// The context is checked before conversion and before page rendering.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("%w: internal error: %v", ErrConversion, r)
		}
	}()

	if input.Text == "" {
		return nil, ErrEmptyInput
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	body, meta, err := splitFrontMatter(input.Text)
	if err != nil {
		return nil, err
	}

	doc := pipeline.NewDocument(c.engineOptions())
	out := doc.Convert(body)
	if c.cfg.restricted && c.cfg.sanitize {
		out = sanitize.Sanitize(out, c.cfg.allowedTags)
	}

	res := &ConvertResult{
		HTML:  out,
		Meta:  meta,
		Title: resolveTitle(input.Title, meta, out),
	}

	if c.page == nil {
		return res, nil
	}

	page, err := c.page.Render(ctx, pipeline.PageData{
		Lang:  c.cfg.lang,
		Title: res.Title,
		Body:  template.HTML(out), // #nosec G203 -- converter output, escaped by the engine
	}, c.css)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	res.HTML = page
	return res, nil
}

// engineOptions maps the converter configuration onto the pipeline.
func (c *Converter) engineOptions() pipeline.Options {
	opts := pipeline.Options{
		Dialect:      string(c.cfg.dialect),
		Restricted:   c.cfg.restricted,
		Lite:         c.cfg.lite,
		NoImages:     !c.cfg.images,
		ImageSizes:   c.cfg.imageSizes,
		BlockTags:    c.cfg.blockTags,
		Rel:          c.cfg.rel,
		LinkPrefix:   c.cfg.linkPrefix,
		MaxSpanDepth: c.cfg.maxSpanDepth,
	}
	if c.cfg.imageSizer != nil {
		opts.ImageSizer = c.cfg.imageSizer
	}
	if c.highlighter != nil {
		opts.Highlighter = c.highlighter
	}
	return opts
}

// splitFrontMatter separates a leading front matter block from the body.
// Input without front matter is returned unchanged with nil meta.
func splitFrontMatter(text string) (string, map[string]any, error) {
	if !hasFrontMatter(text) {
		return text, nil, nil
	}
	var meta map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
	}
	return string(rest), meta, nil
}

// hasFrontMatter reports a YAML (---) or TOML (+++) fence on the first line.
func hasFrontMatter(text string) bool {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimRight(line, " \t\r")
	return line == "---" || line == "+++"
}

func resolveTitle(explicit string, meta map[string]any, fragment string) string {
	if explicit != "" {
		return explicit
	}
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	return pipeline.FirstHeading(fragment)
}

// ToHTML converts text with a one-off converter. Empty text yields an
// empty fragment once the options are known to be valid.
func ToHTML(text string, opts ...Option) (string, error) {
	c, err := NewConverter(opts...)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", nil
	}
	res, err := c.Convert(context.Background(), Input{Text: text})
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}
