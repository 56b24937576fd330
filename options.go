package textile

import "time"

// Option configures a Converter. Invalid values are reported by
// NewConverter.
type Option func(*converterConfig)

// WithDialect selects XHTML (default) or HTML5 output.
func WithDialect(d Dialect) Option {
	return func(c *converterConfig) { c.dialect = d }
}

// WithRestricted treats the input as untrusted: raw HTML is escaped,
// shorthand styles and classes are ignored and only safe URL schemes
// are linked.
func WithRestricted(on bool) Option {
	return func(c *converterConfig) { c.restricted = on }
}

// WithLite limits block markup to paragraphs and blockquotes and turns
// off lists, tables and notes.
func WithLite(on bool) Option {
	return func(c *converterConfig) { c.lite = on }
}

// WithImages enables or disables `!image!` rendering. Enabled by default.
func WithImages(on bool) Option {
	return func(c *converterConfig) { c.images = on }
}

// WithImageSizes adds width and height to remote images by probing them.
func WithImageSizes(on bool) Option {
	return func(c *converterConfig) { c.imageSizes = on }
}

// WithImageSizer replaces the HTTP prober used by WithImageSizes.
func WithImageSizer(s ImageSizer) Option {
	return func(c *converterConfig) { c.imageSizer = s }
}

// WithImageProbeTimeout bounds each image probe.
func WithImageProbeTimeout(d time.Duration) Option {
	return func(c *converterConfig) { c.probeTimeout = d }
}

// WithRel sets the rel attribute of generated links.
func WithRel(rel string) Option {
	return func(c *converterConfig) { c.rel = rel }
}

// WithBlockTags toggles block-level parsing. Without it the whole input
// is treated as inline content.
func WithBlockTags(on bool) Option {
	return func(c *converterConfig) { c.blockTags = on }
}

// WithSanitize filters restricted output through an allow-list of tags.
func WithSanitize(on bool) Option {
	return func(c *converterConfig) { c.sanitize = on }
}

// WithAllowedTags replaces the default sanitizer allow-list.
func WithAllowedTags(tags ...string) Option {
	return func(c *converterConfig) { c.allowedTags = append([]string(nil), tags...) }
}

// WithHighlight enables syntax highlighting of `bc(language-xxx).` blocks
// using the named chroma style.
func WithHighlight(style string) Option {
	return func(c *converterConfig) { c.highlight = style }
}

// WithLinkPrefix fixes the prefix of footnote and note anchor ids, making
// output reproducible.
func WithLinkPrefix(prefix string) Option {
	return func(c *converterConfig) { c.linkPrefix = prefix }
}

// WithMaxSpanDepth bounds the nesting of inline phrase markup.
func WithMaxSpanDepth(n int) Option {
	return func(c *converterConfig) { c.maxSpanDepth = n }
}

// WithStandalone wraps output in a complete HTML page styled with the
// named stylesheet. An empty name uses the default style.
func WithStandalone(style string) Option {
	return func(c *converterConfig) {
		c.standalone = true
		c.style = style
	}
}

// WithLang sets the lang attribute of standalone pages.
func WithLang(lang string) Option {
	return func(c *converterConfig) { c.lang = lang }
}

// WithAssetPath looks up styles and page templates in dir before the
// embedded ones.
func WithAssetPath(dir string) Option {
	return func(c *converterConfig) { c.assetPath = dir }
}
