package textile

import "time"

// Dialect selects the flavor of the generated markup.
type Dialect string

// Supported dialects.
const (
	DialectXHTML Dialect = "xhtml"
	DialectHTML5 Dialect = "html5"
)

// Valid reports whether d is a supported dialect.
func (d Dialect) Valid() bool {
	return d == DialectXHTML || d == DialectHTML5
}

// Input contains conversion parameters.
type Input struct {
	Text  string // Textile source, optionally led by front matter (required)
	Title string // Page title for standalone output (optional)
}

// ConvertResult holds the rendered output.
type ConvertResult struct {
	HTML  string         // Fragment, or a full page in standalone mode
	Meta  map[string]any // Decoded front matter, nil when absent
	Title string         // Input.Title, else front matter title, else first h1
}

// ImageSizer reports the pixel dimensions of a remote image. Failures
// must be reported as ok=false, never as a panic.
type ImageSizer interface {
	ImageSize(url string) (width, height int, ok bool)
}

// converterConfig holds the options collected before validation.
type converterConfig struct {
	dialect      Dialect
	restricted   bool
	lite         bool
	images       bool
	imageSizes   bool
	imageSizer   ImageSizer
	probeTimeout time.Duration
	rel          string
	blockTags    bool
	sanitize     bool
	allowedTags  []string
	highlight    string
	linkPrefix   string
	maxSpanDepth int

	standalone bool
	style      string
	lang       string
	assetPath  string
}

func defaultConfig() converterConfig {
	return converterConfig{
		dialect:   DialectXHTML,
		images:    true,
		blockTags: true,
	}
}
