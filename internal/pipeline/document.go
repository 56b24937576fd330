package pipeline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Output dialects.
const (
	DialectXHTML = "xhtml"
	DialectHTML5 = "html5"
)

// DefaultMaxSpanDepth bounds recursion of nested inline spans.
const DefaultMaxSpanDepth = 5

// ImageSizer reports the pixel dimensions of a remote image.
// Implementations must treat every failure as ok=false.
type ImageSizer interface {
	ImageSize(url string) (width, height int, ok bool)
}

// Highlighter renders a code block for a language. ok=false falls back to
// plain escaped code.
type Highlighter interface {
	Highlight(lang, code string) (html string, ok bool)
}

// Options configures one conversion.
type Options struct {
	Dialect      string
	Restricted   bool
	Lite         bool
	NoImages     bool
	ImageSizes   bool
	BlockTags    bool
	Rel          string
	LinkPrefix   string
	MaxSpanDepth int

	ImageSizer  ImageSizer
	Highlighter Highlighter
}

// DefaultOptions returns unrestricted XHTML output with block tags.
func DefaultOptions() Options {
	return Options{
		Dialect:      DialectXHTML,
		BlockTags:    true,
		MaxSpanDepth: DefaultMaxSpanDepth,
	}
}

var (
	restrictedSchemes = []string{"http", "https", "ftp", "mailto"}
	fullSchemes       = []string{"http", "https", "ftp", "mailto", "file", "tel", "callto", "sftp", "data"}

	blankLinePattern = regexp.MustCompile(`(?m)^[ \t]*\n`)
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	brTagPattern     = regexp.MustCompile(`<br(?: /)?>\n?`)
)

// Document carries all state of a single conversion. It is not safe for
// concurrent use and must not be reused across inputs.
type Document struct {
	opts       Options
	uid        string
	linkPrefix string
	linkIndex  int
	schemes    []string

	shelf *shelf
	refs  *refCache

	urlRefs map[string]string

	footnotes map[string]string
	notes     *noteRegistry
	olStarts  map[string]int

	linkStart  string
	linkMarked *regexp.Regexp
}

// NewDocument prepares a conversion with a fresh random uid.
func NewDocument(opts Options) *Document {
	return newDocumentWithUID(opts, strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func newDocumentWithUID(opts Options, uid string) *Document {
	if opts.Dialect == "" {
		opts.Dialect = DialectXHTML
	}
	if opts.MaxSpanDepth <= 0 {
		opts.MaxSpanDepth = DefaultMaxSpanDepth
	}
	d := &Document{
		opts:       opts,
		uid:        uid,
		linkPrefix: opts.LinkPrefix,
		shelf:      newShelf(uid),
		refs:       newRefCache(uid),
		urlRefs:    make(map[string]string),
		footnotes:  make(map[string]string),
		notes:      newNoteRegistry(),
		olStarts:   make(map[string]int),
		linkStart:  uid + "linkstart:",
	}
	if d.linkPrefix == "" {
		d.linkPrefix = uid + "-"
	}
	d.schemes = fullSchemes
	if opts.Restricted {
		d.schemes = restrictedSchemes
	}
	return d
}

// UID returns the token namespace of the document.
func (d *Document) UID() string { return d.uid }

// Convert renders Textile source as an HTML fragment.
func (d *Document) Convert(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if d.opts.Restricted {
		text = escapeHTML(text, false)
	}
	text = normalizeNewlines(text)
	text = strings.ReplaceAll(text, d.uid, "")
	if strings.Contains(text, "[") {
		d.collectRefs(text)
	}

	if d.opts.BlockTags {
		text = d.blocks(text)
		if !d.opts.Lite {
			text = d.placeNoteLists(text)
		}
	} else {
		text = d.graf(text)
	}

	text = d.retrieve(text)

	text = brTagPattern.ReplaceAllString(text, "<br />\n")
	return strings.TrimRight(text, "\n")
}

// retrieve expands shelf, tag and URL tokens until none is left. Stored
// span tags may carry shelf tokens and shelved markup may carry tags.
func (d *Document) retrieve(text string) string {
	for {
		next := d.shelf.retrieve(text)
		next = d.refs.retrieveTags(next)
		next = d.refs.retrieveURLs(next, d.resolveURLRef)
		if next == text {
			return text
		}
		text = next
	}
}

// normalizeNewlines converts line endings, blanks whitespace-only lines
// and trims surrounding newlines.
func normalizeNewlines(text string) string {
	text = crlfOrCR.ReplaceAllString(text, "\n")
	text = blankLinePattern.ReplaceAllString(text, "\n")
	return strings.Trim(text, "\n")
}

// nextLinkID returns a fresh id for footnote and note anchors.
func (d *Document) nextLinkID() string {
	d.linkIndex++
	return d.linkPrefix + strconv.Itoa(d.linkIndex)
}

func (d *Document) html5() bool {
	return d.opts.Dialect == DialectHTML5
}
