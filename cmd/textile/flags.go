package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// textileFlags holds engine flags.
type textileFlags struct {
	dialect      string
	restricted   bool
	lite         bool
	noBlockTags  bool
	rel          string
	linkPrefix   string
	maxSpanDepth int
	sanitize     bool
	allowedTags  []string
}

// imageFlags holds image handling flags.
type imageFlags struct {
	disabled bool
	sizes    bool
	timeout  string
}

// pageFlags holds standalone page flags.
type pageFlags struct {
	standalone bool
	style      string
	lang       string
	highlight  string
}

// assetFlags holds asset-related flags.
type assetFlags struct {
	assetPath string // Override asset directory
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	textile textileFlags
	images  imageFlags
	page    pageFlags
	assets  assetFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

func addTextileFlags(fs *flag.FlagSet, f *textileFlags) {
	fs.StringVar(&f.dialect, "dialect", "", "output dialect: xhtml, html5")
	fs.BoolVar(&f.restricted, "restricted", false, "escape raw HTML and limit markup for untrusted input")
	fs.BoolVar(&f.lite, "lite", false, "only paragraphs and blockquotes (with --restricted)")
	fs.BoolVar(&f.noBlockTags, "no-block-tags", false, "treat input as inline content only")
	fs.StringVar(&f.rel, "rel", "", "rel attribute for generated links")
	fs.StringVar(&f.linkPrefix, "link-prefix", "", "fixed prefix for footnote and note ids")
	fs.IntVar(&f.maxSpanDepth, "max-span-depth", 0, "nesting limit of inline markup (0 = default)")
	fs.BoolVar(&f.sanitize, "sanitize", false, "filter restricted output through a tag allow-list")
	fs.StringSliceVar(&f.allowedTags, "allowed-tags", nil, "comma-separated sanitizer allow-list")
}

func addImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.BoolVar(&f.disabled, "no-images", false, "leave image markup as text")
	fs.BoolVar(&f.sizes, "image-sizes", false, "probe remote images for width and height")
	fs.StringVar(&f.timeout, "image-timeout", "", "image probe timeout (e.g., 3s)")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.BoolVar(&f.standalone, "standalone", false, "wrap output in a complete HTML page")
	fs.StringVar(&f.style, "style", "", "stylesheet name for standalone pages")
	fs.StringVar(&f.lang, "lang", "", "lang attribute of standalone pages")
	fs.StringVar(&f.highlight, "highlight", "", "chroma style for bc(language-xxx) blocks")
}

func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched for styles and templates")
}

// buildConvertFlagSet registers every convert flag on a fresh FlagSet.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addTextileFlags(fs, &f.textile)
	addImageFlags(fs, &f.images)
	addPageFlags(fs, &f.page)
	addAssetFlags(fs, &f.assets)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(usage)
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
