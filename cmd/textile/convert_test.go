package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	textile "github.com/alnah/go-textile"
	"github.com/alnah/go-textile/internal/config"
)

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI flags override config values
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Textile.Rel = "file"
	cfg.Page.Lang = "de"

	mergeFlags(&convertFlags{
		textile: textileFlags{dialect: "html5", restricted: true, allowedTags: []string{"p"}},
		images:  imageFlags{sizes: true, timeout: "1s"},
		page:    pageFlags{standalone: true, lang: "fr"},
		assets:  assetFlags{assetPath: "assets"},
	}, cfg)

	want := config.DefaultConfig()
	want.Textile.Dialect = "html5"
	want.Textile.Restricted = true
	want.Textile.Rel = "file"
	want.Textile.AllowedTags = []string{"p"}
	want.Images.Sizes = true
	want.Images.Timeout = "1s"
	want.Page.Standalone = true
	want.Page.Lang = "fr"
	want.Assets.BasePath = "assets"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("mergeFlags() mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestBuildOptions - Config to converter options
// ---------------------------------------------------------------------------

func TestBuildOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(*config.Config)
		input   string
		want    string
		notWant string
	}{
		{
			name:  "defaults keep raw html",
			setup: func(*config.Config) {},
			input: "<b>x</b>",
			want:  "<b>x</b>",
		},
		{
			name:    "restricted",
			setup:   func(c *config.Config) { c.Textile.Restricted = true },
			input:   "<b>x</b>",
			want:    "&lt;b&gt;x&lt;/b&gt;",
			notWant: "<b>",
		},
		{
			name:    "no block tags",
			setup:   func(c *config.Config) { c.Textile.NoBlockTags = true },
			input:   "A *b*",
			want:    "A <strong>b</strong>",
			notWant: "<p>",
		},
		{
			name:    "images disabled",
			setup:   func(c *config.Config) { c.Images.Disabled = true },
			input:   "!img.png!",
			want:    "!img.png!",
			notWant: "<img",
		},
		{
			name:  "rel",
			setup: func(c *config.Config) { c.Textile.Rel = "nofollow" },
			input: `"a":http://example.com/`,
			want:  `rel="nofollow"`,
		},
		{
			name:  "html5 dialect",
			setup: func(c *config.Config) { c.Textile.Dialect = "HTML5" },
			input: "!<a.png!",
			want:  `style="float:left;"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			tt.setup(cfg)
			opts, err := buildOptions(cfg)
			if err != nil {
				t.Fatalf("buildOptions: %v", err)
			}

			got, err := textile.ToHTML(tt.input, opts...)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("ToHTML(%q) = %q, should not contain %q", tt.input, got, tt.notWant)
			}
		})
	}
}

func TestBuildOptions_Standalone(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Page.Standalone = true
	cfg.Page.Lang = "fr"
	cfg.Images.Timeout = "1s"

	opts, err := buildOptions(cfg)
	if err != nil {
		t.Fatalf("buildOptions: %v", err)
	}
	got, err := textile.ToHTML("h1. Hello", opts...)
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{`lang="fr"`, "<title>Hello</title>", "<h1>Hello</h1>"} {
		if !strings.Contains(got, want) {
			t.Errorf("page should contain %q, got %q", want, got)
		}
	}
}

func TestBuildOptions_InvalidTimeout(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Images.Timeout = "soon"

	if _, err := buildOptions(cfg); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("error = %v, want ErrInvalidValue", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvertStream - Standard input mode
// ---------------------------------------------------------------------------

func TestConvertStream(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	err := convertStream(context.Background(), strings.NewReader("p. one"), &out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "\t<p>one</p>\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestConvertStream_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		opts    []textile.Option
		wantErr error
	}{
		{name: "empty", input: "", wantErr: ErrNoInput},
		{name: "bad dialect", input: "x", opts: []textile.Option{textile.WithDialect("sgml")}, wantErr: textile.ErrUnknownDialect},
		{name: "bad front matter", input: "---\ntitle: [unclosed\n---\nbody", wantErr: textile.ErrFrontMatter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			err := convertStream(context.Background(), strings.NewReader(tt.input), &out, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Input.DefaultDir = "docs"
	cfg.Output.DefaultDir = "site"

	if got := resolveInputPath([]string{"a.textile"}, cfg); got != "a.textile" {
		t.Errorf("resolveInputPath(arg) = %q", got)
	}
	if got := resolveInputPath(nil, cfg); got != "docs" {
		t.Errorf("resolveInputPath(nil) = %q, want docs", got)
	}
	if got := resolveOutputDir("", cfg); got != "site" {
		t.Errorf("resolveOutputDir(\"\") = %q, want site", got)
	}
	if got := resolveOutputDir("out", cfg); got != "out" {
		t.Errorf("resolveOutputDir(out) = %q", got)
	}
}
