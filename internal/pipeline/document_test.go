package pipeline

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "paragraph with strong", input: "A *bold* word", want: "\t<p>A <strong>bold</strong> word</p>"},
		{name: "ordered list", input: "# one\n# two", want: "\t<ol>\n\t\t<li>one</li>\n\t\t<li>two</li>\n\t</ol>"},
		{name: "heading", input: "h2. Title", want: "\t<h2>Title</h2>"},
		{name: "heading alignment", input: "h1>. x", want: "\t<h1 style=\"text-align:right;\">x</h1>"},
		{name: "paragraph class", input: "p(c). hi", want: "\t<p class=\"c\">hi</p>"},
		{
			name:  "link trailing period",
			input: `"click here":http://example.com/page.`,
			want:  "\t<p><a href=\"http://example.com/page\">click here</a>.</p>",
		},
		{name: "line breaks", input: "a\nb", want: "\t<p>a<br />\nb</p>"},
		{name: "crlf", input: "a\r\nb\r\n\r\nc", want: "\t<p>a<br />\nb</p>\n\n\t<p>c</p>"},
		{name: "blockquote", input: "bq. A quote", want: "\t<blockquote>\n\t\t<p>A quote</p>\n\t</blockquote>"},
		{
			name:  "extended blockquote",
			input: "bq.. one\n\ntwo\n\np. three",
			want:  "\t<blockquote>\n\t\t<p>one</p>\n\t\t<p>two</p>\n\t</blockquote>\n\n\t<p>three</p>",
		},
		{name: "block code", input: "bc. <b>x</b>", want: "<pre><code>&lt;b&gt;x&lt;/b&gt;</code></pre>"},
		{name: "extended block code", input: "bc.. a\n\nb\n\np. c", want: "<pre><code>a\n\nb</code></pre>\n\n\t<p>c</p>"},
		{name: "pre", input: "pre. <x>", want: "<pre>&lt;x&gt;</pre>"},
		{name: "notextile block", input: "notextile. *raw*", want: "*raw*"},
		{name: "comment block", input: "###. hidden\n\nafter", want: "\t<p>after</p>"},
		{name: "inline code", input: "Use @<b>@ now", want: "\t<p>Use <code>&lt;b&gt;</code> now</p>"},
		{name: "raw block html", input: "<div>x</div>", want: "<div>x</div>"},
		{name: "html comment", input: "<!-- c -->", want: "<!-- c -->"},
		{name: "image", input: "!img.png!", want: "\t<p><img alt=\"\" src=\"img.png\" /></p>"},
		{
			name:  "linked image",
			input: "!a.png!:http://x.com/",
			want:  "\t<p><a href=\"http://x.com/\"><img alt=\"\" src=\"a.png\" /></a></p>",
		},
		{name: "aligned image", input: "!<a.png!", want: "\t<p><img align=\"left\" alt=\"\" src=\"a.png\" /></p>"},
		{name: "whitespace only", input: "  \n", want: "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newTestDocument(t, nil)
			if diff := cmp.Diff(tt.want, d.Convert(tt.input)); diff != "" {
				t.Errorf("Convert(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestConvert_Options(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Options)
		input   string
		want    []string
		notWant []string
	}{
		{
			name:    "restricted escapes raw html",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "<script>x</script>",
			want:    []string{"&lt;script&gt;"},
			notWant: []string{"<script>"},
		},
		{
			name:    "restricted drops classes",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "p(c). hi",
			want:    []string{"<p>hi</p>"},
			notWant: []string{"class="},
		},
		{
			name:    "restricted code is escaped once",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "bc. a < b",
			want:    []string{"a &lt; b"},
			notWant: []string{"&amp;lt;"},
		},
		{
			name:    "lite ignores headings",
			mutate:  func(o *Options) { o.Lite = true },
			input:   "h2. x",
			notWant: []string{"<h2>"},
		},
		{
			name:    "lite ignores lists",
			mutate:  func(o *Options) { o.Lite = true },
			input:   "# a",
			notWant: []string{"<ol>"},
		},
		{
			name:    "images disabled",
			mutate:  func(o *Options) { o.NoImages = true },
			input:   "!img.png!",
			want:    []string{"!img.png!"},
			notWant: []string{"<img"},
		},
		{
			name:    "no block tags",
			mutate:  func(o *Options) { o.BlockTags = false },
			input:   "A *b*",
			want:    []string{"A <strong>b</strong>"},
			notWant: []string{"<p>"},
		},
		{
			name:   "html5 image alignment",
			mutate: func(o *Options) { o.Dialect = DialectHTML5 },
			input:  "!<a.png!",
			want:   []string{`<img alt="" src="a.png" style="float:left;" />`},
		},
		{
			name:   "rel on image links",
			mutate: func(o *Options) { o.Rel = "nofollow" },
			input:  "!a.png!:http://x.com/",
			want:   []string{`<a href="http://x.com/" rel="nofollow">`},
		},
		{
			name:    "restricted rejects image src scheme",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "!javascript:alert(1)!",
			notWant: []string{"<img", `src="javascript`},
		},
		{
			name:    "restricted rejects image href scheme",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "!a.png!:javascript:alert(1)",
			notWant: []string{"<img", "href="},
		},
		{
			name:    "data image rejected when restricted",
			mutate:  func(o *Options) { o.Restricted = true },
			input:   "!data:image/png;base64,AAAA!",
			notWant: []string{"<img"},
		},
		{
			name:    "image href keeps balanced parens",
			input:   "!a.png!:http://x.com/a_(b)",
			want:    []string{`<a href="http://x.com/a_%28b%29"><img alt="" src="a.png" /></a>`},
			notWant: []string{"</a>)"},
		},
		{
			name:  "image href drops unbalanced paren",
			input: "(see !a.png!:http://x.com/a)",
			want:  []string{`<a href="http://x.com/a"><img alt="" src="a.png" /></a>)`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newTestDocument(t, tt.mutate)
			got := d.Convert(tt.input)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Convert(%q) = %q, want it to contain %q", tt.input, got, w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("Convert(%q) = %q, should not contain %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestConvert_ImageSizes(t *testing.T) {
	t.Parallel()

	t.Run("remote image is sized", func(t *testing.T) {
		t.Parallel()

		sizer := &fakeSizer{w: 40, h: 25, ok: true}
		d := newTestDocument(t, func(o *Options) {
			o.ImageSizes = true
			o.ImageSizer = sizer
		})
		got := d.Convert("!http://x.com/a.png(Cat)!")
		want := `<img alt="Cat" height="25" src="http://x.com/a.png" title="Cat" width="40" />`
		if !strings.Contains(got, want) {
			t.Errorf("Convert() = %q, want %q", got, want)
		}
	})

	t.Run("relative image is not probed", func(t *testing.T) {
		t.Parallel()

		sizer := &fakeSizer{w: 40, h: 25, ok: true}
		d := newTestDocument(t, func(o *Options) {
			o.ImageSizes = true
			o.ImageSizer = sizer
		})
		got := d.Convert("!/a.png!")
		if sizer.calls != 0 {
			t.Errorf("sizer called %d times for a relative src", sizer.calls)
		}
		if strings.Contains(got, "width=") {
			t.Errorf("Convert() = %q, want no dimensions", got)
		}
	})

	t.Run("failed probe leaves the image unsized", func(t *testing.T) {
		t.Parallel()

		d := newTestDocument(t, func(o *Options) {
			o.ImageSizes = true
			o.ImageSizer = &fakeSizer{}
		})
		got := d.Convert("!http://x.com/a.png!")
		if strings.Contains(got, "height=") {
			t.Errorf("Convert() = %q, want no dimensions", got)
		}
	})
}

func TestConvert_Highlight(t *testing.T) {
	t.Parallel()

	withHighlighter := func(o *Options) {
		o.Highlighter = &fakeHighlighter{lang: "go"}
	}

	got := newTestDocument(t, withHighlighter).Convert("bc(language-go). x := 1")
	want := `<pre class="language-go"><code class="language-go"><span>x := 1</span></code></pre>`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("highlighted block mismatch (-want +got):\n%s", diff)
	}

	got = newTestDocument(t, withHighlighter).Convert("bc(language-rust). a < b")
	if !strings.Contains(got, "a &lt; b") {
		t.Errorf("unknown language should fall back to escaped code, got %q", got)
	}
}

func TestConvert_ExpandsTokensInCite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "link inside cite",
			input: `??:"x":http://a.com quoted??`,
			want:  []string{"<cite cite=", "&lt;a href=&quot;http://a.com&quot;&gt;x&lt;/a&gt;", "quoted</cite>"},
		},
		{
			name:  "comment inside cite",
			input: "*:a<!--c-->b bold*",
			want:  []string{`cite="a&lt;!--c--&gt;b"`, "bold</strong>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newTestDocument(t, nil).Convert(tt.input)
			if strings.Contains(got, testUID) {
				t.Fatalf("Convert(%q) = %q, left a placeholder", tt.input, got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("Convert(%q) = %q, want it to contain %q", tt.input, got, w)
				}
			}
		})
	}
}

func TestDocument_RetrieveFixedPoint(t *testing.T) {
	t.Parallel()

	d := newTestDocument(t, nil)
	inner := d.shelf.shelve("<b>x</b>")
	open, close := d.refs.storeTags(`<span title="`+inner+`">`, "</span>")
	outer := d.shelf.shelve(open + "y" + close)

	if got, want := d.retrieve("A "+outer), `A <span title="<b>x</b>">y</span>`; got != want {
		t.Errorf("retrieve() = %q, want %q", got, want)
	}
}

func TestConvert_StripsUID(t *testing.T) {
	t.Parallel()

	d := newTestDocument(t, nil)
	got := d.Convert("x" + testUID + "1:shelve y")
	if strings.Contains(got, testUID) {
		t.Errorf("Convert() kept the document uid: %q", got)
	}
}

func TestNewDocument_UniqueUID(t *testing.T) {
	t.Parallel()

	a, b := NewDocument(DefaultOptions()), NewDocument(DefaultOptions())
	if a.UID() == b.UID() {
		t.Errorf("two documents share uid %q", a.UID())
	}
	if len(a.UID()) != 32 {
		t.Errorf("UID() = %q, want 32 hex characters", a.UID())
	}
}

func TestHasRawText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{input: "plain", want: true},
		{input: "<div>x</div>", want: false},
		{input: "<ul>\n<li>a</li>\n</ul>\n<br />", want: false},
		{input: "<!-- c -->", want: false},
		{input: "<div>x</div> tail", want: true},
	}

	for _, tt := range tests {
		if got := hasRawText(tt.input); got != tt.want {
			t.Errorf("hasRawText(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBrLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "a\nb", want: "a<br />\nb"},
		{input: "a<br />\nb", want: "a<br />\nb"},
		{input: "a\n b", want: "a\n b"},
		{input: "a\n|b", want: "a\n|b"},
		{input: "a\n\nb", want: "a\n\nb"},
	}

	for _, tt := range tests {
		if got := brLines(tt.input); got != tt.want {
			t.Errorf("brLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
