package sanitize

import (
	"testing"
)

// ---------------------------------------------------------------------------
// TestSanitize - allow-list filtering
// ---------------------------------------------------------------------------

func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		allowed []string
		want    string
	}{
		{
			name:  "keeps allowed markup",
			input: `<p class="x">a <strong>b</strong></p>`,
			want:  `<p class="x">a <strong>b</strong></p>`,
		},
		{
			name:  "unwraps disallowed element but keeps text",
			input: `<p><blink>hi</blink></p>`,
			want:  `<p>hi</p>`,
		},
		{
			name:  "drops script with its content",
			input: `<p>a</p><script>alert(1)</script><p>b</p>`,
			want:  `<p>a</p><p>b</p>`,
		},
		{
			name:  "drops event handler attributes",
			input: `<a href="http://x.com/" onclick="evil()">x</a>`,
			want:  `<a href="http://x.com/">x</a>`,
		},
		{
			name:  "drops javascript URL",
			input: `<a href="javascript:alert(1)">x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:  "drops obfuscated javascript URL",
			input: `<a href=" JaVaScRiPt:alert(1)">x</a>`,
			want:  `<a>x</a>`,
		},
		{
			name:  "keeps self-closing form",
			input: `<img src="/a.png" alt="a" />`,
			want:  `<img src="/a.png" alt="a" />`,
		},
		{
			name:  "keeps entities in text",
			input: `<p>it&#8217;s</p>`,
			want:  `<p>it&#8217;s</p>`,
		},
		{
			name:  "drops comments",
			input: `<p>a<!-- hidden --></p>`,
			want:  `<p>a</p>`,
		},
		{
			name:    "custom allow-list",
			input:   `<p><em>a</em> <strong>b</strong></p>`,
			allowed: []string{"em"},
			want:    `<em>a</em> b`,
		},
		{
			name:  "drops style attribute",
			input: `<span style="color:red">x</span>`,
			want:  `<span>x</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Sanitize(tt.input, tt.allowed)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSafeURL - scheme checks
// ---------------------------------------------------------------------------

func TestSafeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{"http://example.com/", true},
		{"https://example.com/", true},
		{"mailto:a@b.c", true},
		{"/relative/path", true},
		{"#anchor", true},
		{"javascript:alert(1)", false},
		{"java\tscript:alert(1)", false},
		{"data:text/html;base64,AAAA", false},
		{"vbscript:msgbox", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			if got := SafeURL(tt.url); got != tt.want {
				t.Errorf("SafeURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
