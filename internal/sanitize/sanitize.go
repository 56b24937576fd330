// Package sanitize filters generated HTML down to an allow-list of tags
// and attributes.
package sanitize

import (
	"net/url"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// DefaultAllowedTags are the elements the converter itself can produce.
var DefaultAllowedTags = []string{
	"a", "abbr", "acronym", "b", "blockquote", "br", "caption", "cite",
	"code", "dd", "del", "div", "dl", "dt", "em", "h1", "h2", "h3", "h4",
	"h5", "h6", "hr", "i", "img", "ins", "li", "ol", "p", "pre", "span",
	"strong", "sub", "sup", "table", "tbody", "td", "tfoot", "th", "thead",
	"tr", "ul",
}

// Attributes allowed on every element, and per element.
var (
	globalAttrs  = []string{"class", "id", "lang", "title"}
	elementAttrs = map[string][]string{
		"a":          {"href", "rel"},
		"abbr":       {"title"},
		"acronym":    {"title"},
		"blockquote": {"cite"},
		"del":        {"cite"},
		"img":        {"align", "alt", "height", "src", "width"},
		"ins":        {"cite"},
		"ol":         {"start"},
		"table":      {"summary"},
		"td":         {"colspan", "rowspan"},
		"th":         {"colspan", "rowspan"},
	}
	urlAttrs   = []string{"cite", "href", "src"}
	safeScheme = []string{"", "http", "https", "ftp", "mailto"}

	// Elements whose content is dropped together with the element.
	dropContent = []string{"script", "style", "iframe", "object", "embed", "noscript", "template"}
)

// Sanitize returns htmlContent with disallowed elements unwrapped, their
// text kept, and disallowed attributes and unsafe URLs removed. Comments
// are dropped. A nil allowed slice means DefaultAllowedTags.
func Sanitize(htmlContent string, allowed []string) string {
	if allowed == nil {
		allowed = DefaultAllowedTags
	}
	allow := make(map[string]bool, len(allowed))
	for _, t := range allowed {
		allow[strings.ToLower(t)] = true
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the input is done.
			return b.String()

		case html.TextToken:
			if skip == 0 {
				b.Write(z.Raw())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if slices.Contains(dropContent, tag) {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allow[tag] {
				continue
			}
			b.WriteString("<" + tag)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if attr, ok := keepAttr(tag, string(key), string(val)); ok {
					b.WriteString(attr)
				}
			}
			if tt == html.SelfClosingTagToken {
				b.WriteString(" />")
			} else {
				b.WriteString(">")
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if slices.Contains(dropContent, tag) {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip == 0 && allow[tag] {
				b.WriteString("</" + tag + ">")
			}
		}
	}
}

// keepAttr renders one attribute if it survives the allow-list.
func keepAttr(tag, key, val string) (string, bool) {
	if !slices.Contains(globalAttrs, key) && !slices.Contains(elementAttrs[tag], key) {
		return "", false
	}
	if slices.Contains(urlAttrs, key) && !SafeURL(val) {
		return "", false
	}
	return " " + key + `="` + html.EscapeString(val) + `"`, true
}

// SafeURL reports whether u is relative or uses a scheme that cannot run
// script.
func SafeURL(u string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(u))
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return false
	}
	return slices.Contains(safeScheme, strings.ToLower(parsed.Scheme))
}
