package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var imagePattern = regexp.MustCompile(`!(<|=|>)?(` + clsPattern + `)(?:\.\s)?([^\s(!]+)\s?(?:\(([^)]+)\))?!`)

var imageAlign = map[string]string{"<": "left", "=": "center", ">": "right"}

type imageMatch struct {
	align, atts, src, title, href string
}

// images renders `!src(title)!:href` references.
func (d *Document) images(text string) string {
	if !strings.Contains(text, "!") {
		return text
	}
	var b strings.Builder
	last, pos := 0, 0
	for pos < len(text) {
		loc := imagePattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}
		g := groups(text, loc)
		m := imageMatch{align: g[1], atts: g[2], src: g[3], title: g[4]}
		if !d.acceptURL(m.src) {
			pos = loc[0] + 1
			continue
		}

		start, end := loc[0], loc[1]
		if strings.HasPrefix(text[end:], ":") {
			// A rejected href is left in place, which fails the tail check
			// below and keeps the whole reference literal.
			if href, n := imageHref(text[end+1:]); n > 0 && d.acceptURL(href) {
				m.href = href
				end += 1 + n
			}
		}

		wrapped := false
		if r, ok := runeBefore(text, start); ok && (r == '[' || r == '{') && start-1 >= last {
			if c, ok := runeAt(text, end); ok && (c == ']' || c == '}') {
				start--
				end++
				wrapped = true
			}
		}
		if !wrapped && !imageTailOK(text, end) {
			pos = loc[0] + 1
			continue
		}

		b.WriteString(text[last:start])
		b.WriteString(d.renderImage(m))
		last, pos = end, end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// imageHref picks the longest prefix of the non-space run that neither
// ends in `] . ,` or an unbalanced `)` nor is followed by an invalid
// boundary.
func imageHref(s string) (string, int) {
	run := s
	if n := strings.IndexFunc(s, unicode.IsSpace); n >= 0 {
		run = s[:n]
	}
	for p := len(run); p > 0; {
		last, w := utf8.DecodeLastRuneInString(run[:p])
		if hrefEndOK(run[:p], last) && (p == len(run) || strings.ContainsRune("]}.,)|", rune(run[p]))) {
			return run[:p], p
		}
		p -= w
	}
	return "", 0
}

func hrefEndOK(href string, last rune) bool {
	switch last {
	case ']', '.', ',':
		return false
	case ')':
		return strings.Count(href, "(") == strings.Count(href, ")")
	}
	return true
}

// imageTailOK accepts end-of-text, whitespace or closing punctuation
// after an image.
func imageTailOK(text string, end int) bool {
	r, ok := runeAt(text, end)
	return !ok || unicode.IsSpace(r) || strings.ContainsRune(".,)|]}", r)
}

func (d *Document) renderImage(m imageMatch) string {
	var attrs Attributes
	if m.align != "" && !d.html5() {
		attrs = append(attrs, Attr{Name: "align", Value: imageAlign[m.align]})
	}
	attrs = append(attrs, Attr{Name: "alt", Value: m.title})

	var width, height int
	sized := false
	if d.opts.ImageSizes && d.opts.ImageSizer != nil && !isRelativeURL(m.src) {
		width, height, sized = d.opts.ImageSizer.ImageSize(m.src)
	}
	if sized {
		attrs = append(attrs, Attr{Name: "height", Value: strconv.Itoa(height)})
	}
	attrs = append(attrs, Attr{Name: "src", Value: m.src})

	shorthand := parseAttributes(m.atts, ctxInline, d.opts.Restricted, true)
	if m.align != "" && d.html5() {
		float := "float:" + imageAlign[m.align] + ";"
		if m.align == "=" {
			float = "display:block;margin:0 auto;"
		}
		style, _ := shorthand.Get("style")
		shorthand.Put("style", float+style)
	}
	attrs = append(attrs, shorthand...)
	if m.title != "" {
		attrs = append(attrs, Attr{Name: "title", Value: m.title})
	}
	if sized {
		attrs = append(attrs, Attr{Name: "width", Value: strconv.Itoa(width)})
	}

	img := "<img" + attrs.String() + " />"
	if m.href != "" {
		a := Attributes{{Name: "href", Value: d.refs.shelveURL(m.href)}}
		if d.opts.Rel != "" {
			a = append(a, Attr{Name: "rel", Value: d.opts.Rel})
		}
		img = "<a" + a.String() + ">" + img + "</a>"
	}
	return d.shelf.shelve(img)
}
