package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// spanMarkers are scanned in this order; two-character markers come
// before their single-character prefixes.
var spanMarkers = []struct{ marker, tag string }{
	{"**", "b"},
	{"*", "strong"},
	{"??", "cite"},
	{"-", "del"},
	{"__", "i"},
	{"_", "em"},
	{"%", "span"},
	{"+", "ins"},
	{"~", "sub"},
	{"^", "sup"},
}

var spanAttrs = regexp.MustCompile(`^` + clsPattern)

// spanMatch describes one phrase found by the scanner.
type spanMatch struct {
	start, end int
	pre, tail  string
	atts, cite string
	content    string
	punct      string
}

// spans applies every phrase marker. Content is processed again at
// depth+1, and nothing is done at or beyond the configured maximum.
func (d *Document) spans(text string, depth int) string {
	if depth >= d.opts.MaxSpanDepth {
		return text
	}
	for _, sm := range spanMarkers {
		if strings.Contains(text, sm.marker) {
			text = d.spanPass(text, sm.marker, sm.tag, depth)
		}
	}
	return text
}

func (d *Document) spanPass(text, marker, tag string, depth int) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], marker)
		if j < 0 {
			break
		}
		i += j
		m, ok := matchSpan(text, i, last, marker)
		if !ok {
			i++
			continue
		}
		b.WriteString(text[last:m.start])
		b.WriteString(d.renderSpan(m, tag, depth))
		last, i = m.end, m.end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

// matchSpan tries to read a phrase whose opening marker sits at i. Text
// before last has already been emitted and cannot be consumed.
func matchSpan(text string, i, last int, marker string) (spanMatch, bool) {
	m := spanMatch{start: i}
	if r, ok := runeBefore(text, i); ok {
		switch {
		case (r == '[' || r == '{') && i-1 >= last:
			m.pre = string(r)
			m.start = i - 1
		case unicode.IsSpace(r) || r == '>' || r == '(' || inSet(r, spanPunct):
		default:
			return m, false
		}
	}

	c := i + len(marker)
	if strings.HasPrefix(text[c:], marker) {
		return m, false
	}

	attLens := []int{0}
	if a := spanAttrs.FindString(text[c:]); a != "" {
		attLens = []int{len(a), 0}
	}
	for _, n := range attLens {
		p := c + n
		if n > 0 && strings.HasPrefix(text[p:], marker) {
			continue
		}
		if matchSpanBody(text, p, marker, &m) {
			m.atts = text[c:p]
			return m, true
		}
	}
	return m, false
}

// matchSpanBody reads an optional :cite, the content and the closing
// marker starting at p.
func matchSpanBody(text string, p int, marker string, m *spanMatch) bool {
	type start struct {
		cite string
		at   int
	}
	starts := []start{{at: p}}
	if strings.HasPrefix(text[p:], ":") {
		run := text[p+1:]
		if n := strings.IndexFunc(run, unicode.IsSpace); n > 0 {
			cite := run[:n]
			lastRune, _ := utf8.DecodeLastRuneInString(cite)
			if utf8.RuneCountInString(cite) >= 2 && lastRune != rune(marker[0]) {
				_, w := utf8.DecodeRuneInString(run[n:])
				starts = []start{{cite: cite, at: p + 1 + n + w}, {at: p}}
			}
		}
	}

	for _, s := range starts {
		if closeSpan(text, s.at, marker, m) {
			m.cite = s.cite
			return true
		}
	}
	return false
}

// closeSpan finds the first closing marker after cs that yields valid
// content and a valid trailing boundary.
func closeSpan(text string, cs int, marker string, m *spanMatch) bool {
	mc := rune(marker[0])
	for k := cs + 1; k+len(marker) <= len(text); k++ {
		if text[k-1] == '\n' {
			return false
		}
		if !strings.HasPrefix(text[k:], marker) {
			continue
		}
		content, punct, ok := splitSpanContent(text[cs:k], mc)
		if !ok {
			continue
		}
		tail, end, ok := spanTail(text, k+len(marker))
		if !ok {
			continue
		}
		m.content, m.punct, m.tail, m.end = content, punct, tail, end
		return true
	}
	return false
}

// splitSpanContent validates phrase content. A run without whitespace or
// marker characters is taken whole; otherwise up to two trailing
// punctuation characters are split off and kept inside the tag.
func splitSpanContent(whole string, mc rune) (content, punct string, ok bool) {
	if !strings.ContainsFunc(whole, unicode.IsSpace) && !strings.ContainsRune(whole, mc) {
		return whole, "", true
	}
	runes := []rune(whole)
	maxCut := 0
	for maxCut < 2 && maxCut < len(runes) && inSet(runes[len(runes)-1-maxCut], spanPunct) {
		maxCut++
	}
	for cut := maxCut; cut >= 0; cut-- {
		body := runes[:len(runes)-cut]
		if len(body) < 2 {
			continue
		}
		first, last := body[0], body[len(body)-1]
		if unicode.IsSpace(first) || unicode.IsSpace(last) || last == mc {
			continue
		}
		return string(body), string(runes[len(runes)-cut:]), true
	}
	return "", "", false
}

// spanTail checks what follows a closing marker at t.
func spanTail(text string, t int) (tail string, end int, ok bool) {
	r, ok := runeAt(text, t)
	if !ok {
		return "", t, true
	}
	switch {
	case r == '[' || r == ']' || r == '}' || r == '<':
		return string(r), t + 1, true
	case unicode.IsSpace(r) || r == ')':
		return "", t, true
	case inSet(r, spanPunct):
		next, ok := runeAt(text, t+utf8.RuneLen(r))
		if !ok || !unicode.IsDigit(next) {
			return "", t, true
		}
	}
	return "", t, false
}

func (d *Document) renderSpan(m spanMatch, tag string, depth int) string {
	attrs := parseAttributes(m.atts, ctxInline, d.opts.Restricted, true).String()
	if m.cite != "" {
		cite := d.refs.retrieveURLs(d.shelf.retrieve(m.cite), d.resolveURLRef)
		attrs += ` cite="` + escapeAttr(cite) + `"`
	}
	content := d.spans(m.content, depth+1)
	open, close := d.refs.storeTags("<"+tag+attrs+">", "</"+tag+">")
	out := open + content + m.punct + close
	if m.pre == "[" && m.tail == "]" {
		return out
	}
	return m.pre + out + m.tail
}
