package pipeline

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	linkInner      = regexp.MustCompile(`(?s)^(` + clsPattern + `)\s*(!.+!|.+?)(?:\(([^)]+?)\))?$`)
	urlTightSplit  = regexp.MustCompile(`^(.*\])(\[.*)$`)
	closingTagTail = regexp.MustCompile(`^(.*)(</[a-z]+)$`)
	urlRefDecl     = regexp.MustCompile(`(?m)(^|\s)\[([^\]\n]+)\]\s?((?:` + strings.Join(fullSchemes, "|") + `)://\S+|/\S+)`)
)

// linkScanState names the states of the backward link-start scanner.
type linkScanState int

const (
	scanningText linkScanState = iota
	scanningQuote
	closed
)

// linkStartScanner walks the quote-separated fragments of the text before
// a `":` boundary, from the end towards the start, to find where the link
// text opens.
type linkStartScanner struct {
	fragments []string
	i         int
	balance   int
	quotes    int
	state     linkScanState
	start     int
}

func newLinkStartScanner(fragments []string) *linkStartScanner {
	s := &linkStartScanner{fragments: fragments, i: len(fragments) - 1}
	s.state = s.stateFor(s.i)
	return s
}

func (s *linkStartScanner) stateFor(i int) linkScanState {
	if s.fragments[i] == "" {
		return scanningQuote
	}
	return scanningText
}

// step consumes the current fragment and moves one fragment back.
func (s *linkStartScanner) step() {
	switch s.state {
	case scanningText:
		frag := s.fragments[s.i]
		first, _ := utf8.DecodeRuneInString(frag)
		last, _ := utf8.DecodeLastRuneInString(frag)
		if !unicode.IsSpace(first) || strings.HasSuffix(frag, "=") {
			s.balance--
		}
		if !unicode.IsSpace(last) {
			s.balance++
		}
		if s.i == 0 {
			// The link text would start before the text itself.
			s.state, s.start = closed, -1
			return
		}
		s.i--
	case scanningQuote:
		if s.quotes == 0 {
			s.balance++
		} else {
			s.balance--
		}
		s.quotes++
		if s.i == 0 {
			s.state, s.start = closed, 1
			return
		}
		s.i--
		if prev := s.fragments[s.i]; prev == "" || strings.HasSuffix(prev, " ") {
			s.balance = 0
		}
	}
	if s.balance <= 0 {
		s.state, s.start = closed, s.i+1
		return
	}
	s.state = s.stateFor(s.i)
}

// run returns the index of the first fragment of the link text.
func (s *linkStartScanner) run() (int, bool) {
	for s.state != closed {
		s.step()
	}
	return s.start, s.start > 0
}

// markLinkStarts inserts the link-start marker before the opening quote
// of every inline link.
func (d *Document) markLinkStarts(text string) string {
	parts := splitLinkEnds(text)
	if len(parts) < 2 {
		return text
	}
	for n, s := range parts[:len(parts)-1] {
		if !strings.Contains(s, `"`) {
			continue
		}
		fragments := strings.Split(s, `"`)
		k, ok := newLinkStartScanner(fragments).run()
		if !ok {
			continue
		}
		parts[n] = strings.Join(fragments[:k], `"`) + d.linkStart + `"` + strings.Join(fragments[k:], `"`)
	}
	return strings.Join(parts, `":`)
}

// splitLinkEnds splits on `":` boundaries followed by a non-space.
func splitLinkEnds(text string) []string {
	var parts []string
	last := 0
	for i := 0; ; {
		j := strings.Index(text[i:], `":`)
		if j < 0 {
			break
		}
		p := i + j
		if r, ok := runeAt(text, p+2); ok && !unicode.IsSpace(r) {
			parts = append(parts, text[last:p])
			last = p + 2
		}
		i = p + 2
	}
	return append(parts, text[last:])
}

// links resolves inline links.
func (d *Document) links(text string) string {
	if !strings.Contains(text, `":`) {
		return text
	}
	text = d.markLinkStarts(text)
	if !strings.Contains(text, d.linkStart) {
		return text
	}
	if d.linkMarked == nil {
		d.linkMarked = regexp.MustCompile(`(\[)?` + regexp.QuoteMeta(d.linkStart) + `"((?s:.*?))":([^\s|^'"*]*)`)
	}
	return replaceMatches(d.linkMarked, text, func(m []int) (string, bool) {
		g := groups(text, m)
		return d.link(text[m[0]:m[1]], g[1], g[2], g[3]), true
	})
}

// link renders one marked link, or restores its text when the target is
// not acceptable.
func (d *Document) link(whole, pre, inner, rawURL string) string {
	restore := strings.Replace(whole, d.linkStart, "", 1)
	im := linkInner.FindStringSubmatch(inner)
	if im == nil {
		return restore
	}
	atts, text, title := im[1], im[2], im[3]

	var tight string
	if strings.Contains(rawURL, "]") {
		if m := urlTightSplit.FindStringSubmatch(rawURL); m != nil {
			rawURL, tight = m[1], m[2]
		}
		for i := len(rawURL) - 1; i >= 0; i-- {
			if rawURL[i] == ']' && (i+1 == len(rawURL) || rawURL[i+1] != '=') {
				tight = rawURL[i+1:] + tight
				rawURL = rawURL[:i+1]
				break
			}
		}
	}

	rawURL, pop, pre := trimURLTail(rawURL, pre)

	if !d.acceptURL(rawURL) {
		return restore
	}

	if text == "$" {
		text = d.displayURL(rawURL)
	}
	text = strings.TrimSpace(text)
	if !d.opts.NoImages {
		text = d.images(text)
	}
	text = d.spans(text, 0)
	text = d.glyphs(text)

	attrs := parseAttributes(atts, ctxInline, d.opts.Restricted, true)
	attrs = append(attrs, Attr{Name: "href", Value: d.refs.shelveURL(rawURL)})
	if title != "" {
		attrs = append(attrs, Attr{Name: "title", Value: d.shelf.shelve(escapeAttr(title))})
	}
	if d.opts.Rel != "" {
		attrs = append(attrs, Attr{Name: "rel", Value: d.opts.Rel})
	}
	a := d.shelf.shelve("<a" + attrs.String() + ">" + text + "</a>")
	return pre + a + pop + tight
}

// trimURLTail strips trailing characters that belong to the surrounding
// text rather than the URL. The popped text is returned for output after
// the link. A `[` wrapper is dropped together with an unbalanced `]`
// found on the first inspection.
func trimURLTail(u, pre string) (string, string, string) {
	var pop string
	for first := true; u != ""; first = false {
		c := u[len(u)-1]
		switch c {
		case '.', ',', ';', ':', '?', '!':
			pop = string(c) + pop
			u = u[:len(u)-1]
			continue
		case '>':
			m := closingTagTail.FindStringSubmatch(u[:len(u)-1])
			if m == nil {
				return u, pop, pre
			}
			u, pop = m[1], m[2]+">"+pop
			continue
		case ']':
			if strings.Count(u, "[") == strings.Count(u, "]") {
				return u, pop, pre
			}
			u = u[:len(u)-1]
			if first && pre == "[" {
				pre = ""
			} else {
				pop = "]" + pop
			}
			continue
		case ')':
			if strings.Count(u, "(") == strings.Count(u, ")") {
				return u, pop, pre
			}
			pop = ")" + pop
			u = u[:len(u)-1]
			continue
		}
		return u, pop, pre
	}
	return u, pop, pre
}

// acceptURL rejects malformed URLs and schemes outside the allowed set.
func (d *Document) acceptURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "" || slices.Contains(d.schemes, scheme)
}

// displayURL is the text shown for a `$` link.
func (d *Document) displayURL(raw string) string {
	target := raw
	if ref, ok := d.urlRefs[raw]; ok {
		target = ref
	}
	if i := strings.Index(target, "://"); i >= 0 {
		return target[i+3:]
	}
	if i := strings.Index(target, ":"); i >= 0 {
		return target[i+1:]
	}
	return target
}

// collectRefs records every `[name]url` declaration of the document up
// front so that links may refer to names declared further down.
func (d *Document) collectRefs(text string) {
	for _, m := range urlRefDecl.FindAllStringSubmatch(text, -1) {
		d.urlRefs[m[2]] = m[3]
	}
}

// getRefs records `[name]url` declarations and removes them.
func (d *Document) getRefs(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	return replaceGroups(urlRefDecl, text, func(g []string) string {
		d.urlRefs[g[2]] = g[3]
		return g[1]
	})
}

// resolveURLRef maps a shelved link target to its final href.
func (d *Document) resolveURLRef(target string) string {
	if ref, ok := d.urlRefs[target]; ok {
		target = ref
	}
	return escapeAttr(encodeURL(target))
}
