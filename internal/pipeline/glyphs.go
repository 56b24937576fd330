package pipeline

import (
	"regexp"
	"strings"
	"unicode"
)

// glyphSplit separates tags from the text between them.
var glyphSplit = regexp.MustCompile(`<[\w/!?][^\n]*?>`)

// glyphRule is one typographic substitution. accept vets a candidate
// match; replace renders it.
type glyphRule struct {
	re      *regexp.Regexp
	accept  func(s string, m []int, first bool) bool
	replace func(d *Document, s string, m []int) string
}

// expandWith returns a replace func expanding a regexp template.
func expandWith(t string, re *regexp.Regexp) func(*Document, string, []int) string {
	return func(_ *Document, s string, m []int) string {
		return string(re.ExpandString(nil, t, s, m))
	}
}

func always(string, []int, bool) bool { return true }

// closeFollows reports whether a closing quote may precede s.
func closeFollows(s string) bool {
	r, ok := runeAt(s, 0)
	return !ok || unicode.IsSpace(r) || inSet(r, glyphPunct) || r == '<'
}

// atSegmentStart accepts an empty leading group only at the start of a
// segment that follows a tag.
func atSegmentStart(m []int, group int, first bool) bool {
	if m[2*group] < m[2*group+1] {
		return true
	}
	return m[0] == 0 && !first
}

var (
	dimensionRe  = regexp.MustCompile(`([0-9]+[\])]?['"]? ?)[xX]( ?[\[(]?)`)
	dimensionEnd = regexp.MustCompile(`^[+-]?[0-9]*\.?[0-9]+`)
	apostropheRe = regexp.MustCompile(`([\pL\pM\pN\p{Pc})]?)'([\pL\pM\pN\p{Pc}])`)
	decadeRe     = regexp.MustCompile(`(\s)'([0-9]+[\pL\pM\pN\p{Pc}]?)`)
	sglBracketRe = regexp.MustCompile(`([(\[{])'`)
	sglCloseRe   = regexp.MustCompile(`(\S?)'`)
	sglOpenRe    = regexp.MustCompile(`'`)
	dblBracketRe = regexp.MustCompile(`([(\[{])"`)
	dblCloseRe   = regexp.MustCompile(`(\S?)"`)
	dblOpenRe    = regexp.MustCompile(`"`)
	ellipsisRe   = regexp.MustCompile(`([^.]?)\.{3}`)
	emDashRe     = regexp.MustCompile(`(\s?)--(\s?)`)
	enDashRe     = regexp.MustCompile(` - `)
	trademarkRe  = regexp.MustCompile(`(?i)( ?)[(\[]tm[)\]]`)
	registeredRe = regexp.MustCompile(`(?i)( ?)[(\[]r[)\]]`)
	copyrightRe  = regexp.MustCompile(`(?i)( ?)[(\[]c[)\]]`)
	halfRe       = regexp.MustCompile(`[(\[]1/2[)\]]`)
	quarterRe    = regexp.MustCompile(`[(\[]1/4[)\]]`)
	threeQuartRe = regexp.MustCompile(`[(\[]3/4[)\]]`)
	degreesRe    = regexp.MustCompile(`[(\[]o[)\]]`)
	plusMinusRe  = regexp.MustCompile(`[(\[]\+/-[)\]]`)
	acronymRe    = regexp.MustCompile(`(\p{Lu}[\p{Lu}\p{Nd}]{2,})\(([^)]*)\)`)
	capsOnlyRe   = regexp.MustCompile(`^\p{Lu}{3,}$`)
	capsRe       = regexp.MustCompile(`([\s>(;-]?)(\p{Lu}{3,})([\p{Ll}\p{Nd}]*)`)
)

// glyphRules run in order over every text segment.
var glyphRules = []glyphRule{
	{
		re: dimensionRe,
		accept: func(s string, m []int, _ bool) bool {
			if r, ok := runeBefore(s, m[0]); ok && isWordRune(r) && r != 'x' && r != 'X' {
				return false
			}
			return dimensionEnd.MatchString(s[m[1]:])
		},
		replace: expandWith("${1}&#215;${2}", dimensionRe),
	},
	{
		re: apostropheRe,
		accept: func(s string, m []int, first bool) bool {
			return atSegmentStart(m, 1, first)
		},
		replace: expandWith("${1}&#8217;${2}", apostropheRe),
	},
	{
		re: decadeRe,
		accept: func(s string, m []int, _ bool) bool {
			rest := s[m[1]:]
			if r, ok := runeAt(rest, 0); ok && isWordRune(r) {
				return false
			}
			rest = strings.TrimPrefix(rest, ".")
			rest = strings.TrimLeftFunc(rest, isWordRune)
			return !strings.HasPrefix(rest, "'")
		},
		replace: expandWith("${1}&#8217;${2}", decadeRe),
	},
	{
		re: sglBracketRe,
		accept: func(s string, m []int, _ bool) bool {
			r, ok := runeAt(s, m[1])
			return ok && !unicode.IsSpace(r)
		},
		replace: expandWith("${1}&#8216;", sglBracketRe),
	},
	{
		re: sglCloseRe,
		accept: func(s string, m []int, first bool) bool {
			return atSegmentStart(m, 1, first) && closeFollows(s[m[1]:])
		},
		replace: expandWith("${1}&#8217;", sglCloseRe),
	},
	{re: sglOpenRe, accept: always, replace: expandWith("&#8216;", sglOpenRe)},
	{
		re: dblBracketRe,
		accept: func(s string, m []int, _ bool) bool {
			r, ok := runeAt(s, m[1])
			return ok && !unicode.IsSpace(r)
		},
		replace: expandWith("${1}&#8220;", dblBracketRe),
	},
	{
		re: dblCloseRe,
		accept: func(s string, m []int, first bool) bool {
			return atSegmentStart(m, 1, first) && closeFollows(s[m[1]:])
		},
		replace: expandWith("${1}&#8221;", dblCloseRe),
	},
	{re: dblOpenRe, accept: always, replace: expandWith("&#8220;", dblOpenRe)},
	{re: ellipsisRe, accept: always, replace: expandWith("${1}&#8230;", ellipsisRe)},
	{re: emDashRe, accept: always, replace: expandWith("${1}&#8212;${2}", emDashRe)},
	{re: enDashRe, accept: always, replace: expandWith(" &#8211; ", enDashRe)},
	{re: trademarkRe, accept: always, replace: expandWith("${1}&#8482;", trademarkRe)},
	{re: registeredRe, accept: always, replace: expandWith("${1}&#174;", registeredRe)},
	{re: copyrightRe, accept: always, replace: expandWith("${1}&#169;", copyrightRe)},
	{re: halfRe, accept: always, replace: expandWith("&#189;", halfRe)},
	{re: quarterRe, accept: always, replace: expandWith("&#188;", quarterRe)},
	{re: threeQuartRe, accept: always, replace: expandWith("&#190;", threeQuartRe)},
	{re: degreesRe, accept: always, replace: expandWith("&#176;", degreesRe)},
	{re: plusMinusRe, accept: always, replace: expandWith("&#177;", plusMinusRe)},
	{
		re: acronymRe,
		accept: func(s string, m []int, _ bool) bool {
			r, ok := runeBefore(s, m[0])
			return !ok || !isWordRune(r)
		},
		replace: func(d *Document, s string, m []int) string {
			g := groups(s, m)
			tag := "acronym"
			if d.html5() {
				tag = "abbr"
			}
			inner := g[1]
			if capsOnlyRe.MatchString(inner) {
				inner = `<span class="caps">` + inner + `</span>`
			}
			return d.shelf.shelve("<" + tag + ` title="` + escapeAttr(g[2]) + `">` + inner + "</" + tag + ">")
		},
	},
	{
		re: capsRe,
		accept: func(s string, m []int, first bool) bool {
			if m[2] == m[3] && m[0] != 0 {
				return false
			}
			return closeFollows(s[m[1]:])
		},
		replace: func(d *Document, s string, m []int) string {
			g := groups(s, m)
			return g[1] + d.shelf.shelve(`<span class="caps">`+g[2]+`</span>`) + g[3]
		},
	},
}

// glyphs applies typographic substitutions outside of tags.
func (d *Document) glyphs(text string) string {
	tags := glyphSplit.FindAllStringIndex(text, -1)
	if len(tags) == 0 {
		return d.glyphSegment(text, true)
	}

	var b strings.Builder
	last := 0
	for _, t := range tags {
		b.WriteString(d.glyphSegment(text[last:t[0]], last == 0))
		b.WriteString(text[t[0]:t[1]])
		last = t[1]
	}
	b.WriteString(d.glyphSegment(text[last:], false))
	return b.String()
}

// glyphSegment rewrites one run of text. first is true only for the run
// that starts the input.
func (d *Document) glyphSegment(seg string, first bool) string {
	if seg == "" {
		return seg
	}
	if !d.opts.Restricted {
		seg = escapeStrayText(seg)
	}
	for _, rule := range glyphRules {
		seg = replaceMatches(rule.re, seg, func(m []int) (string, bool) {
			if !rule.accept(seg, m, first) {
				return "", false
			}
			return rule.replace(d, seg, m), true
		})
	}
	return seg
}
