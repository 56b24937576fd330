package pipeline

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Shorthand fragments shared by the block, table, list, image and span
// grammars. They are plain strings so that callers can compose them.
const (
	halignPattern = `(?:<>|<|>|=|[()]+)`
	valignPattern = `[-^~]`
	alignPattern  = `(?:` + halignPattern + `|` + valignPattern + `)*`

	classPattern = `(?:\([^)\n]+\))`
	langPattern  = `(?:\[[^\]\n]+\])`
	stylePattern = `(?:\{[^}\n]+\})`

	tableSpanPattern = `(?:\\[0-9]+|/[0-9]+)*`
)

// clsPattern matches any combination of class, lang and style shorthand,
// each at most once and in any order.
var clsPattern = buildClsPattern()

func buildClsPattern() string {
	c, l, s := classPattern, langPattern, stylePattern
	return `(?:` +
		c + `(?:` + l + `(?:` + s + `)?|` + s + `(?:` + l + `)?)?|` +
		l + `(?:` + c + `(?:` + s + `)?|` + s + `(?:` + c + `)?)?|` +
		s + `(?:` + c + `(?:` + l + `)?|` + l + `(?:` + c + `)?)?` +
		`)?`
}

// Punctuation sets used by look-around checks that RE2 cannot express.
const (
	glyphPunct = "-!\"#$%&()*+,/:;<=>?@'[\\].^_`{|}~"
	spanPunct  = `.,"'?!;:‹›«»„“”‚‘’`
	noteSyms   = "¤§µ¶†‡•∗∴◊♠♣♥♦"
)

// replaceMatches rewrites every match of re in s with the result of fn.
// When fn reports false the match is left alone and scanning resumes one
// rune after the match start, which lets callers express the look-behind
// and look-ahead conditions RE2 lacks.
func replaceMatches(re *regexp.Regexp, s string, fn func(m []int) (string, bool)) string {
	var b strings.Builder
	last, pos, replaced := 0, 0, false
	for pos <= len(s) {
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += pos
			}
		}

		repl, ok := fn(loc)
		if !ok {
			_, w := utf8.DecodeRuneInString(s[loc[0]:])
			if w == 0 {
				break
			}
			pos = loc[0] + w
			continue
		}

		b.WriteString(s[last:loc[0]])
		b.WriteString(repl)
		last, replaced = loc[1], true
		if loc[1] > loc[0] {
			pos = loc[1]
			continue
		}
		_, w := utf8.DecodeRuneInString(s[loc[1]:])
		if w == 0 {
			break
		}
		pos = loc[1] + w
	}
	if !replaced {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// replaceGroups is the common case of replaceMatches where the callback
// only needs the captured text. Unmatched groups are reported as "".
func replaceGroups(re *regexp.Regexp, s string, fn func(g []string) string) string {
	return replaceMatches(re, s, func(m []int) (string, bool) {
		return fn(groups(s, m)), true
	})
}

// groups converts a submatch index slice into strings.
func groups(s string, m []int) []string {
	out := make([]string, len(m)/2)
	for i := range out {
		if m[2*i] >= 0 {
			out[i] = s[m[2*i]:m[2*i+1]]
		}
	}
	return out
}

// runeBefore returns the rune ending at byte offset i, or utf8.RuneError
// and false at the start of s.
func runeBefore(s string, i int) (rune, bool) {
	if i <= 0 {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return r, true
}

// runeAt returns the rune starting at byte offset i, or false past the end.
func runeAt(s string, i int) (rune, bool) {
	if i >= len(s) {
		return utf8.RuneError, false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r, true
}

// isWordRune reports letters, marks, digits and connector punctuation.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) ||
		unicode.IsNumber(r) || unicode.Is(unicode.Pc, r)
}

func inSet(r rune, set string) bool {
	return strings.ContainsRune(set, r)
}
