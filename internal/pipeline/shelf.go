package pipeline

import (
	"regexp"
	"strconv"
)

// shelf holds finished HTML fragments behind opaque tokens so that later
// passes cannot rewrite them. Tokens embed the document uid, which is
// stripped from the input, so authored text can never forge one.
type shelf struct {
	uid   string
	items []string
	token *regexp.Regexp
}

func newShelf(uid string) *shelf {
	return &shelf{
		uid:   uid,
		token: regexp.MustCompile(regexp.QuoteMeta(uid) + `([0-9]+):shelve`),
	}
}

// shelve stores content and returns the token standing in for it.
func (s *shelf) shelve(content string) string {
	s.items = append(s.items, content)
	return s.uid + strconv.Itoa(len(s.items)) + ":shelve"
}

// retrieve substitutes tokens until a fixed point, since shelved content
// may itself contain tokens for earlier items.
func (s *shelf) retrieve(text string) string {
	for {
		next := replaceTokens(s.token, text, s.lookup)
		if next == text {
			return text
		}
		text = next
	}
}

func (s *shelf) lookup(n int) (string, bool) {
	if n < 1 || n > len(s.items) {
		return "", false
	}
	return s.items[n-1], true
}

// refCache stores span tags and link targets separately from the shelf.
// Tag tokens carry a space on their inner side so that the span and
// glyph grammars see a word boundary next to them.
type refCache struct {
	uid   string
	items []string

	open  *regexp.Regexp
	close *regexp.Regexp
	url   *regexp.Regexp
}

func newRefCache(uid string) *refCache {
	q := regexp.QuoteMeta(uid)
	return &refCache{
		uid:   uid,
		open:  regexp.MustCompile(q + `([0-9]+):ospan `),
		close: regexp.MustCompile(` ` + q + `([0-9]+):cspan`),
		url:   regexp.MustCompile(q + `([0-9]+):url`),
	}
}

func (r *refCache) store(content string) string {
	r.items = append(r.items, content)
	return strconv.Itoa(len(r.items))
}

// storeTags returns tokens for an opening and closing tag pair.
func (r *refCache) storeTags(open, close string) (string, string) {
	o := r.uid + r.store(open) + ":ospan "
	c := " " + r.uid + r.store(close) + ":cspan"
	return o, c
}

// shelveURL returns a token for a link target. Empty targets stay empty.
func (r *refCache) shelveURL(u string) string {
	if u == "" {
		return ""
	}
	return r.uid + r.store(u) + ":url"
}

func (r *refCache) lookup(n int) (string, bool) {
	if n < 1 || n > len(r.items) {
		return "", false
	}
	return r.items[n-1], true
}

func (r *refCache) retrieveTags(text string) string {
	text = replaceTokens(r.open, text, r.lookup)
	return replaceTokens(r.close, text, r.lookup)
}

// retrieveURLs restores link targets, passing each through resolve.
func (r *refCache) retrieveURLs(text string, resolve func(string) string) string {
	return replaceTokens(r.url, text, func(n int) (string, bool) {
		u, ok := r.lookup(n)
		if !ok {
			return "", false
		}
		return resolve(u), true
	})
}

// replaceTokens swaps each numbered token for the item lookup returns.
// Unknown numbers are left as they are.
func replaceTokens(re *regexp.Regexp, text string, lookup func(int) (string, bool)) string {
	return replaceMatches(re, text, func(m []int) (string, bool) {
		n, err := strconv.Atoi(text[m[2]:m[3]])
		if err != nil {
			return "", false
		}
		return lookup(n)
	})
}
