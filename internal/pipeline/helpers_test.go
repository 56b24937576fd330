package pipeline

import "testing"

// testUID is lowercase hex like a real uid so that no glyph rule can
// match inside a token.
const testUID = "f00ba4"

// newTestDocument returns a Document with a fixed uid and anchor prefix.
func newTestDocument(t *testing.T, mutate func(*Options)) *Document {
	t.Helper()
	opts := DefaultOptions()
	opts.LinkPrefix = "t-"
	if mutate != nil {
		mutate(&opts)
	}
	return newDocumentWithUID(opts, testUID)
}

// restore expands every placeholder the way Convert does at the end.
func restore(d *Document, text string) string {
	return d.retrieve(text)
}

type fakeSizer struct {
	w, h  int
	ok    bool
	calls int
}

func (f *fakeSizer) ImageSize(string) (int, int, bool) {
	f.calls++
	return f.w, f.h, f.ok
}

type fakeHighlighter struct {
	lang string
}

func (f *fakeHighlighter) Highlight(lang, code string) (string, bool) {
	if lang != f.lang {
		return "", false
	}
	return "<span>" + code + "</span>", true
}
