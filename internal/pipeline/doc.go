// Package pipeline turns Textile markup into HTML.
//
// A Document holds every piece of per-conversion state: the shelf of
// protected fragments, the tag and URL cache, notes, list counters and the
// link marker. Nothing is shared between documents, so concurrent
// conversions only need one Document each.
//
// Convert runs the block splitter, which hands each block's content to the
// inline passes in a fixed order: notextile and code protection, HTML
// comments, URL references, links, images, tables, lists, phrase spans,
// footnote and note references, then glyphs. Protected fragments are
// restored last, so no pass sees markup produced by an earlier one.
//
// PageRenderer and InjectCSS wrap a converted fragment into a standalone
// HTML page.
package pipeline
