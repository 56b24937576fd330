package pipeline

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

var (
	blockSignature     = regexp.MustCompile(`(?s)^(bq|bc|notextile|pre|h[1-6]|fn[0-9]+|p|###)(` + alignPattern + clsPattern + `)\.(\.?)(?::(\S+))? (.*)$`)
	blockSignatureLite = regexp.MustCompile(`(?s)^(bq|p)(` + alignPattern + clsPattern + `)\.(\.?)(?::(\S+))? (.*)$`)
	blockSeparator     = regexp.MustCompile(`\n{2,}`)

	noTextileTag = regexp.MustCompile(`(?s)<notextile>(.*?)</notextile>`)
	noTextileEq  = specialPattern("==", "==")
	codeTag      = regexp.MustCompile(`(?s)<code>(.*?)</code>`)
	codeAt       = specialPattern("@", "@")
	preTag       = regexp.MustCompile(`(?s)<pre>(.*?)</pre>`)
	htmlComment  = regexp.MustCompile(`(?s)<!--(.*?)-->`)

	rawBlockTags     = rawBlockPatterns("p", "blockquote", "div", "form", "table", "ul", "ol", "dl", "pre", "h1", "h2", "h3", "h4", "h5", "h6")
	rawBreaks        = regexp.MustCompile(`<(?:hr|br)[^>]*?/?>`)
	wholeNoTextile   = regexp.MustCompile(`(?s)^<notextile>\n?(.*?)\n?</notextile>$`)
	codeLanguageAttr = regexp.MustCompile(`(?:^|\s)(?:language|lang)-([\w+#.-]+)`)
)

// specialPattern matches start...end delimited runs that open at a line
// start, after whitespace or after an opening bracket.
func specialPattern(start, end string) *regexp.Regexp {
	return regexp.MustCompile(`(?ms)(^|\s|[\[({>|])` + regexp.QuoteMeta(start) + `(.*?)` + regexp.QuoteMeta(end) + `($|[\])}])?`)
}

func rawBlockPatterns(tags ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(tags))
	for i, t := range tags {
		out[i] = regexp.MustCompile(`(?s)<` + t + `(?:\s[^>]*)?>.*</` + t + `>`)
	}
	return out
}

// chunk is one blank-line delimited piece of the document together with
// the separator that preceded it.
type chunk struct {
	sep  string
	body string
}

func splitChunks(text string) []chunk {
	var out []chunk
	last, sep := 0, ""
	for _, m := range blockSeparator.FindAllStringIndex(text, -1) {
		out = append(out, chunk{sep: sep, body: text[last:m[0]]})
		sep, last = text[m[0]:m[1]], m[1]
	}
	return append(out, chunk{sep: sep, body: text[last:]})
}

// block is a signature-led block. Extended blocks collect the chunks that
// follow until the next signature.
type block struct {
	tag    string
	atts   string
	attrs  string
	ext    bool
	cite   string
	chunks []chunk
}

func (d *Document) newBlock(tag, atts string, ext bool, cite string) *block {
	return &block{
		tag:   tag,
		atts:  atts,
		attrs: parseAttributes(atts, ctxInline, d.opts.Restricted, true).String(),
		ext:   ext,
		cite:  cite,
	}
}

// blocks splits the document and renders every block.
func (d *Document) blocks(text string) string {
	sig := blockSignature
	if d.opts.Lite {
		sig = blockSignatureLite
	}

	var out strings.Builder
	wrote := false
	emit := func(sep, rendered string) {
		if rendered == "" {
			return
		}
		if wrote {
			if sep == "" {
				sep = "\n\n"
			}
			out.WriteString(sep)
		}
		out.WriteString(rendered)
		wrote = true
	}

	var ext *block
	var extSep string
	closeExt := func() {
		if ext != nil {
			emit(extSep, d.renderExtended(ext))
			ext = nil
		}
	}

	for _, c := range splitChunks(text) {
		if c.body == "" {
			continue
		}
		if m := sig.FindStringSubmatch(c.body); m != nil {
			closeExt()
			b := d.newBlock(m[1], m[2], m[3] == ".", m[4])
			if b.ext {
				b.chunks = append(b.chunks, chunk{body: m[5]})
				ext, extSep = b, c.sep
				continue
			}
			emit(c.sep, d.renderBlock(b, m[5], false))
			continue
		}
		if ext != nil {
			ext.chunks = append(ext.chunks, c)
			continue
		}
		if c.body[0] == ' ' || c.body[0] == '\t' {
			emit(c.sep, d.graf(c.body))
			continue
		}
		emit(c.sep, d.renderBlock(&block{tag: "p"}, c.body, true))
	}
	closeExt()
	return out.String()
}

// renderBlock renders one block. implicit marks a paragraph that had no
// signature.
func (d *Document) renderBlock(b *block, content string, implicit bool) string {
	switch b.tag {
	case "###":
		return ""
	case "notextile":
		return d.shelf.shelve(content)
	case "pre":
		return "<pre" + b.attrs + ">" + d.shelf.shelve(d.escapeCode(content)) + "</pre>"
	case "bc":
		return d.codeBlock(b, content)
	case "bq":
		return d.blockquote(b, []string{content})
	}

	if b.tag == "p" {
		if d.defineNote(content) {
			return ""
		}
		if !d.opts.Lite {
			if tok, ok := d.noteListToken(content); ok {
				return "\t" + tok
			}
		}
		if implicit && !d.opts.Lite {
			if m := wholeNoTextile.FindStringSubmatch(content); m != nil {
				return d.shelf.shelve(m[1])
			}
		}
	}

	tag, attrs := b.tag, b.attrs
	if strings.HasPrefix(tag, "fn") {
		var sup string
		attrs, sup = d.footnoteBlock(b)
		tag = "p"
		content = sup + " " + content
	}

	inner := d.graf(content)
	if implicit {
		if strings.TrimSpace(inner) == "" {
			return ""
		}
		if !hasRawText(inner) {
			return inner
		}
	}
	return "\t<" + tag + attrs + ">" + brLines(inner) + "</" + tag + ">"
}

// footnoteBlock returns the wrapper attributes and the shelved <sup>
// label of an fnN block.
func (d *Document) footnoteBlock(b *block) (string, string) {
	num := strings.TrimPrefix(b.tag, "fn")
	fid := d.footnoteID(num)

	attrs := parseAttributes(b.atts, ctxInline, d.opts.Restricted, true)
	class := "footnote"
	if c, ok := attrs.Get("class"); ok {
		class += " " + c
	}
	attrs.Put("class", class)

	supAttrs := ""
	if _, ok := attrs.Get("id"); ok {
		supAttrs = ` id="fn` + fid + `"`
	} else {
		attrs.Put("id", "fn"+fid)
	}

	label := num
	if strings.Contains(b.atts, "^") {
		label = `<a href="#fnrev` + fid + `">` + num + `</a>`
	}
	return attrs.String(), d.shelf.shelve("<sup" + supAttrs + ">" + label + "</sup>")
}

func (d *Document) blockquote(b *block, chunks []string) string {
	var sb strings.Builder
	sb.WriteString("\t<blockquote" + b.attrs)
	if b.cite != "" {
		sb.WriteString(` cite="` + d.refs.shelveURL(b.cite) + `"`)
	}
	sb.WriteString(">")
	for _, c := range chunks {
		sb.WriteString("\n\t\t<p" + b.attrs + ">" + brLines(d.graf(c)) + "</p>")
	}
	sb.WriteString("\n\t</blockquote>")
	return sb.String()
}

// codeBlock renders bc content, highlighted when a highlighter knows the
// language named by a language-xxx class.
func (d *Document) codeBlock(b *block, content string) string {
	code := ""
	if d.opts.Highlighter != nil {
		attrs := parseAttributes(b.atts, ctxInline, d.opts.Restricted, true)
		class, _ := attrs.Get("class")
		if m := codeLanguageAttr.FindStringSubmatch(class); m != nil {
			raw := content
			if d.opts.Restricted {
				raw = html.UnescapeString(content)
			}
			if out, ok := d.opts.Highlighter.Highlight(m[1], raw); ok {
				code = out
			}
		}
	}
	if code == "" {
		code = d.escapeCode(content)
	}
	return "<pre" + b.attrs + "><code" + b.attrs + ">" + d.shelf.shelve(code) + "</code></pre>"
}

// escapeCode escapes code unless the whole input was escaped already.
func (d *Document) escapeCode(s string) string {
	if d.opts.Restricted {
		return s
	}
	return escapeHTML(s, false)
}

// renderExtended renders a `tag..` block and everything it collected.
func (d *Document) renderExtended(b *block) string {
	switch b.tag {
	case "###":
		return ""
	case "bq":
		bodies := make([]string, len(b.chunks))
		for i, c := range b.chunks {
			bodies[i] = c.body
		}
		return d.blockquote(b, bodies)
	case "bc", "pre", "notextile":
		var sb strings.Builder
		for i, c := range b.chunks {
			if i > 0 {
				sb.WriteString(c.sep)
			}
			sb.WriteString(c.body)
		}
		return d.renderBlock(b, sb.String(), false)
	}

	var sb strings.Builder
	for i, c := range b.chunks {
		cb := b
		if i > 0 {
			sb.WriteString(c.sep)
			if strings.HasPrefix(b.tag, "fn") {
				cb = &block{tag: "p", attrs: ` class="footnote"`}
			}
		}
		sb.WriteString(d.renderBlock(cb, c.body, false))
	}
	return sb.String()
}

// graf runs the inline pipeline over the content of one block.
func (d *Document) graf(text string) string {
	if !d.opts.Lite {
		text = d.noTextile(text)
		text = d.code(text)
	}
	text = d.htmlComments(text)
	text = d.getRefs(text)
	text = d.links(text)
	if !d.opts.NoImages {
		text = d.images(text)
	}
	if !d.opts.Lite {
		text = d.tables(text)
		text = d.lists(text)
	}
	text = d.spans(text, 0)
	text = d.footnoteRefs(text)
	text = d.noteRefs(text)
	text = d.glyphs(text)
	return strings.TrimRight(text, "\n")
}

// noTextile shelves `<notextile>` and `==` protected runs verbatim.
func (d *Document) noTextile(text string) string {
	text = replaceGroups(noTextileTag, text, func(g []string) string {
		return d.shelf.shelve(g[1])
	})
	if !strings.Contains(text, "==") {
		return text
	}
	return replaceGroups(noTextileEq, text, func(g []string) string {
		return g[1] + d.shelf.shelve(g[2]) + g[3]
	})
}

// code escapes and shelves inline code and pre runs.
func (d *Document) code(text string) string {
	text = replaceGroups(codeTag, text, func(g []string) string {
		return "<code>" + d.shelf.shelve(d.escapeCode(g[1])) + "</code>"
	})
	if strings.Contains(text, "@") {
		text = replaceGroups(codeAt, text, func(g []string) string {
			return g[1] + "<code>" + d.shelf.shelve(d.escapeCode(g[2])) + "</code>" + g[3]
		})
	}
	return replaceGroups(preTag, text, func(g []string) string {
		return "<pre>" + d.shelf.shelve(d.escapeCode(g[1])) + "</pre>"
	})
}

// htmlComments shelves the text of HTML comments.
func (d *Document) htmlComments(text string) string {
	if !strings.Contains(text, "<!--") {
		return text
	}
	return replaceGroups(htmlComment, text, func(g []string) string {
		return "<!--" + d.shelf.shelve(g[1]) + "-->"
	})
}

// hasRawText reports whether text holds anything besides complete
// block-level elements, breaks and comments.
func hasRawText(text string) bool {
	for _, re := range rawBlockTags {
		text = re.ReplaceAllString(text, "")
	}
	text = rawBreaks.ReplaceAllString(text, "")
	text = htmlComment.ReplaceAllString(text, "")
	return strings.TrimSpace(text) != ""
}

// brLines turns single newlines into breaks. A newline stays as it is
// after an empty line or an existing break, and before whitespace or a
// list or table character.
func brLines(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			b.WriteByte(text[i])
			continue
		}
		before := text[:i]
		if i > 0 && text[i-1] != '\n' &&
			!strings.HasSuffix(before, "<br>") && !strings.HasSuffix(before, "<br />") && !strings.HasSuffix(before, "<br/>") {
			if next, ok := runeAt(text, i+1); !ok || (!unicode.IsSpace(next) && !inSet(next, "#*;:|")) {
				b.WriteString("<br />")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// tagBr applies brLines between the first <tag> and the last </tag>.
func (d *Document) tagBr(tag, text string) string {
	open := strings.Index(text, "<"+tag)
	end := strings.LastIndex(text, "</"+tag+">")
	if open < 0 || end < open {
		return text
	}
	return text[:open] + brLines(text[open:end]) + text[end:]
}
