package pipeline

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	footnoteRef     = regexp.MustCompile(`\[([0-9]+)(!?)\](\s?)`)
	noteRef         = regexp.MustCompile(`\[(` + clsPattern + `)#([^\]!]+)(!?)\]`)
	noteDefinition  = regexp.MustCompile(`(?s)^note#([^%<*!@#^(\[{\s.]+)([*!^]?)(` + clsPattern + `)\.?\s+(.*)$`)
	noteListPattern = regexp.MustCompile(`^notelist(` + clsPattern + `)(?::([\pL\pN_]|[` + noteSyms + `]))?([\^!]?)(\+?)\.?\s*$`)
)

// note is the reference and definition state of one label.
type note struct {
	label  string
	seq    int
	refIDs []string
	id     string
	def    *noteDef
}

type noteDef struct {
	attrs   string
	content string
	link    string
}

type noteListDirective struct {
	attrs     string
	startChar string
	links     string
	extras    string
}

// noteRegistry keeps notes in first-seen order.
type noteRegistry struct {
	byLabel map[string]*note
	order   []*note
	seq     int
	lists   []noteListDirective
	cache   map[string]string
}

func newNoteRegistry() *noteRegistry {
	return &noteRegistry{
		byLabel: make(map[string]*note),
		cache:   make(map[string]string),
	}
}

func (r *noteRegistry) get(label string) *note {
	n, ok := r.byLabel[label]
	if !ok {
		n = &note{label: label}
		r.byLabel[label] = n
		r.order = append(r.order, n)
	}
	return n
}

// footnoteRefs renders `[N]` references. The first reference to N gets
// the back-reference anchor.
func (d *Document) footnoteRefs(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	return replaceMatches(footnoteRef, text, func(m []int) (string, bool) {
		if r, ok := runeBefore(text, m[0]); !ok || unicode.IsSpace(r) {
			return "", false
		}
		g := groups(text, m)
		num, plain, space := g[1], g[2] == "!", g[3]

		id, seen := d.footnotes[num]
		if !seen {
			id = d.nextLinkID()
			d.footnotes[num] = id
		}
		var b strings.Builder
		b.WriteString(`<sup class="footnote"`)
		if !seen {
			b.WriteString(` id="fnrev` + id + `"`)
		}
		b.WriteString(">")
		if plain {
			b.WriteString(num)
		} else {
			b.WriteString(`<a href="#fn` + id + `">` + num + `</a>`)
		}
		b.WriteString("</sup>")
		b.WriteString(space)
		return b.String(), true
	})
}

// footnoteID returns the anchor id of footnote num, allocating it if no
// reference has been seen yet.
func (d *Document) footnoteID(num string) string {
	id, ok := d.footnotes[num]
	if !ok {
		id = d.nextLinkID()
		d.footnotes[num] = id
	}
	return id
}

// noteRefs renders `[#label]` references.
func (d *Document) noteRefs(text string) string {
	if !strings.Contains(text, "#") {
		return text
	}
	return replaceGroups(noteRef, text, func(g []string) string {
		atts, label, nolink := g[1], g[2], g[3] == "!"
		n := d.notes.get(label)
		if n.seq == 0 {
			d.notes.seq++
			n.seq = d.notes.seq
		}
		refID := d.nextLinkID()
		n.refIDs = append(n.refIDs, refID)
		if n.id == "" {
			n.id = d.nextLinkID()
		}

		out := `<span id="noteref` + refID + `">` + strconv.Itoa(n.seq) + `</span>`
		if !nolink {
			out = `<a href="#note` + n.id + `">` + out + `</a>`
		}
		attrs := parseAttributes(atts, ctxInline, d.opts.Restricted, true).String()
		return "<sup" + attrs + ">" + out + "</sup>"
	})
}

// defineNote records a `note#label. body` paragraph. Only the first
// definition of a label counts. It reports whether content was a
// definition.
func (d *Document) defineNote(content string) bool {
	m := noteDefinition.FindStringSubmatch(content)
	if m == nil {
		return false
	}
	label, link, atts, body := m[1], m[2], m[3], m[4]
	n := d.notes.get(label)
	if n.def != nil {
		return true
	}
	if n.id == "" {
		n.id = d.nextLinkID()
	}
	n.def = &noteDef{
		attrs:   parseAttributes(atts, ctxInline, d.opts.Restricted, true).String(),
		content: d.graf(body),
		link:    link,
	}
	return true
}

// noteListToken records a notelist directive and returns the token that
// stands in for it until all notes are known.
func (d *Document) noteListToken(content string) (string, bool) {
	m := noteListPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	dir := noteListDirective{attrs: m[1], startChar: m[2], links: m[3], extras: m[4]}
	if dir.startChar == "" {
		dir.startChar = "a"
	}
	d.notes.lists = append(d.notes.lists, dir)
	return d.uid + strconv.Itoa(len(d.notes.lists)) + ":notelist", true
}

// placeNoteLists expands notelist tokens.
func (d *Document) placeNoteLists(text string) string {
	if len(d.notes.lists) == 0 {
		return text
	}
	re := regexp.MustCompile(regexp.QuoteMeta(d.uid) + `([0-9]+):notelist`)
	return replaceTokens(re, text, func(n int) (string, bool) {
		if n < 1 || n > len(d.notes.lists) {
			return "", false
		}
		return d.noteList(d.notes.lists[n-1]), true
	})
}

func (d *Document) noteList(dir noteListDirective) string {
	key := dir.links + dir.extras + dir.startChar
	body, ok := d.notes.cache[key]
	if !ok {
		body = d.noteListItems(dir)
		d.notes.cache[key] = body
	}
	attrs := parseAttributes(dir.attrs, ctxInline, d.opts.Restricted, true).String()
	return "<ol" + attrs + ">\n" + body + "\n\t</ol>"
}

func (d *Document) noteListItems(dir noteListDirective) string {
	var referenced, unreferenced []*note
	for _, n := range d.notes.order {
		if n.seq > 0 {
			referenced = append(referenced, n)
		} else if n.def != nil {
			unreferenced = append(unreferenced, n)
		}
	}
	slices.SortStableFunc(referenced, func(a, b *note) int { return a.seq - b.seq })

	var items []string
	for _, n := range referenced {
		links := backLinks(n, dir.links, dir.startChar)
		if n.def == nil {
			items = append(items, "\t\t<li>"+links+" Undefined Note [#"+n.label+"].</li>")
			continue
		}
		items = append(items, "\t\t<li"+n.def.attrs+">"+links+`<span id="note`+n.id+`"> </span>`+n.def.content+"</li>")
	}
	if dir.extras == "+" {
		for _, n := range unreferenced {
			items = append(items, "\t\t<li"+n.def.attrs+">"+n.def.content+"</li>")
		}
	}
	return strings.Join(items, "\n")
}

// backLinks renders the links from a note back to its references. The
// definition's own style wins over the list's. Labels count up from
// start unless start is a symbol.
func backLinks(n *note, listStyle, start string) string {
	style := listStyle
	if n.def != nil && n.def.link != "" && n.def.link != "*" {
		style = n.def.link
	}
	if len(n.refIDs) == 0 {
		return ""
	}
	switch style {
	case "!":
		return ""
	case "^":
		return `<sup><a href="#noteref` + n.refIDs[0] + `">` + start + `</a></sup>`
	}

	c, _ := utf8.DecodeRuneInString(start)
	increment := !inSet(c, noteSyms)
	links := make([]string, 0, len(n.refIDs))
	for _, id := range n.refIDs {
		links = append(links, `<sup><a href="#noteref`+id+`">`+string(c)+`</a></sup>`)
		if increment {
			c++
		}
	}
	return strings.Join(links, " ")
}
