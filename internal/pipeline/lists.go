package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	listStart    = regexp.MustCompile(`(?m)^(?:[*;:]+|[*;:#]*#(?:_|[0-9]+)?)` + clsPattern + `[ .]`)
	listItem     = regexp.MustCompile(`(?s)^([#*;:]+)(_|[0-9]+)?(` + clsPattern + `)[ .](.*)$`)
	listLineNext = regexp.MustCompile(`\n[#*;:]`)
)

// nestState is the ledger state of one marker depth.
type nestState int

const (
	nestOpen nestState = iota
	nestDefinition
)

type ledgerEntry struct {
	key   string
	depth int
	state nestState
}

// listLedger tracks the open list levels of one contiguous list run,
// in the order they were opened.
type listLedger struct {
	entries []ledgerEntry
}

func (l *listLedger) has(key string) bool {
	for _, e := range l.entries {
		if e.key == key {
			return true
		}
	}
	return false
}

func (l *listLedger) open(key string, depth int, state nestState) {
	l.entries = append(l.entries, ledgerEntry{key: key, depth: depth, state: state})
}

// closeDeeper pops, deepest first, every level deeper than depth.
func (l *listLedger) closeDeeper(depth int) []ledgerEntry {
	var closed []ledgerEntry
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].depth > depth {
			closed = append(closed, l.entries[i])
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
		}
	}
	return closed
}

// parentDepth returns the depth of the level enclosing one at depth,
// looking at levels closed alongside it and then at the open ones.
func (l *listLedger) parentDepth(closing []ledgerEntry, depth int) int {
	p := 0
	for _, set := range [][]ledgerEntry{closing, l.entries} {
		for _, e := range set {
			if e.depth < depth && e.depth > p {
				p = e.depth
			}
		}
	}
	return p
}

// ledgerKey identifies a list level. Definition terms and definitions at
// the same depth share one <dl>.
func ledgerKey(marker string) string {
	return strings.ReplaceAll(marker, ";", ":")
}

func listType(marker string) string {
	switch marker[len(marker)-1] {
	case '#':
		return "o"
	case ';', ':':
		return "d"
	}
	return "u"
}

func itemTag(marker string) string {
	switch marker[len(marker)-1] {
	case ';':
		return "dt"
	case ':':
		return "dd"
	}
	return "li"
}

// lists renders the list run starting at the first list line of text.
func (d *Document) lists(text string) string {
	loc := listStart.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + d.renderList(text[loc[0]:])
}

// splitListLines splits on newlines that are followed by a marker.
func splitListLines(text string) []string {
	var lines []string
	last := 0
	for _, m := range listLineNext.FindAllStringIndex(text, -1) {
		lines = append(lines, text[last:m[0]])
		last = m[0] + 1
	}
	return append(lines, text[last:])
}

func (d *Document) renderList(text string) string {
	lines := splitListLines(text)
	ledger := &listLedger{}
	prev := ""
	item := "li"
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		m := listItem.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}
		marker, start, atts := m[1], m[2], m[3]
		content := strings.TrimSpace(m[4])

		next := ""
		if i+1 < len(lines) {
			if nm := listItem.FindStringSubmatch(lines[i+1]); nm != nil {
				next = nm[1]
			}
		}

		kind := listType(marker)
		item = itemTag(marker)
		show := content != ""
		key := ledgerKey(marker)

		var startAttr string
		if kind == "o" {
			if len(marker) > len(prev) {
				switch start {
				case "":
					d.olStarts[marker] = 1
				case "_":
					if _, ok := d.olStarts[marker]; !ok {
						d.olStarts[marker] = 1
					}
				default:
					d.olStarts[marker], _ = strconv.Atoi(start)
				}
				if start != "" {
					startAttr = ` start="` + strconv.Itoa(d.olStarts[marker]) + `"`
				}
			}
			if show {
				d.olStarts[marker]++
			}
		}

		if !ledger.has(key) && strings.HasSuffix(marker, ":") &&
			strings.HasSuffix(prev, ";") && len(marker) > len(prev) {
			ledger.open(key, len(marker), nestDefinition)
		}

		attrs := parseAttributes(atts, ctxInline, d.opts.Restricted, true).String()
		tabs := strings.Repeat("\t", len(marker))
		var b strings.Builder
		b.WriteString(tabs)
		if !ledger.has(key) {
			ledger.open(key, len(marker), nestOpen)
			b.WriteString("<" + kind + "l" + attrs + startAttr + ">")
			if show {
				b.WriteString("\n" + tabs + "\t<" + item + ">" + content)
			}
		} else if show {
			b.WriteString("\t<" + item + attrs + ">" + content)
		}
		if len(next) <= len(marker) && show {
			b.WriteString("</" + item + ">")
		}
		closed := ledger.closeDeeper(len(next))
		for n, e := range closed {
			if e.state == nestDefinition {
				continue
			}
			b.WriteString("\n" + strings.Repeat("\t", e.depth) + "</" + listType(e.key) + "l>")
			// The item holding this list closes unless the next line
			// nests inside it.
			if p := ledger.parentDepth(closed[n+1:], e.depth); p > 0 && len(next) <= p {
				b.WriteString("</" + item + ">")
			}
		}
		prev = marker
		out = append(out, b.String())
	}
	return d.tagBr(item, strings.Join(out, "\n"))
}
