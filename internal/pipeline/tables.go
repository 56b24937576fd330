package pipeline

import (
	"regexp"
	"strings"
)

var (
	tablePattern  = regexp.MustCompile(`(?sm)^(?:table(_?` + tableSpanPattern + alignPattern + clsPattern + `)\.(.*?)\n)?^(` +
		alignPattern + clsPattern + `\.? ?\|.*\|)[ \t\n]*\n\n`)
	tableCaption  = regexp.MustCompile(`(?s)^\|=(` + tableSpanPattern + alignPattern + clsPattern + `)\. ([^\n]*)(.*)$`)
	tableGroupRow = regexp.MustCompile(`(?s)^\|([~^-])(` + alignPattern + clsPattern + `)\.\s*\n(.*)$`)
	tableRowAtts  = regexp.MustCompile(`(?s)^(` + alignPattern + clsPattern + `\. )(.*)$`)
	tableCellAtt  = regexp.MustCompile(`(?s)^(_?` + tableSpanPattern + alignPattern + clsPattern + `\. )(.*)$`)
)

var tableGroupTags = map[string]string{"^": "thead", "~": "tfoot", "-": "tbody"}

// tables renders the first table in text. Text around the table is kept.
func (d *Document) tables(text string) string {
	padded := text + "\n\n"
	loc := tablePattern.FindStringSubmatchIndex(padded)
	if loc == nil {
		return text
	}
	g := groups(padded, loc)
	table := d.renderTable(g[1], strings.TrimSpace(g[2]), g[3])

	rest := ""
	if loc[1] < len(text) {
		rest = text[loc[1]:]
	}
	return text[:loc[0]] + table + rest
}

type tableRow struct {
	attrs string
	cells []string
}

type tableGroup struct {
	tag   string
	attrs string
	rows  []tableRow
}

func (d *Document) renderTable(tatts, summary, rows string) string {
	attrs := parseAttributes(tatts, ctxTable, d.opts.Restricted, true)
	if summary != "" {
		attrs = append(attrs, Attr{Name: "summary", Value: summary})
	}

	if strings.HasSuffix(rows, "|") {
		rows += "\n"
	}

	var caption string
	var sections []*tableGroup
	current := &tableGroup{}
	for i, row := range strings.Split(rows, "|\n") {
		row = strings.TrimLeft(row, " \t\n")
		if row == "" {
			continue
		}
		if i == 0 {
			if m := tableCaption.FindStringSubmatch(row); m != nil {
				capAttrs := parseAttributes(m[1], ctxInline, d.opts.Restricted, true).String()
				caption = "\n\t<caption" + capAttrs + ">" + strings.TrimSpace(m[2]) + "</caption>"
				row = strings.TrimLeft(m[3], " \t\n")
				if row == "" {
					continue
				}
			}
		}
		if m := tableGroupRow.FindStringSubmatch(row); m != nil {
			if len(current.rows) > 0 || current.tag != "" {
				sections = append(sections, current)
			}
			current = &tableGroup{
				tag:   tableGroupTags[m[1]],
				attrs: parseAttributes(m[2], ctxInline, d.opts.Restricted, true).String(),
			}
			row = strings.TrimLeft(m[3], " \t\n")
			if row == "" {
				continue
			}
		}
		current.rows = append(current.rows, d.tableRow(row))
	}
	sections = append(sections, current)

	var b strings.Builder
	b.WriteString("\t<table" + attrs.String() + ">")
	b.WriteString(caption)
	for _, grp := range sections {
		if grp.tag != "" {
			b.WriteString("\n\t<" + grp.tag + grp.attrs + ">")
		}
		for _, r := range grp.rows {
			b.WriteString("\n\t\t<tr" + r.attrs + ">")
			for _, c := range r.cells {
				b.WriteString(c)
			}
			b.WriteString("\n\t\t</tr>")
		}
		if grp.tag != "" {
			b.WriteString("\n\t</" + grp.tag + ">")
		}
	}
	b.WriteString("\n\t</table>\n\n")
	return b.String()
}

func (d *Document) tableRow(row string) tableRow {
	var r tableRow
	if m := tableRowAtts.FindStringSubmatch(row); m != nil {
		r.attrs = parseAttributes(m[1], ctxRow, d.opts.Restricted, true).String()
		row = m[2]
	}
	cells := strings.Split(row, "|")
	for _, cell := range cells[1:] {
		tag := "td"
		if strings.HasPrefix(cell, "_") {
			tag = "th"
		}
		var cattrs string
		if m := tableCellAtt.FindStringSubmatch(cell); m != nil {
			cattrs = parseAttributes(m[1], ctxCell, d.opts.Restricted, true).String()
			cell = m[2]
		}
		if !d.opts.Lite {
			cell = d.lists(cell)
		}
		cell = brLines(cell)
		r.cells = append(r.cells, "\n\t\t\t<"+tag+cattrs+">"+cell+"</"+tag+">")
	}
	return r
}
