package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// Attr is one rendered HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute list. Order is part of the output
// contract, so it is a slice rather than a map.
type Attributes []Attr

// Get returns the value of name.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// attrRank is the output position of shorthand-derived attributes.
var attrRank = map[string]int{
	"colspan": 0, "style": 1, "class": 2, "id": 3,
	"lang": 4, "rowspan": 5, "span": 6, "width": 7,
}

// Put sets name, inserting a new attribute at its canonical position.
func (a *Attributes) Put(name, value string) {
	for i := range *a {
		if (*a)[i].Name == name {
			(*a)[i].Value = value
			return
		}
	}
	rank, ok := attrRank[name]
	if ok {
		for i, attr := range *a {
			if r, known := attrRank[attr.Name]; known && r > rank {
				*a = append((*a)[:i], append(Attributes{{Name: name, Value: value}}, (*a)[i:]...)...)
				return
			}
		}
	}
	*a = append(*a, Attr{Name: name, Value: value})
}

// String renders the list as ` name="value"` pairs.
func (a Attributes) String() string {
	var b strings.Builder
	for _, attr := range a {
		b.WriteByte(' ')
		b.WriteString(attr.Name)
		b.WriteString(`="`)
		b.WriteString(escapeAttr(attr.Value))
		b.WriteByte('"')
	}
	return b.String()
}

// attrContext selects which shorthand productions apply.
type attrContext int

const (
	ctxInline attrContext = iota
	ctxTable
	ctxRow
	ctxCell
	ctxCol
)

var (
	colspanPattern   = regexp.MustCompile(`\\([0-9]+)`)
	rowspanPattern   = regexp.MustCompile(`/([0-9]+)`)
	valignShorthand  = regexp.MustCompile(`^[-^~]`)
	styleShorthand   = regexp.MustCompile(`\{([^}]*)\}`)
	langShorthand    = regexp.MustCompile(`\[([^\]]+)\]`)
	classShorthand   = regexp.MustCompile(`\(([^()]+)\)`)
	padLeftPattern   = regexp.MustCompile(`\(+`)
	padRightPattern  = regexp.MustCompile(`\)+`)
	halignShorthand  = regexp.MustCompile(`<>|<|>|=`)
	colPattern       = regexp.MustCompile(`^(?:\\([0-9]+))?\s*([0-9]+)?`)
	classIDAllowed   = regexp.MustCompile(`^[-a-zA-Z0-9_./:# ]+$`)
	classOnlyAllowed = regexp.MustCompile(`^[-a-zA-Z0-9_./\[\] ]*$`)
)

var (
	valignNames = map[string]string{"^": "top", "-": "middle", "~": "bottom"}
	halignNames = map[string]string{"<": "left", "=": "center", ">": "right", "<>": "justify"}
)

// parseAttributes turns a shorthand run such as `(cls#id){color:red}[fr]<`
// into attributes. Restricted mode keeps only the language. The id is
// omitted when includeID is false.
func parseAttributes(shorthand string, ctx attrContext, restricted, includeID bool) Attributes {
	if shorthand == "" {
		return nil
	}
	matched := shorthand

	var colspan, rowspan, span, width, lang, class, id string
	var style []string

	if ctx == ctxCell {
		if m := colspanPattern.FindStringSubmatch(matched); m != nil {
			colspan = m[1]
			matched = strings.Replace(matched, m[0], "", 1)
		}
		if m := rowspanPattern.FindStringSubmatch(matched); m != nil {
			rowspan = m[1]
			matched = strings.Replace(matched, m[0], "", 1)
		}
	}

	if ctx == ctxCell || ctx == ctxRow {
		if m := valignShorthand.FindString(strings.TrimPrefix(matched, "_")); m != "" {
			style = append(style, "vertical-align:"+valignNames[m])
		}
	}

	if !restricted {
		if m := styleShorthand.FindStringSubmatch(matched); m != nil {
			for _, decl := range strings.Split(m[1], ";") {
				if decl = strings.TrimSpace(decl); decl != "" {
					style = append(style, decl)
				}
			}
			matched = strings.Replace(matched, m[0], "", 1)
		}
	}

	if m := langShorthand.FindStringSubmatch(matched); m != nil {
		lang = m[1]
		matched = strings.Replace(matched, m[0], "", 1)
	}
	if restricted {
		if lang == "" {
			return nil
		}
		return Attributes{{Name: "lang", Value: lang}}
	}

	if m := classShorthand.FindStringSubmatch(matched); m != nil {
		class, id = splitClassID(m[1])
		matched = strings.Replace(matched, m[0], "", 1)
	}

	if m := padLeftPattern.FindString(matched); m != "" {
		style = append(style, "padding-left:"+strconv.Itoa(len(m))+"em")
		matched = strings.Replace(matched, m, "", 1)
	}
	if m := padRightPattern.FindString(matched); m != "" {
		style = append(style, "padding-right:"+strconv.Itoa(len(m))+"em")
		matched = strings.Replace(matched, m, "", 1)
	}
	if m := halignShorthand.FindString(matched); m != "" {
		style = append(style, "text-align:"+halignNames[m])
	}

	if ctx == ctxCol {
		if m := colPattern.FindStringSubmatch(matched); m != nil {
			span, width = m[1], m[2]
		}
	}

	var out Attributes
	add := func(name, value string) {
		if value != "" {
			out = append(out, Attr{Name: name, Value: value})
		}
	}
	add("colspan", colspan)
	if len(style) > 0 {
		add("style", strings.Join(style, ";")+";")
	}
	add("class", class)
	if includeID {
		add("id", id)
	}
	add("lang", lang)
	add("rowspan", rowspan)
	add("span", span)
	add("width", width)
	return out
}

// splitClassID separates `cls#id`. Values with characters outside the
// allow-lists are dropped.
func splitClassID(token string) (class, id string) {
	if !classIDAllowed.MatchString(token) {
		return "", ""
	}
	class = token
	if i := strings.LastIndexByte(token, '#'); i >= 0 {
		class, id = token[:i], token[i+1:]
	}
	if !classOnlyAllowed.MatchString(class) {
		class = ""
	}
	return strings.TrimSpace(class), strings.TrimSpace(id)
}
