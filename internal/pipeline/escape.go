package pipeline

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/util"
)

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

	// Matches an ampersand that already starts a character reference.
	entityPattern = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)
)

// escapeHTML escapes &, < and >. With quotes set, double quotes are
// escaped as well.
func escapeHTML(s string, quotes bool) string {
	if quotes {
		return string(util.EscapeHTML([]byte(s)))
	}
	return textEscaper.Replace(s)
}

// escapeAttr prepares a value for a double-quoted attribute. Existing
// character references are left intact so that text escaped earlier in
// restricted mode is not escaped twice.
func escapeAttr(s string) string {
	return escapeKeepingEntities(s, true)
}

// escapeStrayText escapes markup characters in a text run while keeping
// character references the author wrote.
func escapeStrayText(s string) string {
	return escapeKeepingEntities(s, false)
}

func escapeKeepingEntities(s string, quotes bool) string {
	if !strings.ContainsAny(s, `&<>"`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '&':
			if entityPattern.MatchString(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case c == '<':
			b.WriteString("&lt;")
		case c == '>':
			b.WriteString("&gt;")
		case c == '"' && quotes:
			b.WriteString("&quot;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
