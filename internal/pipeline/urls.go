package pipeline

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// encodeURL returns an ASCII form of raw: non-ASCII host labels use
// punycode and every path segment is decoded then percent-encoded again.
// Query and fragment are kept as written. Anything url.Parse rejects is
// returned unchanged.
func encodeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Opaque != "" {
		return raw
	}

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}
	if u.Host != "" || strings.HasPrefix(raw[len(u.Scheme):], "://") || strings.HasPrefix(raw, "//") {
		b.WriteString("//")
	}
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	if u.Host != "" {
		host, port := u.Hostname(), u.Port()
		if ascii, err := idna.Lookup.ToASCII(host); err == nil {
			host = ascii
		}
		if port != "" {
			b.WriteString(net.JoinHostPort(host, port))
		} else if strings.Contains(host, ":") {
			b.WriteString("[" + host + "]")
		} else {
			b.WriteString(host)
		}
	}
	b.WriteString(encodePath(u.EscapedPath()))
	if u.ForceQuery || u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.EscapedFragment())
	}
	return b.String()
}

// encodePath re-encodes each segment so that only unreserved characters
// stay literal.
func encodePath(p string) string {
	if p == "" {
		return p
	}
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		if dec, err := url.PathUnescape(seg); err == nil {
			seg = dec
		}
		segments[i] = quoteSegment(seg)
	}
	return strings.Join(segments, "/")
}

func quoteSegment(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

// isRelativeURL reports a URL without scheme and host.
func isRelativeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	return u.Scheme == "" && u.Host == ""
}
