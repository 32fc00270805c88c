// Package urlparts splits raw URL strings into their components without ever
// rejecting the input. Malformed URLs simply come back with empty parts.
package urlparts

import (
	"net/netip"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Parts holds the generic-syntax components of a URL
type Parts struct {
	Scheme    string
	Authority string
	Path      string
	Query     string
	Fragment  string
}

// Split decomposes raw into scheme, authority, path, query and fragment.
// It never fails: anything that does not fit the grammar ends up in Path.
func Split(raw string) Parts {
	var p Parts

	rest := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\r' || r == '\n' {
			return -1
		}
		return r
	}, raw)

	if i := strings.IndexByte(rest, ':'); i > 0 && isSchemeLeader(rest[0]) && isScheme(rest[:i]) {
		p.Scheme = strings.ToLower(rest[:i])
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		p.Authority = rest[:end]
		rest = rest[end:]
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		p.Fragment = rest[i+1:]
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		p.Query = rest[i+1:]
		rest = rest[:i]
	}
	p.Path = rest

	return p
}

func isSchemeLeader(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isSchemeLeader(c), c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		default:
			return false
		}
	}
	return true
}

// SplitHostPort extracts the lower-cased host and optional numeric port from
// an authority. Credentials before '@' are dropped. A trailing ":port" is only
// split off when it is all digits; hasPort reports that it was, even when the
// digits overflow an int and port is nil.
func SplitHostPort(authority string) (host string, port *int, hasPort bool) {
	if authority == "" {
		return "", nil, false
	}

	if i := strings.IndexByte(authority, '@'); i >= 0 {
		authority = authority[i+1:]
	}

	if strings.HasPrefix(authority, "[") {
		if end := strings.IndexByte(authority, ']'); end >= 0 {
			host = strings.ToLower(authority[1:end])
			rest := authority[end+1:]
			if p, ok := strings.CutPrefix(rest, ":"); ok && isDigits(p) {
				return host, parsePort(p), true
			}
			return host, nil, false
		}
	}

	host = authority
	if i := strings.LastIndexByte(authority, ':'); i >= 0 {
		if p := authority[i+1:]; isDigits(p) {
			host = authority[:i]
			port = parsePort(p)
			hasPort = true
		}
	}

	return strings.ToLower(host), port, hasPort
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parsePort(s string) *int {
	if !isDigits(s) {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// IsIP reports whether host is a literal IPv4 or IPv6 address
func IsIP(host string) bool {
	if host == "" {
		return false
	}
	_, err := netip.ParseAddr(host)
	return err == nil
}

// TLD returns the last label of host, or "" for IPs and single-label hosts
func TLD(host string) string {
	if host == "" || IsIP(host) {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return ""
	}
	return strings.ToLower(labels[len(labels)-1])
}

// SubdomainCount returns the number of labels beyond the registrable pair
func SubdomainCount(host string) int {
	if host == "" || IsIP(host) {
		return 0
	}
	return max(0, len(strings.Split(host, "."))-2)
}

var homoglyphs = strings.NewReplacer(
	"0", "o",
	"1", "l",
	"3", "e",
	"5", "s",
	"7", "t",
	"@", "a",
)

// CanonicalHost lower-cases host and strips trailing dots
func CanonicalHost(host string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(host)), ".")
}

// NormalizeHost is CanonicalHost with common leetspeak digits folded back to
// letters. It is only meant for similarity comparison.
func NormalizeHost(host string) string {
	return homoglyphs.Replace(CanonicalHost(host))
}

// Unescape percent-decodes s. Invalid escapes are kept verbatim and invalid
// UTF-8 in the result is replaced with U+FFFD.
func Unescape(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		buf = append(buf, s[i])
	}

	if utf8.Valid(buf) {
		return string(buf)
	}
	return strings.ToValidUTF8(string(buf), "\uFFFD")
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// UnicodeHost renders a punycode host for display. It returns "" when the
// host has no ACE labels or cannot be decoded.
func UnicodeHost(host string) string {
	if !strings.Contains(host, "xn--") {
		return ""
	}
	u, err := idna.Display.ToUnicode(host)
	if err != nil || u == host {
		return ""
	}
	return u
}

// RegistrableDomain returns the eTLD+1 of host, or "" for IPs and bare suffixes
func RegistrableDomain(host string) string {
	host = CanonicalHost(host)
	if host == "" || IsIP(host) {
		return ""
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}
