package indicators

import (
	"sort"
	"strings"
	"unicode/utf8"

	ac "github.com/anknown/ahocorasick"
	"github.com/ppiankov/phishlens/internal/corpus"
	"github.com/ppiankov/phishlens/internal/lookalike"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/urlparts"
)

const (
	// Hosts with at least this many dots are flagged
	maxHostDots = 4
)

// Extractor derives indicator records from URLs.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	corpus   *corpus.Corpus
	matcher  *lookalike.Matcher
	keywords *ac.Machine // nil when the corpus has no keywords
}

// NewExtractor creates an extractor over the given corpus
func NewExtractor(c *corpus.Corpus) *Extractor {
	e := &Extractor{
		corpus:  c,
		matcher: lookalike.NewMatcher(c.LegitDomains()),
	}

	words := c.Keywords()
	if len(words) > 0 {
		patterns := make([][]rune, 0, len(words))
		for _, w := range words {
			patterns = append(patterns, []rune(w))
		}
		m := new(ac.Machine)
		if err := m.Build(patterns); err == nil {
			e.keywords = m
		}
	}

	return e
}

// Extract runs every check against raw and returns the indicator record.
// Malformed input is never rejected; it yields ValidURL=false.
func (e *Extractor) Extract(raw string) model.Indicators {
	raw = strings.TrimSpace(raw)
	parts := urlparts.Split(raw)
	host, port, hasPort := urlparts.SplitHostPort(parts.Authority)
	isIP := urlparts.IsIP(host)
	tld := urlparts.TLD(host)

	decodedPath := urlparts.Unescape(parts.Path)
	decodedQuery := urlparts.Unescape(parts.Query)

	ind := model.Indicators{
		URL:       raw,
		ValidURL:  parts.Scheme != "" && parts.Authority != "",
		Scheme:    parts.Scheme,
		Authority: parts.Authority,
		Host:      host,
		Port:      port,

		TLD:           tld,
		SuspiciousTLD: e.corpus.IsSuspiciousTLD(tld),
		HasPunycode:   strings.Contains(host, "xn--"),

		UsesIPHost:     isIP,
		HasUnusualPort: hasPort && (port == nil || (*port != 80 && *port != 443)),

		SubdomainCount: urlparts.SubdomainCount(host),
		TooManyDots:    strings.Count(host, ".") >= maxHostDots,

		URLLength:            utf8.RuneCountInString(raw),
		HasEncodedChars:      decodedPath != parts.Path || decodedQuery != parts.Query,
		ContainsAtSymbol:     strings.Contains(raw, "@"),
		HasDoubleSlashInPath: hasDoubleSlash(parts.Path),

		SuspiciousKeywords: e.findKeywords(decodedPath + " " + decodedQuery),

		IsShortener:      e.corpus.IsShortener(host),
		TyposquatMatches: e.matcher.Match(host),

		HostUnicode:       urlparts.UnicodeHost(host),
		RegistrableDomain: urlparts.RegistrableDomain(host),
	}

	return ind
}

// hasDoubleSlash looks for "//" after the leading character of the path
func hasDoubleSlash(path string) bool {
	if path == "" {
		return false
	}
	return strings.Contains(path[1:], "//")
}

// findKeywords returns the sorted set of corpus keywords occurring in text
func (e *Extractor) findKeywords(text string) []string {
	hits := []string{}
	if e.keywords == nil {
		return hits
	}

	terms := e.keywords.MultiPatternSearch([]rune(strings.ToLower(text)), false)
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		w := string(t.Word)
		if !seen[w] {
			seen[w] = true
			hits = append(hits, w)
		}
	}

	sort.Strings(hits)
	return hits
}
