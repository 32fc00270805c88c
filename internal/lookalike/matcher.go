package lookalike

import (
	"math"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/urlparts"
)

const (
	// MinSimilarity is the lowest ratio reported as a lookalike
	MinSimilarity = 0.90

	// MaxMatches caps the number of findings per host
	MaxMatches = 3
)

type target struct {
	raw        string
	normalized string
}

// Matcher compares hosts against a list of reference domains
type Matcher struct {
	targets []target
}

// NewMatcher creates a matcher over the given reference domains
func NewMatcher(domains []string) *Matcher {
	m := &Matcher{targets: make([]target, 0, len(domains))}
	for _, d := range domains {
		raw := urlparts.CanonicalHost(d)
		if raw == "" {
			continue
		}
		m.targets = append(m.targets, target{
			raw:        raw,
			normalized: urlparts.NormalizeHost(raw),
		})
	}
	return m
}

// Match returns up to MaxMatches reference domains the host resembles, most
// similar first. Exact matches and IP hosts never match.
func (m *Matcher) Match(host string) []model.LookalikeMatch {
	host = urlparts.CanonicalHost(host)
	if host == "" || urlparts.IsIP(host) || len(m.targets) == 0 {
		return []model.LookalikeMatch{}
	}
	hostNorm := urlparts.NormalizeHost(host)

	matches := []model.LookalikeMatch{}
	for _, t := range m.targets {
		if host == t.raw {
			continue
		}

		sim := math.Max(Similarity(host, t.raw), Similarity(hostNorm, t.normalized))
		if sim < MinSimilarity {
			continue
		}

		matches = append(matches, model.LookalikeMatch{
			Target:          t.raw,
			Similarity:      round3(sim),
			NormalizedMatch: hostNorm == t.normalized,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}
	return matches
}

// Similarity returns the difflib sequence-matching ratio of a and b, in [0,1].
// Identical strings score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	m := difflib.NewMatcher(chars(a), chars(b))
	return m.Ratio()
}

func chars(s string) []string {
	return strings.Split(s, "")
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
