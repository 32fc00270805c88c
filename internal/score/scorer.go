package score

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/phishlens/internal/model"
)

// Signal weights. Each triggered rule adds its weight once.
const (
	weightShortener        = 20
	weightIPHost           = 25
	weightUnusualPort      = 10
	weightPunycodeTLD      = 15
	weightSuspiciousTLD    = 10
	weightPunycodeHost     = 6
	weightEncodedChars     = 8
	weightLongURL          = 8
	weightManySubdomains   = 10
	weightTooManyDots      = 8
	weightAtSymbol         = 15
	weightDoubleSlashPath  = 8
	weightPerKeyword       = 3
	maxKeywordWeight       = 12
	weightNormalizedLookup = 45
	weightThreatIntelFail  = 5
)

// Thresholds
const (
	longURLLength       = 90
	manySubdomains      = 3
	threatIntelFloor    = 85
	dangerousThreshold  = 70
	suspiciousThreshold = 35
	invalidURLScore     = 100
	minScore, maxScore  = 0, 100
)

const (
	invalidURLReason    = "Invalid or malformed URL"
	noIndicatorsReason  = "No obvious phishing indicators detected"
	unknownThreatType   = "UNKNOWN"
	punycodeLabelPrefix = "xn--"
)

// typosquatTiers maps the best lookalike similarity to a weight, highest first
var typosquatTiers = []struct {
	min    float64
	weight int
}{
	{0.99, 35},
	{0.93, 25},
	{0.90, 18},
}

const typosquatFallbackWeight = 12

// Scorer turns indicator records into verdicts
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// tally accumulates score and reasons in rule order
type tally struct {
	score   int
	reasons []string
}

func (t *tally) add(weight int, reason string) {
	t.score += weight
	t.reasons = append(t.reasons, reason)
}

// Score evaluates every rule against the indicators and threat-intel result.
// The reason order follows rule evaluation order, so output is reproducible.
func (s *Scorer) Score(ind model.Indicators, ti model.ThreatIntel) model.Verdict {
	evidence := model.Evidence{Indicators: ind, ThreatIntel: ti}

	if !ind.ValidURL {
		return model.Verdict{
			URL:        ind.URL,
			Score:      invalidURLScore,
			Label:      model.LabelDangerous,
			Reasons:    []string{invalidURLReason},
			Indicators: evidence,
		}
	}

	t := &tally{}

	s.scoreHost(t, ind)
	s.scoreStructure(t, ind)
	s.scoreKeywords(t, ind)
	s.scoreLookalike(t, ind)
	s.scoreThreatIntel(t, ti)

	score := clamp(t.score)
	reasons := t.reasons
	if len(reasons) == 0 {
		reasons = []string{noIndicatorsReason}
	}

	return model.Verdict{
		URL:        ind.URL,
		Score:      score,
		Label:      LabelFor(score),
		Reasons:    reasons,
		Indicators: evidence,
	}
}

// scoreHost covers shortener, IP host, port, TLD and punycode rules
func (s *Scorer) scoreHost(t *tally, ind model.Indicators) {
	if ind.IsShortener {
		t.add(weightShortener, "URL shortener detected (hides final destination)")
	}

	if ind.UsesIPHost {
		t.add(weightIPHost, "Host is an IP address (common phishing technique)")
	}

	if ind.HasUnusualPort {
		t.add(weightUnusualPort, "Unusual port used: "+formatPort(ind))
	}

	tld := strings.ToLower(ind.TLD)
	if tld != "" {
		if strings.HasPrefix(tld, punycodeLabelPrefix) {
			t.add(weightPunycodeTLD, "Internationalized (punycode) TLD detected, homograph risk")
		} else if ind.SuspiciousTLD {
			t.add(weightSuspiciousTLD, "Suspicious or abused TLD detected: ."+tld)
		}
	}

	if ind.HasPunycode {
		t.add(weightPunycodeHost, "Punycode detected in hostname (possible homograph attack)")
	}
}

// scoreStructure covers encoding, length, subdomain, dot, '@' and path rules
func (s *Scorer) scoreStructure(t *tally, ind model.Indicators) {
	if ind.HasEncodedChars {
		t.add(weightEncodedChars, "Encoded characters found (possible URL obfuscation)")
	}

	if ind.URLLength >= longURLLength {
		t.add(weightLongURL, "Very long URL (possible obfuscation)")
	}

	if ind.SubdomainCount >= manySubdomains {
		t.add(weightManySubdomains, "Multiple subdomains detected (possible brand impersonation)")
	}

	if ind.TooManyDots {
		t.add(weightTooManyDots, "Excessive dots in hostname (suspicious structure)")
	}

	if ind.ContainsAtSymbol {
		t.add(weightAtSymbol, "URL contains '@' symbol (can mislead users)")
	}

	if ind.HasDoubleSlashInPath {
		t.add(weightDoubleSlashPath, "Double '//' found in URL path (possible deception)")
	}
}

func (s *Scorer) scoreKeywords(t *tally, ind model.Indicators) {
	if len(ind.SuspiciousKeywords) == 0 {
		return
	}
	weight := min(maxKeywordWeight, weightPerKeyword*len(ind.SuspiciousKeywords))
	t.add(weight, "Suspicious keywords found in path/query: "+strings.Join(ind.SuspiciousKeywords, ", "))
}

// scoreLookalike scores only the strongest lookalike finding
func (s *Scorer) scoreLookalike(t *tally, ind model.Indicators) {
	best, ok := ind.BestMatch()
	if !ok {
		return
	}

	if best.NormalizedMatch {
		t.add(weightNormalizedLookup, fmt.Sprintf(
			"Lookalike domain via homoglyph/leet substitution: resembles %s (similarity %s)",
			best.Target, formatSimilarity(best.Similarity)))
		return
	}

	t.add(TyposquatWeight(best.Similarity), fmt.Sprintf(
		"Possible typosquatting: looks like %s (similarity %s)",
		best.Target, formatSimilarity(best.Similarity)))
}

// TyposquatWeight returns the weight for a non-normalized lookalike of the given similarity
func TyposquatWeight(similarity float64) int {
	for _, tier := range typosquatTiers {
		if similarity >= tier.min {
			return tier.weight
		}
	}
	return typosquatFallbackWeight
}

// scoreThreatIntel applies the failure penalty and the confirmed-match floor
func (s *Scorer) scoreThreatIntel(t *tally, ti model.ThreatIntel) {
	if ti.Failed() {
		t.add(weightThreatIntelFail, "Safe Browsing check failed: "+ti.Error)
	}

	if len(ti.Matches) == 0 {
		return
	}

	t.score = max(t.score, threatIntelFloor)
	t.reasons = append(t.reasons, "Safe Browsing match: "+strings.Join(threatTypes(ti.Matches), ", "))
}

// threatTypes returns the distinct, sorted threat categories
func threatTypes(matches []model.ThreatMatch) []string {
	seen := make(map[string]bool)
	var types []string
	for _, m := range matches {
		tt := m.ThreatType
		if tt == "" {
			tt = unknownThreatType
		}
		if !seen[tt] {
			seen[tt] = true
			types = append(types, tt)
		}
	}
	sort.Strings(types)
	return types
}

// LabelFor maps a clamped score to its label
func LabelFor(score int) model.Label {
	switch {
	case score >= dangerousThreshold:
		return model.LabelDangerous
	case score >= suspiciousThreshold:
		return model.LabelSuspicious
	default:
		return model.LabelSafe
	}
}

func clamp(n int) int {
	return max(minScore, min(maxScore, n))
}

// formatPort prints the port, falling back to the authority's digits when
// they overflow an int
func formatPort(ind model.Indicators) string {
	if ind.Port != nil {
		return strconv.Itoa(*ind.Port)
	}
	if i := strings.LastIndexByte(ind.Authority, ':'); i >= 0 {
		return ind.Authority[i+1:]
	}
	return "none"
}

// formatSimilarity keeps one decimal for whole numbers, so 1 prints as 1.0
func formatSimilarity(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
