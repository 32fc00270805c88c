package model

import "time"

// Label is the coarse risk classification of a URL
type Label string

const (
	LabelSafe       Label = "SAFE"
	LabelSuspicious Label = "SUSPICIOUS"
	LabelDangerous  Label = "DANGEROUS"
)

// ThreatIntel is the outcome of the remote reputation lookup for one URL.
// Enabled=false means no credential is configured; Enabled=true with OK=false
// means the lookup was attempted and failed.
type ThreatIntel struct {
	Enabled bool          `json:"enabled"`
	OK      bool          `json:"ok"`
	Matches []ThreatMatch `json:"matches"`
	Error   string        `json:"error,omitempty"`
}

// ThreatMatch is one confirmed listing returned by the reputation service
type ThreatMatch struct {
	ThreatType      string       `json:"threatType"`
	PlatformType    string       `json:"platformType,omitempty"`
	ThreatEntryType string       `json:"threatEntryType,omitempty"`
	Threat          *ThreatEntry `json:"threat,omitempty"`
	CacheDuration   string       `json:"cacheDuration,omitempty"`
}

// ThreatEntry identifies the listed resource
type ThreatEntry struct {
	URL string `json:"url,omitempty"`
}

// DisabledThreatIntel is the transparent result used when no lookup is configured
func DisabledThreatIntel() ThreatIntel {
	return ThreatIntel{Enabled: false, OK: true, Matches: []ThreatMatch{}}
}

// Failed reports whether a configured lookup did not complete
func (t ThreatIntel) Failed() bool {
	return t.Enabled && !t.OK
}

// Evidence is the indicator record as reported alongside a verdict
type Evidence struct {
	Indicators
	ThreatIntel ThreatIntel `json:"threat_intel"`
}

// Verdict is the final classification for one URL
type Verdict struct {
	URL        string   `json:"url"`
	Score      int      `json:"score"` // 0-100
	Label      Label    `json:"label"`
	Reasons    []string `json:"reasons"` // never empty
	Indicators Evidence `json:"indicators"`
}

// BatchReport is the persisted envelope for one or more verdicts
type BatchReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	Results     []Verdict `json:"results"`
}

// NewBatchReport wraps verdicts with a UTC generation timestamp
func NewBatchReport(results []Verdict, now time.Time) BatchReport {
	if results == nil {
		results = []Verdict{}
	}
	return BatchReport{
		GeneratedAt: now.UTC(),
		Results:     results,
	}
}
