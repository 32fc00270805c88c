package model

// Indicators is the flat signal record derived from one URL and a corpus snapshot.
// It is built once by the extractor and only read afterwards.
type Indicators struct {
	URL       string `json:"url"`
	ValidURL  bool   `json:"valid_url"`
	Scheme    string `json:"scheme"`
	Authority string `json:"authority"`
	Host      string `json:"host"`
	Port      *int   `json:"port"` // nil when absent or non-numeric

	TLD           string `json:"tld"`
	SuspiciousTLD bool   `json:"suspicious_tld"`
	HasPunycode   bool   `json:"has_punycode"`

	UsesIPHost     bool `json:"uses_ip_host"`
	HasUnusualPort bool `json:"has_unusual_port"`

	SubdomainCount int  `json:"subdomain_count"`
	TooManyDots    bool `json:"too_many_dots"`

	URLLength            int  `json:"url_length"`
	HasEncodedChars      bool `json:"has_encoded_chars"`
	ContainsAtSymbol     bool `json:"contains_at_symbol"`
	HasDoubleSlashInPath bool `json:"has_double_slash_in_path"`

	SuspiciousKeywords []string `json:"suspicious_keywords"` // sorted, de-duplicated

	IsShortener      bool             `json:"is_shortener"`
	TyposquatMatches []LookalikeMatch `json:"typosquat_matches"` // most similar first, at most 3

	// Informational only; the scorer never reads these.
	HostUnicode       string `json:"host_unicode,omitempty"`
	RegistrableDomain string `json:"registrable_domain,omitempty"`
}

// LookalikeMatch is a reference domain the host closely resembles.
type LookalikeMatch struct {
	Target          string  `json:"target"`
	Similarity      float64 `json:"similarity"` // [0,1], 3 decimals
	NormalizedMatch bool    `json:"normalized_match"`
}

// BestMatch returns the strongest lookalike finding, if any.
func (i Indicators) BestMatch() (LookalikeMatch, bool) {
	if len(i.TyposquatMatches) == 0 {
		return LookalikeMatch{}, false
	}
	return i.TyposquatMatches[0], true
}
