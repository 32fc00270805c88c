package threatintel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/phishlens/internal/model"
)

const (
	defaultTimeout = 5 * time.Second
	maxErrorDetail = 180
	maxBodyBytes   = 1 << 20
)

var (
	defaultThreatTypes      = []string{"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION"}
	defaultPlatformTypes    = []string{"ANY_PLATFORM"}
	defaultThreatEntryTypes = []string{"URL"}
)

// SafeBrowsing queries the Google Safe Browsing v4 lookup API.
// Each Check is a single request bounded by the configured timeout; there is no retry.
type SafeBrowsing struct {
	httpClient    *http.Client
	endpoint      string
	apiKey        string
	clientID      string
	clientVersion string
	timeout       time.Duration
	limiter       *Limiter
}

// NewSafeBrowsing creates a Safe Browsing client
func NewSafeBrowsing(cfg model.ThreatIntelConfig) *SafeBrowsing {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = model.DefaultSafeBrowsingEndpoint
	}

	var limiter *Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}

	return &SafeBrowsing{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newTransport(cfg.HTTPProxy, cfg.HTTPSProxy),
		},
		endpoint:      endpoint,
		apiKey:        cfg.APIKey,
		clientID:      cfg.ClientID,
		clientVersion: cfg.ClientVersion,
		timeout:       timeout,
		limiter:       limiter,
	}
}

type lookupRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type lookupResponse struct {
	Matches []model.ThreatMatch `json:"matches"`
}

// Check looks up rawURL. Failures are reported in the result, never returned.
func (s *SafeBrowsing) Check(ctx context.Context, rawURL string) model.ThreatIntel {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	matches, err := s.lookup(ctx, rawURL)
	if err != nil {
		slog.Debug("safe browsing lookup failed", "url", rawURL, "error", err)
		return model.ThreatIntel{Enabled: true, OK: false, Matches: []model.ThreatMatch{}, Error: err.Error()}
	}
	return model.ThreatIntel{Enabled: true, OK: true, Matches: matches}
}

func (s *SafeBrowsing) lookup(ctx context.Context, rawURL string) ([]model.ThreatMatch, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, s.endpoint); err != nil {
			return nil, networkError(err)
		}
	}

	body, err := json.Marshal(lookupRequest{
		Client: clientInfo{ClientID: s.clientID, ClientVersion: s.clientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      defaultThreatTypes,
			PlatformTypes:    defaultPlatformTypes,
			ThreatEntryTypes: defaultThreatEntryTypes,
			ThreatEntries:    []threatEntry{{URL: rawURL}},
		},
	})
	if err != nil {
		return nil, unexpectedError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.requestURL(), bytes.NewReader(body))
	if err != nil {
		return nil, unexpectedError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, networkError(stripURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, networkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: data}
	}

	var parsed lookupResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, unexpectedError(fmt.Errorf("decode response: %w", err))
		}
	}
	if parsed.Matches == nil {
		parsed.Matches = []model.ThreatMatch{}
	}

	return parsed.Matches, nil
}

// requestURL appends the API key to the endpoint
func (s *SafeBrowsing) requestURL() string {
	sep := "?"
	if strings.Contains(s.endpoint, "?") {
		sep = "&"
	}
	return s.endpoint + sep + "key=" + url.QueryEscape(s.apiKey)
}

// lookupError prefixes a failure with its category for reporting
type lookupError struct {
	kind string
	err  error
}

func (e *lookupError) Error() string { return e.kind + ": " + e.err.Error() }
func (e *lookupError) Unwrap() error { return e.err }

func networkError(err error) error {
	return &lookupError{kind: "Network/timeout error", err: err}
}

func unexpectedError(err error) error {
	return &lookupError{kind: "Unexpected error", err: err}
}

// statusError is a non-2xx response from the lookup API
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	var msg string
	switch e.status {
	case http.StatusTooManyRequests:
		msg = "HTTP 429 (rate limited)"
	case http.StatusForbidden:
		msg = "HTTP 403 (forbidden - check API key / API enabled)"
	case http.StatusBadRequest:
		msg = "HTTP 400 (bad request)"
	default:
		msg = fmt.Sprintf("HTTP %d", e.status)
	}

	if detail := truncateRunes(string(e.body), maxErrorDetail); detail != "" {
		msg += " - " + detail
	}
	return msg
}

func truncateRunes(s string, n int) string {
	r := []rune(strings.ToValidUTF8(s, ""))
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// stripURLError drops the request URL from transport errors so the API key
// never ends up in reports.
func stripURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
