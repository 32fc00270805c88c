// Package threatintel looks URLs up in a remote reputation service.
// Every lookup degrades to a structured result; callers never see an error.
package threatintel

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/phishlens/internal/cache"
	"github.com/ppiankov/phishlens/internal/model"
)

// APIKeyEnv is the environment variable consulted when no key is configured
const APIKeyEnv = "SAFE_BROWSING_API_KEY"

// Checker looks up one URL
type Checker interface {
	Check(ctx context.Context, url string) model.ThreatIntel
}

// Disabled is the no-op checker used when no credential is configured
type Disabled struct{}

// Check always reports a disabled, successful lookup with no matches
func (Disabled) Check(ctx context.Context, url string) model.ThreatIntel {
	return model.DisabledThreatIntel()
}

// New builds the checker described by cfg. Without an API key the result is
// Disabled. A non-nil store caches successful lookups.
func New(cfg model.ThreatIntelConfig, store cache.Cache) Checker {
	if cfg.APIKey == "" {
		cfg.APIKey = strings.TrimSpace(os.Getenv(APIKeyEnv))
	}
	if cfg.APIKey == "" {
		slog.Debug("threat intel disabled: no API key configured")
		return Disabled{}
	}

	var checker Checker = NewSafeBrowsing(cfg)
	if store != nil {
		checker = NewCached(checker, store, 0)
	}
	return checker
}
