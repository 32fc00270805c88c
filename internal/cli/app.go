package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/phishlens/internal/cache"
	"github.com/ppiankov/phishlens/internal/corpus"
	"github.com/ppiankov/phishlens/internal/indicators"
	"github.com/ppiankov/phishlens/internal/model"
	"github.com/ppiankov/phishlens/internal/pipeline"
	"github.com/ppiankov/phishlens/internal/score"
	"github.com/ppiankov/phishlens/internal/threatintel"
	"github.com/spf13/viper"
)

// registerDefaults makes every config key known to viper so that
// environment variables are honoured by Unmarshal.
func registerDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("corpus.dir", cfg.Corpus.Dir)

	v.SetDefault("threat_intel.api_key", cfg.ThreatIntel.APIKey)
	v.SetDefault("threat_intel.endpoint", cfg.ThreatIntel.Endpoint)
	v.SetDefault("threat_intel.timeout", cfg.ThreatIntel.Timeout)
	v.SetDefault("threat_intel.client_id", cfg.ThreatIntel.ClientID)
	v.SetDefault("threat_intel.client_version", cfg.ThreatIntel.ClientVersion)
	v.SetDefault("threat_intel.requests_per_second", cfg.ThreatIntel.RequestsPerSecond)
	v.SetDefault("threat_intel.burst", cfg.ThreatIntel.Burst)
	v.SetDefault("threat_intel.http_proxy", cfg.ThreatIntel.HTTPProxy)
	v.SetDefault("threat_intel.https_proxy", cfg.ThreatIntel.HTTPSProxy)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	v.SetDefault("output.verbose", cfg.Output.Verbose)
}

// loadConfig returns the effective configuration:
// flags > PHISHLENS_* env > config file > defaults.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	registerDefaults(v, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.ThreatIntel.APIKey == "" {
		cfg.ThreatIntel.APIKey = os.Getenv(threatintel.APIKeyEnv)
	}

	if cfg.Cache.Enabled && cfg.Cache.Dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Warn("cache disabled: cannot find home directory", "error", err)
			cfg.Cache.Enabled = false
		} else {
			cfg.Cache.Dir = filepath.Join(home, ".phishlens", "cache")
		}
	}

	return cfg, nil
}

// newAnalyzer wires corpus, extractor, threat-intel client and scorer
func newAnalyzer(cfg *model.Config) *pipeline.Analyzer {
	c := corpus.LoadDir(cfg.Corpus.Dir)
	stats := c.Stats()
	slog.Debug("corpus loaded",
		"dir", cfg.Corpus.Dir,
		"suspicious_tlds", stats.SuspiciousTLDs,
		"shorteners", stats.Shorteners,
		"legit_domains", stats.LegitDomains,
		"keywords", stats.Keywords,
	)

	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	checker := threatintel.New(cfg.ThreatIntel, store)

	return pipeline.NewAnalyzer(indicators.NewExtractor(c), checker, score.NewScorer())
}

// maskSecret hides all but the last four characters of s
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
