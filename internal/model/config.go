package model

import "time"

// Config is the complete PhishLens configuration
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	ThreatIntel ThreatIntelConfig `yaml:"threat_intel" mapstructure:"threat_intel"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// CorpusConfig points at the reference lists
type CorpusConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"` // empty = built-in lists
}

// ThreatIntelConfig configures the Safe Browsing lookup
type ThreatIntelConfig struct {
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"` // empty = lookup disabled
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	ClientID          string        `yaml:"client_id" mapstructure:"client_id"`
	ClientVersion     string        `yaml:"client_version" mapstructure:"client_version"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// CacheConfig configures caching of successful threat-intel lookups
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls console output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultSafeBrowsingEndpoint is the Safe Browsing v4 lookup API
const DefaultSafeBrowsingEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		ThreatIntel: ThreatIntelConfig{
			Endpoint:          DefaultSafeBrowsingEndpoint,
			Timeout:           5 * time.Second,
			ClientID:          "phishlens",
			ClientVersion:     "1.0",
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // resolved to ~/.phishlens/cache by the CLI
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   6 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 1,
		},
	}
}
