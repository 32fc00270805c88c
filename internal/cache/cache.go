package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque values by key with per-entry expiry
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey derives a filesystem-safe key for a URL lookup
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "phishlens_v1_" + hex.EncodeToString(hash[:])
}
