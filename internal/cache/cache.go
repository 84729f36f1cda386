package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched reference-data payloads so repeated update runs do
// not hammer the upstream statistical agencies.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "lostyears:v1:" + hex.EncodeToString(sum[:])
}
