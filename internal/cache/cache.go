package cache

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a source URL
func CacheKey(url string) string {
	return "quizgen:v1:" + Digest([]byte(url))
}

// Digest returns the hex BLAKE3 digest of data
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
