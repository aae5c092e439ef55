package cache

import "time"

// BytesCache stores opaque byte values with a TTL. Profile results are
// cached as marshaled JSON so the same interface works in-process and over
// Redis.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
}
