package cache

import "time"

// BytesCache is a minimal cache API storing raw bytes with TTL. The handler
// layer uses it for serialized snapshot responses; an optional Redis layer
// can back it when several renderer instances share one service.
type BytesCache interface {
	GetBytes(key string) (b []byte, ok bool, err error)
	SetBytes(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}
