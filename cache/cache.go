package cache

import "time"

// Cache holds immutable blob payloads keyed by content handle. Only envelope
// bytes are cached, never folded state, so a hit can never be stale.
type Cache struct {
	Cache ICache
}

type ICache interface {
	Set(key string, entry []byte) error

	Get(key string) ([]byte, error)

	Len() int
}

func NewLocalCache(allKeysExpTime time.Duration) (*Cache, error) {
	cache, err := NewBigCache(allKeysExpTime)
	if err != nil {
		return nil, err
	}
	return &Cache{Cache: cache}, nil
}
