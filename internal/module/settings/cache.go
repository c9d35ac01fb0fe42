package settings

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/platipay/server/internal/module/payment/domain"
	"github.com/platipay/server/internal/utils/metrics"
)

const cacheKeyPrefix = "platipay:settings:"

// Cache holds merged settings per store.
type Cache interface {
	Get(ctx context.Context, storeID int) (*domain.MerchantSettings, error)
	Set(ctx context.Context, storeID int, s domain.MerchantSettings) error
	Clear(ctx context.Context) error
}

type redisCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	aead    cipher.AEAD
	metrics *metrics.Metrics
}

// NewRedisCache creates a Cache backed by redis. Entries carry the private
// key and IVs, so they are sealed with AES-GCM under a key derived from
// secret and bound to their store. m may be nil.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration, secret string, m *metrics.Metrics) (Cache, error) {
	if secret == "" {
		return nil, ErrNoCacheKey
	}
	sum := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, fmt.Errorf("settings cache cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("settings cache cipher: %w", err)
	}
	return &redisCache{client: client, ttl: ttl, aead: aead, metrics: m}, nil
}

func cacheKey(storeID int) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix, storeID)
}

// Get returns nil without error on a miss. Entries that do not open are
// treated as misses.
func (c *redisCache) Get(ctx context.Context, storeID int) (*domain.MerchantSettings, error) {
	key := cacheKey(storeID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.record(false)
			return nil, nil
		}
		return nil, err
	}

	plain, err := c.open(key, data)
	if err != nil {
		c.record(false)
		return nil, nil
	}
	var s domain.MerchantSettings
	if err := json.Unmarshal(plain, &s); err != nil {
		c.record(false)
		return nil, nil
	}
	c.record(true)
	return &s, nil
}

func (c *redisCache) Set(ctx context.Context, storeID int, s domain.MerchantSettings) error {
	plain, err := json.Marshal(s)
	if err != nil {
		return err
	}
	key := cacheKey(storeID)
	data, err := c.seal(key, plain)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// seal returns nonce || ciphertext, authenticated with the redis key.
func (c *redisCache) seal(key string, plain []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plain)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("settings cache nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, plain, []byte(key)), nil
}

func (c *redisCache) open(key string, data []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(data) < n {
		return nil, errors.New("settings cache entry too short")
	}
	return c.aead.Open(nil, data[:n], data[n:], []byte(key))
}

// Clear drops every store entry. A default scope change affects all stores.
func (c *redisCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) record(hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.RecordCacheHit("settings")
	} else {
		c.metrics.RecordCacheMiss("settings")
	}
}

type noopCache struct{}

// NewNoopCache returns a Cache that stores nothing.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, int) (*domain.MerchantSettings, error) { return nil, nil }
func (noopCache) Set(context.Context, int, domain.MerchantSettings) error   { return nil }
func (noopCache) Clear(context.Context) error                               { return nil }
