package assist

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"
)

// ErrCacheMiss is returned by a Cache when the key has no value.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores completion responses keyed by query hash.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type completer interface {
	Complete(ctx context.Context, query string) (string, error)
}

// Responder answers completion queries through a cache. Identical queries
// within the TTL are served without touching the upstream API.
type Responder struct {
	client completer
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
}

func NewResponder(client completer, cache Cache, ttl time.Duration, log *slog.Logger) *Responder {
	if log == nil {
		log = slog.Default()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Responder{
		client: client,
		cache:  cache,
		ttl:    ttl,
		log:    log.With(slog.String("component", "assist.responder")),
	}
}

func (r *Responder) Respond(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)

	if r.cache != nil {
		cached, err := r.cache.Get(ctx, key)
		if err == nil {
			r.log.Debug("cache hit", slog.String("key", key))
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			// Cache trouble never blocks the request.
			r.log.Warn("cache get failed", slog.String("key", key), slog.Any("err", err))
		}
	}

	answer, err := r.client.Complete(ctx, query)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, answer, r.ttl); err != nil {
			r.log.Warn("cache set failed", slog.String("key", key), slog.Any("err", err))
		}
	}
	return answer, nil
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return "assist:" + hex.EncodeToString(sum[:])
}
