package service

import (
	"context"
	"encoding/json"
	"time"

	"studio-site/internal/logger"
)

// Cache keys of public reads. Each key is also the prefix invalidated when
// the matching resource changes.
const (
	keyNavigation = "site:navigation"
	keySettings   = "site:settings"
	keyServices   = "site:services"
	keySkills     = "site:skills"
	keyProjects   = "site:projects"
	keyKnowledge  = "chatbot:entries"
)

// Cache defines the interface for a simple key-value cache.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// cached returns the value stored under key, or loads, stores and returns
// it. Cache failures are logged and fall through to load.
func cached[T any](ctx context.Context, c Cache, log logger.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if raw, err := c.Get(ctx, key); err != nil {
			log.Error(err, "cache read failed for "+key)
		} else if raw != nil {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		if raw, err := json.Marshal(v); err == nil {
			if err := c.Set(ctx, key, raw, 0); err != nil {
				log.Error(err, "cache write failed for "+key)
			}
		}
	}
	return v, nil
}

// invalidate drops cached reads so the next read sees the latest write.
func invalidate(ctx context.Context, c Cache, log logger.Logger, prefixes ...string) {
	if c == nil {
		return
	}
	for _, p := range prefixes {
		if err := c.DeletePrefix(ctx, p); err != nil {
			log.Error(err, "cache invalidation failed for "+p)
		}
	}
}
