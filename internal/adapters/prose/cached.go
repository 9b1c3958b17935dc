package prose

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"lending_docs/internal/metrics"
	"lending_docs/internal/ports"
)

const defaultTTL = 24 * time.Hour

type CachedGenerator struct {
	next  ports.ProseGenerator
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedGenerator(next ports.ProseGenerator, cache ports.Cache, ttl time.Duration, log *zap.Logger) *CachedGenerator {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedGenerator{next: next, cache: cache, ttl: ttl, log: log}
}

// CacheKey hashes the request; json.Marshal sorts map keys so equal
// requests share a key.
func CacheKey(req ports.ProseRequest) string {
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return "prose:" + hex.EncodeToString(sum[:])
}

func (c *CachedGenerator) Generate(ctx context.Context, req ports.ProseRequest) (ports.Prose, error) {
	key := CacheKey(req)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var out ports.Prose
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			metrics.ProseRequests.WithLabelValues("cache_hit").Inc()
			return out, nil
		}
	}

	out, err := c.next.Generate(ctx, req)
	if err != nil {
		return out, err
	}
	// template prose is cheap to rebuild
	if out.Source == SourceTemplate {
		return out, nil
	}
	if b, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, string(b), c.ttl); err != nil {
			c.log.Warn("[PROSE][CACHE] write failed", zap.Error(err))
		}
	}
	return out, nil
}
