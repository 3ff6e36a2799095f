package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const extractionCachePrefix = "extract:v1:"

// CachedExtractor remembers complete extractions in Redis so repeated requests skip the model
// call. Clarifications and failures are never cached, and Redis trouble only costs a cache miss.
type CachedExtractor struct {
	next   Extractor
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedExtractor(next Extractor, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	return &CachedExtractor{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedExtractor) Extract(ctx context.Context, text string) (*models.ExtractedEntities, error) {
	key := cacheKey(text)

	data, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached models.ExtractedEntities
		if jsonErr := json.Unmarshal([]byte(data), &cached); jsonErr == nil {
			c.logger.Debug("Extraction cache hit", zap.String("key", key))
			return &cached, nil
		}
		c.logger.Warn("Dropping undecodable extraction cache entry", zap.String("key", key))
		_ = c.client.Del(ctx, key).Err()
	case err != redis.Nil:
		c.logger.Warn("Extraction cache read failed", zap.Error(err))
	}

	entities, err := c.next.Extract(ctx, text)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(entities)
	if err == nil {
		err = c.client.Set(ctx, key, b, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("Extraction cache write failed", zap.Error(err))
	}
	return entities, nil
}

// cacheKey hashes the text after case folding and whitespace collapsing, so trivially different
// spellings of the same request share an entry.
func cacheKey(text string) string {
	canonical := strings.Join(strings.Fields(strings.ToLower(text)), " ")
	sum := sha256.Sum256([]byte(canonical))
	return extractionCachePrefix + hex.EncodeToString(sum[:])
}
