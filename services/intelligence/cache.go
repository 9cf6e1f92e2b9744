package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"coursecal/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const extractionCachePrefix = "extract:"

// ExtractionCache stores live extraction results keyed by image and window.
type ExtractionCache interface {
	Get(ctx context.Context, key string) (*models.ExtractionResult, bool, error)
	Set(ctx context.Context, key string, res *models.ExtractionResult) error
}

// CacheKey identifies an extraction by image content and semester window.
func CacheKey(req ExtractRequest) string {
	sum := sha256.Sum256(req.Image)
	return extractionCachePrefix + hex.EncodeToString(sum[:]) + ":" + req.Window.Start.String() + ":" + req.Window.End.String()
}

type RedisExtractionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisExtractionCache(client *redis.Client, ttl time.Duration) *RedisExtractionCache {
	return &RedisExtractionCache{client: client, ttl: ttl}
}

func (s *RedisExtractionCache) Get(ctx context.Context, key string) (*models.ExtractionResult, bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var res models.ExtractionResult
	if err := json.Unmarshal([]byte(data), &res); err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (s *RedisExtractionCache) Set(ctx context.Context, key string, res *models.ExtractionResult) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

// CachedExtractor serves repeated uploads of the same image from the cache.
// Cache errors never fail an extraction.
type CachedExtractor struct {
	next   Extractor
	cache  ExtractionCache
	logger *zap.Logger
}

func NewCachedExtractor(next Extractor, cache ExtractionCache, logger *zap.Logger) *CachedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedExtractor{next: next, cache: cache, logger: logger}
}

func (c *CachedExtractor) Extract(ctx context.Context, req ExtractRequest) (*models.ExtractionResult, error) {
	key := CacheKey(req)
	if res, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("extraction: cache read failed", zap.Error(err))
	} else if ok {
		c.logger.Info("extraction: served from cache", zap.String("source", models.SourceCache), zap.Int("courses", len(res.Courses)))
		res.Source = models.SourceCache
		return res, nil
	}

	res, err := c.next.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Source == models.SourceLive {
		if err := c.cache.Set(ctx, key, res); err != nil {
			c.logger.Warn("extraction: cache write failed", zap.Error(err))
		}
	}
	return res, nil
}
