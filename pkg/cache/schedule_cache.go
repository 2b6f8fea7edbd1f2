package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/courtside-dev/ref-scheduler/types"
)

// ScheduleCacheService caches scheduling results keyed by a fingerprint of
// the input context. The engine itself never touches it; callers consult the
// cache before paying for a solve.
type ScheduleCacheService struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewScheduleCacheService creates a new schedule cache service
func NewScheduleCacheService(client *redis.Client, logger *logrus.Logger) *ScheduleCacheService {
	return &ScheduleCacheService{
		client: client,
		logger: logger,
	}
}

// ContextFingerprint returns a stable key for a scheduling context: the
// SHA-256 of its canonical JSON encoding. Identical inputs always produce the
// same fingerprint, which is what makes cached results safe to reuse given
// the engine's deterministic search.
func ContextFingerprint(input *types.SchedulingContext) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to marshal scheduling context: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SetResult stores a scheduling result in cache
func (c *ScheduleCacheService) SetResult(ctx context.Context, fingerprint string, result *types.SchedulingResult, expiration time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduling result: %w", err)
	}

	fullKey := fmt.Sprintf("schedule:%s", fingerprint)
	if err := c.client.Set(ctx, fullKey, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set scheduling result in cache: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":   fullKey,
		"expiration":  expiration,
		"assignments": len(result.Assignments),
	}).Debug("Cached scheduling result")

	return nil
}

// GetResult retrieves a scheduling result from cache
func (c *ScheduleCacheService) GetResult(ctx context.Context, fingerprint string) (*types.SchedulingResult, error) {
	fullKey := fmt.Sprintf("schedule:%s", fingerprint)
	data, err := c.client.Get(ctx, fullKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("scheduling result not found in cache")
		}
		return nil, fmt.Errorf("failed to get scheduling result from cache: %w", err)
	}

	var result types.SchedulingResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scheduling result: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"cache_key":   fullKey,
		"assignments": len(result.Assignments),
	}).Debug("Retrieved scheduling result from cache")

	return &result, nil
}

// InvalidateResult removes a cached result, e.g. after the underlying games
// or referee records change.
func (c *ScheduleCacheService) InvalidateResult(ctx context.Context, fingerprint string) error {
	fullKey := fmt.Sprintf("schedule:%s", fingerprint)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached scheduling result: %w", err)
	}
	return nil
}
