package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"plancheck/internal/model"
)

// EvalCache memoizes segment evaluation outcomes within a run, keyed
// by the segment's evidence fingerprint. Re-runs and duplicate
// segments with identical evidence reuse the stored outcome instead of
// re-evaluating ("already resolved, skip").
type EvalCache interface {
	Get(ctx context.Context, runID, fingerprint string) (*model.SegmentResult, error)
	Set(ctx context.Context, runID, fingerprint string, result *model.SegmentResult) error
}

type evalCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEvalCache creates a new evaluation memo cache
func NewEvalCache(client *redis.Client) EvalCache {
	return &evalCache{
		client: client,
		ttl:    24 * time.Hour,
	}
}

func (c *evalCache) key(runID, fingerprint string) string {
	return fmt.Sprintf("run:%s:memo:%s", runID, fingerprint)
}

func (c *evalCache) Get(ctx context.Context, runID, fingerprint string) (*model.SegmentResult, error) {
	data, err := c.client.Get(ctx, c.key(runID, fingerprint)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result model.SegmentResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *evalCache) Set(ctx context.Context, runID, fingerprint string, result *model.SegmentResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(runID, fingerprint), data, c.ttl).Err()
}
