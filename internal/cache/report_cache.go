package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"plancheck/internal/model"
)

// ReportCache holds recomputed coverage reports for recently read runs
// so repeated dashboard polls do not re-aggregate on every request
type ReportCache interface {
	GetReport(ctx context.Context, runID string) (*model.CoverageReport, error)
	SetReport(ctx context.Context, runID string, report *model.CoverageReport) error
	InvalidateReport(ctx context.Context, runID string) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client) ReportCache {
	return &reportCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *reportCache) key(runID string) string {
	return fmt.Sprintf("run:%s:report", runID)
}

func (c *reportCache) GetReport(ctx context.Context, runID string) (*model.CoverageReport, error) {
	data, err := c.client.Get(ctx, c.key(runID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.CoverageReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) SetReport(ctx context.Context, runID string, report *model.CoverageReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(runID), data, c.ttl).Err()
}

func (c *reportCache) InvalidateReport(ctx context.Context, runID string) error {
	return c.client.Del(ctx, c.key(runID)).Err()
}
