package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gatescore-service/internal/normalize"
)

// StatsCache is a read-through Redis cache over the cohort aggregates,
// keyed per slot and per department. Entries are invalidated explicitly
// whenever a candidate score is upserted, so the cache never serves
// aggregates from before the write.
type StatsCache interface {
	normalize.CohortStats
	Invalidate(ctx context.Context, slotID, department string) error
}

type cohortAggregate struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type statsCache struct {
	client *redis.Client
	source normalize.CohortStats
	ttl    time.Duration
}

// NewStatsCache wraps the repository-backed source. A short TTL bounds
// staleness even if an invalidation is lost.
func NewStatsCache(client *redis.Client, source normalize.CohortStats) StatsCache {
	return &statsCache{
		client: client,
		source: source,
		ttl:    5 * time.Minute,
	}
}

func slotKey(slotID string) string {
	return fmt.Sprintf("cohort:slot:%s:stats", slotID)
}

func departmentKey(department string) string {
	return fmt.Sprintf("cohort:dept:%s:stats", department)
}

func (c *statsCache) SessionStats(ctx context.Context, slotID string) (float64, float64, error) {
	return c.readThrough(ctx, slotKey(slotID), func() (float64, float64, error) {
		return c.source.SessionStats(ctx, slotID)
	})
}

func (c *statsCache) DepartmentStats(ctx context.Context, department string) (float64, float64, error) {
	return c.readThrough(ctx, departmentKey(department), func() (float64, float64, error) {
		return c.source.DepartmentStats(ctx, department)
	})
}

func (c *statsCache) readThrough(ctx context.Context, key string, load func() (float64, float64, error)) (float64, float64, error) {
	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var agg cohortAggregate
		if err := json.Unmarshal([]byte(cached), &agg); err == nil {
			return agg.Mean, agg.StdDev, nil
		}
	} else if err != redis.Nil {
		// Redis trouble degrades to a direct read, never to a failure.
		return load()
	}

	mean, stddev, err := load()
	if err != nil {
		return 0, 0, err
	}

	payload, err := json.Marshal(cohortAggregate{Mean: mean, StdDev: stddev})
	if err == nil {
		c.client.Set(ctx, key, payload, c.ttl)
	}
	return mean, stddev, nil
}

func (c *statsCache) Invalidate(ctx context.Context, slotID, department string) error {
	return c.client.Del(ctx, slotKey(slotID), departmentKey(department)).Err()
}
