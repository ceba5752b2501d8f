package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
)

const leaderboardKeyPrefix = "ezpsa:leaderboard:"

// RedisLeaderboardCache caches computed leaderboards per year.
type RedisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached leaderboard for year. A miss is (nil, false, nil).
func (c *RedisLeaderboardCache) Get(ctx context.Context, year int) ([]ticket.MemberStats, bool, error) {
	data, err := c.client.Get(ctx, leaderboardKey(year)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get leaderboard from redis: %w", err)
	}

	var stats []ticket.MemberStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}
	return stats, true, nil
}

// Set stores the leaderboard for year with the cache TTL.
func (c *RedisLeaderboardCache) Set(ctx context.Context, year int, stats []ticket.MemberStats) error {
	if stats == nil {
		stats = []ticket.MemberStats{}
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey(year), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store leaderboard in redis: %w", err)
	}
	return nil
}

func leaderboardKey(year int) string {
	return leaderboardKeyPrefix + strconv.Itoa(year)
}
