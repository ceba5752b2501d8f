package http

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/cache"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/config"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/manage"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/scheduler"
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/middleware"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

const loginStatePrefix = "ezpsa:login_state:"

// initInfrastructure creates the Redis client, the upstream client, the
// stores and the auth services.
func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	redisClient, err := initRedis(cfg, log)
	if err != nil {
		return err
	}
	c.redis = redisClient

	c.manageClient, err = manage.NewClient(&cfg.Manage, log.Named("manage"))
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	c.boardCache = cache.NewBoardCacheStore()
	c.loginStates = cache.NewRedisStateStore(c.redis, loginStatePrefix, minutes(cfg.Redis.StateTTLMinutes, 10))
	c.leaderboardCache = cache.NewRedisLeaderboardCache(c.redis, minutes(cfg.Redis.LeaderboardTTLMinutes, 15))

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.SessionExpHours, c.clock)
	c.oauthClient = auth.NewAzureOAuthClient(cfg.OAuth.Azure)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log)

	if cfg.OAuth.Azure.ClientID == "" || cfg.OAuth.Azure.TenantID == "" {
		log.Warnw("Azure AD OAuth is not configured, sign-in will fail")
	}

	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
	}
	log.Infow("Redis connection established successfully")

	return redisClient, nil
}

// initScheduler registers periodic partial refreshes for the configured
// boards. It is a no-op unless both an interval and boards are set.
func (c *Container) initScheduler() error {
	syncCfg := c.cfg.Sync
	if syncCfg.RefreshIntervalMinutes <= 0 || len(syncCfg.Boards) == 0 {
		return nil
	}

	mgr, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	interval := time.Duration(syncCfg.RefreshIntervalMinutes) * time.Minute
	if err := mgr.RegisterBoardRefreshJobs(syncCfg.Boards, interval, c.boardRefresher()); err != nil {
		return err
	}

	c.scheduler = mgr
	return nil
}

func minutes(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Minute
}
