package http

import (
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/auth"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/cache"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/config"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/manage"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/scheduler"
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/middleware"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

// Container holds the infrastructure components, use cases, handlers and
// background jobs of the server. It wires everything together and provides
// Shutdown for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface
	clock  quartz.Clock
	redis  *redis.Client

	// Upstream ticketing API
	manageClient *manage.Client

	// Stores
	boardCache       *cache.BoardCacheStore
	loginStates      *cache.RedisStateStore
	leaderboardCache *cache.RedisLeaderboardCache

	// Auth
	jwtSvc         *auth.JWTService
	oauthClient    *auth.AzureOAuthClient
	authMiddleware *middleware.AuthMiddleware

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	// Background jobs; nil when no board refresh is configured
	scheduler *scheduler.SchedulerManager
}

// NewContainer builds the server. It fails if the upstream API is
// misconfigured or Redis is unreachable.
func NewContainer(cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		cfg:    cfg,
		log:    log,
		clock:  quartz.NewReal(),
	}

	// Section 1: Infrastructure - Redis, upstream client, stores, auth
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Use cases
	c.initUseCases()

	// Section 3: Handlers
	c.initHandlers()

	// Section 4: Background board refresh
	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// StartScheduler starts the background board refresh jobs, if any.
func (c *Container) StartScheduler() {
	if c.scheduler != nil {
		c.scheduler.Start()
	}
}

// Shutdown stops background jobs and releases connections.
func (c *Container) Shutdown() {
	if c.scheduler != nil {
		if err := c.scheduler.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close Redis client", "error", err)
		}
	}
}
