package http

import (
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/middleware"
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.CustomLogger(c.log))
	c.engine.Use(middleware.Recovery(c.log))

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)

	routes.SetupAuthRoutes(c.engine, &routes.AuthRouteConfig{
		AuthHandler: c.hdlrs.authHandler,
	})

	routes.SetupTicketRoutes(c.engine, &routes.TicketRouteConfig{
		TicketHandler:  c.hdlrs.ticketHandler,
		AuthMiddleware: c.authMiddleware,
	})
}
