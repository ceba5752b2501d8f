package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/ezpsa-inc/ezpsa/internal/interfaces/http/handlers/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/middleware"
)

// TicketRouteConfig holds dependencies for ticket routes.
type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupTicketRoutes configures the ticket API. Every route requires a session.
func SetupTicketRoutes(engine *gin.Engine, cfg *TicketRouteConfig) {
	api := engine.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/getTickets", cfg.TicketHandler.GetTickets)
		api.POST("/closeTicket", cfg.TicketHandler.CloseTicket)
		api.GET("/newTicket", cfg.TicketHandler.ListCompanies)
		api.POST("/newTicket", cfg.TicketHandler.CreateTicket)
		api.GET("/quickview", cfg.TicketHandler.QuickView)
		api.GET("/getBoards", cfg.TicketHandler.GetBoards)
		api.GET("/leaderboard", cfg.TicketHandler.Leaderboard)
	}
}
