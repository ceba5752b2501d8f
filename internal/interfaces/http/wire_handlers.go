package http

import (
	"github.com/ezpsa-inc/ezpsa/internal/interfaces/http/handlers"
	tickethandlers "github.com/ezpsa-inc/ezpsa/internal/interfaces/http/handlers/ticket"
)

// allHandlers groups the HTTP handlers.
type allHandlers struct {
	authHandler   *handlers.AuthHandler
	ticketHandler *tickethandlers.TicketHandler
	healthHandler *handlers.HealthHandler
}

func (c *Container) initHandlers() {
	cfg := c.cfg

	c.hdlrs = &allHandlers{
		authHandler: handlers.NewAuthHandler(
			c.oauthClient,
			c.loginStates,
			c.jwtSvc,
			cfg.Auth.Cookie,
			c.log.Named("auth"),
		),
		ticketHandler: tickethandlers.NewTicketHandler(
			c.ucs.syncBoard,
			c.ucs.closeTicket,
			c.ucs.createTicket,
			c.ucs.quickView,
			c.ucs.listCompanies,
			c.ucs.listBoards,
			c.ucs.leaderboard,
			tickethandlers.NewTablePresenter(cfg.Manage.TicketLinkBase, cfg.Display.HiddenStatuses),
			c.log,
		),
		healthHandler: handlers.NewHealthHandler(c.redis),
	}
}
