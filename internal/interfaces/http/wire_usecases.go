package http

import (
	"context"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/usecases"
	"github.com/ezpsa-inc/ezpsa/internal/infrastructure/scheduler"
	"github.com/ezpsa-inc/ezpsa/internal/shared/services/markdown"
)

// allUseCases groups the use cases shared by handlers and background jobs.
type allUseCases struct {
	syncBoard     *usecases.SyncBoardUseCase
	closeTicket   *usecases.CloseTicketUseCase
	createTicket  *usecases.CreateTicketUseCase
	quickView     *usecases.QuickViewUseCase
	listCompanies *usecases.ListCompaniesUseCase
	listBoards    *usecases.ListBoardsUseCase
	leaderboard   *usecases.LeaderboardUseCase
}

func (c *Container) initUseCases() {
	cfg := c.cfg
	log := c.log

	c.ucs = &allUseCases{
		syncBoard: usecases.NewSyncBoardUseCase(
			c.manageClient,
			c.boardCache,
			usecases.SyncSettings{
				PageSize:      cfg.Sync.PageSize,
				MaxPages:      cfg.Sync.MaxPages,
				RecencyWindow: cfg.Sync.RecencyWindow,
			},
			c.clock,
			log.Named("sync"),
		),
		closeTicket: usecases.NewCloseTicketUseCase(
			c.manageClient,
			cfg.Display.CloseStatusPrimary,
			cfg.Display.CloseStatusFallback,
			log,
		),
		createTicket:  usecases.NewCreateTicketUseCase(c.manageClient, log),
		quickView:     usecases.NewQuickViewUseCase(c.manageClient, markdown.NewRenderer(), log),
		listCompanies: usecases.NewListCompaniesUseCase(c.manageClient, log),
		listBoards:    usecases.NewListBoardsUseCase(c.manageClient, log),
		leaderboard:   usecases.NewLeaderboardUseCase(c.manageClient, c.leaderboardCache, log),
	}
}

// boardRefresher runs a partial sync for the scheduler. A board without a
// cache yet gets a full sync.
func (c *Container) boardRefresher() scheduler.BoardRefresher {
	return scheduler.BoardRefresherFunc(func(ctx context.Context, board string) (int, error) {
		result, err := c.ucs.syncBoard.Execute(ctx, usecases.SyncBoardCommand{Board: board, Partial: true})
		if err != nil {
			return 0, err
		}
		return result.Fetched, nil
	})
}
