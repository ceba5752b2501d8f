package usecases

import (
	"context"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/dto"
	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
)

type SyncBoardExecutor interface {
	Execute(ctx context.Context, cmd SyncBoardCommand) (*SyncBoardResult, error)
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type QuickViewExecutor interface {
	Execute(ctx context.Context, query QuickViewQuery) (*dto.QuickViewDTO, error)
}

type ListCompaniesExecutor interface {
	Execute(ctx context.Context) ([]dto.CompanyDTO, error)
}

type ListBoardsExecutor interface {
	Execute(ctx context.Context) ([]dto.BoardDTO, error)
}

type LeaderboardExecutor interface {
	Execute(ctx context.Context, query LeaderboardQuery) ([]dto.LeaderboardEntryDTO, error)
}

// LeaderboardCache stores computed leaderboards by year.
type LeaderboardCache interface {
	Get(ctx context.Context, year int) ([]ticket.MemberStats, bool, error)
	Set(ctx context.Context, year int, stats []ticket.MemberStats) error
}
