package usecases

import (
	"context"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/dto"
	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/biztime"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

const timeEntryPageSize = 1000

type LeaderboardQuery struct {
	// Year defaults to the current year in the display timezone.
	Year int
}

// LeaderboardUseCase totals billable time per member for a calendar year.
type LeaderboardUseCase struct {
	reader ticket.TimeEntryReader
	cache  LeaderboardCache
	group  singleflight.Group
	logger logger.Interface
}

// NewLeaderboardUseCase creates the use case. cache may be nil.
func NewLeaderboardUseCase(reader ticket.TimeEntryReader, cache LeaderboardCache, logger logger.Interface) *LeaderboardUseCase {
	return &LeaderboardUseCase{
		reader: reader,
		cache:  cache,
		logger: logger,
	}
}

func (uc *LeaderboardUseCase) Execute(ctx context.Context, query LeaderboardQuery) ([]dto.LeaderboardEntryDTO, error) {
	year := query.Year
	if year == 0 {
		year = biztime.CurrentYear()
	}
	if year < 1 || year > 9998 {
		return nil, errors.NewValidationError("invalid year")
	}

	if uc.cache != nil {
		stats, ok, err := uc.cache.Get(ctx, year)
		if err != nil {
			uc.logger.Warnw("failed to read cached leaderboard", "year", year, "error", err)
		} else if ok {
			return dto.ToLeaderboardDTOs(stats), nil
		}
	}

	result, err, _ := uc.group.Do(strconv.Itoa(year), func() (any, error) {
		return uc.compute(ctx, year)
	})
	if err != nil {
		uc.logger.Errorw("failed to build leaderboard", "year", year, "error", err)
		return nil, upstreamReadError("failed to list time entries", err)
	}
	return dto.ToLeaderboardDTOs(result.([]ticket.MemberStats)), nil
}

func (uc *LeaderboardUseCase) compute(ctx context.Context, year int) ([]ticket.MemberStats, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	entries, err := collectPages(ctx, timeEntryPageSize, func(ctx context.Context, pageSize, page int) ([]ticket.TimeEntry, error) {
		return uc.reader.ListTimeEntriesEntered(ctx, from, to, pageSize, page)
	})
	if err != nil {
		return nil, err
	}

	stats := ticket.Leaderboard(entries)
	uc.logger.Infow("leaderboard built", "year", year, "entries", len(entries), "members", len(stats))

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, year, stats); err != nil {
			uc.logger.Warnw("failed to cache leaderboard", "year", year, "error", err)
		}
	}
	return stats, nil
}
