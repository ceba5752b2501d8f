package usecases

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/dto"
	"github.com/ezpsa-inc/ezpsa/internal/domain/ticket"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
)

const (
	companyPageSize = 100
	boardPageSize   = 10
)

// ListCompaniesUseCase lists every upstream company by name. Concurrent
// requests share one upstream listing.
type ListCompaniesUseCase struct {
	reader ticket.DirectoryReader
	group  singleflight.Group
	logger logger.Interface
}

func NewListCompaniesUseCase(reader ticket.DirectoryReader, logger logger.Interface) *ListCompaniesUseCase {
	return &ListCompaniesUseCase{
		reader: reader,
		logger: logger,
	}
}

func (uc *ListCompaniesUseCase) Execute(ctx context.Context) ([]dto.CompanyDTO, error) {
	result, err, shared := uc.group.Do("companies", func() (any, error) {
		return collectPages(ctx, companyPageSize, uc.reader.ListCompanies)
	})
	if err != nil {
		uc.logger.Errorw("failed to list companies", "error", err)
		return nil, upstreamReadError("failed to list companies", err)
	}

	companies := result.([]ticket.Company)
	uc.logger.Debugw("listed companies", "count", len(companies), "shared", shared)
	return dto.ToCompanyDTOs(companies), nil
}

// ListBoardsUseCase lists every upstream service board.
type ListBoardsUseCase struct {
	reader ticket.DirectoryReader
	group  singleflight.Group
	logger logger.Interface
}

func NewListBoardsUseCase(reader ticket.DirectoryReader, logger logger.Interface) *ListBoardsUseCase {
	return &ListBoardsUseCase{
		reader: reader,
		logger: logger,
	}
}

func (uc *ListBoardsUseCase) Execute(ctx context.Context) ([]dto.BoardDTO, error) {
	result, err, shared := uc.group.Do("boards", func() (any, error) {
		return collectPages(ctx, boardPageSize, uc.reader.ListBoards)
	})
	if err != nil {
		uc.logger.Errorw("failed to list boards", "error", err)
		return nil, upstreamReadError("failed to list boards", err)
	}

	boards := result.([]ticket.Board)
	uc.logger.Debugw("listed boards", "count", len(boards), "shared", shared)
	return dto.ToBoardDTOs(boards), nil
}
