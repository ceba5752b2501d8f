package ticket

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ezpsa-inc/ezpsa/internal/application/ticket/usecases"
	"github.com/ezpsa-inc/ezpsa/internal/shared/errors"
	"github.com/ezpsa-inc/ezpsa/internal/shared/logger"
	"github.com/ezpsa-inc/ezpsa/internal/shared/utils"
)

type TicketHandler struct {
	syncBoardUC     usecases.SyncBoardExecutor
	closeTicketUC   usecases.CloseTicketExecutor
	createTicketUC  usecases.CreateTicketExecutor
	quickViewUC     usecases.QuickViewExecutor
	listCompaniesUC usecases.ListCompaniesExecutor
	listBoardsUC    usecases.ListBoardsExecutor
	leaderboardUC   usecases.LeaderboardExecutor
	presenter       *TablePresenter
	logger          logger.Interface
}

func NewTicketHandler(
	syncBoardUC usecases.SyncBoardExecutor,
	closeTicketUC usecases.CloseTicketExecutor,
	createTicketUC usecases.CreateTicketExecutor,
	quickViewUC usecases.QuickViewExecutor,
	listCompaniesUC usecases.ListCompaniesExecutor,
	listBoardsUC usecases.ListBoardsExecutor,
	leaderboardUC usecases.LeaderboardExecutor,
	presenter *TablePresenter,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		syncBoardUC:     syncBoardUC,
		closeTicketUC:   closeTicketUC,
		createTicketUC:  createTicketUC,
		quickViewUC:     quickViewUC,
		listCompaniesUC: listCompaniesUC,
		listBoardsUC:    listBoardsUC,
		leaderboardUC:   leaderboardUC,
		presenter:       presenter,
		logger:          logger,
	}
}

// GetTickets handles GET /api/getTickets?board=&partial=
// It syncs the board and returns the rendered ticket table.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	cmd := usecases.SyncBoardCommand{
		Board:   c.Query("board"),
		Partial: strings.EqualFold(c.Query("partial"), "true"),
	}

	result, err := h.syncBoardUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	html, err := h.presenter.Render(result.Entry)
	if err != nil {
		h.logger.Errorw("failed to render ticket table", "board", cmd.Board, "error", err)
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to render tickets"))
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// CloseTicket handles POST /api/closeTicket
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	var req CloseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for close ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("ticketId is required"))
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.closeTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket closed successfully", result)
}

// ListCompanies handles GET /api/newTicket
func (h *TicketHandler) ListCompanies(c *gin.Context) {
	companies, err := h.listCompaniesUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", companies)
}

// CreateTicket handles POST /api/newTicket
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd, err := req.ToCommand()
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket created successfully", result)
}

// QuickView handles GET /api/quickview?ticketId=
func (h *TicketHandler) QuickView(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("ticketId"))
	if raw == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("ticketId is required"))
		return
	}
	ticketID, err := strconv.Atoi(raw)
	if err != nil || ticketID <= 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid ticketId"))
		return
	}

	result, err := h.quickViewUC.Execute(c.Request.Context(), usecases.QuickViewQuery{TicketID: ticketID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetBoards handles GET /api/getBoards
func (h *TicketHandler) GetBoards(c *gin.Context) {
	boards, err := h.listBoardsUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", boards)
}

// Leaderboard handles GET /api/leaderboard?year=
func (h *TicketHandler) Leaderboard(c *gin.Context) {
	var query usecases.LeaderboardQuery
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid year"))
			return
		}
		query.Year = year
	}

	result, err := h.leaderboardUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
