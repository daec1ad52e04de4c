package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/epeers/watchlist/internal/middleware"
	"github.com/epeers/watchlist/internal/models"
	"github.com/epeers/watchlist/internal/services"
	"github.com/gin-gonic/gin"
)

// PortfolioManager is the lifecycle the portfolio endpoints drive
type PortfolioManager interface {
	CreatePortfolio(ctx context.Context, username string, req *models.CreatePortfolioRequest) (*models.PortfolioSummary, []models.IngestOutcome, error)
	ListPortfolios(ctx context.Context, username string) ([]models.PortfolioListItem, error)
	GetSummary(ctx context.Context, username, name string) (*models.PortfolioSummary, error)
	AddTickers(ctx context.Context, username, name string, tickers []string) (models.ChangeResult, error)
	RemoveTickers(ctx context.Context, username, name string, tickers []string) (models.ChangeResult, error)
	UpdateWindow(ctx context.Context, username, name, startDate, endDate string) (models.ChangeResult, []models.IngestOutcome, error)
	RefreshPortfolio(ctx context.Context, username, name string) ([]models.IngestOutcome, error)
	TickerStats(ctx context.Context, username, name string) ([]models.TickerStats, error)
	GetSeries(ctx context.Context, username, name, ticker string, limit int) ([]models.TimeSeriesPoint, error)
	DeletePortfolio(ctx context.Context, username, name string) error
}

// PortfolioHandler handles portfolio endpoints. Every route runs behind
// BasicAuth, so the username always comes from the context.
type PortfolioHandler struct {
	portfolioSvc PortfolioManager
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioSvc PortfolioManager) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioSvc: portfolioSvc,
	}
}

// List handles GET /portfolios
// @Summary List portfolios
// @Description Get the caller's portfolios, most recently edited first
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Success 200 {object} models.PortfolioListResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios [get]
func (h *PortfolioHandler) List(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	portfolios, err := h.portfolioSvc.ListPortfolios(c.Request.Context(), username)
	if err != nil {
		respondError(c, err)
		return
	}

	// Return empty array if no portfolios
	if portfolios == nil {
		portfolios = []models.PortfolioListItem{}
	}

	c.JSON(http.StatusOK, models.PortfolioListResponse{Portfolios: portfolios})
}

// Create handles POST /portfolios
// @Summary Create a portfolio
// @Description Create a portfolio and fetch its initial window. Fetch failures are warnings; the portfolio is kept.
// @Tags portfolios
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param request body models.CreatePortfolioRequest true "Portfolio definition"
// @Success 201 {object} models.CreatePortfolioResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios [post]
func (h *PortfolioHandler) Create(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	var req models.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	summary, outcomes, err := h.portfolioSvc.CreatePortfolio(ctx, username, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreatePortfolioResponse{
		Portfolio: *summary,
		Ingest:    outcomes,
		Warnings:  wc.GetWarnings(),
	})
}

// Get handles GET /portfolios/:name
// @Summary Get a portfolio
// @Description Metadata, members and the operations the portfolio currently permits
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Success 200 {object} models.PortfolioSummary
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios/{name} [get]
func (h *PortfolioHandler) Get(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	summary, err := h.portfolioSvc.GetSummary(c.Request.Context(), username, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Delete handles DELETE /portfolios/:name
// @Summary Delete a portfolio
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios/{name} [delete]
func (h *PortfolioHandler) Delete(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	if err := h.portfolioSvc.DeletePortfolio(c.Request.Context(), username, c.Param("name")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "portfolio deleted"})
}

// AddTickers handles POST /portfolios/:name/tickers
// @Summary Add tickers
// @Description Add members to a mutable portfolio. Read-only portfolios answer 409 with outcome rejected_readonly.
// @Tags portfolios
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Param request body models.TickersRequest true "Tickers to add"
// @Success 200 {object} models.ChangeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ChangeResponse
// @Router /portfolios/{name}/tickers [post]
func (h *PortfolioHandler) AddTickers(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	var req models.TickersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.portfolioSvc.AddTickers(ctx, username, c.Param("name"), req.Tickers)
	if err != nil {
		respondError(c, err)
		return
	}

	respondChange(c, result, nil, wc)
}

// RemoveTickers handles DELETE /portfolios/:name/tickers
// @Summary Remove tickers
// @Description Remove members. Allowed on read-only portfolios; absent tickers are reported as warnings.
// @Tags portfolios
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Param request body models.TickersRequest true "Tickers to remove"
// @Success 200 {object} models.ChangeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /portfolios/{name}/tickers [delete]
func (h *PortfolioHandler) RemoveTickers(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	var req models.TickersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, err := h.portfolioSvc.RemoveTickers(ctx, username, c.Param("name"), req.Tickers)
	if err != nil {
		respondError(c, err)
		return
	}

	respondChange(c, result, nil, wc)
}

// UpdateWindow handles PUT /portfolios/:name/window
// @Summary Change an interday window
// @Description Move the date window of a mutable interday portfolio and fetch the new range
// @Tags portfolios
// @Accept json
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Param request body models.UpdateWindowRequest true "New window"
// @Success 200 {object} models.ChangeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ChangeResponse
// @Router /portfolios/{name}/window [put]
func (h *PortfolioHandler) UpdateWindow(c *gin.Context) {
	username, _ := middleware.GetUsername(c)

	var req models.UpdateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, wc := services.NewWarningContext(c.Request.Context())
	result, outcomes, err := h.portfolioSvc.UpdateWindow(ctx, username, c.Param("name"), req.StartDate, req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	respondChange(c, result, outcomes, wc)
}

// Refresh handles POST /portfolios/:name/refresh
// @Summary Refresh a portfolio
// @Description Fetch the portfolio's window for every member and store points not yet cached
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Success 200 {object} models.RefreshResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios/{name}/refresh [post]
func (h *PortfolioHandler) Refresh(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	name := c.Param("name")

	ctx, wc := services.NewWarningContext(c.Request.Context())
	outcomes, err := h.portfolioSvc.RefreshPortfolio(ctx, username, name)
	if err != nil {
		respondError(c, err)
		return
	}

	inserted := 0
	for _, o := range outcomes {
		inserted += o.Inserted
	}

	c.JSON(http.StatusOK, models.RefreshResponse{
		Portfolio: name,
		Ingest:    outcomes,
		Inserted:  inserted,
		Warnings:  wc.GetWarnings(),
	})
}

// Stats handles GET /portfolios/:name/stats
// @Summary Ticker statistics
// @Description Per-ticker point count, date range and close statistics over cached points
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Success 200 {object} models.StatsResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /portfolios/{name}/stats [get]
func (h *PortfolioHandler) Stats(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	name := c.Param("name")

	stats, err := h.portfolioSvc.TickerStats(c.Request.Context(), username, name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StatsResponse{Portfolio: name, Stats: stats})
}

// Series handles GET /portfolios/:name/series/:ticker
// @Summary Cached series for one ticker
// @Description Points for a member ticker within the portfolio window, newest first
// @Tags portfolios
// @Produce json
// @Security BasicAuth
// @Param name path string true "Portfolio name"
// @Param ticker path string true "Ticker symbol"
// @Param limit query int false "Maximum number of points"
// @Success 200 {object} models.SeriesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /portfolios/{name}/series/{ticker} [get]
func (h *PortfolioHandler) Series(c *gin.Context) {
	username, _ := middleware.GetUsername(c)
	name := c.Param("name")

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	points, err := h.portfolioSvc.GetSeries(c.Request.Context(), username, name, c.Param("ticker"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if points == nil {
		points = []models.TimeSeriesPoint{}
	}

	ticker := c.Param("ticker")
	if len(points) > 0 {
		ticker = points[0].Ticker
	}

	c.JSON(http.StatusOK, models.SeriesResponse{
		Portfolio:  name,
		Ticker:     ticker,
		DataPoints: len(points),
		Points:     points,
	})
}

// respondChange answers 409 for a refused change, 200 otherwise
func respondChange(c *gin.Context, result models.ChangeResult, outcomes []models.IngestOutcome, wc *services.WarningCollector) {
	status := http.StatusOK
	if result.Rejected() {
		status = http.StatusConflict
	}
	c.JSON(status, models.ChangeResponse{
		Result:   result,
		Ingest:   outcomes,
		Warnings: wc.GetWarnings(),
	})
}
