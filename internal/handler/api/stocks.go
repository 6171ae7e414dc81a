package api

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"StockPulse/internal/domain/models"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
)

// StockService is the slice of the use case the HTTP layer needs.
type StockService interface {
	GetStockData(ctx context.Context, symbol string) (*models.StockData, error)
	GetAnalysis(ctx context.Context, symbol string) (*models.Analysis, error)
	InvalidateSymbol(ctx context.Context, symbol string) error
}

// StocksHandler serves the stock data and analysis endpoints.
type StocksHandler struct {
	logger    *xlogger.Logger
	stocks    StockService
	providers []string
	startedAt time.Time
}

func NewStocksHandler(logger *xlogger.Logger, stocks StockService, providers []string) *StocksHandler {
	return &StocksHandler{
		logger:    logger,
		stocks:    stocks,
		providers: providers,
		startedAt: time.Now(),
	}
}

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	g.GET("/:symbol", h.GetStock)
	g.GET("/:symbol/analysis", h.GetAnalysis)
	g.DELETE("/:symbol/cache", h.InvalidateCache)

	e.GET("/health", h.Health)
}

type symbolRequest struct {
	Symbol string `param:"symbol" validate:"required,alphanum,max=10"`
}

// GetStock returns the quote + history for a symbol. The provider chain ends
// in the synthetic generator, so this fails only on cancellation.
func (h *StocksHandler) GetStock(c echo.Context) error {
	req := &symbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	data, err := h.stocks.GetStockData(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		h.logger.Error("get stock failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, data)
}

// GetAnalysis returns indicator overlays and narrative text for a symbol.
func (h *StocksHandler) GetAnalysis(c echo.Context) error {
	req := &symbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	analysis, err := h.stocks.GetAnalysis(c.Request().Context(), req.Symbol)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		h.logger.Error("get analysis failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, analysis)
}

// InvalidateCache drops the cached entry for a symbol.
func (h *StocksHandler) InvalidateCache(c echo.Context) error {
	req := &symbolRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.stocks.InvalidateSymbol(c.Request().Context(), req.Symbol); err != nil {
		h.logger.Error("invalidate cache failed",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.NoContentResponse(c)
}

// Health reports process liveness, uptime, and the configured vendor order.
func (h *StocksHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":    "ok",
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"providers": h.providers,
	})
}
