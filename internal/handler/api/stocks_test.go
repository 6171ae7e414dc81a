package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/handler/api"
	xlogger "StockPulse/pkg/logger"
)

type stubService struct {
	data        *models.StockData
	analysis    *models.Analysis
	err         error
	invalidated []string
}

func (s *stubService) GetStockData(_ context.Context, symbol string) (*models.StockData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func (s *stubService) GetAnalysis(_ context.Context, symbol string) (*models.Analysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

func (s *stubService) InvalidateSymbol(_ context.Context, symbol string) error {
	s.invalidated = append(s.invalidated, symbol)
	return s.err
}

func setup(svc *stubService) *echo.Echo {
	e := echo.New()
	api.NewStocksHandler(xlogger.Nop(), svc, []string{"yahoo", "finnhub"}).RegisterRoutes(e)
	return e
}

func TestGetStockReturnsEnvelope(t *testing.T) {
	svc := &stubService{data: &models.StockData{
		Symbol:     "2330",
		Name:       "TSMC",
		Price:      625,
		History:    models.Series{{Date: "2025-03-12", Close: 625}},
		DataSource: "Yahoo Finance",
		Timestamp:  time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC),
	}}
	e := setup(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/2330", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int              `json:"status"`
		Data   models.StockData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusOK, body.Status)
	require.Equal(t, "2330", body.Data.Symbol)
	require.Equal(t, "Yahoo Finance", body.Data.DataSource)
}

func TestGetStockRejectsBadSymbol(t *testing.T) {
	e := setup(&stubService{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/23-30!", nil))

	var body struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusBadRequest, body.Status)
}

func TestGetAnalysis(t *testing.T) {
	svc := &stubService{analysis: &models.Analysis{
		Symbol:     "2330",
		Name:       "TSMC",
		Trend:      "Sideways consolidation: 0.5% over the past week.",
		Advice:     "No clear signal. Stay neutral; resistance near 656.25.",
		Risk:       "Low risk: daily volatility 1.2%.",
		DataSource: "Yahoo Finance",
	}}
	e := setup(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/2330/analysis", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int             `json:"status"`
		Data   models.Analysis `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusOK, body.Status)
	require.Contains(t, body.Data.Trend, "Sideways")
}

func TestGetStockServiceError(t *testing.T) {
	e := setup(&stubService{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stocks/2330", nil))

	var body struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusInternalServerError, body.Status)
}

func TestInvalidateCache(t *testing.T) {
	svc := &stubService{}
	e := setup(svc)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/stocks/2330/cache", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, []string{"2330"}, svc.invalidated)
}

func TestHealth(t *testing.T) {
	e := setup(&stubService{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}
