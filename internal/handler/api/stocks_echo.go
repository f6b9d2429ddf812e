package api

import (
	"errors"
	"strings"
	"time"

	models "StockCast/internal/domain/models"
	"StockCast/internal/usecase"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksEchoHandler implements the Echo-based HTTP surface for forecasts,
// history, instrument info, and catalog lookup.
type StocksEchoHandler struct {
	logger     *xlogger.Logger
	forecaster *usecase.ForecastUseCase
	history    *usecase.HistoryUseCase
	info       *usecase.InfoUseCase
	catalog    *usecase.CatalogUseCase
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	forecaster *usecase.ForecastUseCase,
	history *usecase.HistoryUseCase,
	info *usecase.InfoUseCase,
	catalog *usecase.CatalogUseCase,
) *StocksEchoHandler {
	return &StocksEchoHandler{
		logger:     logger,
		forecaster: forecaster,
		history:    history,
		info:       info,
		catalog:    catalog,
	}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	g.GET("/predict/:ticker", h.Predict)
	g.GET("/history/:ticker", h.History)
	g.GET("/info/:ticker", h.Info)
	g.GET("/popular", h.Popular)
	g.GET("/search", h.Search)

	e.GET("/health", h.Health)
}

func (h *StocksEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := normalizeTicker(req.Ticker)

	res, err := h.forecaster.Predict(c.Request().Context(), ticker, req.Days, req.Strategy)
	if err != nil {
		return h.domainError(c, "predict", ticker, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := normalizeTicker(req.Ticker)

	res, err := h.history.History(c.Request().Context(), ticker, req.Timeframe, req.Period)
	if err != nil {
		return h.domainError(c, "history", ticker, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Info(c echo.Context) error {
	req := &models.InfoRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ticker := normalizeTicker(req.Ticker)

	res, err := h.info.Info(c.Request().Context(), ticker)
	if err != nil {
		return h.domainError(c, "info", ticker, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Popular(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.catalog.Popular())
}

func (h *StocksEchoHandler) Search(c echo.Context) error {
	req := &models.SearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.catalog.Search(c.Request().Context(), req.Query))
}

func (h *StocksEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
		"version":   "1.0.0",
	})
}

// domainError maps pipeline errors to API errors. Fit failures are logged in
// detail but surfaced generically.
func (h *StocksEchoHandler) domainError(c echo.Context, op, ticker string, err error) error {
	var noData *models.NoDataError
	if errors.As(err, &noData) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no data found for ticker %s", noData.Ticker).WithError(err))
	}

	var insufficient *models.InsufficientDataError
	if errors.As(err, &insufficient) {
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError(
			"ERR_INSUFFICIENT_DATA",
			insufficient.Error(),
		).WithError(err))
	}

	h.logger.Error(op+" usecase error",
		xlogger.String("ticker", ticker),
		xlogger.Error(err),
	)

	var fit *models.FitError
	if errors.As(err, &fit) {
		return xhttp.AppErrorResponse(c, xhttp.InternalError("prediction failed").WithError(err))
	}
	return xhttp.AppErrorResponse(c, err)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}
