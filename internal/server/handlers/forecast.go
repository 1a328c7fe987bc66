package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/darksky-forecast/internal/server/utils"
	"github.com/vzahanych/darksky-forecast/internal/service"
	"github.com/vzahanych/darksky-forecast/pkg/darksky"
	"go.uber.org/zap"
)

// CallRecorder receives one record per upstream forecast call.
type CallRecorder interface {
	RecordForecastCall(ctx context.Context, service string, success bool)
}

type ForecastHandler struct {
	service service.ForecastService
	metrics CallRecorder
	logger  *zap.Logger
}

func NewForecastHandler(svc service.ForecastService, metrics CallRecorder, logger *zap.Logger) *ForecastHandler {
	return &ForecastHandler{
		service: svc,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *ForecastHandler) GetForecast(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := utils.RequestLogger(c, h.logger)

	var req ForecastRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		reqLogger.Warn("Invalid request parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: err.Error(),
		})
		return
	}
	if verrs := utils.ValidateStruct(req); len(verrs) > 0 {
		reqLogger.Warn("Request validation failed", zap.Int("violations", len(verrs)))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request parameters",
			Code:    "INVALID_PARAMS",
			Details: verrs,
		})
		return
	}

	q := service.Query{
		Latitude:     strconv.FormatFloat(*req.Lat, 'f', -1, 64),
		Longitude:    strconv.FormatFloat(*req.Lon, 'f', -1, 64),
		Language:     req.Lang,
		Units:        req.Units,
		Exclude:      req.Exclude,
		ExtendHourly: req.Extend,
	}
	if req.Time != nil {
		at := time.Unix(*req.Time, 0)
		q.Time = &at
	}

	reqLogger.Info("Processing forecast request",
		zap.String("lat", q.Latitude),
		zap.String("lon", q.Longitude),
		zap.Bool("raw", req.Raw))

	if req.Raw {
		body, err := h.service.ForecastJSON(ctx, q)
		h.record(ctx, err)
		if err != nil {
			h.writeError(c, reqLogger, err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
		return
	}

	forecast, err := h.service.Forecast(ctx, q)
	h.record(ctx, err)
	if err != nil {
		h.writeError(c, reqLogger, err)
		return
	}

	reqLogger.Info("Forecast request completed successfully",
		zap.Int("alerts", len(forecast.Alerts)))

	c.JSON(http.StatusOK, forecast)
}

func (h *ForecastHandler) record(ctx context.Context, err error) {
	if h.metrics == nil {
		return
	}
	var fe *darksky.ForecastError
	if errors.As(err, &fe) && (fe.Kind == darksky.KindMissingParameter || fe.Kind == darksky.KindInvalidParameter) {
		return
	}
	h.metrics.RecordForecastCall(ctx, h.service.Name(), err == nil)
}

func (h *ForecastHandler) writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, code := StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Failed to get forecast", zap.Error(err))
	} else {
		logger.Warn("Rejected forecast request", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{
		Error:   "Failed to fetch forecast",
		Code:    code,
		Details: err.Error(),
	})
}

// StatusForError maps a darksky error kind onto a gateway status and error code.
func StatusForError(err error) (int, string) {
	var fe *darksky.ForecastError
	if !errors.As(err, &fe) {
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}

	switch fe.Kind {
	case darksky.KindMissingParameter, darksky.KindInvalidParameter:
		return http.StatusBadRequest, "INVALID_PARAMS"
	case darksky.KindInvalidURL:
		return http.StatusInternalServerError, "INVALID_URL"
	case darksky.KindFetchFailed:
		if fe.Status == 0 {
			return http.StatusGatewayTimeout, "UPSTREAM_UNAVAILABLE"
		}
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	case darksky.KindPrematureEOF:
		return http.StatusBadGateway, "UPSTREAM_TRUNCATED"
	case darksky.KindDecodeFailed:
		return http.StatusBadGateway, "UPSTREAM_MALFORMED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
