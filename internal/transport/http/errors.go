package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
	"github.com/light-bringer/procat-browse/internal/pkg/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// mapErrorToHTTP converts domain errors to HTTP status codes and messages.
func mapErrorToHTTP(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, http.StatusText(httpErr.Code)

	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "catalog temporarily unavailable"

	case errors.Is(err, domain.ErrUnknownReferenceKind):
		return http.StatusNotFound, "unknown reference list"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// errorHandler writes JSON error bodies and logs server errors.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, msg := mapErrorToHTTP(err)
	if code >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("request failed",
			zap.Int("status", code),
			zap.Error(err),
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, ErrorResponse{Error: msg})
	}
	if writeErr != nil {
		logger.FromEcho(c).Warn("failed to write error response", zap.Error(writeErr))
	}
}
