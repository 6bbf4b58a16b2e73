package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "mesto/internal/errors"
	"mesto/internal/logger"
)

const (
	msgRouteNotFound = "Запрашиваемый ресурс не найден"
	msgBadRequest    = "Переданы некорректные данные."
)

// NewErrorHandler renders every error as {"message": ...} with the mapped status.
// Internal failures are logged with their cause; clients only see the generic text.
func NewErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		appErr := toAppError(err)
		if appErr.Kind == apperrors.KindInternal {
			logger.FromContextOr(c.Request().Context(), log).Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(appErr.StatusCode())
		} else {
			writeErr = c.JSON(appErr.StatusCode(), appErr.ToErrorResponse())
		}
		if writeErr != nil {
			log.Warn("write error response", zap.Error(writeErr))
		}
	}
}

func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return apperrors.Internal(err)
	}

	switch he.Code {
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return apperrors.NotFound(msgRouteNotFound, err)
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return apperrors.BadRequest(msgBadRequest, err)
	case http.StatusUnauthorized:
		return apperrors.Unauthorized(apperrors.MsgAuthRequired, err)
	case http.StatusTooManyRequests:
		return apperrors.TooManyRequests(apperrors.MsgTooManyRequests)
	default:
		return apperrors.Internal(err)
	}
}
