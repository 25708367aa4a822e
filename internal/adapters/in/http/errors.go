package http

import (
	"errors"
	"net/http"

	"github.com/abhijeetraiiit/nccart/internal/core/application/trust"
	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/pkg/errs"
	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusOfError maps a use case error to its HTTP status. Anything unknown is a 500.
func statusOfError(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrOfferBelongsToAnotherPartner):
		return http.StatusForbidden
	case errors.Is(err, dispatch.ErrOfferIsNotPending),
		errors.Is(err, dispatch.ErrOfferDeadlinePassed),
		errors.Is(err, errs.ErrVersionConflict),
		errors.Is(err, trust.ErrRetriesExhausted),
		errors.Is(err, queue.ErrDispatchAlreadyQueued):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, queue.ErrQueueDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an Error body. Server errors are logged and their details
// are kept out of the response.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusOfError(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Error(err),
		)
		return c.JSON(code, Error{Code: code, Message: http.StatusText(code)})
	}
	return c.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
