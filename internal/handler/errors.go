package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/repository"
	"orderflow/internal/service"
)

// httpError maps domain sentinels onto HTTP status codes; anything
// unrecognized falls through to echo's 500 handling.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrDuplicateReference):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrOrderNotPending):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrSubscriptionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrGatewayUnavailable):
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return err
}
