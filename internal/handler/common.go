package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

// writeServiceError maps domain errors onto distinct HTTP statuses:
// validation 400, not-found 404, conflicts (bad transitions, closing
// a closed or empty day) 409. Anything else is an opaque 500 so
// internals never leak to the client.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrAlreadyClosed),
		errors.Is(err, service.ErrNothingToClose):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
