package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

// CashHandler exposes the daily reconciliation over HTTP.
type CashHandler struct {
	Svc *service.CashService
}

// NewCashHandler constructs the handler and panics on a nil service.
func NewCashHandler(svc *service.CashService) *CashHandler {
	if svc == nil {
		panic("nil service passed to NewCashHandler")
	}
	return &CashHandler{Svc: svc}
}

// State handles GET /v1/cash/state: today's live rows, yesterday
// (frozen when closed) and the historial.
func (h *CashHandler) State(c echo.Context) error {
	st, err := h.Svc.State(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Close handles POST /v1/cash/close. Closing twice or closing an
// empty day returns 409 with a specific message instead of a
// duplicate or empty snapshot. Both "date" and the older "dateISO"
// body keys are accepted.
func (h *CashHandler) Close(c echo.Context) error {
	var body struct {
		Date    string `json:"date"`
		DateISO string `json:"dateISO"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date := body.Date
	if date == "" {
		date = body.DateISO
	}
	closing, err := h.Svc.Close(c.Request().Context(), date)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, closing)
}

// ByDate handles GET /v1/cash/:date: the frozen closing when one
// exists, otherwise the live aggregation. Reading never closes.
func (h *CashHandler) ByDate(c echo.Context) error {
	day, err := h.Svc.ByDate(c.Request().Context(), c.Param("date"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, day)
}
