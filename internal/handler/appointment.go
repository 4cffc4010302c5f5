package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

// AppointmentHandler exposes the booking lifecycle over HTTP.
type AppointmentHandler struct {
	Svc *service.AppointmentService
}

// NewAppointmentHandler constructs the handler and panics on a nil service.
func NewAppointmentHandler(svc *service.AppointmentService) *AppointmentHandler {
	if svc == nil {
		panic("nil service passed to NewAppointmentHandler")
	}
	return &AppointmentHandler{Svc: svc}
}

// List handles GET /v1/appointments. It returns every booking
// ordered by scheduled date, each joined with the affiliate name.
func (h *AppointmentHandler) List(c echo.Context) error {
	items, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Save handles POST /v1/appointments. A body without an id creates a
// booking; a body carrying one updates it, which is how editing from
// the reception screen works.
func (h *AppointmentHandler) Save(c echo.Context) error {
	var in service.AppointmentInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	created := in.ID == 0
	a, err := h.Svc.Save(c.Request().Context(), in)
	if err != nil {
		return writeServiceError(c, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, a)
}

// UpdateStatus handles PATCH /v1/appointments/:id/status. Disallowed
// lifecycle edges come back as 409.
func (h *AppointmentHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var body struct {
		Status model.Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	a, err := h.Svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
