package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

// PriceHandler exposes the price catalog over HTTP.
type PriceHandler struct {
	Svc *service.PriceService
}

// NewPriceHandler constructs the handler and panics on a nil service.
func NewPriceHandler(svc *service.PriceService) *PriceHandler {
	if svc == nil {
		panic("nil service passed to NewPriceHandler")
	}
	return &PriceHandler{Svc: svc}
}

// Rows handles GET /v1/prices/rows?plan=&scope=&q=. Missing filters
// default to the widening sentinels (plan ALL, scope both).
func (h *PriceHandler) Rows(c echo.Context) error {
	tier := model.Tier(c.QueryParam("plan"))
	if tier == "" {
		tier = model.TierAll
	}
	scope := model.Scope(c.QueryParam("scope"))
	if scope == "" {
		scope = model.ScopeBoth
	}
	rows, err := h.Svc.ListRows(c.Request().Context(), tier, scope, c.QueryParam("q"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rows})
}

// Adjust handles POST /v1/prices/adjust: one atomic percentage
// repricing over the rows matching the filters.
func (h *PriceHandler) Adjust(c echo.Context) error {
	var body struct {
		Plan    model.Tier  `json:"plan"`
		Scope   model.Scope `json:"scope"`
		Mode    string      `json:"mode"`
		Percent float64     `json:"percent"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	updated, err := h.Svc.Adjust(c.Request().Context(), body.Plan, body.Scope, body.Mode, body.Percent)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": updated})
}

// Bundle handles GET /v1/prices/bundle: the full snapshot shaped for
// client-side lookup.
func (h *PriceHandler) Bundle(c echo.Context) error {
	b, err := h.Svc.Bundle(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Version handles GET /v1/prices/version: the catalog version stamp
// only, so cache clients can poll cheaply.
func (h *PriceHandler) Version(c echo.Context) error {
	v, err := h.Svc.Version(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated_at": v})
}
