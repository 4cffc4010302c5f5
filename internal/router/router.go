// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/handler"
)

// RegisterRoutes registers the operational endpoints: a health check
// for load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAppointments mounts the appointment lifecycle under /v1.
func RegisterAppointments(e *echo.Echo, a *handler.AppointmentHandler) {
	g := e.Group("/v1/appointments")
	// List the full agenda, joined with affiliate names.
	g.GET("", a.List)
	// Save creates when the body carries no id and updates otherwise.
	g.POST("", a.Save)
	// Status changes go through the transition table; anything else is 409.
	g.PATCH("/:id/status", a.UpdateStatus)
}

// RegisterPrices mounts the price catalog under /v1. The GET routes
// are the hot path for price cache clients, so the caller may wrap
// them with the response cache middleware.
func RegisterPrices(e *echo.Echo, p *handler.PriceHandler, cacheMW ...echo.MiddlewareFunc) {
	g := e.Group("/v1/prices")
	g.GET("/rows", p.Rows, cacheMW...)
	g.GET("/bundle", p.Bundle, cacheMW...)
	g.GET("/version", p.Version, cacheMW...)
	g.POST("/adjust", p.Adjust)
}

// RegisterCash mounts the daily reconciliation under /v1.
func RegisterCash(e *echo.Echo, h *handler.CashHandler) {
	g := e.Group("/v1/cash")
	g.GET("/state", h.State)
	g.POST("/close", h.Close)
	g.GET("/:date", h.ByDate)
}
