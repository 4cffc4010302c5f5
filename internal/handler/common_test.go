package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"validation", fmt.Errorf("%w: invalid date", service.ErrValidation), http.StatusBadRequest, "validation failed: invalid date"},
		{"not found", fmt.Errorf("%w: booking", service.ErrNotFound), http.StatusNotFound, "not found: booking"},
		{"bad transition", fmt.Errorf("%w: received -> pending", service.ErrInvalidTransition), http.StatusConflict, "invalid status transition: received -> pending"},
		{"already closed", fmt.Errorf("%w: 2026-08-30", service.ErrAlreadyClosed), http.StatusConflict, "date already closed: 2026-08-30"},
		{"nothing to close", fmt.Errorf("%w: 2026-08-30", service.ErrNothingToClose), http.StatusConflict, "nothing to close: 2026-08-30"},
		{"internal", errors.New("driver: bad connection"), http.StatusInternalServerError, "database error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, writeServiceError(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.body), rec.Body.String())
		})
	}
}
