package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/queue"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/repository"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/service"
)

type stubReceivedLister struct{ rows []model.ReceivedBooking }

func (s *stubReceivedLister) ListReceivedByDate(ctx context.Context, date string) ([]model.ReceivedBooking, error) {
	return s.rows, nil
}

type stubClosingStore struct{ byDate map[string]*model.CashClosing }

func (s *stubClosingStore) Create(ctx context.Context, c *model.CashClosing) error {
	if _, ok := s.byDate[c.Date]; ok {
		return repository.ErrDuplicate
	}
	s.byDate[c.Date] = c
	return nil
}

func (s *stubClosingStore) GetByDate(ctx context.Context, date string) (*model.CashClosing, error) {
	c, ok := s.byDate[date]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (s *stubClosingStore) ListSummaries(ctx context.Context) ([]model.ClosingSummary, error) {
	return nil, nil
}

type stubEvents struct{}

func (stubEvents) BookingStatusChanged(ctx context.Context, ev queue.BookingStatusEvent) error {
	return nil
}
func (stubEvents) PricesAdjusted(ctx context.Context, ev queue.PricesAdjustedEvent) error { return nil }
func (stubEvents) CashClosed(ctx context.Context, ev queue.CashClosedEvent) error         { return nil }

func newCashTestHandler() *CashHandler {
	spe := "Cardiología"
	row := model.ReceivedBooking{AffiliateNumber: "A-1", Document: "30123456", AffiliateName: "Perez, Ana"}
	row.Date = "2026-08-30"
	row.Kind = model.AttentionSpecialty
	row.Specialty = &spe
	row.Amount = 1500
	row.Status = model.StatusReceived

	svc := service.NewCashService(
		&stubReceivedLister{rows: []model.ReceivedBooking{row}},
		&stubClosingStore{byDate: map[string]*model.CashClosing{}},
		func() time.Time { return time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC) },
		stubEvents{},
		zerolog.Nop(),
	)
	return NewCashHandler(svc)
}

func postClose(t *testing.T, h *CashHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/cash/close", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Close(e.NewContext(req, rec)))
	return rec
}

func TestCloseAcceptsBothDateKeys(t *testing.T) {
	rec := postClose(t, newCashTestHandler(), `{"date":"2026-08-30"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = postClose(t, newCashTestHandler(), `{"dateISO":"2026-08-30"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCloseConflictOnSecondAttempt(t *testing.T) {
	h := newCashTestHandler()
	assert.Equal(t, http.StatusCreated, postClose(t, h, `{"date":"2026-08-30"}`).Code)
	assert.Equal(t, http.StatusConflict, postClose(t, h, `{"dateISO":"2026-08-30"}`).Code)
}
