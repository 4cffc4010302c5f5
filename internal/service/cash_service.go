package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/metrics"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/queue"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/repository"
)

// ReceivedLister yields the received bookings of one calendar day,
// joined with affiliate display fields.
type ReceivedLister interface {
	ListReceivedByDate(ctx context.Context, date string) ([]model.ReceivedBooking, error)
}

// ClosingStore persists the append-only historial of daily closings.
type ClosingStore interface {
	Create(ctx context.Context, c *model.CashClosing) error
	GetByDate(ctx context.Context, date string) (*model.CashClosing, error)
	ListSummaries(ctx context.Context) ([]model.ClosingSummary, error)
}

// CashService turns a day's received bookings into a verifiable,
// frozen cash total. "Today" and "yesterday" derive from the
// injected clock, never from ad-hoc wall time, so reconciliation is
// deterministic under test.
type CashService struct {
	bookings ReceivedLister
	closings ClosingStore
	now      func() time.Time
	events   Events
	logger   zerolog.Logger
}

// NewCashService wires the reconciliation engine. now is the current
// time source; production passes time.Now.
func NewCashService(bookings ReceivedLister, closings ClosingStore, now func() time.Time, events Events, logger zerolog.Logger) *CashService {
	return &CashService{bookings: bookings, closings: closings, now: now, events: events, logger: logger}
}

// State returns the reconciliation screen payload: today's live
// aggregation, yesterday (frozen if closed, live otherwise) and the
// historial newest first.
func (s *CashService) State(ctx context.Context) (*model.CashState, error) {
	now := s.now().UTC()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	todayDay, err := s.liveDay(ctx, today)
	if err != nil {
		return nil, err
	}
	yesterdayDay, err := s.dayFor(ctx, yesterday)
	if err != nil {
		return nil, err
	}
	historial, err := s.closings.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return &model.CashState{Today: *todayDay, Yesterday: *yesterdayDay, Historial: historial}, nil
}

// Close freezes the given date. It fails with ErrAlreadyClosed when a
// closing exists (including the concurrent-close race, resolved by
// the unique date key) and with ErrNothingToClose when the live
// aggregation is empty.
func (s *CashService) Close(ctx context.Context, date string) (*model.CashClosing, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	if _, err := s.closings.GetByDate(ctx, date); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyClosed, date)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	rows, err := s.liveRows(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNothingToClose, date)
	}
	closing := &model.CashClosing{
		Date:     date,
		Total:    sumRows(rows),
		Rows:     rows,
		ClosedAt: s.now().UTC(),
	}
	if err := s.closings.Create(ctx, closing); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyClosed, date)
		}
		return nil, err
	}
	metrics.IncCashClosing()
	s.logger.Info().Str("date", date).Int64("total", closing.Total).
		Int("rows", len(closing.Rows)).Msg("cash closed")
	if err := s.events.CashClosed(ctx, queue.CashClosedEvent{
		Date:     date,
		Total:    closing.Total,
		RowCount: len(closing.Rows),
		At:       closing.ClosedAt.Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn().Err(err).Str("date", date).Msg("audit publish failed")
	}
	return closing, nil
}

// ByDate returns the frozen closing for a date when one exists, else
// the live aggregation. Reading never creates a closing.
func (s *CashService) ByDate(ctx context.Context, date string) (*model.CashDay, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, date)
	}
	return s.dayFor(ctx, date)
}

// dayFor prefers the frozen snapshot over a re-aggregation, so edits
// made after closing never change a closed day's total.
func (s *CashService) dayFor(ctx context.Context, date string) (*model.CashDay, error) {
	closing, err := s.closings.GetByDate(ctx, date)
	if err == nil {
		return &model.CashDay{Date: closing.Date, Rows: closing.Rows, Total: closing.Total, Closed: true}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.liveDay(ctx, date)
}

func (s *CashService) liveDay(ctx context.Context, date string) (*model.CashDay, error) {
	rows, err := s.liveRows(ctx, date)
	if err != nil {
		return nil, err
	}
	return &model.CashDay{Date: date, Rows: rows, Total: sumRows(rows), Closed: false}, nil
}

// liveRows maps the day's received bookings to cash rows. The
// practica label is the laboratory name for laboratory attentions and
// the specialty name otherwise; the amount is the persisted cash
// amount, so card-paid bookings contribute zero.
func (s *CashService) liveRows(ctx context.Context, date string) ([]model.CashRow, error) {
	bookings, err := s.bookings.ListReceivedByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	rows := make([]model.CashRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, model.CashRow{
			Date:            b.Date,
			AffiliateNumber: b.AffiliateNumber,
			Document:        b.Document,
			AffiliateName:   b.AffiliateName,
			Provider:        b.Provider,
			Practice:        b.ServiceName(),
			Amount:          b.Amount,
		})
	}
	return rows, nil
}

func sumRows(rows []model.CashRow) int64 {
	var total int64
	for _, r := range rows {
		total += r.Amount
	}
	return total
}
