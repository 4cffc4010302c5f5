package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/metrics"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/queue"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// AppointmentStore is the persistence surface the appointment
// service needs.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	Update(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id uint64) (*model.Appointment, error)
	List(ctx context.Context) ([]model.AppointmentDetail, error)
	UpdateStatus(ctx context.Context, id uint64, status model.Status) error
}

// AffiliateStore resolves booking affiliate references.
type AffiliateStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Affiliate, error)
}

// Events is the audit stream the services publish to. Publish
// failures are logged by implementations and must never interrupt
// the request flow.
type Events interface {
	BookingStatusChanged(ctx context.Context, ev queue.BookingStatusEvent) error
	PricesAdjusted(ctx context.Context, ev queue.PricesAdjustedEvent) error
	CashClosed(ctx context.Context, ev queue.CashClosedEvent) error
}

// transitions is the booking lifecycle: pending -> taken -> received,
// with cancelled reachable from any non-terminal state. received and
// cancelled are terminal; in particular a cancelled booking cannot be
// received and can never feed the cash ledger.
var transitions = map[model.Status][]model.Status{
	model.StatusPending:   {model.StatusTaken, model.StatusCancelled},
	model.StatusTaken:     {model.StatusReceived, model.StatusCancelled},
	model.StatusReceived:  {},
	model.StatusCancelled: {},
}

func validStatus(s model.Status) bool {
	_, ok := transitions[s]
	return ok
}

// AppointmentInput carries the receptionist form fields for creating
// or editing a booking. A non-zero ID selects the update path.
type AppointmentInput struct {
	ID           uint64              `json:"id"`
	AffiliateID  uint64              `json:"affiliate_id"`
	Date         string              `json:"date"`
	ControlDate  string              `json:"control_date"`
	TimeOfDay    string              `json:"time"`
	Kind         model.AttentionKind `json:"kind"`
	Specialty    string              `json:"specialty"`
	Laboratory   string              `json:"laboratory"`
	Tier         model.Tier          `json:"tier"`
	Provider     string              `json:"provider"`
	Professional string              `json:"professional"`
	Amount       float64             `json:"amount"`
	CardPaid     bool                `json:"card_paid"`
	CardAmount   float64             `json:"card_amount"`
	CardRef      string              `json:"card_ref"`
	Note         string              `json:"note"`
	Status       model.Status        `json:"status"`
}

// AppointmentService owns the booking lifecycle. Amount resolution
// happens client-side against the cached price bundle; the service
// only clamps and persists the chosen numbers.
type AppointmentService struct {
	store      AppointmentStore
	affiliates AffiliateStore
	events     Events
	logger     zerolog.Logger
}

// NewAppointmentService wires the service with its stores, the audit
// stream and a logger.
func NewAppointmentService(store AppointmentStore, affiliates AffiliateStore, events Events, logger zerolog.Logger) *AppointmentService {
	return &AppointmentService{store: store, affiliates: affiliates, events: events, logger: logger}
}

// Save dispatches to Create or Update depending on whether the input
// carries an id. The combined entry point mirrors the receptionist
// form, which edits and creates through the same screen.
func (s *AppointmentService) Save(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	if in.ID != 0 {
		return s.Update(ctx, in)
	}
	return s.Create(ctx, in)
}

// Create validates the form and persists a new booking with the
// status supplied by the caller.
func (s *AppointmentService) Create(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	a, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if !validStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	a.Status = in.Status
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.IncBookingCreated(string(a.Status))
	s.logger.Info().Uint64("booking_id", a.ID).Str("date", a.Date).
		Str("kind", string(a.Kind)).Int64("amount", a.Amount).Msg("booking created")
	return a, nil
}

// Update rewrites an existing booking's form fields. The status is
// left untouched; it only moves through UpdateStatus.
func (s *AppointmentService) Update(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	current, err := s.store.GetByID(ctx, in.ID)
	if err != nil {
		return nil, mapNotFound(err, "booking")
	}
	a, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	a.ID = current.ID
	a.Status = current.Status
	if err := s.store.Update(ctx, a); err != nil {
		return nil, mapNotFound(err, "booking")
	}
	s.logger.Info().Uint64("booking_id", a.ID).Msg("booking updated")
	return a, nil
}

// build runs the shared validation and amount clamping for create
// and update.
func (s *AppointmentService) build(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	if in.AffiliateID == 0 {
		return nil, fmt.Errorf("%w: affiliate is required", ErrValidation)
	}
	if _, err := s.affiliates.GetByID(ctx, in.AffiliateID); err != nil {
		if err == repository.ErrNotFound {
			return nil, fmt.Errorf("%w: unknown affiliate %d", ErrValidation, in.AffiliateID)
		}
		return nil, err
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, in.Date)
	}
	controlDate := strings.TrimSpace(in.ControlDate)
	if controlDate == "" {
		controlDate = in.Date
	} else if _, err := time.Parse(dateLayout, controlDate); err != nil {
		return nil, fmt.Errorf("%w: invalid control date %q", ErrValidation, in.ControlDate)
	}
	if _, err := time.Parse(timeLayout, in.TimeOfDay); err != nil {
		return nil, fmt.Errorf("%w: invalid time %q", ErrValidation, in.TimeOfDay)
	}
	if !model.ValidTier(in.Tier) {
		return nil, fmt.Errorf("%w: unknown tier %q", ErrValidation, in.Tier)
	}

	specialty := strings.TrimSpace(in.Specialty)
	laboratory := strings.TrimSpace(in.Laboratory)
	a := &model.Appointment{
		AffiliateID:  in.AffiliateID,
		Date:         in.Date,
		ControlDate:  controlDate,
		TimeOfDay:    in.TimeOfDay,
		Kind:         in.Kind,
		Tier:         in.Tier,
		Provider:     strings.TrimSpace(in.Provider),
		Professional: strings.TrimSpace(in.Professional),
		CardPaid:     in.CardPaid,
		CardRef:      strings.TrimSpace(in.CardRef),
		Note:         in.Note,
	}
	switch in.Kind {
	case model.AttentionSpecialty:
		if specialty == "" {
			return nil, fmt.Errorf("%w: specialty name is required", ErrValidation)
		}
		if laboratory != "" {
			return nil, fmt.Errorf("%w: laboratory must be empty for a specialty booking", ErrValidation)
		}
		a.Specialty = &specialty
	case model.AttentionLaboratory:
		if laboratory == "" {
			return nil, fmt.Errorf("%w: laboratory name is required", ErrValidation)
		}
		if specialty != "" {
			return nil, fmt.Errorf("%w: specialty must be empty for a laboratory booking", ErrValidation)
		}
		a.Laboratory = &laboratory
	default:
		return nil, fmt.Errorf("%w: unknown attention kind %q", ErrValidation, in.Kind)
	}

	// Card settlements never enter the cash ledger: the cash amount
	// is zero whenever the booking is card-paid.
	if in.CardPaid {
		a.Amount = 0
	} else {
		a.Amount = clampAmount(in.Amount)
	}
	a.CardAmount = clampAmount(in.CardAmount)
	return a, nil
}

// List returns every booking, scheduled date ascending, joined with
// the affiliate display name.
func (s *AppointmentService) List(ctx context.Context) ([]model.AppointmentDetail, error) {
	return s.store.List(ctx)
}

// UpdateStatus moves a booking along the lifecycle. Disallowed edges
// return ErrInvalidTransition; the change is audited on success.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id uint64, next model.Status) (*model.Appointment, error) {
	if !validStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "booking")
	}
	if !allowed(current.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, mapNotFound(err, "booking")
	}
	metrics.IncStatusTransition(string(current.Status), string(next))
	if err := s.events.BookingStatusChanged(ctx, queue.BookingStatusEvent{
		BookingID: id,
		From:      string(current.Status),
		To:        string(next),
		At:        time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn().Err(err).Uint64("booking_id", id).Msg("audit publish failed")
	}
	current.Status = next
	return current, nil
}

func allowed(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// clampAmount rounds a caller-provided amount to the nearest integer
// currency unit and clamps it at zero.
func clampAmount(v float64) int64 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	return int64(r)
}

func mapNotFound(err error, what string) error {
	if err == repository.ErrNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
