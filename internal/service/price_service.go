package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/metrics"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/queue"
)

// Adjustment modes accepted by Adjust.
const (
	ModeIncrease = "increase"
	ModeDecrease = "decrease"
)

// PriceStore is the persistence surface the price catalog needs.
type PriceStore interface {
	List(ctx context.Context, tier model.Tier, scope model.Scope, search string) ([]model.PriceEntry, error)
	ListActive(ctx context.Context) ([]model.PriceEntry, error)
	AdjustBulk(ctx context.Context, tier model.Tier, scope model.Scope, factor float64) (int64, error)
	MaxUpdatedAt(ctx context.Context) (time.Time, error)
}

// PriceService exposes query, bulk repricing and snapshot operations
// over the versioned catalog.
type PriceService struct {
	store  PriceStore
	events Events
	logger zerolog.Logger
}

// NewPriceService wires the service with its store, the audit stream
// and a logger.
func NewPriceService(store PriceStore, events Events, logger zerolog.Logger) *PriceService {
	return &PriceService{store: store, events: events, logger: logger}
}

// ListRows returns active rows for the given filters, ordered by
// scope, name, tier. Tier ALL and scope "both" widen their dimension.
func (s *PriceService) ListRows(ctx context.Context, tier model.Tier, scope model.Scope, search string) ([]model.PriceEntry, error) {
	if err := validateFilters(tier, scope); err != nil {
		return nil, err
	}
	return s.store.List(ctx, tier, scope, strings.TrimSpace(search))
}

// Adjust applies a percentage repricing to every active row matching
// the filters as one atomic bulk update and returns the number of
// rows touched. Percent must be in (0, 200].
func (s *PriceService) Adjust(ctx context.Context, tier model.Tier, scope model.Scope, mode string, percent float64) (int64, error) {
	if err := validateFilters(tier, scope); err != nil {
		return 0, err
	}
	if percent <= 0 || percent > 200 {
		return 0, fmt.Errorf("%w: percent must be in (0, 200], got %v", ErrValidation, percent)
	}
	var factor float64
	switch mode {
	case ModeIncrease:
		factor = 1 + percent/100
	case ModeDecrease:
		factor = 1 - percent/100
	default:
		return 0, fmt.Errorf("%w: unknown mode %q", ErrValidation, mode)
	}
	updated, err := s.store.AdjustBulk(ctx, tier, scope, factor)
	if err != nil {
		return 0, err
	}
	metrics.IncPriceAdjustment(mode)
	s.logger.Info().Str("tier", string(tier)).Str("scope", string(scope)).
		Str("mode", mode).Float64("percent", percent).Int64("updated", updated).
		Msg("catalog repriced")
	if err := s.events.PricesAdjusted(ctx, queue.PricesAdjustedEvent{
		Tier:    string(tier),
		Scope:   string(scope),
		Mode:    mode,
		Percent: percent,
		Updated: updated,
		At:      time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.Warn().Err(err).Msg("audit publish failed")
	}
	return updated, nil
}

// Bundle loads all active rows and assembles the client snapshot.
func (s *PriceService) Bundle(ctx context.Context) (*model.PriceBundle, error) {
	rows, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return model.BuildPriceBundle(rows), nil
}

// Version returns only the catalog version stamp, a cheap poll
// target for clients deciding whether to refetch the full bundle.
func (s *PriceService) Version(ctx context.Context) (time.Time, error) {
	return s.store.MaxUpdatedAt(ctx)
}

func validateFilters(tier model.Tier, scope model.Scope) error {
	if tier != model.TierAll && !model.ValidTier(tier) {
		return fmt.Errorf("%w: unknown tier %q", ErrValidation, tier)
	}
	switch scope {
	case model.ScopeLaboratory, model.ScopeSpecialty, model.ScopeBoth:
		return nil
	}
	return fmt.Errorf("%w: unknown scope %q", ErrValidation, scope)
}
