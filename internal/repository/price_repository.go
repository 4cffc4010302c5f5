package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

// PriceRepo provides access to the versioned price catalog. Rows are
// unique per (scope, name, tier); they are seeded once, repriced only
// through AdjustBulk and soft-deactivated instead of deleted.
type PriceRepo struct {
	db *sql.DB
}

// NewPriceRepo returns a new PriceRepo bound to the given database.
func NewPriceRepo(db *sql.DB) *PriceRepo { return &PriceRepo{db: db} }

const priceColumns = `id, scope, name, tier, amount, is_active, updated_at`

// List returns active rows matching the filters, ordered by scope,
// name, tier. TierAll and ScopeBoth widen their dimension to every
// value. A non-empty search is a substring match on the service name;
// the name column uses an accent- and case-insensitive collation so
// the comparison ignores case and diacritics.
func (r *PriceRepo) List(ctx context.Context, tier model.Tier, scope model.Scope, search string) ([]model.PriceEntry, error) {
	q := `SELECT ` + priceColumns + ` FROM prices WHERE is_active = 1`
	args := []any{}
	if tier != model.TierAll {
		q += ` AND tier = ?`
		args = append(args, tier)
	}
	if scope != model.ScopeBoth {
		q += ` AND scope = ?`
		args = append(args, scope)
	}
	if search != "" {
		q += ` AND name LIKE CONCAT('%', ?, '%')`
		args = append(args, search)
	}
	q += ` ORDER BY scope ASC, name ASC, tier ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

// ListActive returns every active row, used to assemble the bundle.
func (r *PriceRepo) ListActive(ctx context.Context) ([]model.PriceEntry, error) {
	const q = `SELECT ` + priceColumns + ` FROM prices WHERE is_active = 1`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPrices(rows)
}

func collectPrices(rows *sql.Rows) ([]model.PriceEntry, error) {
	out := []model.PriceEntry{}
	for rows.Next() {
		var p model.PriceEntry
		if err := rows.Scan(&p.ID, &p.Scope, &p.Name, &p.Tier, &p.Amount, &p.Active, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AdjustBulk multiplies the amount of every active row matching the
// filters by factor, rounding and clamping at zero, as one atomic
// conditional update. Concurrent adjusts therefore never interleave
// per row or compound on a partially updated catalog. It returns the
// number of rows touched.
func (r *PriceRepo) AdjustBulk(ctx context.Context, tier model.Tier, scope model.Scope, factor float64) (int64, error) {
	q := `UPDATE prices
		SET amount = GREATEST(0, ROUND(amount * ?)), updated_at = UTC_TIMESTAMP()
		WHERE is_active = 1`
	args := []any{factor}
	if tier != model.TierAll {
		q += ` AND tier = ?`
		args = append(args, tier)
	}
	if scope != model.ScopeBoth {
		q += ` AND scope = ?`
		args = append(args, scope)
	}
	result, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// MaxUpdatedAt returns the catalog's version stamp: the greatest
// updated_at across active rows, or the Unix epoch when none exist.
// Only active rows count so the stamp always matches the one embedded
// in the bundle, which is built from active rows; a deactivated row
// touching updated_at must not make the two poll targets diverge.
func (r *PriceRepo) MaxUpdatedAt(ctx context.Context) (time.Time, error) {
	const q = `SELECT COALESCE(MAX(updated_at), FROM_UNIXTIME(0)) FROM prices WHERE is_active = 1`
	var v time.Time
	if err := r.db.QueryRowContext(ctx, q).Scan(&v); err != nil {
		return time.Time{}, err
	}
	return v.UTC(), nil
}
