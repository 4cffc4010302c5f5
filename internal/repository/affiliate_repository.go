package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

// AffiliateRepo reads affiliate rows. Affiliate administration is
// handled by a separate system; this repository only supports the
// lookups the booking and cash flows need.
type AffiliateRepo struct {
	db *sql.DB
}

// NewAffiliateRepo returns a new AffiliateRepo bound to the given database.
func NewAffiliateRepo(db *sql.DB) *AffiliateRepo { return &AffiliateRepo{db: db} }

// GetByID fetches one affiliate. It returns ErrNotFound when the id
// does not exist.
func (r *AffiliateRepo) GetByID(ctx context.Context, id uint64) (*model.Affiliate, error) {
	const q = `SELECT id, number, document, last_name, first_name, tier, is_active
	           FROM affiliates WHERE id = ?`
	var a model.Affiliate
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.Number, &a.Document, &a.LastName, &a.Name, &a.Tier, &a.Active,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
