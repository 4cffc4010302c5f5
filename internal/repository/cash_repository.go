package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

// CashRepo persists daily cash closings and their frozen rows.
// Closings are append-only: the cash_closings table carries a unique
// key on close_date, so two concurrent attempts to close the same day
// resolve to exactly one inserted snapshot and one ErrDuplicate.
type CashRepo struct {
	db *sql.DB
}

// NewCashRepo returns a new CashRepo bound to the given database.
func NewCashRepo(db *sql.DB) *CashRepo { return &CashRepo{db: db} }

// mysqlDuplicateEntry is the server error number for unique-key violations.
const mysqlDuplicateEntry = 1062

// Create inserts a closing and its rows in one transaction. The
// caller supplies Date, Total, Rows and ClosedAt; the generated ID is
// populated on the record. A second closing for the same date returns
// ErrDuplicate.
func (r *CashRepo) Create(ctx context.Context, c *model.CashClosing) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const ins = `INSERT INTO cash_closings (close_date, total, closed_at) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins, c.Date, c.Total, c.ClosedAt.UTC())
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	if len(c.Rows) > 0 {
		q := `INSERT INTO cash_closing_rows
			(closing_id, row_date, affiliate_number, document, affiliate_name, provider, practice, amount) VALUES `
		args := make([]any, 0, len(c.Rows)*8)
		for i, row := range c.Rows {
			if i > 0 {
				q += ","
			}
			q += "(?, ?, ?, ?, ?, ?, ?, ?)"
			args = append(args, c.ID, row.Date, row.AffiliateNumber, row.Document,
				row.AffiliateName, row.Provider, row.Practice, row.Amount)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByDate loads the frozen closing for a calendar day, rows
// included, or ErrNotFound when the day has not been closed.
func (r *CashRepo) GetByDate(ctx context.Context, date string) (*model.CashClosing, error) {
	const q = `SELECT id, close_date, total, closed_at FROM cash_closings WHERE close_date = ?`
	var c model.CashClosing
	var closeDate time.Time
	err := r.db.QueryRowContext(ctx, q, date).Scan(&c.ID, &closeDate, &c.Total, &c.ClosedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Date = closeDate.Format(dateLayout)

	const qr = `SELECT row_date, affiliate_number, document, affiliate_name, provider, practice, amount
		FROM cash_closing_rows WHERE closing_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, qr, c.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Rows = []model.CashRow{}
	for rows.Next() {
		var row model.CashRow
		var rowDate time.Time
		if err := rows.Scan(&rowDate, &row.AffiliateNumber, &row.Document,
			&row.AffiliateName, &row.Provider, &row.Practice, &row.Amount); err != nil {
			return nil, err
		}
		row.Date = rowDate.Format(dateLayout)
		c.Rows = append(c.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListSummaries returns the historial: (date, total) for every
// closing, most recent first.
func (r *CashRepo) ListSummaries(ctx context.Context) ([]model.ClosingSummary, error) {
	const q = `SELECT close_date, total FROM cash_closings ORDER BY close_date DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ClosingSummary{}
	for rows.Next() {
		var s model.ClosingSummary
		var closeDate time.Time
		if err := rows.Scan(&closeDate, &s.Total); err != nil {
			return nil, err
		}
		s.Date = closeDate.Format(dateLayout)
		out = append(out, s)
	}
	return out, rows.Err()
}
