package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

func sampleClosing() *model.CashClosing {
	return &model.CashClosing{
		Date:  "2026-08-30",
		Total: 2400,
		Rows: []model.CashRow{
			{Date: "2026-08-30", AffiliateNumber: "A-1", Document: "30123456", AffiliateName: "Perez, Ana", Provider: "Clinica Centro", Practice: "Cardiología", Amount: 1500},
			{Date: "2026-08-30", AffiliateNumber: "A-2", Document: "28987654", AffiliateName: "Diaz, Luis", Provider: "Clinica Centro", Practice: "Dermatología", Amount: 900},
		},
		ClosedAt: time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC),
	}
}

func TestCashCreateInsertsClosingAndRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCashRepo(db)
	c := sampleClosing()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO cash_closings (close_date, total, closed_at) VALUES (?, ?, ?)`)).
		WithArgs(c.Date, c.Total, c.ClosedAt).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO cash_closing_rows (closing_id, row_date, affiliate_number, document, affiliate_name, provider, practice, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?),(?, ?, ?, ?, ?, ?, ?, ?)`)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint64(5), c.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCashCreateDuplicateDateMapsToErrDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCashRepo(db)
	c := sampleClosing()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO cash_closings (close_date, total, closed_at) VALUES (?, ?, ?)`)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '2026-08-30' for key 'uq_cash_closings_date'"})
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Create(context.Background(), c), ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCashGetByDateNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCashRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, close_date, total, closed_at FROM cash_closings WHERE close_date = ?`)).
		WithArgs("2026-08-30").
		WillReturnRows(sqlmock.NewRows([]string{"id", "close_date", "total", "closed_at"}))

	_, err = repo.GetByDate(context.Background(), "2026-08-30")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCashGetByDateLoadsRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewCashRepo(db)

	closeDate := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	closedAt := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, close_date, total, closed_at FROM cash_closings WHERE close_date = ?`)).
		WithArgs("2026-08-30").
		WillReturnRows(sqlmock.NewRows([]string{"id", "close_date", "total", "closed_at"}).
			AddRow(5, closeDate, 1500, closedAt))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT row_date, affiliate_number, document, affiliate_name, provider, practice, amount FROM cash_closing_rows WHERE closing_id = ? ORDER BY id ASC`)).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"row_date", "affiliate_number", "document", "affiliate_name", "provider", "practice", "amount"}).
			AddRow(closeDate, "A-1", "30123456", "Perez, Ana", "Clinica Centro", "Cardiología", 1500))

	c, err := repo.GetByDate(context.Background(), "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", c.Date)
	require.Len(t, c.Rows, 1)
	assert.Equal(t, "2026-08-30", c.Rows[0].Date)
	assert.Equal(t, int64(1500), c.Rows[0].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
