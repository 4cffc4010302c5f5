package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

func TestUpdateStatusMissingBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAppointmentRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE appointments SET status = ? WHERE id = ?`)).
		WithArgs(model.StatusTaken, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), 9, model.StatusTaken), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAffiliateGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewAffiliateRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, number, document, last_name, first_name, tier, is_active FROM affiliates WHERE id = ?`)).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "document", "last_name", "first_name", "tier", "is_active"}))

	_, err = repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
