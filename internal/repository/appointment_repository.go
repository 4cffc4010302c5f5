package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/FedericoRamirez28/TurnWeb3-sub001/internal/model"
)

const dateLayout = "2006-01-02"

// AppointmentRepo provides persistence for bookings. Bookings are
// never physically deleted by this layer; lifecycle changes go
// through UpdateStatus and hiding is a presentation concern. All
// timestamp columns are stored in UTC.
type AppointmentRepo struct {
	db *sql.DB
}

// NewAppointmentRepo returns a new AppointmentRepo bound to the given database.
func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentColumns = `id, affiliate_id, sched_date, control_date, time_of_day, kind,
	specialty, laboratory, tier, provider, professional, amount,
	card_paid, card_amount, card_ref, note, status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }, a *model.Appointment) error {
	var schedDate, controlDate time.Time
	err := row.Scan(
		&a.ID, &a.AffiliateID, &schedDate, &controlDate, &a.TimeOfDay, &a.Kind,
		&a.Specialty, &a.Laboratory, &a.Tier, &a.Provider, &a.Professional, &a.Amount,
		&a.CardPaid, &a.CardAmount, &a.CardRef, &a.Note, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	a.Date = schedDate.Format(dateLayout)
	a.ControlDate = controlDate.Format(dateLayout)
	return nil
}

// Create inserts a new booking and populates the generated ID and
// timestamps on the provided record.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	const q = `INSERT INTO appointments
		(affiliate_id, sched_date, control_date, time_of_day, kind, specialty, laboratory,
		 tier, provider, professional, amount, card_paid, card_amount, card_ref, note, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		a.AffiliateID, a.Date, a.ControlDate, a.TimeOfDay, a.Kind, a.Specialty, a.Laboratory,
		a.Tier, a.Provider, a.Professional, a.Amount, a.CardPaid, a.CardAmount, a.CardRef,
		a.Note, a.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	return r.getByID(ctx, a.ID, a)
}

// Update rewrites every mutable field of an existing booking except
// its status, which only changes through UpdateStatus. It returns
// ErrNotFound when the id does not exist.
func (r *AppointmentRepo) Update(ctx context.Context, a *model.Appointment) error {
	const q = `UPDATE appointments SET
		affiliate_id = ?, sched_date = ?, control_date = ?, time_of_day = ?, kind = ?,
		specialty = ?, laboratory = ?, tier = ?, provider = ?, professional = ?,
		amount = ?, card_paid = ?, card_amount = ?, card_ref = ?, note = ?
		WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q,
		a.AffiliateID, a.Date, a.ControlDate, a.TimeOfDay, a.Kind,
		a.Specialty, a.Laboratory, a.Tier, a.Provider, a.Professional,
		a.Amount, a.CardPaid, a.CardAmount, a.CardRef, a.Note, a.ID,
	); err != nil {
		return err
	}
	return r.getByID(ctx, a.ID, a)
}

// GetByID fetches one booking or ErrNotFound.
func (r *AppointmentRepo) GetByID(ctx context.Context, id uint64) (*model.Appointment, error) {
	var a model.Appointment
	if err := r.getByID(ctx, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) getByID(ctx context.Context, id uint64, a *model.Appointment) error {
	const q = `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = ?`
	err := scanAppointment(r.db.QueryRowContext(ctx, q, id), a)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// List returns every booking ordered by scheduled date ascending,
// joined with the affiliate display name.
func (r *AppointmentRepo) List(ctx context.Context) ([]model.AppointmentDetail, error) {
	const q = `SELECT a.id, a.affiliate_id, a.sched_date, a.control_date, a.time_of_day, a.kind,
			a.specialty, a.laboratory, a.tier, a.provider, a.professional, a.amount,
			a.card_paid, a.card_amount, a.card_ref, a.note, a.status, a.created_at, a.updated_at,
			CONCAT(f.last_name, ', ', f.first_name) AS affiliate_name
		FROM appointments a
		JOIN affiliates f ON f.id = a.affiliate_id
		ORDER BY a.sched_date ASC, a.time_of_day ASC, a.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.AppointmentDetail{}
	for rows.Next() {
		var d model.AppointmentDetail
		var schedDate, controlDate time.Time
		if err := rows.Scan(
			&d.ID, &d.AffiliateID, &schedDate, &controlDate, &d.TimeOfDay, &d.Kind,
			&d.Specialty, &d.Laboratory, &d.Tier, &d.Provider, &d.Professional, &d.Amount,
			&d.CardPaid, &d.CardAmount, &d.CardRef, &d.Note, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.AffiliateName,
		); err != nil {
			return nil, err
		}
		d.Date = schedDate.Format(dateLayout)
		d.ControlDate = controlDate.Format(dateLayout)
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateStatus sets the booking's status. The transition guard lives
// in the service; here any value of the enum column is accepted. It
// returns ErrNotFound when the id does not exist.
func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uint64, status model.Status) error {
	const q = `UPDATE appointments SET status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListReceivedByDate returns the received-status bookings scheduled
// on the given calendar day (YYYY-MM-DD), joined with the affiliate
// fields the cash reconciliation needs, ordered by time of day.
func (r *AppointmentRepo) ListReceivedByDate(ctx context.Context, date string) ([]model.ReceivedBooking, error) {
	const q = `SELECT a.id, a.affiliate_id, a.sched_date, a.control_date, a.time_of_day, a.kind,
			a.specialty, a.laboratory, a.tier, a.provider, a.professional, a.amount,
			a.card_paid, a.card_amount, a.card_ref, a.note, a.status, a.created_at, a.updated_at,
			f.number, f.document, CONCAT(f.last_name, ', ', f.first_name) AS affiliate_name
		FROM appointments a
		JOIN affiliates f ON f.id = a.affiliate_id
		WHERE a.status = ? AND a.sched_date = ?
		ORDER BY a.time_of_day ASC, a.id ASC`
	rows, err := r.db.QueryContext(ctx, q, model.StatusReceived, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.ReceivedBooking{}
	for rows.Next() {
		var b model.ReceivedBooking
		var schedDate, controlDate time.Time
		if err := rows.Scan(
			&b.ID, &b.AffiliateID, &schedDate, &controlDate, &b.TimeOfDay, &b.Kind,
			&b.Specialty, &b.Laboratory, &b.Tier, &b.Provider, &b.Professional, &b.Amount,
			&b.CardPaid, &b.CardAmount, &b.CardRef, &b.Note, &b.Status, &b.CreatedAt, &b.UpdatedAt,
			&b.AffiliateNumber, &b.Document, &b.AffiliateName,
		); err != nil {
			return nil, err
		}
		b.Date = schedDate.Format(dateLayout)
		b.ControlDate = controlDate.Format(dateLayout)
		out = append(out, b)
	}
	return out, rows.Err()
}
