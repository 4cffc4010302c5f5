package model

import "time"

// AttentionKind distinguishes what a booking is for: a specialty
// consultation or a laboratory test. Exactly one of the matching
// service-name fields on Appointment is populated.
type AttentionKind string

const (
	AttentionSpecialty  AttentionKind = "specialty"
	AttentionLaboratory AttentionKind = "laboratory"
)

// Status is the lifecycle state of a booking. Transitions are
// enforced by the appointment service; received and cancelled are
// terminal. Only received bookings feed the cash reconciliation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusTaken     Status = "taken"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Appointment records one scheduled clinical attention (a "turno")
// for an affiliate.  Monetary amounts are integer currency units.
// When CardPaid is true the cash Amount is forced to zero so card
// settlements never leak into the daily cash ledger.
//
// Fields:
//  ID           – primary key identifier.
//  AffiliateID  – affiliate receiving the attention.
//  Date         – scheduled date (YYYY-MM-DD).
//  ControlDate  – follow-up control date; defaults to Date when absent.
//  TimeOfDay    – scheduled time (HH:MM).
//  Kind         – specialty or laboratory.
//  Specialty    – specialty name, nil for laboratory bookings.
//  Laboratory   – laboratory name, nil for specialty bookings.
//  Tier         – affiliate price tier used when the amount was resolved.
//  Provider     – external clinic/lab fulfilling the attention.
//  Professional – attending professional's name.
//  Amount       – cash amount in integer currency units (0 when card-paid).
//  CardPaid     – settled by card/electronic payment.
//  CardAmount   – card amount in integer currency units.
//  CardRef      – external card payment reference.
//  Note         – free-text note.
//  Status       – lifecycle state.
type Appointment struct {
	ID           uint64        `json:"id"`
	AffiliateID  uint64        `json:"affiliate_id"`
	Date         string        `json:"date"`
	ControlDate  string        `json:"control_date"`
	TimeOfDay    string        `json:"time"`
	Kind         AttentionKind `json:"kind"`
	Specialty    *string       `json:"specialty"`
	Laboratory   *string       `json:"laboratory"`
	Tier         Tier          `json:"tier"`
	Provider     string        `json:"provider"`
	Professional string        `json:"professional"`
	Amount       int64         `json:"amount"`
	CardPaid     bool          `json:"card_paid"`
	CardAmount   int64         `json:"card_amount"`
	CardRef      string        `json:"card_ref"`
	Note         string        `json:"note"`
	Status       Status        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ServiceName returns the populated service name for the booking's
// attention kind.
func (a *Appointment) ServiceName() string {
	if a.Kind == AttentionLaboratory {
		if a.Laboratory != nil {
			return *a.Laboratory
		}
		return ""
	}
	if a.Specialty != nil {
		return *a.Specialty
	}
	return ""
}

// AppointmentDetail is an Appointment joined with the affiliate's
// display name for listings.
type AppointmentDetail struct {
	Appointment
	AffiliateName string `json:"affiliate_name"`
}

// ReceivedBooking is a received-status Appointment joined with the
// affiliate display fields the cash reconciliation needs.
type ReceivedBooking struct {
	Appointment
	AffiliateNumber string `json:"affiliate_number"`
	Document        string `json:"document"`
	AffiliateName   string `json:"affiliate_name"`
}
