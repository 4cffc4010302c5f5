// Package queue defines the audit events exchanged over the message
// broker and the publisher/consumer pair that moves them.
package queue

// BookingStatusEvent is published whenever a booking moves along its
// lifecycle. It carries enough for downstream consumers to log or
// notify without querying the primary database.
type BookingStatusEvent struct {
	EventID   string `json:"event_id"`
	BookingID uint64 `json:"booking_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	At        string `json:"at"`
}

// PricesAdjustedEvent is published after a bulk percentage
// repricing of the catalog.
type PricesAdjustedEvent struct {
	EventID string  `json:"event_id"`
	Tier    string  `json:"tier"`
	Scope   string  `json:"scope"`
	Mode    string  `json:"mode"`
	Percent float64 `json:"percent"`
	Updated int64   `json:"updated"`
	At      string  `json:"at"`
}

// CashClosedEvent is published when a calendar day's cash is frozen.
type CashClosedEvent struct {
	EventID  string `json:"event_id"`
	Date     string `json:"date"`
	Total    int64  `json:"total"`
	RowCount int    `json:"row_count"`
	At       string `json:"at"`
}
