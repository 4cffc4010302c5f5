package model

import "time"

// CashRow is one reconciled cash line derived from a received
// booking. Rows are not persisted on their own; they live either in
// a live aggregation or frozen inside a CashClosing.
type CashRow struct {
	Date            string `json:"date"`
	AffiliateNumber string `json:"affiliate_number"`
	Document        string `json:"document"`
	AffiliateName   string `json:"affiliate_name"`
	Provider        string `json:"provider"`
	Practice        string `json:"practice"`
	Amount          int64  `json:"amount"`
}

// CashClosing is the immutable snapshot of one calendar day's cash
// rows. Closings are append-only and keyed uniquely by Date; once a
// day is closed, later edits to its bookings never change the total.
type CashClosing struct {
	ID       uint64    `json:"id"`
	Date     string    `json:"date"`
	Total    int64     `json:"total"`
	Rows     []CashRow `json:"rows"`
	ClosedAt time.Time `json:"closed_at"`
}

// CashDay is a day's view for the reconciliation screen: either a
// live aggregation (Closed false) or a frozen closing (Closed true).
type CashDay struct {
	Date   string    `json:"date"`
	Rows   []CashRow `json:"rows"`
	Total  int64     `json:"total"`
	Closed bool      `json:"closed"`
}

// ClosingSummary is one historial line.
type ClosingSummary struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// CashState is the full reconciliation screen payload.
type CashState struct {
	Today     CashDay          `json:"today"`
	Yesterday CashDay          `json:"yesterday"`
	Historial []ClosingSummary `json:"historial"`
}
