package model

import (
	"sort"
	"time"
)

// Scope says whether a price applies to laboratory tests or
// specialty consultations.
type Scope string

const (
	ScopeLaboratory Scope = "laboratory"
	ScopeSpecialty  Scope = "specialty"

	// ScopeBoth is a filter sentinel accepted by list/adjust
	// operations, never stored on a row.
	ScopeBoth Scope = "both"
)

// Tier is the affiliate pricing category. The set is closed; TierAll
// is a filter sentinel accepted by list/adjust operations.
type Tier string

const (
	TierBase    Tier = "BASE"
	Tier2       Tier = "TIER2"
	Tier3       Tier = "TIER3"
	Tier4       Tier = "TIER4"
	TierPrivate Tier = "PRIVATE"

	TierAll Tier = "ALL"
)

// Tiers lists every storable tier in catalog order.
var Tiers = []Tier{TierBase, Tier2, Tier3, Tier4, TierPrivate}

// ValidTier reports whether t is a storable tier (the ALL sentinel
// is not).
func ValidTier(t Tier) bool {
	for _, v := range Tiers {
		if v == t {
			return true
		}
	}
	return false
}

// PriceEntry is one price point of the catalog, unique per
// (scope, name, tier). Rows are never deleted, only soft-deactivated.
//
// Fields:
//  ID        – primary key identifier.
//  Scope     – laboratory or specialty.
//  Name      – service name.
//  Tier      – pricing tier.
//  Amount    – price in integer currency units, always >= 0.
//  Active    – soft-delete flag.
//  UpdatedAt – last modification timestamp (UTC).
type PriceEntry struct {
	ID        uint64    `json:"id"`
	Scope     Scope     `json:"scope"`
	Name      string    `json:"name"`
	Tier      Tier      `json:"tier"`
	Amount    int64     `json:"amount"`
	Active    bool      `json:"active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceBundle is the full catalog snapshot shaped for fast
// client-side lookup: scope -> tier -> service name -> amount, plus
// sorted deduplicated name lists per scope. UpdatedAt is the maximum
// row timestamp across the included rows and doubles as the bundle
// version stamp.
type PriceBundle struct {
	Laboratory      map[Tier]map[string]int64 `json:"laboratory"`
	Specialty       map[Tier]map[string]int64 `json:"specialty"`
	LaboratoryNames []string                  `json:"laboratory_names"`
	SpecialtyNames  []string                  `json:"specialty_names"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// BuildPriceBundle assembles a bundle from active catalog rows. Name
// lists are the union of names seen under any tier for the scope,
// sorted lexicographically. With no rows the version stamp is the
// Unix epoch.
func BuildPriceBundle(rows []PriceEntry) *PriceBundle {
	b := &PriceBundle{
		Laboratory:      map[Tier]map[string]int64{},
		Specialty:       map[Tier]map[string]int64{},
		LaboratoryNames: []string{},
		SpecialtyNames:  []string{},
		UpdatedAt:       time.Unix(0, 0).UTC(),
	}
	labSeen := map[string]struct{}{}
	speSeen := map[string]struct{}{}
	for _, r := range rows {
		var byTier map[Tier]map[string]int64
		switch r.Scope {
		case ScopeLaboratory:
			byTier = b.Laboratory
			labSeen[r.Name] = struct{}{}
		case ScopeSpecialty:
			byTier = b.Specialty
			speSeen[r.Name] = struct{}{}
		default:
			continue
		}
		m, ok := byTier[r.Tier]
		if !ok {
			m = map[string]int64{}
			byTier[r.Tier] = m
		}
		m[r.Name] = r.Amount
		if r.UpdatedAt.After(b.UpdatedAt) {
			b.UpdatedAt = r.UpdatedAt.UTC()
		}
	}
	for n := range labSeen {
		b.LaboratoryNames = append(b.LaboratoryNames, n)
	}
	for n := range speSeen {
		b.SpecialtyNames = append(b.SpecialtyNames, n)
	}
	sort.Strings(b.LaboratoryNames)
	sort.Strings(b.SpecialtyNames)
	return b
}

// PriceFor looks up the amount for a service under the given scope
// and tier, falling back to the BASE tier when the requested tier has
// no entry for the name. Unknown names resolve to 0.
func (b *PriceBundle) PriceFor(scope Scope, name string, tier Tier) int64 {
	var byTier map[Tier]map[string]int64
	switch scope {
	case ScopeLaboratory:
		byTier = b.Laboratory
	case ScopeSpecialty:
		byTier = b.Specialty
	default:
		return 0
	}
	if m, ok := byTier[tier]; ok {
		if v, ok := m[name]; ok {
			return v
		}
	}
	if tier != TierBase {
		if m, ok := byTier[TierBase]; ok {
			if v, ok := m[name]; ok {
				return v
			}
		}
	}
	return 0
}
