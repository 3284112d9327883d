package promotion

import (
	"strings"
	"time"
)

const (
	AvailabilityAlways    = "always"
	AvailabilityDateRange = "date_range"
)

// Availability is the time window a promotion's eligibility rules apply in.
type Availability struct {
	Type  string `json:"type"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Covers reports whether the window includes the given instant. Both ends of
// a date_range are inclusive. Unknown variants and unparseable bounds are
// unavailable: eligibility fails closed.
func (a Availability) Covers(at time.Time) bool {
	switch a.Type {
	case AvailabilityAlways, "":
		// A promotion without an availability block is always on.
		return true
	case AvailabilityDateRange:
		start, ok := parseBound(a.Start)
		if !ok {
			return false
		}
		end, ok := parseBound(a.End)
		if !ok {
			return false
		}
		return !at.Before(start) && !at.After(end)
	default:
		return false
	}
}

func parseBound(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Wallet is a digital wallet tied to a promotion.
type Wallet struct {
	Name       string `json:"name"`
	IsOptional bool   `json:"is_optional"`
}

// Promotion is one bank/card financing promotion.
type Promotion struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Banks         []string     `json:"banks"`
	CreditCards   []string     `json:"credit_cards"`
	Installments  []int        `json:"installments"`
	Availability  Availability `json:"availability"`
	Wallets       []Wallet     `json:"wallets,omitempty"`
	Reimbursement string       `json:"reimbursement,omitempty"`
}

// Matches applies the conjunctive eligibility filter: every provided
// dimension must be satisfied; unset dimensions are wildcards, never
// exclusions. Bank and card comparisons ignore case.
func (p Promotion) Matches(f Filter) bool {
	if f.Bank != "" && !containsFold(p.Banks, f.Bank) {
		return false
	}
	if f.CreditCard != "" && !containsFold(p.CreditCards, f.CreditCard) {
		return false
	}
	if f.Installments > 0 && !containsInt(p.Installments, f.Installments) {
		return false
	}
	return true
}

// Filter holds the optional search dimensions. Zero values mean "unset".
type Filter struct {
	Bank         string
	CreditCard   string
	Installments int
}

func (f Filter) IsZero() bool {
	return f.Bank == "" && f.CreditCard == "" && f.Installments == 0
}

func containsFold(haystack []string, needle string) bool {
	for _, v := range haystack {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

func containsInt(haystack []int, needle int) bool {
	for _, v := range haystack {
		if v == needle {
			return true
		}
	}
	return false
}
