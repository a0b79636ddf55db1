package domain

import (
	"strings"
	"time"
)

// RealCost overrides the estimated cost of one category (staff, transport,
// ice, ...) in an order's operating account. Amounts are in cents.
type RealCost struct {
	ID          string    `json:"id"`
	OrderRef    string    `json:"os_id"`
	Category    string    `json:"category"`
	AmountCents int64     `json:"amount_cents"`
	Note        string    `json:"note,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *RealCost) Normalize() {
	c.Category = strings.ToLower(strings.TrimSpace(c.Category))
	c.Note = strings.TrimSpace(c.Note)
}

func (c RealCost) Validate() error {
	verr := &ValidationError{}
	if c.Category == "" {
		verr.add("category", "is required")
	}
	if len(c.Category) > 64 {
		verr.add("category", "is too long")
	}
	return verr.orNil()
}

func TotalCents(costs []RealCost) int64 {
	var total int64
	for _, c := range costs {
		total += c.AmountCents
	}
	return total
}
