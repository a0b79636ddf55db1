package domain

import (
	"strings"
	"time"

	"catering_ops/internal/core/identity"
)

type OrderStatus string

const (
	StatusDraft     OrderStatus = "draft"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Order is a service order ("OS"). ID is the surrogate key; Number is the
// human number assigned at commercial confirmation and may be empty.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number,omitempty"`
	Name       string      `json:"name"`
	Status     OrderStatus `json:"status"`
	Guests     int         `json:"guests"`
	StartsAt   *time.Time  `json:"starts_at,omitempty"`
	EndsAt     *time.Time  `json:"ends_at,omitempty"`
	ArchivedAt *time.Time  `json:"archived_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (o Order) Archived() bool { return o.ArchivedAt != nil }

// Normalize trims free text and fills the status default.
func (o *Order) Normalize() {
	o.ID = strings.ToLower(strings.TrimSpace(o.ID))
	o.Number = strings.TrimSpace(o.Number)
	o.Name = strings.TrimSpace(o.Name)
	if o.Status == "" {
		o.Status = StatusDraft
	}
}

func (o Order) Validate() error {
	verr := &ValidationError{}
	if !identity.IsSurrogateShape(o.ID) {
		verr.add("id", "must be a uuid")
	}
	if identity.IsSurrogateShape(o.Number) {
		verr.add("number", "must not look like a uuid")
	}
	if o.Name == "" {
		verr.add("name", "is required")
	}
	if !o.Status.Valid() {
		verr.add("status", "must be draft, confirmed or cancelled")
	}
	if o.Guests < 0 {
		verr.add("guests", "must not be negative")
	}
	if o.StartsAt != nil && o.EndsAt != nil && o.EndsAt.Before(*o.StartsAt) {
		verr.add("ends_at", "must not be before starts_at")
	}
	return verr.orNil()
}
