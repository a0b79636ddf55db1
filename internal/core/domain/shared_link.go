package domain

import "time"

// SharedLink grants read access to one order through an opaque token.
type SharedLink struct {
	Token     string     `json:"token"`
	OrderRef  string     `json:"os_id"`
	CreatedBy string     `json:"created_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (l SharedLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}
