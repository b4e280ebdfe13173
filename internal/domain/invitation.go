package domain

import "time"

// Invitation is a pending onboarding record keyed by an opaque unique id.
type Invitation struct {
	UniqueID     string    `json:"unique_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	ProposedRole Role      `json:"proposed_role"`
	ExpiresAt    time.Time `json:"expires_at"`
	Consumed     bool      `json:"consumed"`
}

// IsExpired reports whether the invitation can no longer be consumed.
func (i Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
