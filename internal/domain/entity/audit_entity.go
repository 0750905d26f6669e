package entity

import "time"

// AuditEntry is an append-only record of a security-relevant event.
type AuditEntry struct {
	ID        string
	UserID    string // empty when the actor is unknown (e.g. failed login)
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
