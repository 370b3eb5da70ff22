package domain

import "time"

// AuditFields holds write timestamps for persisted records.
// They record when a row was written, never how old the data inside it is.
type AuditFields struct {
	CreatedAt     time.Time `json:"created_at"`
	LastUpdatedAt time.Time `json:"last_updated_at"`
}
