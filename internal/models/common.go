package models

import "time"

// AuditFields holds the write timestamps shared by persisted rows.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
