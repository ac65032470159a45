package domain

import (
	"time"

	"github.com/google/uuid"
)

// SyncState tracks the last successful run per content type.
type SyncState struct {
	ID           int64       `db:"id"`
	ContentType  ContentType `db:"content_type"`
	LastSyncedAt time.Time   `db:"last_synced_at"`
	LastRunID    uuid.UUID   `db:"last_run_id"`
	TotalSaved   int64       `db:"total_saved"`
}

// TypeResult is one content type's contribution to a full sync.
type TypeResult struct {
	ContentType ContentType `json:"content_type"`
	Report      *Report     `json:"report,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// SyncReport combines the per-type results of a full sync run.
type SyncReport struct {
	Message  string        `json:"message"`
	Results  []TypeResult  `json:"results"`
	Duration time.Duration `json:"duration"`
}

// Failed counts the content types that did not complete.
func (r *SyncReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Error != "" {
			n++
		}
	}
	return n
}
