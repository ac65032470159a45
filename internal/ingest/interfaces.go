package ingest

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"aytoleon_scraper/internal/domain"
)

// Store hands out one connection per ingestion batch.
type Store interface {
	Acquire(ctx context.Context) (Conn, error)
}

// Conn inserts records into the collection of a content type. Insert returns
// an error wrapping domain.ErrDuplicate on a natural key violation and
// domain.ErrConnLost when the connection is no longer usable.
type Conn interface {
	Insert(ctx context.Context, ct domain.ContentType, record domain.Record) error
	Close() error
}

type OutcomeRecorder interface {
	ObserveOutcome(ct domain.ContentType, status domain.Status)
}
