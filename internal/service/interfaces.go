package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"aytoleon_scraper/internal/domain"
)

type Source interface {
	ID() string
	Name() string
	ScrapeEvents(ctx context.Context, ct domain.ContentType) ([]domain.EventRecord, error)
	ScrapeNotices(ctx context.Context) ([]domain.NoticeRecord, error)
	ScrapeNews(ctx context.Context) ([]domain.NewsRecord, error)
	NoticeContent(ctx context.Context, link string) (*string, error)
}

type Ingester interface {
	Ingest(ctx context.Context, ct domain.ContentType, records []domain.Record) (*domain.Summary, error)
}

type RecordStore interface {
	List(ctx context.Context, ct domain.ContentType) ([]domain.Record, error)
}

// SyncStateStore records finished runs. Update adds state.TotalSaved to the
// stored total instead of overwriting it.
type SyncStateStore interface {
	Update(ctx context.Context, state *domain.SyncState) error
}

type Categorizer interface {
	Categorize(title string) string
}

type Publisher interface {
	Publish(ctx context.Context, ct domain.ContentType, record domain.Record) error
	Close() error
}

type Metrics interface {
	ObserveRun(ct domain.ContentType, err error)
	ObserveEnrichment(err error)
	ObservePublish(ct domain.ContentType, err error)
}
