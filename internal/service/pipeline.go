package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"aytoleon_scraper/internal/config"
	"aytoleon_scraper/internal/domain"
)

const (
	fullSyncMessage = "Scraping completo realizado"
	// failedTypeMessage is what callers see for a failed type; the cause is only logged.
	failedTypeMessage = "Error al realizar el scraping"
)

var completedMessages = map[domain.ContentType]string{
	domain.ContentEvents:  "Scraping y almacenamiento completados",
	domain.ContentAgenda:  "Scraping y almacenamiento de la agenda completados",
	domain.ContentNotices: "Scraping y almacenamiento de avisos completados",
	domain.ContentNews:    "Scraping de noticias completado",
}

// Pipeline runs scrape, enrich, categorize and ingest for one content type
// at a time. Publisher and metrics are optional.
type Pipeline struct {
	source       Source
	ingester     Ingester
	records      RecordStore
	syncState    SyncStateStore
	categorizer  Categorizer
	publisher    Publisher
	metrics      Metrics
	logger       *slog.Logger
	contentTypes []domain.ContentType
}

func NewPipeline(
	source Source,
	ingester Ingester,
	records RecordStore,
	syncState SyncStateStore,
	categorizer Categorizer,
	publisher Publisher,
	metrics Metrics,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *Pipeline {
	contentTypes := cfg.ContentTypes
	if len(contentTypes) == 0 {
		contentTypes = domain.AllContentTypes
	}

	return &Pipeline{
		source:       source,
		ingester:     ingester,
		records:      records,
		syncState:    syncState,
		categorizer:  categorizer,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger.With("source", source.ID()),
		contentTypes: contentTypes,
	}
}

// ScrapeAndSave runs the pipeline for ct. A listing fetch failure aborts
// the run and no report is returned.
func (p *Pipeline) ScrapeAndSave(ctx context.Context, ct domain.ContentType) (*domain.Report, error) {
	if _, err := domain.ParseContentType(string(ct)); err != nil {
		return nil, err
	}

	logger := p.logger.With("content_type", ct)
	logger.Info("starting scrape", "source_name", p.source.Name())

	records, err := p.scrape(ctx, ct)
	if err != nil {
		p.observeRun(ct, err)
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	logger.Info("fetched listing", "count", len(records))

	summary, err := p.ingester.Ingest(ctx, ct, records)
	if err != nil {
		p.observeRun(ct, err)
		return nil, fmt.Errorf("ingest %s: %w", ct, err)
	}
	p.observeRun(ct, nil)

	published := p.publishSaved(ctx, ct, summary)

	if err := p.updateSyncState(ctx, summary); err != nil {
		logger.Error("failed to update sync state", "error", err)
	}

	report := summary.Report(completedMessages[ct])

	logger.Info("scrape completed",
		"run_id", report.RunID,
		"total", report.TotalProcessed,
		"saved", report.Saved,
		"duplicates", report.Duplicates,
		"skipped", report.Skipped,
		"errors", len(report.Errors),
		"published", published,
		"duration", summary.Duration,
	)

	return report, nil
}

// ScrapeAllAndSave runs every configured content type in order. A failed
// type is recorded in its result and the remaining types still run.
func (p *Pipeline) ScrapeAllAndSave(ctx context.Context) *domain.SyncReport {
	startTime := time.Now()
	report := &domain.SyncReport{
		Message: fullSyncMessage,
		Results: make([]domain.TypeResult, 0, len(p.contentTypes)),
	}

	for _, ct := range p.contentTypes {
		result := domain.TypeResult{ContentType: ct}

		typeReport, err := p.ScrapeAndSave(ctx, ct)
		if err != nil {
			p.logger.Error("scrape failed", "content_type", ct, "error", err)
			result.Error = failedTypeMessage
		} else {
			result.Report = typeReport
		}

		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(startTime)

	p.logger.Info("full sync completed",
		"content_types", len(report.Results),
		"failed", report.Failed(),
		"duration", report.Duration,
	)

	return report
}

// GetAll returns every stored record of ct in insertion order.
func (p *Pipeline) GetAll(ctx context.Context, ct domain.ContentType) ([]domain.Record, error) {
	if _, err := domain.ParseContentType(string(ct)); err != nil {
		return nil, err
	}

	records, err := p.records.List(ctx, ct)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", ct, err)
	}

	return records, nil
}

// Sync is the scheduler entry point. It fails only when every content
// type failed.
func (p *Pipeline) Sync(ctx context.Context) (*domain.SyncReport, error) {
	report := p.ScrapeAllAndSave(ctx)
	if len(report.Results) > 0 && report.Failed() == len(report.Results) {
		return report, fmt.Errorf("all %d content types failed", len(report.Results))
	}
	return report, nil
}

func (p *Pipeline) scrape(ctx context.Context, ct domain.ContentType) ([]domain.Record, error) {
	switch ct {
	case domain.ContentEvents, domain.ContentAgenda:
		events, err := p.source.ScrapeEvents(ctx, ct)
		if err != nil {
			return nil, err
		}
		return domain.Records(events), nil

	case domain.ContentNotices:
		notices, err := p.source.ScrapeNotices(ctx)
		if err != nil {
			return nil, err
		}
		p.enrichNotices(ctx, notices)
		for i := range notices {
			notices[i].Category = p.categorize(notices[i].Title)
		}
		return domain.Records(notices), nil

	case domain.ContentNews:
		news, err := p.source.ScrapeNews(ctx)
		if err != nil {
			return nil, err
		}
		return domain.Records(news), nil
	}

	return nil, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, ct)
}

// enrichNotices attaches detail-page content one notice at a time.
// A failed fetch leaves that notice without content.
func (p *Pipeline) enrichNotices(ctx context.Context, notices []domain.NoticeRecord) {
	for i := range notices {
		n := &notices[i]
		if n.Link == nil || *n.Link == "" {
			n.Content = nil
			continue
		}

		content, err := p.source.NoticeContent(ctx, *n.Link)
		if p.metrics != nil {
			p.metrics.ObserveEnrichment(err)
		}
		if err != nil {
			p.logger.Warn("failed to fetch notice content",
				"link", *n.Link,
				"error", err,
			)
			n.Content = nil
			continue
		}

		n.Content = content
	}
}

func (p *Pipeline) categorize(title *string) string {
	if title == nil {
		return domain.DefaultCategory
	}
	return p.categorizer.Categorize(*title)
}

func (p *Pipeline) publishSaved(ctx context.Context, ct domain.ContentType, summary *domain.Summary) int {
	if p.publisher == nil {
		return 0
	}

	published := 0
	for _, o := range summary.Saved() {
		err := p.publisher.Publish(ctx, ct, o.Record)
		if p.metrics != nil {
			p.metrics.ObservePublish(ct, err)
		}
		if err != nil {
			p.logger.Warn("failed to publish record", "content_type", ct, "error", err)
			continue
		}
		published++
	}

	return published
}

// updateSyncState hands the store this run's saved count; the store adds it
// to the running total so concurrent runs do not overwrite each other.
func (p *Pipeline) updateSyncState(ctx context.Context, summary *domain.Summary) error {
	return p.syncState.Update(ctx, &domain.SyncState{
		ContentType:  summary.ContentType,
		LastSyncedAt: time.Now(),
		LastRunID:    summary.RunID,
		TotalSaved:   int64(len(summary.Saved())),
	})
}

func (p *Pipeline) observeRun(ct domain.ContentType, err error) {
	if p.metrics != nil {
		p.metrics.ObserveRun(ct, err)
	}
}
