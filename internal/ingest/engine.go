package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aytoleon_scraper/internal/domain"
)

// Engine persists batches of records one at a time, in input order, and
// classifies each record's outcome.
type Engine struct {
	store    Store
	recorder OutcomeRecorder
	logger   *slog.Logger
}

func NewEngine(store Store, recorder OutcomeRecorder, logger *slog.Logger) *Engine {
	return &Engine{
		store:    store,
		recorder: recorder,
		logger:   logger,
	}
}

// Ingest persists records into the collection of ct. Per-record failures are
// folded into the summary. Losing the connection aborts the batch: the
// connection is released and an error is returned instead of a partial summary.
func (e *Engine) Ingest(ctx context.Context, ct domain.ContentType, records []domain.Record) (*domain.Summary, error) {
	summary := &domain.Summary{
		RunID:       uuid.New(),
		ContentType: ct,
		StartedAt:   time.Now(),
		Outcomes:    make([]domain.Outcome, 0, len(records)),
	}
	logger := e.logger.With("content_type", ct, "run_id", summary.RunID)

	conn, err := e.store.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn("failed to release connection", "error", err)
		}
	}()

	mode := ct.ValidationMode()
	for i, record := range records {
		outcome, err := e.ingestOne(ctx, conn, ct, mode, record)
		if err != nil {
			logger.Error("ingestion aborted",
				"processed", i,
				"remaining", len(records)-i,
				"error", err,
			)
			return nil, fmt.Errorf("ingest record %d: %w", i, err)
		}

		if outcome.Status == domain.StatusError {
			logger.Warn("failed to save record", "record", i, "error", outcome.Message)
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		if e.recorder != nil {
			e.recorder.ObserveOutcome(ct, outcome.Status)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)

	counts := summary.Counts()
	logger.Info("ingestion completed",
		"total", len(records),
		"saved", counts[domain.StatusSuccess],
		"duplicates", counts[domain.StatusDuplicate],
		"skipped", counts[domain.StatusSkipped],
		"errors", counts[domain.StatusError],
		"duration", summary.Duration,
	)

	return summary, nil
}

func (e *Engine) ingestOne(ctx context.Context, conn Conn, ct domain.ContentType, mode domain.ValidationMode, record domain.Record) (domain.Outcome, error) {
	if err := record.Validate(mode); err != nil {
		return domain.Outcome{Status: domain.StatusSkipped, Record: record, Message: err.Error()}, nil
	}

	err := conn.Insert(ctx, ct, record)
	switch {
	case err == nil:
		return domain.Outcome{Status: domain.StatusSuccess, Record: record}, nil
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Outcome{Status: domain.StatusDuplicate, Record: record}, nil
	case errors.Is(err, domain.ErrConnLost), ctx.Err() != nil:
		return domain.Outcome{}, err
	default:
		return domain.Outcome{Status: domain.StatusError, Record: record, Message: err.Error()}, nil
	}
}
