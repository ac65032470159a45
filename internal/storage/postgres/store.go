package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"aytoleon_scraper/internal/domain"
	"aytoleon_scraper/internal/ingest"
)

const uniqueViolation pq.ErrorCode = "23505"

// Store persists scraped listings. Ingestion batches run on a dedicated
// connection obtained from Acquire; reads go through the pool.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Acquire reserves one pooled connection. The caller must Close it.
func (s *Store) Acquire(ctx context.Context) (ingest.Conn, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn}, nil
}

// Conn is a single reserved connection.
type Conn struct {
	conn *sqlx.Conn
}

func (c *Conn) Insert(ctx context.Context, ct domain.ContentType, record domain.Record) error {
	query, args, err := insertStatement(ct, record)
	if err != nil {
		return err
	}

	_, err = c.conn.ExecContext(ctx, query, args...)
	return classify(err)
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// List returns every stored record of ct in insertion order.
func (s *Store) List(ctx context.Context, ct domain.ContentType) ([]domain.Record, error) {
	switch ct {
	case domain.ContentEvents, domain.ContentAgenda:
		var rows []domain.EventRecord
		err := s.db.SelectContext(ctx, &rows, fmt.Sprintf(selectEvents, eventTables[ct]))
		return domain.Records(rows), err
	case domain.ContentNotices:
		var rows []domain.NoticeRecord
		err := s.db.SelectContext(ctx, &rows, selectNotices)
		return domain.Records(rows), err
	case domain.ContentNews:
		var rows []domain.NewsRecord
		err := s.db.SelectContext(ctx, &rows, selectNews)
		return domain.Records(rows), err
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownContentType, ct)
	}
}

func insertStatement(ct domain.ContentType, record domain.Record) (string, []any, error) {
	switch r := record.(type) {
	case domain.EventRecord:
		table, ok := eventTables[ct]
		if !ok {
			break
		}
		return fmt.Sprintf(insertEvent, table), []any{r.EventDate, r.EventTime, r.Title, r.Location}, nil
	case domain.NoticeRecord:
		if ct != domain.ContentNotices {
			break
		}
		category := r.Category
		if category == "" {
			category = domain.DefaultCategory
		}
		return insertNotice, []any{r.Title, r.Subtitle, r.Link, r.Content, category}, nil
	case domain.NewsRecord:
		if ct != domain.ContentNews {
			break
		}
		return insertNews, []any{r.Title, r.RawDate, r.Content, r.Link}, nil
	}
	return "", nil, fmt.Errorf("%w: cannot store %T as %q", domain.ErrUnknownContentType, record, ct)
}

// classify maps driver errors onto the domain sentinels the ingestion
// engine branches on.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", domain.ErrConnLost, err)
	}

	return err
}
