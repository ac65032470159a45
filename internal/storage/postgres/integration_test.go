//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"aytoleon_scraper/internal/domain"
	"aytoleon_scraper/internal/ingest"
	"aytoleon_scraper/internal/testutil"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_listings.up.sql"),
			filepath.Join(migrationsPath, "002_create_sync_state.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	for _, table := range []string{"events", "agenda_events", "notices", "news", "sync_state"} {
		_, _ = s.db.ExecContext(s.ctx, "DELETE FROM "+table)
	}
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) insert(ct domain.ContentType, record domain.Record) error {
	conn, err := NewStore(s.db).Acquire(s.ctx)
	s.Require().NoError(err)
	defer conn.Close()

	return conn.Insert(s.ctx, ct, record)
}

func (s *PostgresIntegrationSuite) TestInsert_AgendaDuplicate() {
	ev := domain.EventRecord{
		EventDate: testutil.Ptr("5 de marzo de 2025"),
		EventTime: testutil.Ptr("20:30"),
		Title:     testutil.Ptr("Concierto"),
		Location:  testutil.Ptr("Auditorio"),
	}

	s.NoError(s.insert(domain.ContentAgenda, ev))
	s.ErrorIs(s.insert(domain.ContentAgenda, ev), domain.ErrDuplicate)

	// the same row is independent in the eventos collection
	s.NoError(s.insert(domain.ContentEvents, ev))
}

func (s *PostgresIntegrationSuite) TestInsert_LenientEventsWithNullsCollide() {
	ev := domain.EventRecord{Title: testutil.Ptr("Exposición permanente")}

	s.NoError(s.insert(domain.ContentEvents, ev))
	s.ErrorIs(s.insert(domain.ContentEvents, ev), domain.ErrDuplicate)
}

func (s *PostgresIntegrationSuite) TestInsert_ConstraintOtherThanUnique() {
	err := s.insert(domain.ContentAgenda, domain.EventRecord{Title: testutil.Ptr("Sin fecha")})

	s.Error(err)
	s.NotErrorIs(err, domain.ErrDuplicate)
	s.NotErrorIs(err, domain.ErrConnLost)
}

func (s *PostgresIntegrationSuite) TestList_ReturnsInsertionOrder() {
	store := NewStore(s.db)

	s.NoError(s.insert(domain.ContentNotices, domain.NoticeRecord{
		Title:    testutil.Ptr("Corte de tráfico"),
		Link:     testutil.Ptr("https://example.com/1"),
		Content:  testutil.Ptr("**Cortes**"),
		Category: "Tráfico",
	}))
	s.NoError(s.insert(domain.ContentNotices, domain.NoticeRecord{Title: testutil.Ptr("Pleno")}))

	records, err := store.List(s.ctx, domain.ContentNotices)
	s.Require().NoError(err)
	s.Require().Len(records, 2)

	first := records[0].(domain.NoticeRecord)
	s.Equal("Corte de tráfico", *first.Title)
	s.Equal("Tráfico", first.Category)
	s.False(first.CreatedAt.IsZero())

	second := records[1].(domain.NoticeRecord)
	s.Equal(domain.DefaultCategory, second.Category)
	s.Nil(second.Link)
}

func (s *PostgresIntegrationSuite) TestList_Empty() {
	records, err := NewStore(s.db).List(s.ctx, domain.ContentNews)

	s.NoError(err)
	s.NotNil(records)
	s.Len(records, 0)
}

func (s *PostgresIntegrationSuite) TestEngine_EndToEnd() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := ingest.NewEngine(NewStore(s.db), nil, logger)

	news := domain.NewsRecord{
		Title:   testutil.Ptr("Nuevo parque"),
		RawDate: testutil.Ptr("14/03/2025"),
		Link:    testutil.Ptr("https://example.com/parque"),
	}
	records := domain.Records([]domain.NewsRecord{news, news, {Title: testutil.Ptr("Sin fecha")}})

	summary, err := engine.Ingest(s.ctx, domain.ContentNews, records)
	s.Require().NoError(err)

	report := summary.Report("done")
	s.Equal(1, report.Saved)
	s.Equal(1, report.Duplicates)
	s.Equal(1, report.Skipped)
	s.Empty(report.Errors)

	// re-running the same window only yields duplicates
	summary, err = engine.Ingest(s.ctx, domain.ContentNews, records[:1])
	s.Require().NoError(err)
	s.Len(summary.Duplicates(), 1)
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_GetNew() {
	store := NewSyncStateStore(s.db)

	state, err := store.Get(s.ctx, domain.ContentNews)
	s.NoError(err)
	s.Equal(domain.ContentNews, state.ContentType)
	s.True(state.LastSyncedAt.IsZero())
	s.Equal(int64(0), state.TotalSaved)
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_UpdateAndGet() {
	store := NewSyncStateStore(s.db)
	now := time.Now().Truncate(time.Microsecond)
	runID := uuid.New()

	err := store.Update(s.ctx, &domain.SyncState{
		ContentType:  domain.ContentAgenda,
		LastSyncedAt: now,
		LastRunID:    runID,
		TotalSaved:   10,
	})
	s.NoError(err)

	err = store.Update(s.ctx, &domain.SyncState{
		ContentType:  domain.ContentAgenda,
		LastSyncedAt: now,
		LastRunID:    runID,
		TotalSaved:   20,
	})
	s.NoError(err)

	retrieved, err := store.Get(s.ctx, domain.ContentAgenda)
	s.NoError(err)
	s.Equal(runID, retrieved.LastRunID)
	s.Equal(int64(30), retrieved.TotalSaved)
	s.WithinDuration(now, retrieved.LastSyncedAt, time.Second)
}

func (s *PostgresIntegrationSuite) TestSyncStateStore_ConcurrentRunsAccumulate() {
	store := NewSyncStateStore(s.db)
	s.Require().NoError(store.Update(s.ctx, &domain.SyncState{
		ContentType:  domain.ContentNews,
		LastSyncedAt: time.Now(),
		LastRunID:    uuid.New(),
		TotalSaved:   4,
	}))

	// two runs that started from the same stored state
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, saved := range []int64{3, 5} {
		wg.Add(1)
		go func(saved int64) {
			defer wg.Done()
			errs <- store.Update(s.ctx, &domain.SyncState{
				ContentType:  domain.ContentNews,
				LastSyncedAt: time.Now(),
				LastRunID:    uuid.New(),
				TotalSaved:   saved,
			})
		}(saved)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	retrieved, err := store.Get(s.ctx, domain.ContentNews)
	s.Require().NoError(err)
	s.Equal(int64(12), retrieved.TotalSaved)
}
