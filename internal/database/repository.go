package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thenoetrevino/etapa/internal/models"
)

// store carries what both repositories share
type store struct {
	db      *sql.DB
	dialect Dialect
	policy  models.ArchivePolicy
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func (s *store) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *store) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *store) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

func (s *store) tx(ctx context.Context, fn func(*sql.Tx) error) error {
	return withTx(ctx, s.db, fn)
}

// Option configures a Repository
type Option func(*store)

// WithDialect selects the SQL dialect; the default is SQLite
func WithDialect(d Dialect) Option {
	return func(s *store) { s.dialect = d }
}

// WithArchivePolicy decides what ArchiveColumn does with the stage's deals
func WithArchivePolicy(p models.ArchivePolicy) Option {
	return func(s *store) { s.policy = p }
}

// WithLogger replaces slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(s *store) { s.logger = l }
}

// WithClock replaces the wall clock used for created/updated/archived timestamps
func WithClock(now func() time.Time) Option {
	return func(s *store) { s.now = now }
}

// WithIDGenerator replaces uuid.NewString for new stage and deal ids
func WithIDGenerator(fn func() string) Option {
	return func(s *store) { s.newID = fn }
}

// Repository provides a unified interface to all data operations.
// It composes the stage and deal repositories using struct embedding.
type Repository struct {
	*StageRepo
	*DealRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB, opts ...Option) *Repository {
	s := &store{
		db:      db,
		dialect: SQLite,
		policy:  models.ArchiveDeleteDeals,
		logger:  slog.Default(),
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return &Repository{
		StageRepo: &StageRepo{store: s},
		DealRepo:  &DealRepo{store: s},
	}
}

// DB exposes the underlying handle
func (r *Repository) DB() *sql.DB {
	return r.StageRepo.db
}
