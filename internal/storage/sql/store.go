package sql

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store implements the storage.Storage interface using SQL.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Ensure Store implements storage.Storage.
var _ storage.Storage = (*Store)(nil)

// New creates a new SQL store.
func New(driver, dsn string) (*Store, error) {
	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// Run migrations
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const journalColumns = `id, admin, resource, action, target_id, outcome, message, occurred_at`

func (s *Store) RecordAction(ctx context.Context, record *domain.ActionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO action_journal (`+journalColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		record.ID, record.Admin, record.Resource, record.Action, record.TargetID,
		record.Outcome, record.Message, record.OccurredAt)
	if err != nil {
		return fmt.Errorf("recording action: %w", err)
	}
	return nil
}

func (s *Store) ListActions(ctx context.Context, limit, offset int) ([]*domain.ActionRecord, error) {
	records := []*domain.ActionRecord{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT `+journalColumns+` FROM action_journal
		 ORDER BY occurred_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	return records, err
}

func (s *Store) ListActionsForTarget(ctx context.Context, resource domain.Resource, targetID string, limit int) ([]*domain.ActionRecord, error) {
	records := []*domain.ActionRecord{}
	err := s.db.SelectContext(ctx, &records,
		`SELECT `+journalColumns+` FROM action_journal
		 WHERE resource = $1 AND target_id = $2
		 ORDER BY occurred_at DESC, id DESC LIMIT $3`, resource, targetID, limit)
	return records, err
}

func (s *Store) CountActions(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM action_journal`)
	return count, err
}
