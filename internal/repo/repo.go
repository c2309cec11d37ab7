package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"artfoundation/internal/model"
)

const uniqueViolation = "23505"

type Repository interface {
	RegistrationRepository
	PaymentRepository
	ArtistRepository
	EventRepository
	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
	MigrateStatus(migrationsDir string) error
	Ping(ctx context.Context) error
}

// repository sends writes and single-row lookups to the master; only list
// queries go through dbpg's replica selection.
type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

type scanner interface {
	Scan(dest ...any) error
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) Ping(ctx context.Context) error {
	return r.db.Master.PingContext(ctx)
}

func (r *repository) MigrateUp(migrationsDir string) error {
	if err := goose.Up(r.db.Master, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations from %s: %w", migrationsDir, err)
	}
	r.log.Info().Msgf("Migrations applied successfully from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateDown(migrationsDir string) error {
	if err := goose.Down(r.db.Master, migrationsDir); err != nil {
		return fmt.Errorf("failed to roll back migration in %s: %w", migrationsDir, err)
	}
	r.log.Info().Msgf("Last migration rolled back from %s", migrationsDir)
	return nil
}

func (r *repository) MigrateStatus(migrationsDir string) error {
	return goose.Status(r.db.Master, migrationsDir)
}

// mapErr converts driver errors into model error kinds.
func mapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, model.ErrConflict)
	}
	return fmt.Errorf("%w: %s: %v", model.ErrPersistence, op, err)
}

func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}
