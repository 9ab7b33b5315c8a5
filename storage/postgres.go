// storage/postgres.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BladeMcCool/PaymentEngine/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no snapshot exists for a run.
var ErrNotFound = errors.New("snapshot not found")

// Store persists the final account snapshot of an ingest run. The ledger
// itself is never reloaded from a Store.
type Store interface {
	SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []model.Account) error
	GetSnapshot(ctx context.Context, runID uuid.UUID) ([]model.Account, error)
}

// PostgresStore implements the Store interface for PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to the database and initializes the schema.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database for a few seconds
	for i := 0; i < 5; i++ {
		pool, err = pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to database after retries: %w", err)
	}

	store := &PostgresStore{db: pool}
	if err := store.initSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}

	return store, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	query := `
    CREATE TABLE IF NOT EXISTS account_snapshots (
        run_id UUID NOT NULL,
        client_id INTEGER NOT NULL,
        position INTEGER NOT NULL,
        available NUMERIC NOT NULL,
        held NUMERIC NOT NULL,
        total NUMERIC NOT NULL,
        locked BOOLEAN NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        PRIMARY KEY (run_id, client_id)
    );`
	_, err := s.db.Exec(ctx, query)
	return err
}

// SaveSnapshot writes every account of a run in one transaction, keeping the
// order of accounts. Saving the same run twice replaces the earlier rows.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []model.Account) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback is a no-op if the transaction has been committed.

	if _, err := tx.Exec(ctx, "DELETE FROM account_snapshots WHERE run_id = $1", runID); err != nil {
		return fmt.Errorf("could not clear snapshot: %w", err)
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO account_snapshots (run_id, client_id, position, available, held, total, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, acc := range accounts {
		batch.Queue(query, runID, acc.ClientID, i, acc.Available, acc.Held, acc.Total, acc.Locked)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("could not insert snapshot rows: %w", err)
	}

	return tx.Commit(ctx)
}

// GetSnapshot reads the accounts of a run in the order they were saved.
func (s *PostgresStore) GetSnapshot(ctx context.Context, runID uuid.UUID) ([]model.Account, error) {
	query := `
		SELECT client_id, available, held, total, locked FROM account_snapshots
		WHERE run_id = $1
		ORDER BY position`

	rows, err := s.db.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("could not query snapshot: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ClientID, &acc.Available, &acc.Held, &acc.Total, &acc.Locked); err != nil {
			return nil, fmt.Errorf("could not scan snapshot row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(accounts) == 0 {
		return nil, ErrNotFound
	}
	return accounts, nil
}
