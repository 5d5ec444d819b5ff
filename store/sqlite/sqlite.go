/*
Package sqlite provides SQLite-backed persistence for uploaded datasets.

PURPOSE:
  Stores uploaded sampling datasets and their normalized sample rows so
  analyses can be re-run with different parameters without re-uploading.
  Derived results (intervals, tallies, recommendations, projections) are
  NEVER persisted - they are recomputed from the stored samples on demand.

KEY TABLES:
  datasets: One row per upload (name, timestamps, row accounting)
  samples:  Normalized sample rows, FK to datasets with ON DELETE CASCADE

INDEXES:
  idx_samples_dataset:         LoadSamples hot path
  idx_samples_dataset_account: Account-filtered loads

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of database/sql's pooling.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so concurrent analysis
  reads don't block an in-flight upload.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - analysis/pipeline.go: consumes the samples this package stores
  - api/handlers.go: the upload/analyze endpoints driving this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tribolab/sampling-cadence/analysis"
)

// Store persists datasets and their samples in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Dataset is the stored metadata of one upload.
type Dataset struct {
	ID          string
	Name        string
	UploadedAt  time.Time
	SampleCount int
	DroppedRows int
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		uploaded_at TEXT NOT NULL,
		sample_count INTEGER NOT NULL,
		dropped_rows INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS samples (
		dataset_id TEXT NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
		unit_id TEXT NOT NULL,
		asset_id TEXT NOT NULL,
		account_name TEXT NOT NULL,
		bottle_id TEXT NOT NULL,
		sampled_at TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		year INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_dataset
		ON samples(dataset_id);

	-- Account-filtered loads (analysis scoped to selected accounts)
	CREATE INDEX IF NOT EXISTS idx_samples_dataset_account
		ON samples(dataset_id, account_name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DATASET STORE
// =============================================================================

// SaveDataset stores a dataset and all its samples atomically.
func (s *Store) SaveDataset(ctx context.Context, ds Dataset, samples []analysis.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, uploaded_at, sample_count, dropped_rows)
		 VALUES (?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.UploadedAt.UTC().Format(time.RFC3339),
		len(samples), ds.DroppedRows,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	insert := `
		INSERT INTO samples
		(dataset_id, unit_id, asset_id, account_name, bottle_id, sampled_at, asset_class, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := sqlTx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()

	for _, sm := range samples {
		_, err := stmt.ExecContext(ctx,
			ds.ID, sm.UnitID, sm.AssetID, sm.AccountName, sm.BottleID,
			sm.SampledAt.Format("2006-01-02"), sm.AssetClass, sm.Year,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}
	}

	return sqlTx.Commit()
}

// GetDataset retrieves dataset metadata by ID.
// Returns analysis.ErrDatasetNotFound when the ID is unknown.
func (s *Store) GetDataset(ctx context.Context, id string) (Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ds Dataset
	var uploadedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, uploaded_at, sample_count, dropped_rows FROM datasets WHERE id = ?",
		id,
	).Scan(&ds.ID, &ds.Name, &uploadedAt, &ds.SampleCount, &ds.DroppedRows)

	if err == sql.ErrNoRows {
		return Dataset{}, analysis.ErrDatasetNotFound
	}
	if err != nil {
		return Dataset{}, err
	}

	ds.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
	return ds, nil
}

// ListDatasets returns all datasets, newest first.
func (s *Store) ListDatasets(ctx context.Context) ([]Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, uploaded_at, sample_count, dropped_rows FROM datasets ORDER BY uploaded_at DESC, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var datasets []Dataset
	for rows.Next() {
		var ds Dataset
		var uploadedAt string
		if err := rows.Scan(&ds.ID, &ds.Name, &uploadedAt, &ds.SampleCount, &ds.DroppedRows); err != nil {
			return nil, err
		}
		ds.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}

// DeleteDataset removes a dataset and (via cascade) its samples.
func (s *Store) DeleteDataset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM datasets WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return analysis.ErrDatasetNotFound
	}
	return nil
}

// =============================================================================
// SAMPLE QUERIES
// =============================================================================

// ListAccounts returns the distinct account names in a dataset, sorted.
func (s *Store) ListAccounts(ctx context.Context, datasetID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT account_name FROM samples WHERE dataset_id = ? ORDER BY account_name",
		datasetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		accounts = append(accounts, name)
	}
	return accounts, rows.Err()
}

// LoadSamples returns a dataset's samples, optionally restricted to the
// given account names. An empty accounts slice means no account filter.
func (s *Store) LoadSamples(ctx context.Context, datasetID string, accounts []string) ([]analysis.Sample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.ensureDataset(ctx, datasetID); err != nil {
		return nil, err
	}

	query := `
		SELECT unit_id, asset_id, account_name, bottle_id, sampled_at, asset_class, year
		FROM samples
		WHERE dataset_id = ?
	`
	args := []any{datasetID}

	if len(accounts) > 0 {
		placeholders := strings.Repeat("?, ", len(accounts))
		query += " AND account_name IN (" + placeholders[:len(placeholders)-2] + ")"
		for _, a := range accounts {
			args = append(args, a)
		}
	}
	query += " ORDER BY unit_id, asset_id, sampled_at"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var samples []analysis.Sample
	for rows.Next() {
		var sm analysis.Sample
		var sampledAt string
		if err := rows.Scan(&sm.UnitID, &sm.AssetID, &sm.AccountName, &sm.BottleID,
			&sampledAt, &sm.AssetClass, &sm.Year); err != nil {
			return nil, err
		}
		sm.SampledAt, err = time.Parse("2006-01-02", sampledAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored sample date %q: %w", sampledAt, err)
		}
		samples = append(samples, sm)
	}
	return samples, rows.Err()
}

// ensureDataset distinguishes "unknown dataset" from "dataset with no rows".
// Callers already hold s.mu.
func (s *Store) ensureDataset(ctx context.Context, id string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM datasets WHERE id = ?", id,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count == 0 {
		return analysis.ErrDatasetNotFound
	}
	return nil
}
