// Package sqlite provides SQLite-backed persistence for evaluation records.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docqa/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.EvaluationStore = (*Store)(nil)

// Store persists evaluation records in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docqa/data/evaluations.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "evaluations.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Upsert inserts or updates an evaluation record by ID. Re-asking a question
// replaces its stored verdict; CreatedAt survives the update.
func (s *Store) Upsert(ctx context.Context, record domain.EvaluationRecord) error {
	sourcesJSON, err := json.Marshal(record.Sources)
	if err != nil {
		return fmt.Errorf("marshalling sources: %w", err)
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO evaluations (id, question, answer, sources, relevance, explanation, source_rank, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			answer = excluded.answer,
			sources = excluded.sources,
			relevance = excluded.relevance,
			explanation = excluded.explanation,
			source_rank = excluded.source_rank,
			updated_at = excluded.updated_at
	`, record.ID, record.Question, record.Answer, string(sourcesJSON),
		string(record.Relevance), record.Explanation, record.SourceRank,
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving evaluation: %w", err)
	}
	return nil
}

// Get retrieves an evaluation record by ID.
func (s *Store) Get(ctx context.Context, id string) (*domain.EvaluationRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, sources, relevance, explanation, source_rank, created_at, updated_at
		FROM evaluations WHERE id = ?
	`, id)

	record, err := scanEvaluation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

// List returns all evaluation records ordered by creation time.
func (s *Store) List(ctx context.Context) ([]domain.EvaluationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, sources, relevance, explanation, source_rank, created_at, updated_at
		FROM evaluations ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing evaluations: %w", err)
	}
	defer rows.Close()

	var records []domain.EvaluationRecord
	for rows.Next() {
		record, err := scanEvaluation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluations: %w", err)
	}
	return records, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row scanner) (*domain.EvaluationRecord, error) {
	var record domain.EvaluationRecord
	var sourcesJSON, relevance string
	if err := row.Scan(&record.ID, &record.Question, &record.Answer, &sourcesJSON,
		&relevance, &record.Explanation, &record.SourceRank,
		&record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning evaluation: %w", err)
	}

	if err := json.Unmarshal([]byte(sourcesJSON), &record.Sources); err != nil {
		return nil, fmt.Errorf("unmarshaling sources: %w", err)
	}
	record.Relevance = domain.Relevance(relevance)
	return &record, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
