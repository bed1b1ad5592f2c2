// Package history archives comparison runs in a local SQLite database so a
// team can review how two model revisions drifted over time.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/modeldiff/internal/engine"
)

//go:embed schema.sql
var schemaSQL string

// ErrRunNotFound is returned when no archived run matches the given ID.
var ErrRunNotFound = errors.New("history: run not found")

// Run is one archived comparison run. Report is the full JSON result; list
// queries leave it empty.
type Run struct {
	ID                 string
	CreatedAt          time.Time
	PathA              string
	PathB              string
	VersionA           string
	VersionB           string
	RealDifferences    int
	VersionDifferences int
	OnlyA              int
	OnlyB              int
	WeightedScore      float64
	Policy             string
	Report             string
}

// Store manages the SQLite database holding archived runs.
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the history database at dbPath and
// ensures the schema exists. ":memory:" is accepted for tests.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// busy_timeout first so the remaining pragmas wait on locks held by a
	// concurrent invocation instead of failing.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry executes a statement with exponential backoff on
// "database is locked" errors, which can occur when two invocations
// initialize the same database file at once.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordRun archives a completed comparison run and returns its ID.
func (s *Store) RecordRun(ctx context.Context, pathA, pathB string, result *engine.RunResult) (string, error) {
	report, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encode run report: %w", err)
	}

	id := uuid.New().String()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO comparison_runs (
			id, created_at, path_a, path_b, version_a, version_b,
			real_differences, version_differences, only_a, only_b,
			weighted_score, policy, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), pathA, pathB, result.VersionA, result.VersionB,
		result.Summary.TotalRealDifferences, result.Summary.TotalVersionDifferences,
		result.Summary.TotalOnlyA, result.Summary.TotalOnlyB,
		result.Summary.WeightedScore, result.Summary.Policy, string(report))
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first, without report
// bodies. limit <= 0 means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, created_at, path_a, path_b, version_a, version_b,
		       real_differences, version_differences, only_a, only_b,
		       weighted_score, policy
		FROM comparison_runs
		ORDER BY created_at DESC, id`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.PathA, &r.PathB,
			&r.VersionA, &r.VersionB, &r.RealDifferences, &r.VersionDifferences,
			&r.OnlyA, &r.OnlyB, &r.WeightedScore, &r.Policy); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single archived run including its full report. The ID may
// be a unique prefix of the stored UUID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, path_a, path_b, version_a, version_b,
		       real_differences, version_differences, only_a, only_b,
		       weighted_score, policy, report
		FROM comparison_runs
		WHERE id LIKE ?
		LIMIT 2`, id+"%")
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.PathA, &r.PathB,
			&r.VersionA, &r.VersionB, &r.RealDifferences, &r.VersionDifferences,
			&r.OnlyA, &r.OnlyB, &r.WeightedScore, &r.Policy, &r.Report); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, ErrRunNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}
}

// Prune deletes all but the newest keep runs and returns how many were
// removed. keep <= 0 deletes nothing.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM comparison_runs
		WHERE id NOT IN (
			SELECT id FROM comparison_runs
			ORDER BY created_at DESC, id
			LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return int(n), nil
}

// Clear deletes every archived run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comparison_runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	return nil
}
