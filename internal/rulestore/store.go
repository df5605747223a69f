package rulestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"avatarforge/internal/automap"
	"avatarforge/internal/config"
)

// Store manages learned-rule persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the rules database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	dbPath := cfg.RulesDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure rules directory: %w", err)
	}
	return OpenPath(dbPath)
}

// OpenPath opens the rules database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Save upserts a learned rule. Replaying an existing (pattern, group,
// slot) triple keeps a single row and refreshes its confidence.
func (s *Store) Save(ctx context.Context, rule automap.Rule) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learned_rules (pattern, target_group, target_slot, confidence, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(pattern, target_group, target_slot)
         DO UPDATE SET confidence = excluded.confidence`,
		rule.Pattern, rule.Group, rule.Slot, rule.Confidence, now)
	if err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	return nil
}

// Load returns all learned rules in the order they were first saved.
// Rules whose stored pattern no longer compiles are skipped.
func (s *Store) Load(ctx context.Context) ([]automap.Rule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pattern, target_group, target_slot, confidence
         FROM learned_rules ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	defer rows.Close()

	var rules []automap.Rule
	for rows.Next() {
		var pattern, group, slot string
		var confidence float64
		if err := rows.Scan(&pattern, &group, &slot, &confidence); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule, err := automap.NewRule(pattern, group, slot, confidence)
		if err != nil {
			continue
		}
		rule.Learned = true
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// Count returns the number of persisted learned rules.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learned_rules`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rules: %w", err)
	}
	return count, nil
}

// Clear removes every learned rule. This is the explicit user action;
// nothing in the pipeline calls it.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM learned_rules`)
	if err != nil {
		return 0, fmt.Errorf("clear rules: %w", err)
	}
	return res.RowsAffected()
}
