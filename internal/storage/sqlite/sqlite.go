// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/registry"
	"github.com/mmynk/billscan/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys so deleting a roster cascades to its members
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRoster persists a new roster. Member names are trimmed and must be
// unique within the roster.
func (s *SQLiteStore) CreateRoster(ctx context.Context, roster *models.Roster) error {
	reg, err := registry.New(roster.Members)
	if err != nil {
		return fmt.Errorf("invalid roster members: %w", err)
	}
	roster.Members = reg.Names()

	if roster.ID == "" {
		roster.ID = uuid.New().String()
	}
	if roster.CreatedAt == 0 {
		roster.CreatedAt = time.Now().Unix()
	}
	roster.Name = strings.TrimSpace(roster.Name)
	if roster.Name == "" {
		roster.Name = generateName(roster.Members)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rosters (id, name, created_at) VALUES (?, ?, ?)",
		roster.ID, roster.Name, roster.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert roster: %w", err)
	}

	for i, name := range roster.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO roster_members (roster_id, position, name) VALUES (?, ?, ?)",
			roster.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert roster member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetRoster retrieves a roster by ID, including its members in saved order.
func (s *SQLiteStore) GetRoster(ctx context.Context, rosterID string) (*models.Roster, error) {
	roster := &models.Roster{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM rosters WHERE id = ?",
		rosterID,
	).Scan(&roster.ID, &roster.Name, &roster.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("roster %s: %w", rosterID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	members, err := s.members(ctx, roster.ID)
	if err != nil {
		return nil, err
	}
	roster.Members = members

	return roster, nil
}

// ListRosters returns every roster, newest first.
func (s *SQLiteStore) ListRosters(ctx context.Context) ([]*models.Roster, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM rosters ORDER BY created_at DESC, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rosters: %w", err)
	}
	defer rows.Close()

	var rosters []*models.Roster
	for rows.Next() {
		roster := &models.Roster{}
		if err := rows.Scan(&roster.ID, &roster.Name, &roster.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan roster: %w", err)
		}
		rosters = append(rosters, roster)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rosters: %w", err)
	}

	for _, roster := range rosters {
		members, err := s.members(ctx, roster.ID)
		if err != nil {
			return nil, err
		}
		roster.Members = members
	}

	return rosters, nil
}

// DeleteRoster removes a roster by ID together with its members.
// Members are deleted explicitly since the foreign_keys pragma only applies to
// the connection it ran on.
func (s *SQLiteStore) DeleteRoster(ctx context.Context, rosterID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM roster_members WHERE roster_id = ?", rosterID); err != nil {
		return fmt.Errorf("failed to delete roster members: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM rosters WHERE id = ?", rosterID)
	if err != nil {
		return fmt.Errorf("failed to delete roster: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("roster %s: %w", rosterID, storage.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) members(ctx context.Context, rosterID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM roster_members WHERE roster_id = ? ORDER BY position",
		rosterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan roster member: %w", err)
		}
		members = append(members, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster members: %w", err)
	}
	return members, nil
}

// generateName creates a roster name from its members.
func generateName(members []string) string {
	if len(members) == 0 {
		return fmt.Sprintf("Roster - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(members) <= 3 {
		return strings.Join(members, ", ")
	}
	return fmt.Sprintf("%s and %d others",
		strings.Join(members[:2], ", "),
		len(members)-2,
	)
}
