// Package storage provides abstractions for persistent data storage.
//
// Only rosters (saved participant lists) are stored. Receipts, claims and
// splits live in memory for the duration of a session.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/billscan/internal/models"
)

// ErrNotFound is returned when a roster does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for roster storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateRoster persists a new roster.
	// The roster.ID and CreatedAt fields will be populated by the store.
	CreateRoster(ctx context.Context, roster *models.Roster) error

	// GetRoster retrieves a roster by its ID.
	// Returns an error wrapping ErrNotFound if the roster does not exist.
	GetRoster(ctx context.Context, rosterID string) (*models.Roster, error)

	// ListRosters returns all rosters, newest first.
	ListRosters(ctx context.Context) ([]*models.Roster, error)

	// DeleteRoster removes a roster and its members.
	DeleteRoster(ctx context.Context, rosterID string) error

	// Close releases any resources held by the store.
	Close() error
}
