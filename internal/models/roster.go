package models

// Roster is a reusable participant list, e.g. "Flatmates" or "Friday lunch".
// Loading a roster seeds a session's participant registry; receipts and
// claims are never stored alongside it.
type Roster struct {
	// ID is the unique identifier for the roster (UUID format).
	ID string

	// Name is the display name of the roster.
	Name string

	// Members is the ordered list of participant names.
	Members []string

	// CreatedAt is the Unix timestamp when the roster was saved.
	CreatedAt int64
}
