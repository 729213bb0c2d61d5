// Package models defines the core domain models for billscan.
//
// # Models
//
//   - Participant: a person sharing the bill, identified by trimmed name
//   - Claim: a participant's weighted share of one line entry
//   - LineEntry: one line of receipt text, parsed into description and cost
//   - Receipt: the ordered line entries of one scanned bill
//   - Roster: a saved, reusable list of participant names
//
// # Ownership
//
// A Receipt owns its entries and each LineEntry owns its claims. Claims only
// point at participants held by a registry; participants outlive the receipt
// and may be referenced from claims on many entries.
//
// Invalid entries (lines with no recognisable price) stay in the receipt so
// line numbers remain stable for editing, but every aggregate skips them.
//
// Receipts are never persisted. Rosters are the only stored model.
package models
