// Package session holds the per-user state of one bill split: the
// participants, the parsed receipt and the claims attached to it. A Session
// is passed explicitly to every operation; there is no global state.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/metrics"
	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/parser"
	"github.com/mmynk/billscan/internal/reconcile"
	"github.com/mmynk/billscan/internal/registry"
)

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrNoReceipt     = errors.New("no receipt has been parsed")
)

// Session is one user's split in progress. It is not safe for concurrent use;
// Manager.With serializes access.
type Session struct {
	ID        string
	CreatedAt time.Time

	// Text is the last receipt text parsed, after user edits.
	Text     string
	Receipt  *models.Receipt
	Registry *registry.Registry

	checker *reconcile.Checker
	scans   *ocr.Cache
}

// New creates an empty session. epsilon configures the reconciliation
// tolerance; zero selects the default.
func New(epsilon float64) *Session {
	reg, _ := registry.New(nil)
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Registry:  reg,
		checker:   reconcile.NewChecker(epsilon),
	}
}

// Scanner returns the session's OCR cache in front of engine, creating it on
// first use. Results are kept only for the session's lifetime.
func (s *Session) Scanner(engine ocr.Recognizer) *ocr.Cache {
	if s.scans == nil {
		s.scans = ocr.NewCache(engine)
	}
	return s.scans
}

// ParseText replaces the receipt with a fresh parse of text.
// Claims attached to the previous receipt are discarded.
func (s *Session) ParseText(text string) *models.Receipt {
	s.Text = text
	s.Receipt = parser.ParseReceipt(text)

	valid := len(s.Receipt.ValidEntries())
	metrics.ObserveParse(valid, len(s.Receipt.Entries)-valid)
	return s.Receipt
}

// SetParticipants replaces the participant registry. Existing claims keep
// pointing at the old participants; claims by names no longer registered stop
// counting towards the summary and show up in the reconciliation check.
func (s *Session) SetParticipants(names []string) error {
	reg, err := registry.New(names)
	if err != nil {
		return err
	}
	s.Registry = reg
	return nil
}

// Entry returns the entry at index i of the receipt.
func (s *Session) Entry(i int) (*models.LineEntry, error) {
	if s.Receipt == nil {
		return nil, ErrNoReceipt
	}
	if i < 0 || i >= len(s.Receipt.Entries) {
		return nil, fmt.Errorf("%w: index %d", ErrEntryNotFound, i)
	}
	return s.Receipt.Entries[i], nil
}

// SetClaims assigns entry i to the named participants with even weights.
func (s *Session) SetClaims(i int, names []string) (*models.LineEntry, error) {
	entry, err := s.Entry(i)
	if err != nil {
		return nil, err
	}
	ps, err := s.Registry.Lookup(names)
	if err != nil {
		return nil, err
	}
	if err := calculator.SetClaims(entry, ps); err != nil {
		return nil, err
	}
	return entry, nil
}

// SetWeight changes one participant's weight on entry i.
func (s *Session) SetWeight(i int, name string, weight float64) (*models.LineEntry, error) {
	entry, err := s.Entry(i)
	if err != nil {
		return nil, err
	}
	p, err := s.Registry.Get(name)
	if err != nil {
		return nil, err
	}
	if err := calculator.SetWeight(entry, p, weight); err != nil {
		return nil, err
	}
	return entry, nil
}

// ResetWeights restores an even split on entry i.
func (s *Session) ResetWeights(i int) (*models.LineEntry, error) {
	entry, err := s.Entry(i)
	if err != nil {
		return nil, err
	}
	calculator.ResetWeights(entry)
	return entry, nil
}

// SuggestTip returns each participant's current spend, the pre-filled
// weights for a custom tip.
func (s *Session) SuggestTip() (map[string]float64, error) {
	if s.Receipt == nil {
		return nil, ErrNoReceipt
	}
	return calculator.SuggestTipWeights(s.Receipt, s.Registry.All())
}

// AddTip appends a tip shared by every registered participant.
func (s *Session) AddTip(amount float64, mode calculator.TipMode, weights map[string]float64) (*models.LineEntry, error) {
	if s.Receipt == nil {
		return nil, ErrNoReceipt
	}
	return calculator.AddTip(s.Receipt, s.Registry.All(), amount, mode, weights)
}

// Summary returns what each participant owes.
func (s *Session) Summary() ([]calculator.PersonTotal, error) {
	if s.Receipt == nil {
		return nil, ErrNoReceipt
	}
	return calculator.Summarize(s.Receipt, s.Registry.All())
}

// Check reconciles claimed shares against the receipt total and, if given,
// the total printed on the receipt.
func (s *Session) Check(expected *float64) (*reconcile.Discrepancy, error) {
	if s.Receipt == nil {
		return nil, ErrNoReceipt
	}
	d := s.checker.Check(s.Receipt, s.Registry.All(), expected)
	metrics.ObserveReconcile(d != nil)
	return d, nil
}
