// Package registry holds the participants taking part in a split.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmynk/billscan/internal/models"
)

var (
	ErrDuplicateParticipant = errors.New("duplicate participant")
	ErrUnknownParticipant   = errors.New("unknown participant")
	ErrEmptyName            = errors.New("participant name is empty")
)

// nameSeparator splits free-text participant input on commas and newlines.
var nameSeparator = regexp.MustCompile("\n|,")

// Registry is the ordered set of participants for one session.
type Registry struct {
	participants []*models.Participant
	byName       map[string]*models.Participant
}

// New builds a registry from already-split names.
// Names are trimmed; a name that repeats after trimming is a caller error.
func New(names []string) (*Registry, error) {
	r := &Registry{byName: make(map[string]*models.Participant, len(names))}
	for _, name := range names {
		if _, err := r.Add(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ParseNames splits raw free text on commas and newlines and trims each name.
// Blank segments (e.g. from a trailing comma) are dropped.
func ParseNames(raw string) []string {
	var names []string
	for _, part := range nameSeparator.Split(raw, -1) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Add registers a participant and returns it.
func (r *Registry) Add(name string) (*models.Participant, error) {
	p := models.NewParticipant(name)
	if p.Name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := r.byName[p.Name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, p.Name)
	}
	r.participants = append(r.participants, p)
	r.byName[p.Name] = p
	return p, nil
}

// Get looks a participant up by name. The name is trimmed first.
func (r *Registry) Get(name string) (*models.Participant, error) {
	p, ok := r.byName[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParticipant, strings.TrimSpace(name))
	}
	return p, nil
}

// Lookup resolves several names at once, failing on the first unknown one.
func (r *Registry) Lookup(names []string) ([]*models.Participant, error) {
	out := make([]*models.Participant, 0, len(names))
	for _, name := range names {
		p, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// All returns the participants in registration order.
func (r *Registry) All() []*models.Participant {
	out := make([]*models.Participant, len(r.participants))
	copy(out, r.participants)
	return out
}

// Names returns participant names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.participants))
	for i, p := range r.participants {
		out[i] = p.Name
	}
	return out
}

// Len is the number of registered participants.
func (r *Registry) Len() int {
	return len(r.participants)
}
