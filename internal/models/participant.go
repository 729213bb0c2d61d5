package models

import "strings"

// Participant is a person splitting the bill.
// Identity is the trimmed display name; two participants with the same name
// are the same person.
type Participant struct {
	// Name is the trimmed display name.
	Name string
}

// NewParticipant returns a participant with a trimmed name.
func NewParticipant(name string) *Participant {
	return &Participant{Name: strings.TrimSpace(name)}
}

// Is reports whether p and other name the same person.
func (p *Participant) Is(other *Participant) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Name == other.Name
}
