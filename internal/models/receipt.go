package models

// TipDescription is the description given to the synthetic tip entry.
const TipDescription = "Tip"

// Claim is one participant's weighted share of a line entry.
// Claims are owned by their LineEntry; Participant is a non-owning reference
// into the session's registry.
type Claim struct {
	// Participant is the person making the claim.
	Participant *Participant

	// Weight is the relative portion of the entry this participant pays.
	// Non-negative, 1 for an even split. An entry's cost is divided in
	// proportion to the weights of all its claims.
	Weight float64
}

// LineEntry is a single line of receipt text after parsing.
type LineEntry struct {
	// Description is the text before the price, trimmed. May be empty.
	Description string

	// Cost is the price found at the end of the line.
	// Meaningless when Valid is false.
	Cost float64

	// Valid is false when no price could be extracted from the line.
	// Invalid entries are excluded from every total and claim operation.
	Valid bool

	// Claims are the participants sharing this entry, at most one per person.
	// Nil until claims are assigned.
	Claims []*Claim

	// Line is the zero-based index of the source line, or -1 for entries
	// appended after parsing (the tip).
	Line int
}

// ClaimFor returns the claim p holds on the entry, or nil.
func (e *LineEntry) ClaimFor(p *Participant) *Claim {
	for _, c := range e.Claims {
		if c.Participant.Is(p) {
			return c
		}
	}
	return nil
}

// TotalWeight sums the weights of all claims on the entry.
// Weights are mutable, so this is computed on every call.
func (e *LineEntry) TotalWeight() float64 {
	var sum float64
	for _, c := range e.Claims {
		sum += c.Weight
	}
	return sum
}

// Claimants returns the participants holding a claim on the entry, in claim order.
func (e *LineEntry) Claimants() []*Participant {
	out := make([]*Participant, 0, len(e.Claims))
	for _, c := range e.Claims {
		out = append(out, c.Participant)
	}
	return out
}

// Receipt is the ordered list of line entries parsed from one bill.
// Order only matters for display.
type Receipt struct {
	Entries []*LineEntry
}

// TotalCost is the sum of cost over valid entries.
func (r *Receipt) TotalCost() float64 {
	var total float64
	for _, e := range r.Entries {
		if e.Valid {
			total += e.Cost
		}
	}
	return total
}

// ValidEntries returns the entries with a usable price, in receipt order.
func (r *Receipt) ValidEntries() []*LineEntry {
	var out []*LineEntry
	for _, e := range r.Entries {
		if e.Valid {
			out = append(out, e)
		}
	}
	return out
}

// ItemsClaimedBy returns every valid entry on which p holds a claim.
// Recomputed on each call; there is no index to keep in sync.
func (r *Receipt) ItemsClaimedBy(p *Participant) []*LineEntry {
	var out []*LineEntry
	for _, e := range r.Entries {
		if !e.Valid || len(e.Claims) == 0 {
			continue
		}
		if e.ClaimFor(p) != nil {
			out = append(out, e)
		}
	}
	return out
}

// Unclaimed returns valid entries nobody has claimed yet.
func (r *Receipt) Unclaimed() []*LineEntry {
	var out []*LineEntry
	for _, e := range r.Entries {
		if e.Valid && len(e.Claims) == 0 {
			out = append(out, e)
		}
	}
	return out
}

// AppendEntry adds an entry after parsing. It is only used for the tip.
func (r *Receipt) AppendEntry(e *LineEntry) {
	e.Line = -1
	r.Entries = append(r.Entries, e)
}
