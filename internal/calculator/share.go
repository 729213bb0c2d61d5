package calculator

import (
	"errors"
	"fmt"

	"github.com/mmynk/billscan/internal/models"
)

// PersonItem is one participant's share of a single entry.
type PersonItem struct {
	Description string
	Amount      float64 // This person's share of the entry
}

// PersonTotal is the calculated amount one participant owes.
type PersonTotal struct {
	Participant string
	Total       float64
	Items       []PersonItem
}

// ShareFor returns p's portion of the entry's cost.
// The weight sum is taken fresh on every call since weights may change
// after the claims are created.
func ShareFor(entry *models.LineEntry, p *models.Participant) (float64, error) {
	if len(entry.Claims) == 0 {
		return 0, fmt.Errorf("%w: %q has no claims", ErrNoClaim, entry.Description)
	}
	claim := entry.ClaimFor(p)
	if claim == nil {
		return 0, fmt.Errorf("%w: %s on %q", ErrNoClaim, p.Name, entry.Description)
	}

	total := entry.TotalWeight()
	if total == 0 {
		return 0, fmt.Errorf("%w: %q", ErrDegenerateSplit, entry.Description)
	}
	return entry.Cost * claim.Weight / total, nil
}

// TotalClaimedBy sums p's shares over every entry p has claimed.
// Entries whose weights sum to zero contribute nothing; the reconciliation
// check reports them separately.
func TotalClaimedBy(receipt *models.Receipt, p *models.Participant) (float64, error) {
	var total float64
	for _, e := range receipt.ItemsClaimedBy(p) {
		share, err := ShareFor(e, p)
		if errors.Is(err, ErrDegenerateSplit) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += share
	}
	return total, nil
}

// Summarize computes what each participant owes and for which items,
// in participant order.
func Summarize(receipt *models.Receipt, participants []*models.Participant) ([]PersonTotal, error) {
	out := make([]PersonTotal, 0, len(participants))
	for _, p := range participants {
		pt := PersonTotal{Participant: p.Name, Items: []PersonItem{}}
		for _, e := range receipt.ItemsClaimedBy(p) {
			share, err := ShareFor(e, p)
			if errors.Is(err, ErrDegenerateSplit) {
				continue
			}
			if err != nil {
				return nil, err
			}
			pt.Total += share
			pt.Items = append(pt.Items, PersonItem{Description: e.Description, Amount: share})
		}
		out = append(out, pt)
	}
	return out, nil
}
