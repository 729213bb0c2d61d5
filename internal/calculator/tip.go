package calculator

import (
	"fmt"
	"math"
	"strings"

	"github.com/mmynk/billscan/internal/models"
)

// TipMode selects how a tip is divided.
type TipMode int

const (
	// TipNone adds no tip.
	TipNone TipMode = iota
	// TipEven splits the tip equally.
	TipEven
	// TipCustom splits the tip by caller-chosen weights, pre-filled with each
	// participant's current spend.
	TipCustom
)

func (m TipMode) String() string {
	switch m {
	case TipEven:
		return "even"
	case TipCustom:
		return "custom"
	case TipNone:
		return "none"
	}
	return fmt.Sprintf("TipMode(%d)", int(m))
}

// ParseTipMode accepts "none", "even" or "custom" (case-insensitive).
func ParseTipMode(s string) (TipMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return TipNone, nil
	case "even":
		return TipEven, nil
	case "custom", "proportional":
		return TipCustom, nil
	}
	return TipNone, fmt.Errorf("%w %q", ErrUnknownTipMode, s)
}

// SuggestTipWeights returns each participant's current claimed spend, keyed by
// name. It is the default weighting for a custom tip: people who ordered more
// tip more.
func SuggestTipWeights(receipt *models.Receipt, participants []*models.Participant) (map[string]float64, error) {
	out := make(map[string]float64, len(participants))
	for _, p := range participants {
		spend, err := TotalClaimedBy(receipt, p)
		if err != nil {
			return nil, err
		}
		out[p.Name] = spend
	}
	return out, nil
}

// AddTip appends a "Tip" entry of the given amount claimed by participants.
//
// In TipEven mode every claim has weight 1. In TipCustom mode the weight for
// each participant is taken from weights, falling back to the suggested
// weight (current spend) for names the caller did not set. TipNone leaves the
// receipt untouched and returns a nil entry. Weights naming anyone outside
// participants are rejected with ErrUnknownClaimant.
func AddTip(receipt *models.Receipt, participants []*models.Participant, amount float64, mode TipMode, weights map[string]float64) (*models.LineEntry, error) {
	switch mode {
	case TipNone:
		return nil, nil
	case TipEven, TipCustom:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownTipMode, mode)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return nil, fmt.Errorf("%w: %v", ErrNegativeAmount, amount)
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	entry := &models.LineEntry{
		Description: models.TipDescription,
		Cost:        amount,
		Valid:       true,
	}
	if err := SetClaims(entry, participants); err != nil {
		return nil, err
	}

	if mode == TipCustom {
		for name := range weights {
			if !hasParticipant(participants, name) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownClaimant, name)
			}
		}
		suggested, err := SuggestTipWeights(receipt, participants)
		if err != nil {
			return nil, err
		}
		for _, c := range entry.Claims {
			w, ok := weights[c.Participant.Name]
			if !ok {
				w = suggested[c.Participant.Name]
			}
			if err := SetWeight(entry, c.Participant, w); err != nil {
				return nil, err
			}
		}
	}

	receipt.AppendEntry(entry)
	return entry, nil
}

func hasParticipant(participants []*models.Participant, name string) bool {
	for _, p := range participants {
		if p.Name == name {
			return true
		}
	}
	return false
}
