// Package calculator allocates line entry costs across participants.
//
// Each entry's cost is divided among its claims in proportion to claim
// weight:
//
//	share = cost × weight / Σ weights
//
// so the shares of an entry always add up to its cost. Weights default to 1
// (an even split) and can be changed per claim for uneven splits.
package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/billscan/internal/models"
)

// DefaultWeight is the weight of a freshly created claim.
const DefaultWeight = 1.0

// SetClaims replaces the entry's claims with one default-weight claim per
// participant. Earlier claims and weights are discarded, not merged.
// A participant listed twice gets a single claim.
func SetClaims(entry *models.LineEntry, participants []*models.Participant) error {
	if !entry.Valid {
		return ErrInvalidEntry
	}
	entry.Claims = evenClaims(participants)
	return nil
}

func evenClaims(participants []*models.Participant) []*models.Claim {
	claims := make([]*models.Claim, 0, len(participants))
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		claims = append(claims, &models.Claim{Participant: p, Weight: DefaultWeight})
	}
	return claims
}

// SetWeight changes the weight of p's existing claim on the entry.
func SetWeight(entry *models.LineEntry, p *models.Participant, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeWeight, weight)
	}
	claim := entry.ClaimFor(p)
	if claim == nil {
		return fmt.Errorf("%w: %s on %q", ErrClaimNotFound, p.Name, entry.Description)
	}
	claim.Weight = weight
	return nil
}

// ResetWeights puts every claim on the entry back to the default weight,
// keeping the claimants. Used when an uneven split is switched off.
func ResetWeights(entry *models.LineEntry) {
	entry.Claims = evenClaims(entry.Claimants())
}
