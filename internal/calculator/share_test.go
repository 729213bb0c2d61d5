package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/mmynk/billscan/internal/models"
)

func TestShareForWeighted(t *testing.T) {
	ps := people("Alice", "Bob")
	e := item("Pasta", 10)
	if err := SetClaims(e, ps); err != nil {
		t.Fatalf("SetClaims failed: %v", err)
	}
	_ = SetWeight(e, ps[0], 2)
	_ = SetWeight(e, ps[1], 3)

	alice, err := ShareFor(e, ps[0])
	if err != nil {
		t.Fatalf("ShareFor(Alice) failed: %v", err)
	}
	bob, err := ShareFor(e, ps[1])
	if err != nil {
		t.Fatalf("ShareFor(Bob) failed: %v", err)
	}

	if math.Abs(alice-4.0) > 0.01 {
		t.Errorf("Alice share = %v, want 4.00", alice)
	}
	if math.Abs(bob-6.0) > 0.01 {
		t.Errorf("Bob share = %v, want 6.00", bob)
	}
}

func TestSharesPartitionCost(t *testing.T) {
	tests := []struct {
		name    string
		cost    float64
		weights []float64
	}{
		{"single claimant", 7.35, []float64{1}},
		{"even thirds", 10, []float64{1, 1, 1}},
		{"uneven", 23.99, []float64{0.5, 2, 7}},
		{"one zero weight", 12.40, []float64{0, 1, 1}},
		{"fractional", 0.01, []float64{1, 1, 1, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := make([]string, len(tt.weights))
			for i := range names {
				names[i] = string(rune('A' + i))
			}
			ps := people(names...)
			e := item("x", tt.cost)
			if err := SetClaims(e, ps); err != nil {
				t.Fatalf("SetClaims failed: %v", err)
			}
			for i, w := range tt.weights {
				if err := SetWeight(e, ps[i], w); err != nil {
					t.Fatalf("SetWeight failed: %v", err)
				}
			}

			var sum float64
			for _, p := range ps {
				share, err := ShareFor(e, p)
				if err != nil {
					t.Fatalf("ShareFor(%s) failed: %v", p.Name, err)
				}
				sum += share
			}
			if math.Abs(sum-tt.cost) > 1e-9 {
				t.Errorf("shares sum to %v, want %v", sum, tt.cost)
			}
		})
	}
}

func TestShareForErrors(t *testing.T) {
	ps := people("Alice", "Bob")

	unclaimed := item("Bread", 3)
	if _, err := ShareFor(unclaimed, ps[0]); !errors.Is(err, ErrNoClaim) {
		t.Errorf("no claims: expected ErrNoClaim, got %v", err)
	}

	e := item("Soup", 8)
	_ = SetClaims(e, ps[:1])
	_, err := ShareFor(e, ps[1])
	if !errors.Is(err, ErrNoClaim) || !errors.Is(err, ErrClaimNotFound) {
		t.Errorf("missing claimant: expected ErrNoClaim wrapping ErrClaimNotFound, got %v", err)
	}

	_ = SetWeight(e, ps[0], 0)
	if _, err := ShareFor(e, ps[0]); !errors.Is(err, ErrDegenerateSplit) {
		t.Errorf("zero weights: expected ErrDegenerateSplit, got %v", err)
	}
}

func TestShareForSeesWeightChanges(t *testing.T) {
	ps := people("Alice", "Bob")
	e := item("Pizza", 20)
	_ = SetClaims(e, ps)

	before, _ := ShareFor(e, ps[0])
	_ = SetWeight(e, ps[1], 3)
	after, _ := ShareFor(e, ps[0])

	if math.Abs(before-10) > 1e-9 || math.Abs(after-5) > 1e-9 {
		t.Errorf("share before/after = %v/%v, want 10/5", before, after)
	}
}

func TestSummarize(t *testing.T) {
	ps := people("Alice", "Bob")
	pizza := item("Pizza", 20)
	salad := item("Salad", 10)
	degenerate := item("Bread", 4)
	r := &models.Receipt{Entries: []*models.LineEntry{pizza, salad, degenerate, {Valid: false}}}

	_ = SetClaims(pizza, ps)
	_ = SetClaims(salad, ps[:1])
	_ = SetClaims(degenerate, ps[1:])
	_ = SetWeight(degenerate, ps[1], 0)

	got, err := Summarize(r, ps)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(got))
	}

	// Alice: 10 + 10 = 20, Bob: 10 (bread has zero weight)
	if got[0].Participant != "Alice" || math.Abs(got[0].Total-20) > 0.01 || len(got[0].Items) != 2 {
		t.Errorf("Alice = %+v, want total 20 over 2 items", got[0])
	}
	if got[1].Participant != "Bob" || math.Abs(got[1].Total-10) > 0.01 || len(got[1].Items) != 1 {
		t.Errorf("Bob = %+v, want total 10 over 1 item", got[1])
	}

	bobTotal, err := TotalClaimedBy(r, ps[1])
	if err != nil || math.Abs(bobTotal-10) > 0.01 {
		t.Errorf("TotalClaimedBy(Bob) = %v, %v; want 10", bobTotal, err)
	}
}
