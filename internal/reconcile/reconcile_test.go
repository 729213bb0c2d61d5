package reconcile

import (
	"math"
	"strings"
	"testing"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/parser"
)

func setup(t *testing.T) (*models.Receipt, []*models.Participant) {
	t.Helper()
	r := parser.ParseReceipt("Pizza 20.00\nSalad 10.00\nTOTAL\nWine 15.00")
	ps := []*models.Participant{models.NewParticipant("Alice"), models.NewParticipant("Bob")}
	return r, ps
}

func TestCheckReportsUnclaimedEntry(t *testing.T) {
	r, ps := setup(t)
	valid := r.ValidEntries()

	_ = calculator.SetClaims(valid[0], ps)
	_ = calculator.SetClaims(valid[1], ps[:1])
	// Wine left unclaimed

	d := Check(r, ps, nil)
	if d == nil {
		t.Fatal("expected a discrepancy with an unclaimed entry")
	}
	if len(d.Mismatches) != 1 || d.Mismatches[0].Against != AgainstReceipt {
		t.Fatalf("unexpected mismatches: %+v", d.Mismatches)
	}
	if math.Abs(d.Mismatches[0].Delta-(-15)) > 1e-9 {
		t.Errorf("Delta = %v, want -15", d.Mismatches[0].Delta)
	}
	if len(d.Unclaimed) != 1 || d.Unclaimed[0].Description != "Wine" {
		t.Errorf("Unclaimed = %v, want [Wine]", d.Unclaimed)
	}
	if !strings.Contains(d.String(), "1 unclaimed") {
		t.Errorf("String() = %q", d.String())
	}
}

func TestCheckPassesWhenCovered(t *testing.T) {
	r, ps := setup(t)
	valid := r.ValidEntries()

	_ = calculator.SetClaims(valid[0], ps)
	_ = calculator.SetClaims(valid[1], ps[:1])
	_ = calculator.SetClaims(valid[2], ps)
	_ = calculator.SetWeight(valid[2], ps[0], 2)
	_ = calculator.SetWeight(valid[2], ps[1], 1)

	if d := Check(r, ps, nil); d != nil {
		t.Errorf("expected no discrepancy, got %s", d)
	}

	expected := 45.0
	if d := Check(r, ps, &expected); d != nil {
		t.Errorf("expected no discrepancy against 45.00, got %s", d)
	}
}

func TestCheckExpectedTotal(t *testing.T) {
	r, ps := setup(t)
	for _, e := range r.ValidEntries() {
		_ = calculator.SetClaims(e, ps)
	}

	printed := 47.50
	d := Check(r, ps, &printed)
	if d == nil {
		t.Fatal("expected a discrepancy against the printed total")
	}
	if len(d.Mismatches) != 1 || d.Mismatches[0].Against != AgainstExpected {
		t.Errorf("unexpected mismatches: %+v", d.Mismatches)
	}
}

func TestCheckReportsDegenerateEntry(t *testing.T) {
	r, ps := setup(t)
	for _, e := range r.ValidEntries() {
		_ = calculator.SetClaims(e, ps)
	}
	wine := r.ValidEntries()[2]
	_ = calculator.SetWeight(wine, ps[0], 0)
	_ = calculator.SetWeight(wine, ps[1], 0)

	d := Check(r, ps, nil)
	if d == nil || len(d.Degenerate) != 1 || d.Degenerate[0] != wine {
		t.Fatalf("expected wine reported as degenerate, got %+v", d)
	}
}

func TestCheckIgnoresUnlistedParticipants(t *testing.T) {
	r, ps := setup(t)
	carol := models.NewParticipant("Carol")
	for _, e := range r.ValidEntries() {
		_ = calculator.SetClaims(e, []*models.Participant{ps[0], carol})
	}

	// Carol's shares are not counted when she is not in the participant list.
	if d := Check(r, ps, nil); d == nil {
		t.Error("expected a discrepancy when a claimant is missing from participants")
	}
}

func TestCheckerEpsilon(t *testing.T) {
	r := &models.Receipt{Entries: []*models.LineEntry{{Description: "Tea", Cost: 0.1, Valid: true}}}
	p := models.NewParticipant("Alice")
	_ = calculator.SetClaims(r.Entries[0], []*models.Participant{p})

	near := 0.1 + 1e-9
	if d := NewChecker(0).Check(r, []*models.Participant{p}, &near); d != nil {
		t.Errorf("difference below epsilon should pass, got %s", d)
	}

	off := 0.105
	if d := NewChecker(0.01).Check(r, []*models.Participant{p}, &off); d != nil {
		t.Errorf("difference within custom epsilon should pass, got %s", d)
	}
}
