package models

import (
	"math"
	"testing"
)

func TestReceiptTotalCostSkipsInvalid(t *testing.T) {
	r := &Receipt{Entries: []*LineEntry{
		{Description: "Pizza", Cost: 12.5, Valid: true},
		{Description: "junk", Cost: 99, Valid: false},
		{Description: "Beer", Cost: 4.25, Valid: true},
	}}

	if got := r.TotalCost(); math.Abs(got-16.75) > 1e-9 {
		t.Errorf("TotalCost() = %v, want 16.75", got)
	}
	if got := len(r.ValidEntries()); got != 2 {
		t.Errorf("ValidEntries() len = %d, want 2", got)
	}
}

func TestItemsClaimedBy(t *testing.T) {
	alice := NewParticipant(" Alice ")
	bob := NewParticipant("Bob")

	pizza := &LineEntry{Description: "Pizza", Cost: 10, Valid: true,
		Claims: []*Claim{{Participant: alice, Weight: 1}, {Participant: bob, Weight: 1}}}
	beer := &LineEntry{Description: "Beer", Cost: 5, Valid: true,
		Claims: []*Claim{{Participant: bob, Weight: 1}}}
	stale := &LineEntry{Description: "header", Valid: false,
		Claims: []*Claim{{Participant: alice, Weight: 1}}}
	salad := &LineEntry{Description: "Salad", Cost: 7, Valid: true}

	r := &Receipt{Entries: []*LineEntry{pizza, beer, stale, salad}}

	got := r.ItemsClaimedBy(NewParticipant("Alice"))
	if len(got) != 1 || got[0] != pizza {
		t.Errorf("ItemsClaimedBy(Alice) = %v, want [Pizza]", got)
	}
	if got := r.ItemsClaimedBy(bob); len(got) != 2 {
		t.Errorf("ItemsClaimedBy(Bob) len = %d, want 2", len(got))
	}
	if got := r.Unclaimed(); len(got) != 1 || got[0] != salad {
		t.Errorf("Unclaimed() = %v, want [Salad]", got)
	}
}

func TestTotalWeightIsFresh(t *testing.T) {
	e := &LineEntry{Valid: true, Cost: 10, Claims: []*Claim{
		{Participant: NewParticipant("A"), Weight: 1},
		{Participant: NewParticipant("B"), Weight: 1},
	}}
	if got := e.TotalWeight(); got != 2 {
		t.Fatalf("TotalWeight() = %v, want 2", got)
	}
	e.Claims[0].Weight = 3
	if got := e.TotalWeight(); got != 4 {
		t.Errorf("TotalWeight() after update = %v, want 4", got)
	}
}

func TestAppendEntryMarksSynthetic(t *testing.T) {
	r := &Receipt{}
	tip := &LineEntry{Description: TipDescription, Cost: 3, Valid: true, Line: 7}
	r.AppendEntry(tip)

	if len(r.Entries) != 1 || r.Entries[0].Line != -1 {
		t.Errorf("appended entry Line = %d, want -1", r.Entries[0].Line)
	}
}
