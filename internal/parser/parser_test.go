package parser

import (
	"math"
	"reflect"
	"testing"

	"github.com/mmynk/billscan/internal/models"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantValid bool
		wantDesc  string
		wantCost  float64
	}{
		{"simple item", "Pizza Margherita  12.50", true, "Pizza Margherita", 12.50},
		{"last price wins", "2 x 4.50   9.00", true, "2 x 4.50", 9.00},
		{"header row", "SUBTOTAL", false, "", 0},
		{"blank line", "", false, "", 0},
		{"price only", "12,50", true, "", 12.50},
		{"comma decimal", "Beer 0,5l   4,20", true, "Beer 0,5l", 4.20},
		{"spaces around mark", "Cola 1 . 99", true, "Cola", 1.99},
		{"repeated price in description", "Code 12.50 Pizza 12.50", true, "Code 12.50 Pizza", 12.50},
		{"single cents digit", "Espresso 2.5", false, "", 0},
		{"no whole units", "Fries .99", false, "", 0},
		{"stacked marks do not normalise", "Soup 4 ., 50", false, "", 0},
		{"long cents tail", "Burger 12.505", true, "Burger", 12.505},
		{"non-ascii description", "Crème brûlée £6.40", true, "Crème brûlée £", 6.40},
		{"product code before price", "SKU 0042 Milk 1L  1.15", true, "SKU 0042 Milk 1L", 1.15},
		// Known limitation: thousands separators split at the cents group.
		{"thousands separator", "Item 1,234.56", true, "Item 1,", 234.56},
		{"stacked separators", "Item 12.345.67", true, "Item 12.", 345.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if got.Valid != tt.wantValid {
				t.Fatalf("ParseLine(%q).Valid = %v, want %v", tt.line, got.Valid, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if got.Description != tt.wantDesc {
				t.Errorf("ParseLine(%q).Description = %q, want %q", tt.line, got.Description, tt.wantDesc)
			}
			if math.Abs(got.Cost-tt.wantCost) > 1e-9 {
				t.Errorf("ParseLine(%q).Cost = %v, want %v", tt.line, got.Cost, tt.wantCost)
			}
			if got.Claims != nil {
				t.Errorf("ParseLine(%q) returned claims, want none", tt.line)
			}
		})
	}
}

func TestParseLineIdempotentOnCleanInput(t *testing.T) {
	lines := []string{"Garlic bread 4.95", "Tiramisu 6.00", "Sparkling water 2.10"}

	for _, line := range lines {
		first := ParseLine(line)
		again := ParseLine(first.Description + " " + PriceTokens(line)[0])
		if again.Description != first.Description || again.Cost != first.Cost {
			t.Errorf("reparse of %q gave (%q, %v), want (%q, %v)",
				line, again.Description, again.Cost, first.Description, first.Cost)
		}
	}
}

func TestPriceTokens(t *testing.T) {
	got := PriceTokens("2 x 4.50   9.00")
	want := []string{"4.50", "9.00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("PriceTokens = %v, want %v", got, want)
	}

	if got := PriceTokens("TOTAL DUE"); len(got) != 0 {
		t.Errorf("PriceTokens on header = %v, want none", got)
	}
}

func TestParseReceipt(t *testing.T) {
	text := "Pizza 12.50\nSUBTOTAL\n\nBeer 4,00"
	r := ParseReceipt(text)

	if len(r.Entries) != 4 {
		t.Fatalf("expected 4 entries (one per line), got %d", len(r.Entries))
	}
	for i, e := range r.Entries {
		if e.Line != i {
			t.Errorf("entry %d has Line %d", i, e.Line)
		}
	}
	if r.Entries[1].Valid || r.Entries[2].Valid {
		t.Error("header and blank lines should be invalid")
	}
	if math.Abs(r.TotalCost()-16.50) > 1e-9 {
		t.Errorf("TotalCost() = %v, want 16.50", r.TotalCost())
	}
}

func TestParseReceiptDiscardsClaims(t *testing.T) {
	text := "Pizza 12.50\nBeer 4.00"
	r := ParseReceipt(text)
	r.Entries[0].Claims = []*models.Claim{{Participant: models.NewParticipant("Alice"), Weight: 1}}

	again := ParseReceipt(text)
	for _, e := range again.Entries {
		if len(e.Claims) != 0 {
			t.Errorf("entry %q kept claims after re-parse", e.Description)
		}
	}
}
