// Package parser turns cleaned OCR text into receipt line entries.
//
// Each line is expected to end with its price. The price is the right-most
// number with a decimal mark ('.' or ',') followed by at least two digits;
// OCR noise may put spaces around the mark. Everything before the last
// occurrence of that price is the description.
//
// The heuristic has a known blind spot: a
// description ending in something price-shaped is split at that number.
// Lines without a price are kept as invalid entries so that line numbers stay
// stable while the text is being edited.
package parser

import (
	"log/slog"
	"strings"

	"github.com/mmynk/billscan/internal/models"
	"github.com/shopspring/decimal"
)

// ParseLine extracts a description and price from one line of receipt text.
// It never fails; lines without a usable price come back with Valid false.
func ParseLine(line string) *models.LineEntry {
	token, ok := lastPriceToken(line)
	if !ok {
		return invalid()
	}

	cost, ok := normalizePrice(token)
	if !ok {
		return invalid()
	}

	idx := strings.LastIndex(line, token)
	if idx < 0 {
		return invalid()
	}

	return &models.LineEntry{
		Description: strings.TrimSpace(line[:idx]),
		Cost:        cost,
		Valid:       true,
	}
}

// ParseReceipt parses every line of text independently. The result has exactly
// one entry per input line, invalid ones included, and no claims: parsing again
// always starts from scratch.
func ParseReceipt(text string) *models.Receipt {
	lines := strings.Split(text, "\n")
	receipt := &models.Receipt{Entries: make([]*models.LineEntry, 0, len(lines))}

	valid := 0
	for i, line := range lines {
		entry := ParseLine(line)
		entry.Line = i
		if entry.Valid {
			valid++
		}
		receipt.Entries = append(receipt.Entries, entry)
	}

	slog.Debug("Parsed receipt text",
		"lines", len(lines),
		"valid", valid,
		"invalid", len(lines)-valid,
	)
	return receipt
}

func invalid() *models.LineEntry {
	return &models.LineEntry{Valid: false}
}

// normalizePrice strips whitespace and turns commas into decimal points.
// Tokens like "4 ., 50" collapse to "4..50" and are rejected here.
func normalizePrice(token string) (float64, bool) {
	s := strings.Join(strings.Fields(token), "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	f, _ := d.Float64()
	return f, true
}
