// Package reconcile compares what participants have claimed against the
// receipt total. Results are advisory: a mismatch is returned as data for the
// caller to display and never blocks further editing.
package reconcile

import (
	"fmt"
	"math"
	"strings"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/models"
)

// DefaultEpsilon is the absolute tolerance used when comparing totals.
// Shares are unrounded float64 values, so exact equality is not meaningful.
const DefaultEpsilon = 1e-6

// Comparison names the target a claimed total was checked against.
type Comparison string

const (
	AgainstReceipt  Comparison = "receipt_total"
	AgainstExpected Comparison = "expected_total"
)

// Mismatch is one failed comparison.
type Mismatch struct {
	Against Comparison
	Target  float64
	Claimed float64
	// Delta is Claimed - Target; negative when money is left unclaimed.
	Delta float64
}

// Discrepancy describes why claimed shares do not add up.
type Discrepancy struct {
	Claimed    float64
	Mismatches []Mismatch

	// Unclaimed lists valid entries with no claims.
	Unclaimed []*models.LineEntry
	// Degenerate lists entries whose claim weights sum to zero.
	Degenerate []*models.LineEntry
}

func (d *Discrepancy) String() string {
	parts := make([]string, 0, len(d.Mismatches))
	for _, m := range d.Mismatches {
		parts = append(parts, fmt.Sprintf("claimed %.2f vs %s %.2f (off by %+.2f)",
			m.Claimed, m.Against, m.Target, m.Delta))
	}
	s := strings.Join(parts, "; ")
	if n := len(d.Unclaimed); n > 0 {
		s += fmt.Sprintf("; %d unclaimed item(s)", n)
	}
	if n := len(d.Degenerate); n > 0 {
		s += fmt.Sprintf("; %d item(s) with zero total weight", n)
	}
	return s
}

// Checker compares totals within Epsilon.
type Checker struct {
	Epsilon float64
}

// NewChecker returns a Checker; a non-positive epsilon selects DefaultEpsilon.
func NewChecker(epsilon float64) *Checker {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &Checker{Epsilon: epsilon}
}

// TotalClaimed sums every participant's share of every entry they claimed.
// It equals the receipt total only when every valid entry has claimants with a
// non-zero weight sum, all of them among participants.
func TotalClaimed(receipt *models.Receipt, participants []*models.Participant) float64 {
	var total float64
	for _, p := range participants {
		for _, e := range receipt.ItemsClaimedBy(p) {
			share, err := calculator.ShareFor(e, p)
			if err != nil {
				continue
			}
			total += share
		}
	}
	return total
}

// Check compares the claimed total with the receipt total and, when expected
// is non-nil, with an externally supplied total too. It returns nil when every
// comparison is within tolerance.
func (c *Checker) Check(receipt *models.Receipt, participants []*models.Participant, expected *float64) *Discrepancy {
	claimed := TotalClaimed(receipt, participants)
	d := &Discrepancy{Claimed: claimed}

	c.compare(d, AgainstReceipt, receipt.TotalCost())
	if expected != nil {
		c.compare(d, AgainstExpected, *expected)
	}

	if len(d.Mismatches) == 0 {
		return nil
	}

	d.Unclaimed = receipt.Unclaimed()
	for _, e := range receipt.ValidEntries() {
		if len(e.Claims) > 0 && e.TotalWeight() == 0 {
			d.Degenerate = append(d.Degenerate, e)
		}
	}
	return d
}

func (c *Checker) compare(d *Discrepancy, against Comparison, target float64) {
	delta := d.Claimed - target
	if math.Abs(delta) <= c.Epsilon {
		return
	}
	d.Mismatches = append(d.Mismatches, Mismatch{
		Against: against,
		Target:  target,
		Claimed: d.Claimed,
		Delta:   delta,
	})
}

// Check runs a Checker with DefaultEpsilon.
func Check(receipt *models.Receipt, participants []*models.Participant, expected *float64) *Discrepancy {
	return NewChecker(DefaultEpsilon).Check(receipt, participants, expected)
}
