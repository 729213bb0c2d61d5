package service

import (
	"image"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/reconcile"
)

// Messages are plain structs carried as JSON by JSONCodec.

type Empty struct{}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type ParseTextRequest struct {
	Text string `json:"text"`
}

type ScanImageRequest struct {
	Image     []byte `json:"image"`
	Alternate bool   `json:"alternate"`
	// Crop restricts recognition to the item area, in source pixels.
	Crop *CropRect `json:"crop,omitempty"`
}

type CropRect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (c *CropRect) rect() *image.Rectangle {
	if c == nil {
		return nil
	}
	r := image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height)
	return &r
}

type ReceiptResponse struct {
	Text      string   `json:"text,omitempty"`
	Entries   []*Entry `json:"entries"`
	TotalCost float64  `json:"total_cost"`
}

type SetParticipantsRequest struct {
	// Exactly one of Names, Raw or RosterID is used, in that order.
	Names    []string `json:"names,omitempty"`
	Raw      string   `json:"raw,omitempty"`
	RosterID string   `json:"roster_id,omitempty"`
}

type ParticipantsResponse struct {
	Participants []string `json:"participants"`
}

type SetClaimsRequest struct {
	Line         int      `json:"line"`
	Participants []string `json:"participants"`
}

type SetWeightRequest struct {
	Line        int     `json:"line"`
	Participant string  `json:"participant"`
	Weight      float64 `json:"weight"`
}

type LineRequest struct {
	Line int `json:"line"`
}

type EntryResponse struct {
	Entry *Entry `json:"entry"`
}

type TipWeightsResponse struct {
	Weights map[string]float64 `json:"weights"`
}

type AddTipRequest struct {
	Amount  float64            `json:"amount"`
	Mode    string             `json:"mode"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

type CheckRequest struct {
	ExpectedTotal *float64 `json:"expected_total,omitempty"`
}

type CheckResponse struct {
	Balanced    bool         `json:"balanced"`
	Discrepancy *Discrepancy `json:"discrepancy,omitempty"`
}

type SummaryRequest struct {
	ExpectedTotal *float64 `json:"expected_total,omitempty"`
}

type SummaryResponse struct {
	TotalCost   float64        `json:"total_cost"`
	People      []*PersonTotal `json:"people"`
	Discrepancy *Discrepancy   `json:"discrepancy,omitempty"`
}

type Entry struct {
	Line        int      `json:"line"`
	Description string   `json:"description"`
	Cost        float64  `json:"cost"`
	Valid       bool     `json:"valid"`
	Claims      []*Claim `json:"claims,omitempty"`
}

type Claim struct {
	Participant string  `json:"participant"`
	Weight      float64 `json:"weight"`
	Share       float64 `json:"share"`
}

type PersonItem struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

type PersonTotal struct {
	Participant string        `json:"participant"`
	Total       float64       `json:"total"`
	Items       []*PersonItem `json:"items"`
}

type Mismatch struct {
	Against string  `json:"against"`
	Target  float64 `json:"target"`
	Claimed float64 `json:"claimed"`
	Delta   float64 `json:"delta"`
}

type Discrepancy struct {
	Claimed         float64     `json:"claimed"`
	Mismatches      []*Mismatch `json:"mismatches"`
	UnclaimedLines  []int       `json:"unclaimed_lines,omitempty"`
	DegenerateLines []int       `json:"degenerate_lines,omitempty"`
	Message         string      `json:"message"`
}

type SaveRosterRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type RosterRequest struct {
	RosterID string `json:"roster_id"`
}

type Roster struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type RosterResponse struct {
	Roster *Roster `json:"roster"`
}

type ListRostersResponse struct {
	Rosters []*Roster `json:"rosters"`
}

func toEntry(e *models.LineEntry) *Entry {
	out := &Entry{
		Line:        e.Line,
		Description: e.Description,
		Cost:        e.Cost,
		Valid:       e.Valid,
	}
	for _, c := range e.Claims {
		// Share is zero when the weights sum to zero.
		share, _ := calculator.ShareFor(e, c.Participant)
		out.Claims = append(out.Claims, &Claim{
			Participant: c.Participant.Name,
			Weight:      c.Weight,
			Share:       share,
		})
	}
	return out
}

func toReceiptResponse(text string, r *models.Receipt) *ReceiptResponse {
	entries := make([]*Entry, len(r.Entries))
	for i, e := range r.Entries {
		entries[i] = toEntry(e)
	}
	return &ReceiptResponse{Text: text, Entries: entries, TotalCost: r.TotalCost()}
}

func toPersonTotals(totals []calculator.PersonTotal) []*PersonTotal {
	out := make([]*PersonTotal, len(totals))
	for i, pt := range totals {
		items := make([]*PersonItem, len(pt.Items))
		for j, it := range pt.Items {
			items[j] = &PersonItem{Description: it.Description, Amount: it.Amount}
		}
		out[i] = &PersonTotal{Participant: pt.Participant, Total: pt.Total, Items: items}
	}
	return out
}

func toDiscrepancy(d *reconcile.Discrepancy) *Discrepancy {
	if d == nil {
		return nil
	}
	out := &Discrepancy{Claimed: d.Claimed, Message: d.String()}
	for _, m := range d.Mismatches {
		out.Mismatches = append(out.Mismatches, &Mismatch{
			Against: string(m.Against),
			Target:  m.Target,
			Claimed: m.Claimed,
			Delta:   m.Delta,
		})
	}
	for _, e := range d.Unclaimed {
		out.UnclaimedLines = append(out.UnclaimedLines, e.Line)
	}
	for _, e := range d.Degenerate {
		out.DegenerateLines = append(out.DegenerateLines, e.Line)
	}
	return out
}

func toRoster(r *models.Roster) *Roster {
	return &Roster{ID: r.ID, Name: r.Name, Members: r.Members, CreatedAt: r.CreatedAt}
}
