package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/billscan/internal/calculator"
	"github.com/mmynk/billscan/internal/session"
)

// Plan describes who had what on a receipt.
//
//	participants: [Alice, Bob]
//	expected_total: 21.50
//	claims:
//	  - line: 0
//	    participants: [Alice, Bob]
//	    weights: {Alice: 2}
//	tip:
//	  mode: even
//	  amount: 3
type Plan struct {
	Participants  []string    `yaml:"participants"`
	ExpectedTotal *float64    `yaml:"expected_total"`
	Claims        []PlanClaim `yaml:"claims"`
	Tip           *PlanTip    `yaml:"tip"`
}

type PlanClaim struct {
	Line         int                `yaml:"line"`
	Participants []string           `yaml:"participants"`
	Weights      map[string]float64 `yaml:"weights"`
}

type PlanTip struct {
	Mode    string             `yaml:"mode"`
	Amount  float64            `yaml:"amount"`
	Weights map[string]float64 `yaml:"weights"`
}

func loadPlan(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan %s: %w", path, err)
	}
	var plan Plan
	if err := yaml.Unmarshal(b, &plan); err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return &plan, nil
}

// Apply runs the plan against a session whose receipt is already parsed.
func (p *Plan) Apply(sess *session.Session) error {
	if err := sess.SetParticipants(p.Participants); err != nil {
		return fmt.Errorf("participants: %w", err)
	}

	for _, c := range p.Claims {
		if _, err := sess.SetClaims(c.Line, c.Participants); err != nil {
			return fmt.Errorf("line %d: %w", c.Line, err)
		}
		for name, w := range c.Weights {
			if _, err := sess.SetWeight(c.Line, name, w); err != nil {
				return fmt.Errorf("line %d: %w", c.Line, err)
			}
		}
	}

	if p.Tip != nil {
		mode, err := calculator.ParseTipMode(p.Tip.Mode)
		if err != nil {
			return fmt.Errorf("tip: %w", err)
		}
		if _, err := sess.AddTip(p.Tip.Amount, mode, p.Tip.Weights); err != nil {
			return fmt.Errorf("tip: %w", err)
		}
	}
	return nil
}
