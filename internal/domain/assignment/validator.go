package assignment

import (
	"fmt"
	"strconv"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	"github.com/riskibarqy/synced-sports/internal/domain/qualification"
	"github.com/riskibarqy/synced-sports/internal/domain/wage"
)

// PolicyMode selects which conflicts are fatal.
type PolicyMode int

const (
	// SelfService treats every conflict as fatal.
	SelfService PolicyMode = iota + 1
	// Administrative downgrades qualification, overlap and travel to warnings.
	Administrative
)

func (m PolicyMode) String() string {
	switch m {
	case SelfService:
		return "self_service"
	case Administrative:
		return "administrative"
	default:
		return "unknown"
	}
}

func (m PolicyMode) Origin() Origin {
	if m == Administrative {
		return OriginAdmin
	}
	return OriginSelf
}

func ParsePolicyMode(value string) (PolicyMode, error) {
	switch value {
	case "self_service", "self":
		return SelfService, nil
	case "administrative", "admin":
		return Administrative, nil
	default:
		return 0, fmt.Errorf("unknown policy mode %q", value)
	}
}

type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionRejected Decision = "rejected"
	DecisionPending  Decision = "pending"
)

// ValidationResult is the outcome of one proposal. CalculatedWage is set
// only when the proposal is not rejected.
type ValidationResult struct {
	Decision       Decision        `json:"decision"`
	Warnings       []string        `json:"warnings"`
	Conflicts      []Conflict      `json:"conflicts"`
	CalculatedWage *float64        `json:"calculated_wage,omitempty"`
	Breakdown      *wage.Breakdown `json:"wage_breakdown,omitempty"`
}

func (r ValidationResult) Rejected() bool {
	return r.Decision == DecisionRejected
}

func (r ValidationResult) FatalConflicts() []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Fatal {
			out = append(out, c)
		}
	}
	return out
}

// Proposal bundles the read-only snapshots for one validation call.
type Proposal struct {
	Official        official.Official
	Game            game.Game
	Position        game.Position
	Mode            PolicyMode
	Held            []Held
	GameAssignments []Assignment
}

// Validator runs one shared conflict pass and classifies the result per
// policy mode. It holds no state between calls.
type Validator struct {
	matrix   qualification.Matrix
	detector Detector
}

func NewValidator(matrix qualification.Matrix, distance location.DistanceFunc) Validator {
	return Validator{
		matrix:   matrix,
		detector: Detector{Distance: distance},
	}
}

func (v Validator) Validate(p Proposal) ValidationResult {
	mode := p.Mode
	if mode != Administrative {
		mode = SelfService
	}

	var conflicts []Conflict
	if p.Game.IsCancelled() {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictGameCancelled,
			GameID: p.Game.ID,
			Detail: fmt.Sprintf("game %s is cancelled", p.Game.ID),
		})
	}
	if !p.Official.IsAvailable {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictUnavailable,
			GameID: p.Game.ID,
			Detail: fmt.Sprintf("official %s is not available", p.Official.ID),
		})
	}

	conflicts = append(conflicts, v.detector.FindConflicts(Candidate{
		Official: p.Official,
		Game:     p.Game,
		Position: p.Position,
	}, p.Held, p.GameAssignments)...)

	qual := v.matrix.Check(p.Official, p.Game.Division, p.Position)
	if !qual.Qualified {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictUnqualified,
			GameID: p.Game.ID,
			Detail: qual.Reason,
		})
	}

	result := ValidationResult{Decision: DecisionPending, Warnings: []string{}, Conflicts: []Conflict{}}
	for _, c := range conflicts {
		c.Fatal = mode == SelfService || c.Kind.Structural()
		if c.Fatal {
			result.Decision = DecisionRejected
		} else {
			result.Warnings = append(result.Warnings, warningFor(c, qual, p.Game.Division))
		}
		result.Conflicts = append(result.Conflicts, c)
	}

	if result.Rejected() {
		result.Warnings = []string{}
		return result
	}

	breakdown := wage.WageBreakdown(p.Official.BaseWage, p.Game.WageMultiplier, p.Game.MultiplierReason)
	if wage.NeedsReason(p.Game.WageMultiplier, p.Game.MultiplierReason) {
		result.Warnings = append(result.Warnings, "wage multiplier "+strconv.FormatFloat(breakdown.Multiplier, 'f', -1, 64)+" has no reason recorded")
	}
	final := breakdown.FinalWage
	result.CalculatedWage = &final
	result.Breakdown = &breakdown

	return result
}

func warningFor(c Conflict, qual qualification.Result, division string) string {
	if c.Kind != ConflictUnqualified {
		return c.Detail
	}
	switch qual.Cause {
	case qualification.CauseNoLevel:
		return "referee has no assigned level"
	case qualification.CauseDivisionNotCovered:
		return "referee not typically qualified for division " + division
	default:
		return qual.Reason
	}
}
