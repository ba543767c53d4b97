package qualification

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

var (
	ErrUnknownLevel     = errors.New("unknown qualification level")
	ErrEmptyDivisionSet = errors.New("qualification level has no divisions")
	ErrBlankDivision    = errors.New("blank division identifier")
)

const ReasonNoLevel = "no level assigned"

type Cause int

const (
	CauseNone Cause = iota
	CauseNoLevel
	CauseDivisionNotCovered
	CauseMissingCapability
)

func (c Cause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseNoLevel:
		return "no_level"
	case CauseDivisionNotCovered:
		return "division_not_covered"
	case CauseMissingCapability:
		return "missing_capability"
	default:
		return "unknown"
	}
}

// Result is the outcome of a qualification lookup. Reason is empty when
// the official is qualified.
type Result struct {
	Qualified bool
	Cause     Cause
	Reason    string
}

// Matrix maps each qualification level to the exact division identifiers
// it may officiate. Build it with NewMatrix so bad configuration fails at
// load time.
type Matrix struct {
	divisions map[official.Level]map[string]struct{}
}

func NewMatrix(levels map[official.Level][]string) (Matrix, error) {
	m := Matrix{divisions: make(map[official.Level]map[string]struct{}, len(levels))}
	for level, divisions := range levels {
		if !level.Valid() {
			return Matrix{}, fmt.Errorf("%w: %s", ErrUnknownLevel, level)
		}
		if len(divisions) == 0 {
			return Matrix{}, fmt.Errorf("%w: %s", ErrEmptyDivisionSet, level)
		}

		set := make(map[string]struct{}, len(divisions))
		for _, division := range divisions {
			division = strings.TrimSpace(division)
			if division == "" {
				return Matrix{}, fmt.Errorf("%w: level=%s", ErrBlankDivision, level)
			}
			set[division] = struct{}{}
		}
		m.divisions[level] = set
	}

	return m, nil
}

// DefaultMatrix is the baseline ladder used when no matrix file is configured.
func DefaultMatrix() Matrix {
	rookie := []string{"U11", "U13-2"}
	junior := append(slices.Clone(rookie), "U13-1", "U15-2")
	senior := append(slices.Clone(junior), "U15-1", "U17", "U18-2")
	expert := append(slices.Clone(senior), "U18-1", "Senior", "Open")

	m, err := NewMatrix(map[official.Level][]string{
		official.LevelRookie: rookie,
		official.LevelJunior: junior,
		official.LevelSenior: senior,
		official.LevelExpert: expert,
	})
	if err != nil {
		panic(err)
	}
	return m
}

func (m Matrix) IsQualified(level official.Level, division string) bool {
	return m.Explain(level, division).Qualified
}

func (m Matrix) Explain(level official.Level, division string) Result {
	if !level.Assigned() {
		return Result{Cause: CauseNoLevel, Reason: ReasonNoLevel}
	}
	if _, ok := m.divisions[level][strings.TrimSpace(division)]; ok {
		return Result{Qualified: true}
	}
	return notCovered(level, division)
}

// AllowedDivisions returns a sorted copy of the level's division set.
func (m Matrix) AllowedDivisions(level official.Level) []string {
	set := m.divisions[level]
	out := make([]string, 0, len(set))
	for division := range set {
		out = append(out, division)
	}
	slices.Sort(out)
	return out
}

// Check evaluates an official against a game division and position. An
// explicit division list on the official replaces the level's matrix row.
// Auxiliary positions require the matching capability tag instead of
// division coverage.
func (m Matrix) Check(o official.Official, division string, position game.Position) Result {
	if !o.Level.Assigned() {
		return Result{Cause: CauseNoLevel, Reason: ReasonNoLevel}
	}

	if position.Auxiliary() {
		tag := position.RequiredCapability()
		if o.HasCapability(tag) {
			return Result{Qualified: true}
		}
		return Result{
			Cause:  CauseMissingCapability,
			Reason: fmt.Sprintf("official lacks capability %s for position %s", tag, position),
		}
	}

	if len(o.AllowedDivisions) > 0 {
		if slices.Contains(o.AllowedDivisions, strings.TrimSpace(division)) {
			return Result{Qualified: true}
		}
		return notCovered(o.Level, division)
	}

	return m.Explain(o.Level, division)
}

func notCovered(level official.Level, division string) Result {
	return Result{
		Cause:  CauseDivisionNotCovered,
		Reason: fmt.Sprintf("level %s does not cover division %s", level, division),
	}
}
