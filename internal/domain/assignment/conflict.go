package assignment

import (
	"fmt"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

type ConflictKind string

const (
	ConflictDoubleBooked     ConflictKind = "double_booked"
	ConflictPositionFilled   ConflictKind = "position_filled"
	ConflictCapacityExceeded ConflictKind = "capacity_exceeded"
	ConflictGameCancelled    ConflictKind = "game_cancelled"
	ConflictUnavailable      ConflictKind = "unavailable"
	ConflictUnqualified      ConflictKind = "unqualified"
	ConflictTimeOverlap      ConflictKind = "time_overlap"
	ConflictTravelInfeasible ConflictKind = "travel_infeasible"
)

// Structural conflicts describe impossible states and are fatal under
// every policy.
func (k ConflictKind) Structural() bool {
	switch k {
	case ConflictDoubleBooked, ConflictPositionFilled, ConflictCapacityExceeded, ConflictGameCancelled, ConflictUnavailable:
		return true
	default:
		return false
	}
}

type Conflict struct {
	Kind   ConflictKind `json:"kind"`
	GameID string       `json:"game_id,omitempty"`
	Detail string       `json:"detail"`
	Fatal  bool         `json:"fatal"`
}

// Candidate is the proposed (official, game, position) triple.
type Candidate struct {
	Official official.Official
	Game     game.Game
	Position game.Position
}

// Overlaps reports whether half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Detector finds every conflict a candidate has with existing state.
// Distance is optional; without it travel is never checked.
type Detector struct {
	Distance location.DistanceFunc
}

// FindConflicts returns all applicable conflicts, structural kinds first.
// held is the official's own assignments; gameAssignments is every
// assignment on the candidate's game.
func (d Detector) FindConflicts(c Candidate, held []Held, gameAssignments []Assignment) []Conflict {
	var conflicts []Conflict

	if d.doubleBooked(c, held, gameAssignments) {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictDoubleBooked,
			GameID: c.Game.ID,
			Detail: fmt.Sprintf("official %s already holds a position on game %s", c.Official.ID, c.Game.ID),
		})
	}

	active := 0
	positionTaken := false
	for _, a := range gameAssignments {
		if !a.Status.Active() {
			continue
		}
		active++
		if a.Position == c.Position {
			positionTaken = true
		}
	}
	if positionTaken {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictPositionFilled,
			GameID: c.Game.ID,
			Detail: fmt.Sprintf("position %s on game %s is already filled", c.Position, c.Game.ID),
		})
	}
	if c.Game.PositionsNeeded > 0 && active >= c.Game.PositionsNeeded {
		conflicts = append(conflicts, Conflict{
			Kind:   ConflictCapacityExceeded,
			GameID: c.Game.ID,
			Detail: fmt.Sprintf("game %s already has %d of %d positions assigned", c.Game.ID, active, c.Game.PositionsNeeded),
		})
	}

	for _, h := range held {
		if !h.Status.Active() || h.GameID == c.Game.ID {
			continue
		}
		if Overlaps(c.Game.StartAt, c.Game.EndAt, h.StartAt, h.EndAt) {
			conflicts = append(conflicts, Conflict{
				Kind:   ConflictTimeOverlap,
				GameID: h.GameID,
				Detail: fmt.Sprintf("referee has overlapping assignment on game %s", h.GameID),
			})
		}
	}

	if conflict, ok := d.travel(c); ok {
		conflicts = append(conflicts, conflict)
	}

	return conflicts
}

func (d Detector) doubleBooked(c Candidate, held []Held, gameAssignments []Assignment) bool {
	for _, h := range held {
		if h.GameID == c.Game.ID && h.Status.Active() {
			return true
		}
	}
	for _, a := range gameAssignments {
		if a.OfficialID == c.Official.ID && a.Status.Active() {
			return true
		}
	}
	return false
}

func (d Detector) travel(c Candidate) (Conflict, bool) {
	if d.Distance == nil || c.Official.MaxDistance <= 0 {
		return Conflict{}, false
	}
	if c.Official.Home.IsZero() || c.Game.Location.IsZero() {
		return Conflict{}, false
	}

	distance, err := d.Distance(c.Official.Home, c.Game.Location)
	if err != nil {
		return Conflict{
			Kind:   ConflictTravelInfeasible,
			GameID: c.Game.ID,
			Detail: fmt.Sprintf("travel distance to %s unavailable: %v", c.Game.Location, err),
		}, true
	}
	if distance <= c.Official.MaxDistance {
		return Conflict{}, false
	}

	return Conflict{
		Kind:   ConflictTravelInfeasible,
		GameID: c.Game.ID,
		Detail: fmt.Sprintf("game venue is %.1f away, beyond referee max travel distance %.1f", distance, c.Official.MaxDistance),
	}, true
}
