package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

type Status string

const (
	StatusUnassigned        Status = "unassigned"
	StatusPartiallyAssigned Status = "partially_assigned"
	StatusFullyAssigned     Status = "fully_assigned"
	StatusCancelled         Status = "cancelled"
)

// Position is a named officiating slot on a game.
type Position string

const (
	PositionReferee   Position = "referee"
	PositionLead      Position = "lead"
	PositionTrail     Position = "trail"
	PositionUmpire    Position = "umpire"
	PositionEvaluator Position = "evaluator"
	PositionMentor    Position = "mentor"
)

// Auxiliary positions observe or coach rather than officiate play.
func (p Position) Auxiliary() bool {
	switch p {
	case PositionEvaluator, PositionMentor:
		return true
	default:
		return false
	}
}

// RequiredCapability returns the official capability tag an auxiliary
// position needs, or "" for playing positions.
func (p Position) RequiredCapability() string {
	switch p {
	case PositionEvaluator:
		return official.CapabilityEvaluate
	case PositionMentor:
		return official.CapabilityMentor
	default:
		return ""
	}
}

func NormalizePosition(value string) Position {
	return Position(strings.ToLower(strings.TrimSpace(value)))
}

// Game is the read-only snapshot of a scheduled contest.
type Game struct {
	ID               string
	ScheduleID       string
	HomeTeamID       string
	AwayTeamID       string
	Division         string
	StartAt          time.Time
	EndAt            time.Time
	Location         location.Location
	PositionsNeeded  int
	WageMultiplier   float64
	MultiplierReason string
	Status           Status
	Round            int
	Stage            string
}

func (g Game) IsCancelled() bool {
	return g.Status == StatusCancelled
}

func (g Game) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game id is required")
	}
	if g.StartAt.IsZero() || g.EndAt.IsZero() {
		return fmt.Errorf("game start and end are required")
	}
	if !g.EndAt.After(g.StartAt) {
		return fmt.Errorf("game end must be after start")
	}
	if g.PositionsNeeded < 1 {
		return fmt.Errorf("game positions needed must be at least 1")
	}

	return nil
}

// DeriveStatus maps accepted assignment count onto the game lifecycle.
func DeriveStatus(positionsNeeded, accepted int, cancelled bool) Status {
	switch {
	case cancelled:
		return StatusCancelled
	case accepted <= 0:
		return StatusUnassigned
	case accepted >= positionsNeeded:
		return StatusFullyAssigned
	default:
		return StatusPartiallyAssigned
	}
}
