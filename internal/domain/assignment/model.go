package assignment

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Active reports whether the assignment still occupies its position.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

// Origin records who created an assignment and therefore which policy
// validated it.
type Origin string

const (
	OriginSelf  Origin = "self"
	OriginAdmin Origin = "admin"
)

// Assignment links one official to one position on one game.
type Assignment struct {
	ID             string
	GameID         string
	OfficialID     string
	Position       game.Position
	Status         Status
	Origin         Origin
	CreatedBy      string
	CalculatedWage float64
	WageMultiplier float64
	WageReason     string
	Warnings       []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Assignment) ValidateBasic() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("assignment id is required")
	}
	if strings.TrimSpace(a.GameID) == "" {
		return fmt.Errorf("assignment game id is required")
	}
	if strings.TrimSpace(a.OfficialID) == "" {
		return fmt.Errorf("assignment official id is required")
	}
	if strings.TrimSpace(string(a.Position)) == "" {
		return fmt.Errorf("assignment position is required")
	}
	if a.Origin != OriginSelf && a.Origin != OriginAdmin {
		return fmt.Errorf("assignment origin is invalid: %q", a.Origin)
	}

	return nil
}

// Held is one of an official's existing assignments, flattened with its
// game interval for conflict scanning.
type Held struct {
	AssignmentID string
	GameID       string
	StartAt      time.Time
	EndAt        time.Time
	Status       Status
}

// Transition checks a status change against the assignment lifecycle.
// The official accepts or declines a pending assignment; an administrator
// cancels a pending or accepted one.
func Transition(from, to Status, by Origin) error {
	switch {
	case from == StatusPending && (to == StatusAccepted || to == StatusDeclined):
		if by != OriginSelf {
			return fmt.Errorf("%w: only the assigned official may move %s to %s", ErrInvalidTransition, from, to)
		}
		return nil
	case from.Active() && to == StatusCancelled:
		if by != OriginAdmin {
			return fmt.Errorf("%w: only an administrator may cancel", ErrInvalidTransition)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}
}
