package assignment

import (
	"errors"
	"strings"
)

var (
	ErrRejected          = errors.New("assignment rejected")
	ErrInvalidTransition = errors.New("invalid assignment status transition")

	ErrTimeOverlap      = errors.New("time overlap")
	ErrTravelInfeasible = errors.New("travel infeasible")
	ErrDoubleBooked     = errors.New("official already assigned to game")
	ErrPositionFilled   = errors.New("position already filled")
	ErrCapacityExceeded = errors.New("game capacity exceeded")
	ErrUnavailable      = errors.New("official unavailable")
	ErrUnqualified      = errors.New("official unqualified")
	ErrGameCancelled    = errors.New("game cancelled")
)

var kindErrors = map[ConflictKind]error{
	ConflictTimeOverlap:      ErrTimeOverlap,
	ConflictTravelInfeasible: ErrTravelInfeasible,
	ConflictDoubleBooked:     ErrDoubleBooked,
	ConflictPositionFilled:   ErrPositionFilled,
	ConflictCapacityExceeded: ErrCapacityExceeded,
	ConflictUnavailable:      ErrUnavailable,
	ConflictUnqualified:      ErrUnqualified,
	ConflictGameCancelled:    ErrGameCancelled,
}

// RejectionError carries the full validation result of a rejected
// proposal. It matches ErrRejected and the sentinel of each fatal conflict.
type RejectionError struct {
	Result ValidationResult
}

func (e *RejectionError) Error() string {
	parts := make([]string, 0, len(e.Result.Conflicts))
	for _, c := range e.Result.Conflicts {
		if !c.Fatal {
			continue
		}
		parts = append(parts, string(c.Kind)+": "+c.Detail)
	}
	if len(parts) == 0 {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + strings.Join(parts, "; ")
}

func (e *RejectionError) Is(target error) bool {
	if target == ErrRejected {
		return true
	}
	for _, c := range e.Result.Conflicts {
		if c.Fatal && kindErrors[c.Kind] == target {
			return true
		}
	}
	return false
}

// RejectionFromStore converts a storage uniqueness or capacity violation
// into the same rejection shape the validator produces. Other errors are
// returned as nil, false.
func RejectionFromStore(err error, gameID string) (*RejectionError, bool) {
	var kind ConflictKind
	switch {
	case errors.Is(err, ErrPositionFilled):
		kind = ConflictPositionFilled
	case errors.Is(err, ErrDoubleBooked):
		kind = ConflictDoubleBooked
	case errors.Is(err, ErrCapacityExceeded):
		kind = ConflictCapacityExceeded
	default:
		return nil, false
	}

	return &RejectionError{Result: ValidationResult{
		Decision: DecisionRejected,
		Conflicts: []Conflict{{
			Kind:   kind,
			GameID: gameID,
			Detail: kindErrors[kind].Error(),
			Fatal:  true,
		}},
	}}, true
}
