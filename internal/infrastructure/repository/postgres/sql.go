package postgres

import (
	"database/sql"
	"errors"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
)

const uniqueViolation pq.ErrorCode = "23505"

const (
	constraintGamePositionActive = "uq_assignments_game_position_active"
	constraintGameOfficialActive = "uq_assignments_game_official_active"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// uniqueConstraint returns the violated constraint name of a unique
// violation, or "" when err is anything else.
func uniqueConstraint(err error) string {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return ""
	}
	return pqErr.Constraint
}

// mapAssignmentWriteError turns the partial unique index violations on
// assignments into the domain conflict sentinels. Other errors pass through.
func mapAssignmentWriteError(err error, item assignment.Assignment) error {
	switch uniqueConstraint(err) {
	case constraintGamePositionActive:
		return crerr.Wrapf(assignment.ErrPositionFilled, "game=%s position=%s", item.GameID, item.Position)
	case constraintGameOfficialActive:
		return crerr.Wrapf(assignment.ErrDoubleBooked, "official=%s game=%s", item.OfficialID, item.GameID)
	default:
		return err
	}
}

// mapAssignmentStatusError is mapAssignmentWriteError for status updates,
// where only the assignment id is at hand.
func mapAssignmentStatusError(err error, id string) error {
	switch uniqueConstraint(err) {
	case constraintGamePositionActive:
		return crerr.Wrapf(assignment.ErrPositionFilled, "assignment=%s", id)
	case constraintGameOfficialActive:
		return crerr.Wrapf(assignment.ErrDoubleBooked, "assignment=%s", id)
	default:
		return err
	}
}
