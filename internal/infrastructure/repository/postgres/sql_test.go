package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("get game: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(fakeErr("pq: relation games does not exist")) {
		t.Fatalf("expected unrelated error to be found")
	}
}

func TestMapAssignmentWriteError(t *testing.T) {
	item := assignment.Assignment{ID: "asg-1", GameID: "gm-1", OfficialID: "ref-1", Position: game.PositionLead}

	t.Run("position index", func(t *testing.T) {
		err := mapAssignmentWriteError(&pq.Error{Code: uniqueViolation, Constraint: constraintGamePositionActive}, item)
		if !errors.Is(err, assignment.ErrPositionFilled) {
			t.Fatalf("expected ErrPositionFilled, got %v", err)
		}
	})

	t.Run("official index", func(t *testing.T) {
		err := mapAssignmentWriteError(fmt.Errorf("insert: %w", &pq.Error{Code: uniqueViolation, Constraint: constraintGameOfficialActive}), item)
		if !errors.Is(err, assignment.ErrDoubleBooked) {
			t.Fatalf("expected ErrDoubleBooked, got %v", err)
		}
	})

	t.Run("primary key collision passes through", func(t *testing.T) {
		raw := &pq.Error{Code: uniqueViolation, Constraint: "assignments_pkey"}
		err := mapAssignmentWriteError(raw, item)
		if err != raw {
			t.Fatalf("expected raw error, got %v", err)
		}
	})

	t.Run("other codes pass through", func(t *testing.T) {
		raw := &pq.Error{Code: "23503", Constraint: constraintGamePositionActive}
		if err := mapAssignmentWriteError(raw, item); errors.Is(err, assignment.ErrPositionFilled) {
			t.Fatalf("foreign key violation must not map to a conflict")
		}
	})
}

func TestMapAssignmentStatusError(t *testing.T) {
	err := mapAssignmentStatusError(fmt.Errorf("update: %w", &pq.Error{Code: uniqueViolation, Constraint: constraintGamePositionActive}), "asg-1")
	if !errors.Is(err, assignment.ErrPositionFilled) {
		t.Fatalf("expected ErrPositionFilled, got %v", err)
	}

	err = mapAssignmentStatusError(&pq.Error{Code: uniqueViolation, Constraint: constraintGameOfficialActive}, "asg-1")
	if !errors.Is(err, assignment.ErrDoubleBooked) {
		t.Fatalf("expected ErrDoubleBooked, got %v", err)
	}

	raw := fakeErr("connection reset")
	if err := mapAssignmentStatusError(raw, "asg-1"); err != raw {
		t.Fatalf("expected raw error, got %v", err)
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
