package postgres

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

func TestCheckActiveSlots(t *testing.T) {
	item := assignment.Assignment{ID: "asg-9", GameID: "gm-1", OfficialID: "ref-1", Position: game.PositionTrail}

	tests := []struct {
		name            string
		active          []activeSlotModel
		positionsNeeded int
		want            error
	}{
		{name: "open slot", active: []activeSlotModel{{OfficialID: "ref-2", Position: "lead"}}, positionsNeeded: 2},
		{name: "same official", active: []activeSlotModel{{OfficialID: "ref-1", Position: "lead"}}, positionsNeeded: 3, want: assignment.ErrDoubleBooked},
		{name: "same position", active: []activeSlotModel{{OfficialID: "ref-2", Position: "trail"}}, positionsNeeded: 3, want: assignment.ErrPositionFilled},
		{name: "double booking wins over position", active: []activeSlotModel{{OfficialID: "ref-2", Position: "trail"}, {OfficialID: "ref-1", Position: "umpire"}}, positionsNeeded: 3, want: assignment.ErrDoubleBooked},
		{name: "full game", active: []activeSlotModel{{OfficialID: "ref-2", Position: "lead"}}, positionsNeeded: 1, want: assignment.ErrCapacityExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkActiveSlots(item, tc.active, tc.positionsNeeded)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestOfficialRowRoundTrip(t *testing.T) {
	in := official.Official{
		ID:               "ref-7",
		Name:             "Sam Ortiz",
		Level:            official.LevelJunior,
		AllowedDivisions: []string{"U11", "U13-2"},
		Home:             location.Location{Latitude: 51.04, Longitude: -114.07, PostalCode: "T2P", Label: "Downtown"},
		MaxDistance:      60,
		IsAvailable:      true,
		BaseWage:         32.5,
	}

	model := officialToInsertModel(in)
	if model.Level != "junior" {
		t.Fatalf("expected stored level junior, got %q", model.Level)
	}
	if model.Capabilities == nil {
		t.Fatalf("nil capabilities must bind as an empty array")
	}

	out, err := officialFromRow(officialTableModel{
		ID:               model.ID,
		Name:             model.Name,
		Level:            model.Level,
		AllowedDivisions: model.AllowedDivisions,
		HomeLatitude:     model.HomeLatitude,
		HomeLongitude:    model.HomeLongitude,
		HomePostalCode:   model.HomePostalCode,
		HomeLabel:        model.HomeLabel,
		MaxDistance:      model.MaxDistance,
		IsAvailable:      model.IsAvailable,
		BaseWage:         model.BaseWage,
		Capabilities:     model.Capabilities,
	})
	if err != nil {
		t.Fatalf("official from row: %v", err)
	}
	if out.Level != in.Level || out.Home != in.Home || !slices.Equal(out.AllowedDivisions, in.AllowedDivisions) {
		t.Fatalf("unexpected official: %+v", out)
	}
}

func TestOfficialFromRowRejectsUnknownLevel(t *testing.T) {
	if _, err := officialFromRow(officialTableModel{ID: "ref-x", Level: "grandmaster"}); err == nil {
		t.Fatalf("expected unknown level error")
	}
}

func TestOfficialFromRowEmptyLevel(t *testing.T) {
	out, err := officialFromRow(officialTableModel{ID: "ref-x"})
	if err != nil {
		t.Fatalf("official from row: %v", err)
	}
	if out.Level.Assigned() {
		t.Fatalf("expected no level, got %s", out.Level)
	}
}

func TestGameInsertModelDefaults(t *testing.T) {
	start := time.Date(2026, 4, 11, 10, 0, 0, 0, time.FixedZone("MDT", -6*3600))
	model := gameToInsertModel(game.Game{ID: "gm-1", Division: "U13", StartAt: start, EndAt: start.Add(time.Hour), PositionsNeeded: 2})

	if model.WageMultiplier != 1 {
		t.Fatalf("expected default multiplier 1, got %v", model.WageMultiplier)
	}
	if model.Status != string(game.StatusUnassigned) {
		t.Fatalf("expected unassigned status, got %q", model.Status)
	}
	if model.StartAt.Location() != time.UTC || model.StartAt.Hour() != 16 {
		t.Fatalf("expected UTC start, got %s", model.StartAt)
	}
}

func TestAssignmentRowMapping(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	model := assignmentToInsertModel(assignment.Assignment{
		ID:         "asg-1",
		GameID:     "gm-1",
		OfficialID: "ref-1",
		Position:   game.PositionLead,
		Origin:     assignment.OriginAdmin,
		CreatedAt:  now,
	})
	if model.Status != string(assignment.StatusPending) || !model.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected insert defaults: %+v", model)
	}

	out := assignmentFromRow(assignmentTableModel{
		ID:       model.ID,
		Position: model.Position,
		Status:   "accepted",
		Origin:   model.Origin,
		Warnings: pq.StringArray{"travel_infeasible"},
	})
	if out.Position != game.PositionLead || out.Status != assignment.StatusAccepted || len(out.Warnings) != 1 {
		t.Fatalf("unexpected assignment: %+v", out)
	}
}
