package assignment

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

var kickoff = time.Date(2026, 4, 11, 10, 0, 0, 0, time.UTC)

func testGame(id string, start time.Time) game.Game {
	return game.Game{
		ID:              id,
		Division:        "U13-1",
		StartAt:         start,
		EndAt:           start.Add(90 * time.Minute),
		PositionsNeeded: 3,
		WageMultiplier:  1,
		Location:        location.Location{PostalCode: "T2P"},
	}
}

func testOfficial() official.Official {
	return official.Official{
		ID:          "ref-1",
		Level:       official.LevelJunior,
		IsAvailable: true,
		BaseWage:    40,
		MaxDistance: 50,
		Home:        location.Location{PostalCode: "T3A"},
	}
}

func kinds(conflicts []Conflict) []ConflictKind {
	out := make([]ConflictKind, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, c.Kind)
	}
	return out
}

func hasKind(conflicts []Conflict, kind ConflictKind) bool {
	for _, c := range conflicts {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	h := time.Hour
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{name: "identical", aStart: kickoff, aEnd: kickoff.Add(h), bStart: kickoff, bEnd: kickoff.Add(h), want: true},
		{name: "partial", aStart: kickoff, aEnd: kickoff.Add(2 * h), bStart: kickoff.Add(h), bEnd: kickoff.Add(3 * h), want: true},
		{name: "contained", aStart: kickoff, aEnd: kickoff.Add(4 * h), bStart: kickoff.Add(h), bEnd: kickoff.Add(2 * h), want: true},
		{name: "back to back", aStart: kickoff, aEnd: kickoff.Add(h), bStart: kickoff.Add(h), bEnd: kickoff.Add(2 * h), want: false},
		{name: "back to back reversed", aStart: kickoff.Add(h), aEnd: kickoff.Add(2 * h), bStart: kickoff, bEnd: kickoff.Add(h), want: false},
		{name: "disjoint", aStart: kickoff, aEnd: kickoff.Add(h), bStart: kickoff.Add(3 * h), bEnd: kickoff.Add(4 * h), want: false},
	}

	for _, tc := range tests {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestFindConflictsTimeOverlap(t *testing.T) {
	t.Parallel()

	g := testGame("g1", kickoff)
	held := []Held{
		{GameID: "g0", StartAt: kickoff.Add(-time.Hour), EndAt: kickoff.Add(30 * time.Minute), Status: StatusAccepted},
		{GameID: "g2", StartAt: g.EndAt, EndAt: g.EndAt.Add(time.Hour), Status: StatusPending},
		{GameID: "g3", StartAt: kickoff, EndAt: g.EndAt, Status: StatusCancelled},
		{GameID: "g4", StartAt: kickoff, EndAt: g.EndAt, Status: StatusDeclined},
	}

	conflicts := Detector{}.FindConflicts(Candidate{Official: testOfficial(), Game: g, Position: game.PositionLead}, held, nil)
	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %v", kinds(conflicts))
	}
	if conflicts[0].Kind != ConflictTimeOverlap || conflicts[0].GameID != "g0" {
		t.Fatalf("unexpected conflict: %+v", conflicts[0])
	}
}

func TestFindConflictsStructural(t *testing.T) {
	t.Parallel()

	g := testGame("g1", kickoff)
	g.PositionsNeeded = 2
	existing := []Assignment{
		{ID: "a1", GameID: "g1", OfficialID: "ref-1", Position: game.PositionTrail, Status: StatusPending},
		{ID: "a2", GameID: "g1", OfficialID: "ref-2", Position: game.PositionLead, Status: StatusAccepted},
		{ID: "a3", GameID: "g1", OfficialID: "ref-3", Position: game.PositionUmpire, Status: StatusDeclined},
	}

	conflicts := Detector{}.FindConflicts(Candidate{Official: testOfficial(), Game: g, Position: game.PositionLead}, nil, existing)
	want := []ConflictKind{ConflictDoubleBooked, ConflictPositionFilled, ConflictCapacityExceeded}
	got := kinds(conflicts)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestFindConflictsFreedPosition(t *testing.T) {
	t.Parallel()

	g := testGame("g1", kickoff)
	existing := []Assignment{
		{ID: "a1", GameID: "g1", OfficialID: "ref-9", Position: game.PositionLead, Status: StatusDeclined},
		{ID: "a2", GameID: "g1", OfficialID: "ref-8", Position: game.PositionLead, Status: StatusCancelled},
	}

	conflicts := Detector{}.FindConflicts(Candidate{Official: testOfficial(), Game: g, Position: game.PositionLead}, nil, existing)
	if len(conflicts) != 0 {
		t.Fatalf("declined and cancelled assignments must free the position, got %v", kinds(conflicts))
	}
}

func TestFindConflictsTravel(t *testing.T) {
	t.Parallel()

	far := func(_, _ location.Location) (float64, error) { return 80, nil }
	near := func(_, _ location.Location) (float64, error) { return 20, nil }
	broken := func(_, _ location.Location) (float64, error) { return 0, errors.New("unknown postal code") }

	c := Candidate{Official: testOfficial(), Game: testGame("g1", kickoff), Position: game.PositionLead}

	if !hasKind(Detector{Distance: far}.FindConflicts(c, nil, nil), ConflictTravelInfeasible) {
		t.Fatalf("expected travel conflict for distant venue")
	}
	if hasKind(Detector{Distance: near}.FindConflicts(c, nil, nil), ConflictTravelInfeasible) {
		t.Fatalf("unexpected travel conflict for near venue")
	}
	if !hasKind(Detector{Distance: broken}.FindConflicts(c, nil, nil), ConflictTravelInfeasible) {
		t.Fatalf("expected travel conflict when distance is unknown")
	}

	unlimited := c
	unlimited.Official.MaxDistance = 0
	if hasKind(Detector{Distance: far}.FindConflicts(unlimited, nil, nil), ConflictTravelInfeasible) {
		t.Fatalf("zero max distance means no travel limit")
	}
}
