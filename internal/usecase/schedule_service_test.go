package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/tournament"
	"github.com/riskibarqy/synced-sports/internal/infrastructure/repository/memory"
)

func scheduleTeams(n int) []tournament.Team {
	ids := []string{"hawks", "owls", "lynx", "bears", "wolves", "foxes", "elks", "crows"}
	out := make([]tournament.Team, 0, n)
	for _, id := range ids[:n] {
		out = append(out, tournament.Team{ID: id, Name: id})
	}
	return out
}

func newScheduleFixture() (*ScheduleService, *memory.GameRepository) {
	gameRepo := memory.NewGameRepository(nil)
	service := NewScheduleService(gameRepo, &sequenceIDGenerator{prefix: "gm"}, WithDefaultGameDuration(75*time.Minute))
	return service, gameRepo
}

func TestScheduleService_GenerateValidatesInput(t *testing.T) {
	t.Parallel()

	service, _ := newScheduleFixture()
	start := time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input GenerateScheduleInput
	}{
		{name: "unknown format", input: GenerateScheduleInput{Format: "ladder", Teams: scheduleTeams(4), Config: tournament.Config{StartDate: start}}},
		{name: "too few teams", input: GenerateScheduleInput{Format: "swiss", Teams: scheduleTeams(2), Config: tournament.Config{StartDate: start, Rounds: 1}}},
		{name: "missing start date", input: GenerateScheduleInput{Format: "round_robin", Teams: scheduleTeams(4)}},
		{name: "duplicate team", input: GenerateScheduleInput{Format: "round_robin", Teams: []tournament.Team{{ID: "a"}, {ID: "a"}}, Config: tournament.Config{StartDate: start}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Generate(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestScheduleService_GenerateAndPublishRoundRobin(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	service, gameRepo := newScheduleFixture()

	schedule, err := service.Generate(ctx, GenerateScheduleInput{
		Format: "round_robin",
		Teams:  scheduleTeams(4),
		Config: tournament.Config{
			StartDate: time.Date(2026, 4, 4, 0, 0, 0, 0, time.UTC),
			TimeSlots: []string{"09:00", "11:00"},
			Venues:    []string{"North Field"},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(schedule.Games) != 6 {
		t.Fatalf("expected 6 games, got %d", len(schedule.Games))
	}

	northField := location.Location{Latitude: 51.12, Longitude: -114.07, Label: "North Field"}
	published, err := service.Publish(ctx, PublishScheduleInput{
		Schedule:        schedule,
		Division:        "U13-1",
		PositionsNeeded: 3,
		TimeZone:        "America/Edmonton",
		Venues:          map[string]location.Location{"North Field": northField},
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.ScheduleID == "" || len(published.Games) != 6 {
		t.Fatalf("unexpected publish result: %+v", published)
	}

	first := published.Games[0]
	if first.Status != game.StatusUnassigned || first.Division != "U13-1" || first.PositionsNeeded != 3 {
		t.Fatalf("unexpected published game: %+v", first)
	}
	if first.WageMultiplier != 1 {
		t.Fatalf("expected default multiplier 1, got %v", first.WageMultiplier)
	}
	if got := first.EndAt.Sub(first.StartAt); got != 75*time.Minute {
		t.Fatalf("expected 75m duration, got %s", got)
	}
	// 09:00 in Edmonton (MDT, UTC-6) on 2026-04-04
	if want := time.Date(2026, 4, 4, 15, 0, 0, 0, time.UTC); !first.StartAt.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, first.StartAt)
	}
	if first.Location != northField {
		t.Fatalf("expected resolved venue location, got %+v", first.Location)
	}

	stored, err := service.Games(ctx, published.ScheduleID)
	if err != nil {
		t.Fatalf("games: %v", err)
	}
	if len(stored) != 6 {
		t.Fatalf("expected 6 stored games, got %d", len(stored))
	}

	again, err := service.Publish(ctx, PublishScheduleInput{Schedule: schedule, Division: "U13-1", PositionsNeeded: 3})
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if again.ScheduleID == published.ScheduleID {
		t.Fatalf("republishing must produce a new schedule id")
	}

	if _, err := gameRepo.ListBySchedule(ctx, again.ScheduleID); err != nil {
		t.Fatalf("list republished: %v", err)
	}
}

func TestScheduleService_PublishSkipsByes(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	service, _ := newScheduleFixture()

	schedule, err := service.Generate(ctx, GenerateScheduleInput{
		Format: "single_elimination",
		Teams:  scheduleTeams(6),
		Config: tournament.Config{StartDate: time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	published, err := service.Publish(ctx, PublishScheduleInput{Schedule: schedule, Division: "Open", PositionsNeeded: 1})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.ByesSkipped != 2 {
		t.Fatalf("expected 2 byes skipped, got %d", published.ByesSkipped)
	}
	if len(published.Games) != 5 {
		t.Fatalf("expected 5 playable games, got %d", len(published.Games))
	}
}

func TestScheduleService_PublishValidatesInput(t *testing.T) {
	t.Parallel()

	service, _ := newScheduleFixture()
	schedule := tournament.Schedule{Games: []tournament.Game{{Number: 1, HomeTeamID: "a", AwayTeamID: "b", Round: 1, GameDate: "2026-04-04", GameTime: "10:00"}}}

	tests := []struct {
		name  string
		input PublishScheduleInput
	}{
		{name: "missing division", input: PublishScheduleInput{Schedule: schedule, PositionsNeeded: 1}},
		{name: "no positions", input: PublishScheduleInput{Schedule: schedule, Division: "U11"}},
		{name: "empty schedule", input: PublishScheduleInput{Division: "U11", PositionsNeeded: 1}},
		{name: "bad time zone", input: PublishScheduleInput{Schedule: schedule, Division: "U11", PositionsNeeded: 1, TimeZone: "Mars/Olympus"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.Publish(t.Context(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
