package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/tournament"
	"github.com/riskibarqy/synced-sports/internal/platform/id"
	"github.com/riskibarqy/synced-sports/internal/platform/logging"
	"github.com/riskibarqy/synced-sports/internal/platform/metrics"
)

const defaultGameDuration = 90 * time.Minute

type GenerateScheduleInput struct {
	Format string
	Teams  []tournament.Team
	Config tournament.Config
}

type PublishScheduleInput struct {
	Schedule         tournament.Schedule
	Division         string
	PositionsNeeded  int
	WageMultiplier   float64
	MultiplierReason string
	// GameDuration overrides the service default when > 0.
	GameDuration time.Duration
	// TimeZone is an IANA name used to read slot dates and times. Default UTC.
	TimeZone string
	// Venues resolves generated venue names to locations. Unknown venues
	// are published with the name as the location label only.
	Venues map[string]location.Location
}

type PublishedSchedule struct {
	ScheduleID  string
	Games       []game.Game
	ByesSkipped int
}

type ScheduleServiceOption func(*ScheduleService)

func WithScheduleLogger(logger *logging.Logger) ScheduleServiceOption {
	return func(s *ScheduleService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithScheduleMetrics(m *metrics.Manager) ScheduleServiceOption {
	return func(s *ScheduleService) {
		s.metrics = m
	}
}

func WithDefaultGameDuration(d time.Duration) ScheduleServiceOption {
	return func(s *ScheduleService) {
		if d > 0 {
			s.gameDuration = d
		}
	}
}

type ScheduleService struct {
	gameRepo     game.Repository
	idGen        id.Generator
	metrics      *metrics.Manager
	logger       *logging.Logger
	gameDuration time.Duration
}

func NewScheduleService(gameRepo game.Repository, idGen id.Generator, opts ...ScheduleServiceOption) *ScheduleService {
	s := &ScheduleService{
		gameRepo:     gameRepo,
		idGen:        idGen,
		logger:       logging.Default(),
		gameDuration: defaultGameDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a schedule without touching storage.
func (s *ScheduleService) Generate(ctx context.Context, input GenerateScheduleInput) (tournament.Schedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Generate")
	defer span.End()

	format, err := tournament.ParseFormat(input.Format)
	if err != nil {
		return tournament.Schedule{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	schedule, err := tournament.Generate(format, input.Teams, input.Config)
	if err != nil {
		if isScheduleInputError(err) {
			return tournament.Schedule{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return tournament.Schedule{}, fmt.Errorf("generate %s schedule: %w", format, err)
	}

	s.metrics.ObserveScheduleGenerated(string(format), schedule.Summary.PlayableGames)
	s.logger.InfoContext(ctx, "schedule generated",
		"format", format,
		"teams", schedule.Summary.TeamsCount,
		"games", schedule.Summary.TotalGames,
		"rounds", schedule.Summary.Rounds,
	)

	return schedule, nil
}

func isScheduleInputError(err error) bool {
	return errors.Is(err, tournament.ErrNotEnoughTeams) ||
		errors.Is(err, tournament.ErrDuplicateTeam) ||
		errors.Is(err, tournament.ErrInvalidConfig) ||
		errors.Is(err, tournament.ErrUnknownFormat)
}

// Publish turns a generated schedule into game records under a fresh
// schedule id. Bye slots are bracket bookkeeping and are not stored.
// Publishing the same schedule twice yields two independent schedules.
func (s *ScheduleService) Publish(ctx context.Context, input PublishScheduleInput) (PublishedSchedule, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Publish")
	defer span.End()

	input.Division = strings.TrimSpace(input.Division)
	input.MultiplierReason = strings.TrimSpace(input.MultiplierReason)
	if input.Division == "" {
		return PublishedSchedule{}, fmt.Errorf("%w: division is required", ErrInvalidInput)
	}
	if input.PositionsNeeded < 1 {
		return PublishedSchedule{}, fmt.Errorf("%w: positions needed must be at least 1", ErrInvalidInput)
	}
	if input.WageMultiplier < 0 {
		return PublishedSchedule{}, fmt.Errorf("%w: wage multiplier must not be negative", ErrInvalidInput)
	}
	if input.WageMultiplier == 0 {
		input.WageMultiplier = 1
	}
	if len(input.Schedule.Games) == 0 {
		return PublishedSchedule{}, fmt.Errorf("%w: schedule has no games", ErrInvalidInput)
	}

	loc := time.UTC
	if tz := strings.TrimSpace(input.TimeZone); tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return PublishedSchedule{}, fmt.Errorf("%w: time zone %q: %v", ErrInvalidInput, tz, err)
		}
	}
	duration := s.gameDuration
	if input.GameDuration > 0 {
		duration = input.GameDuration
	}

	scheduleID, err := s.idGen.NewID()
	if err != nil {
		return PublishedSchedule{}, fmt.Errorf("generate schedule id: %w", err)
	}

	out := PublishedSchedule{ScheduleID: scheduleID}
	games := make([]game.Game, 0, len(input.Schedule.Games))
	for _, generated := range input.Schedule.Games {
		if generated.IsBye {
			out.ByesSkipped++
			continue
		}

		start, err := generated.StartTime(loc)
		if err != nil {
			return PublishedSchedule{}, fmt.Errorf("%w: game %d: %v", ErrInvalidInput, generated.Number, err)
		}
		gameID, err := s.idGen.NewID()
		if err != nil {
			return PublishedSchedule{}, fmt.Errorf("generate game id: %w", err)
		}

		venue, ok := input.Venues[generated.Location]
		if !ok {
			venue = location.Location{Label: generated.Location}
		}

		item := game.Game{
			ID:               gameID,
			ScheduleID:       scheduleID,
			HomeTeamID:       generated.HomeTeamID,
			AwayTeamID:       generated.AwayTeamID,
			Division:         input.Division,
			StartAt:          start.UTC(),
			EndAt:            start.Add(duration).UTC(),
			Location:         venue,
			PositionsNeeded:  input.PositionsNeeded,
			WageMultiplier:   input.WageMultiplier,
			MultiplierReason: input.MultiplierReason,
			Status:           game.StatusUnassigned,
			Round:            generated.Round,
			Stage:            generated.Stage,
		}
		if err := item.Validate(); err != nil {
			return PublishedSchedule{}, fmt.Errorf("%w: game %d: %v", ErrInvalidInput, generated.Number, err)
		}
		games = append(games, item)
	}

	if err := s.gameRepo.CreateBatch(ctx, games); err != nil {
		return PublishedSchedule{}, fmt.Errorf("create schedule games: %w", err)
	}
	out.Games = games

	s.logger.InfoContext(ctx, "schedule published",
		"schedule_id", scheduleID,
		"format", input.Schedule.Format,
		"division", input.Division,
		"games", len(games),
		"byes_skipped", out.ByesSkipped,
	)

	return out, nil
}

// Games lists the stored games of a published schedule.
func (s *ScheduleService) Games(ctx context.Context, scheduleID string) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleService.Games")
	defer span.End()

	scheduleID = strings.TrimSpace(scheduleID)
	if scheduleID == "" {
		return nil, fmt.Errorf("%w: schedule id is required", ErrInvalidInput)
	}

	items, err := s.gameRepo.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list games by schedule: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: schedule=%s", ErrNotFound, scheduleID)
	}
	return items, nil
}
