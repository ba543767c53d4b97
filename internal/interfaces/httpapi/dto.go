package httpapi

import (
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/tournament"
	"github.com/riskibarqy/synced-sports/internal/domain/wage"
	"github.com/riskibarqy/synced-sports/internal/usecase"
)

type assignRequest struct {
	OfficialID string `json:"official_id" validate:"required"`
	Position   string `json:"position" validate:"required,max=32"`
}

type selfAssignRequest struct {
	Position string `json:"position" validate:"required,max=32"`
}

type validateAssignmentItem struct {
	GameID     string `json:"game_id" validate:"required"`
	OfficialID string `json:"official_id" validate:"required"`
	Position   string `json:"position" validate:"required,max=32"`
	Mode       string `json:"mode" validate:"required,oneof=self_service administrative self admin"`
}

type validateAssignmentsRequest struct {
	Items []validateAssignmentItem `json:"items" validate:"required,min=1,max=500,dive"`
}

type changeMultiplierRequest struct {
	Multiplier float64 `json:"multiplier" validate:"gt=0"`
	Reason     string  `json:"reason" validate:"max=200"`
}

type scheduleConfigRequest struct {
	StartDate         string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	Venue             string   `json:"venue"`
	Venues            []string `json:"venues" validate:"dive,required"`
	TimeSlots         []string `json:"time_slots" validate:"dive,datetime=15:04"`
	DaysBetweenRounds int      `json:"days_between_rounds" validate:"gte=0,lte=365"`
	Rounds            int      `json:"rounds" validate:"gte=0,lte=64"`
	GroupSize         int      `json:"group_size" validate:"omitempty,gte=2"`
	AdvancePerGroup   int      `json:"advance_per_group" validate:"gte=0"`
}

type generateScheduleRequest struct {
	Format string                `json:"format" validate:"required"`
	Teams  []tournament.Team     `json:"teams" validate:"required,min=1,dive"`
	Config scheduleConfigRequest `json:"config" validate:"required"`
}

type venueRequest struct {
	Latitude   float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"longitude" validate:"gte=-180,lte=180"`
	PostalCode string  `json:"postal_code"`
}

type publishScheduleRequest struct {
	Schedule         tournament.Schedule     `json:"schedule"`
	Division         string                  `json:"division" validate:"required"`
	PositionsNeeded  int                     `json:"positions_needed" validate:"gte=1,lte=12"`
	WageMultiplier   float64                 `json:"wage_multiplier" validate:"gte=0"`
	MultiplierReason string                  `json:"multiplier_reason" validate:"max=200"`
	GameDuration     string                  `json:"game_duration"`
	TimeZone         string                  `json:"time_zone"`
	Venues           map[string]venueRequest `json:"venues" validate:"dive"`
}

func (r scheduleConfigRequest) toConfig() (tournament.Config, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return tournament.Config{}, err
	}
	return tournament.Config{
		Venue:             r.Venue,
		Venues:            r.Venues,
		TimeSlots:         r.TimeSlots,
		StartDate:         start,
		DaysBetweenRounds: r.DaysBetweenRounds,
		Rounds:            r.Rounds,
		GroupSize:         r.GroupSize,
		AdvancePerGroup:   r.AdvancePerGroup,
	}, nil
}

type validationResultDTO struct {
	Decision       string                `json:"decision"`
	Warnings       []string              `json:"warnings"`
	Conflicts      []assignment.Conflict `json:"conflicts"`
	CalculatedWage *float64              `json:"calculated_wage,omitempty"`
	WageBreakdown  *wage.Breakdown       `json:"wage_breakdown,omitempty"`
}

type assignmentDTO struct {
	ID             string    `json:"id"`
	GameID         string    `json:"game_id"`
	OfficialID     string    `json:"official_id"`
	Position       string    `json:"position"`
	Status         string    `json:"status"`
	Origin         string    `json:"origin"`
	CreatedBy      string    `json:"created_by"`
	CalculatedWage float64   `json:"calculated_wage"`
	WageMultiplier float64   `json:"wage_multiplier"`
	WageReason     string    `json:"wage_reason,omitempty"`
	Warnings       []string  `json:"warnings"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type assignOutcomeDTO struct {
	Assignment assignmentDTO       `json:"assignment"`
	Validation validationResultDTO `json:"validation"`
}

type batchResultDTO struct {
	Index      int                  `json:"index"`
	GameID     string               `json:"game_id"`
	OfficialID string               `json:"official_id"`
	Position   string               `json:"position"`
	Validation *validationResultDTO `json:"validation,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type candidateDTO struct {
	OfficialID string              `json:"official_id"`
	Name       string              `json:"name"`
	Level      string              `json:"level"`
	DistanceKM *float64            `json:"distance_km,omitempty"`
	Validation validationResultDTO `json:"validation"`
}

type gameDTO struct {
	ID               string    `json:"id"`
	ScheduleID       string    `json:"schedule_id"`
	HomeTeamID       string    `json:"home_team_id"`
	AwayTeamID       string    `json:"away_team_id"`
	Division         string    `json:"division"`
	StartAt          time.Time `json:"start_at"`
	EndAt            time.Time `json:"end_at"`
	Location         string    `json:"location"`
	PositionsNeeded  int       `json:"positions_needed"`
	WageMultiplier   float64   `json:"wage_multiplier"`
	MultiplierReason string    `json:"multiplier_reason,omitempty"`
	Status           string    `json:"status"`
	Round            int       `json:"round"`
	Stage            string    `json:"stage,omitempty"`
}

type publishedScheduleDTO struct {
	ScheduleID  string    `json:"schedule_id"`
	ByesSkipped int       `json:"byes_skipped"`
	Games       []gameDTO `json:"games"`
}

func validationResultToDTO(r assignment.ValidationResult) validationResultDTO {
	warnings := r.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	conflicts := r.Conflicts
	if conflicts == nil {
		conflicts = []assignment.Conflict{}
	}
	return validationResultDTO{
		Decision:       string(r.Decision),
		Warnings:       warnings,
		Conflicts:      conflicts,
		CalculatedWage: r.CalculatedWage,
		WageBreakdown:  r.Breakdown,
	}
}

func assignmentToDTO(a assignment.Assignment) assignmentDTO {
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return assignmentDTO{
		ID:             a.ID,
		GameID:         a.GameID,
		OfficialID:     a.OfficialID,
		Position:       string(a.Position),
		Status:         string(a.Status),
		Origin:         string(a.Origin),
		CreatedBy:      a.CreatedBy,
		CalculatedWage: a.CalculatedWage,
		WageMultiplier: a.WageMultiplier,
		WageReason:     a.WageReason,
		Warnings:       warnings,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func batchResultToDTO(r usecase.BatchResult) batchResultDTO {
	out := batchResultDTO{
		Index:      r.Index,
		GameID:     r.Input.GameID,
		OfficialID: r.Input.OfficialID,
		Position:   r.Input.Position,
	}
	if r.Err != nil {
		out.Error = r.Err.Error()
		return out
	}
	v := validationResultToDTO(r.Result)
	out.Validation = &v
	return out
}

func candidateToDTO(c usecase.RankedCandidate) candidateDTO {
	return candidateDTO{
		OfficialID: c.Official.ID,
		Name:       c.Official.Name,
		Level:      c.Official.Level.String(),
		DistanceKM: c.Distance,
		Validation: validationResultToDTO(c.Result),
	}
}

func gameToDTO(g game.Game) gameDTO {
	return gameDTO{
		ID:               g.ID,
		ScheduleID:       g.ScheduleID,
		HomeTeamID:       g.HomeTeamID,
		AwayTeamID:       g.AwayTeamID,
		Division:         g.Division,
		StartAt:          g.StartAt,
		EndAt:            g.EndAt,
		Location:         g.Location.String(),
		PositionsNeeded:  g.PositionsNeeded,
		WageMultiplier:   g.WageMultiplier,
		MultiplierReason: g.MultiplierReason,
		Status:           string(g.Status),
		Round:            g.Round,
		Stage:            g.Stage,
	}
}

func gamesToDTO(items []game.Game) []gameDTO {
	out := make([]gameDTO, 0, len(items))
	for _, item := range items {
		out = append(out, gameToDTO(item))
	}
	return out
}
