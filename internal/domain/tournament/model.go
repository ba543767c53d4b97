package tournament

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotEnoughTeams = errors.New("not enough teams")
	ErrDuplicateTeam  = errors.New("duplicate team in roster")
	ErrUnknownFormat  = errors.New("unknown tournament format")
	ErrInvalidConfig  = errors.New("invalid schedule config")
)

type Format string

const (
	FormatRoundRobin         Format = "round_robin"
	FormatSingleElimination  Format = "single_elimination"
	FormatSwiss              Format = "swiss"
	FormatGroupStagePlayoffs Format = "group_stage_playoffs"
)

const (
	StageGroup    = "group_stage"
	StagePlayoffs = "playoffs"

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatRoundRobin, FormatSingleElimination, FormatSwiss, FormatGroupStagePlayoffs:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
	}
}

// Team is one roster entry. Roster order is seed order.
type Team struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Game is one generated fixture. Bracket slots decided by a bye carry
// IsBye and no date, time or location.
type Game struct {
	Number     int    `json:"number"`
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	Round      int    `json:"round"`
	RoundName  string `json:"round_name,omitempty"`
	GameDate   string `json:"game_date,omitempty"`
	GameTime   string `json:"game_time,omitempty"`
	Location   string `json:"location,omitempty"`
	Stage      string `json:"stage,omitempty"`
	Group      string `json:"group,omitempty"`
	IsBye      bool   `json:"is_bye,omitempty"`
}

// StartTime combines the slot date and time in loc.
func (g Game) StartTime(loc *time.Location) (time.Time, error) {
	if g.IsBye {
		return time.Time{}, fmt.Errorf("bye slot %d has no start time", g.Number)
	}
	return time.ParseInLocation(dateLayout+" "+timeLayout, g.GameDate+" "+g.GameTime, loc)
}

type Round struct {
	Number     int      `json:"number"`
	Name       string   `json:"name"`
	Stage      string   `json:"stage,omitempty"`
	Date       string   `json:"date"`
	Games      int      `json:"games"`
	ByeTeamIDs []string `json:"bye_team_ids,omitempty"`
}

type Summary struct {
	Format          Format `json:"format"`
	TeamsCount      int    `json:"teams_count"`
	TotalGames      int    `json:"total_games"`
	PlayableGames   int    `json:"playable_games"`
	GamesPerTeam    int    `json:"games_per_team,omitempty"`
	Byes            int    `json:"byes,omitempty"`
	Rounds          int    `json:"rounds"`
	Groups          int    `json:"groups,omitempty"`
	GroupStageGames int    `json:"group_stage_games,omitempty"`
	PlayoffGames    int    `json:"playoff_games,omitempty"`
}

// Schedule is the immutable output of a generator.
type Schedule struct {
	Format  Format  `json:"format"`
	Games   []Game  `json:"games"`
	Rounds  []Round `json:"rounds"`
	Summary Summary `json:"summary"`
}

// Generate dispatches to the generator for format.
func Generate(format Format, teams []Team, cfg Config) (Schedule, error) {
	switch format {
	case FormatRoundRobin:
		return RoundRobin(teams, cfg)
	case FormatSingleElimination:
		return SingleElimination(teams, cfg)
	case FormatSwiss:
		return Swiss(teams, cfg)
	case FormatGroupStagePlayoffs:
		return GroupStagePlayoffs(teams, cfg)
	default:
		return Schedule{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func validateRoster(teams []Team, minTeams int) error {
	if len(teams) < minTeams {
		return fmt.Errorf("%w: need at least %d, got %d", ErrNotEnoughTeams, minTeams, len(teams))
	}

	seen := make(map[string]struct{}, len(teams))
	for i, t := range teams {
		if err := validate.Struct(t); err != nil {
			return fmt.Errorf("%w: team %d: %v", ErrInvalidConfig, i, err)
		}
		if _, exists := seen[t.ID]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateTeam, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	return nil
}

func teamIDs(teams []Team) []string {
	out := make([]string, 0, len(teams))
	for _, t := range teams {
		out = append(out, t.ID)
	}
	return out
}

// finish numbers games, fills slots and derives rounds.
func finish(format Format, games []Game, cfg Config, teamsCount int) Schedule {
	s := newSlotter(cfg)
	for i := range games {
		games[i].Number = i + 1
		s.assign(&games[i])
	}

	summary := Summary{Format: format, TeamsCount: teamsCount, TotalGames: len(games)}
	for _, g := range games {
		if g.IsBye {
			summary.Byes++
			continue
		}
		summary.PlayableGames++
	}

	rounds := buildRounds(games, cfg)
	summary.Rounds = len(rounds)

	return Schedule{Format: format, Games: games, Rounds: rounds, Summary: summary}
}

func buildRounds(games []Game, cfg Config) []Round {
	var rounds []Round
	index := make(map[int]int)
	for _, g := range games {
		pos, ok := index[g.Round]
		if !ok {
			name := g.RoundName
			if name == "" {
				name = fmt.Sprintf("Round %d", g.Round)
			}
			rounds = append(rounds, Round{
				Number: g.Round,
				Name:   name,
				Stage:  g.Stage,
				Date:   cfg.roundDate(g.Round),
			})
			pos = len(rounds) - 1
			index[g.Round] = pos
		}
		if !g.IsBye {
			rounds[pos].Games++
		}
	}
	sort.SliceStable(rounds, func(a, b int) bool {
		return rounds[a].Number < rounds[b].Number
	})
	return rounds
}
