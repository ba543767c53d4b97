package memory

import (
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

const (
	ScheduleIDSpringCup = "sch-spring-cup-2026"

	GameIDCupOpener   = "gm-spring-001"
	GameIDCupSecond   = "gm-spring-002"
	GameIDCupDerby    = "gm-spring-003"
	GameIDCupCanceled = "gm-spring-004"
)

var (
	calgaryDowntown = location.Location{Latitude: 51.0447, Longitude: -114.0719, PostalCode: "T2P 1J9", Label: "Calgary Downtown"}
	calgaryNorth    = location.Location{Latitude: 51.1200, Longitude: -114.0700, PostalCode: "T3K", Label: "Calgary North"}
	edmonton        = location.Location{Latitude: 53.5461, Longitude: -113.4938, PostalCode: "T5J", Label: "Edmonton"}
	redDeer         = location.Location{Latitude: 52.2681, Longitude: -113.8112, PostalCode: "T4N", Label: "Red Deer Fieldhouse"}
)

func SeedOfficials() []official.Official {
	return []official.Official{
		{ID: "ref-ana", Name: "Ana Ortiz", Level: official.LevelExpert, Home: calgaryDowntown, MaxDistance: 400, IsAvailable: true, BaseWage: 60, Capabilities: []string{official.CapabilityEvaluate, official.CapabilityMentor}},
		{ID: "ref-ben", Name: "Ben Clarke", Level: official.LevelSenior, Home: calgaryNorth, MaxDistance: 150, IsAvailable: true, BaseWage: 45},
		{ID: "ref-chi", Name: "Chidi Okafor", Level: official.LevelJunior, Home: edmonton, MaxDistance: 50, IsAvailable: true, BaseWage: 32.5},
		{ID: "ref-dee", Name: "Dee Tran", Level: official.LevelRookie, Home: calgaryDowntown, MaxDistance: 30, IsAvailable: true, BaseWage: 25.5},
		{ID: "ref-eli", Name: "Eli Novak", Level: official.LevelNone, Home: redDeer, MaxDistance: 200, IsAvailable: true, BaseWage: 20},
		{ID: "ref-fay", Name: "Fay Lindqvist", Level: official.LevelSenior, Home: redDeer, MaxDistance: 250, IsAvailable: false, BaseWage: 45},
	}
}

func SeedGames() []game.Game {
	kickoff := time.Date(2026, 4, 11, 16, 0, 0, 0, time.UTC)
	return []game.Game{
		{
			ID: GameIDCupOpener, ScheduleID: ScheduleIDSpringCup, HomeTeamID: "team-hawks", AwayTeamID: "team-owls",
			Division: "U15-1", StartAt: kickoff, EndAt: kickoff.Add(90 * time.Minute), Location: calgaryNorth,
			PositionsNeeded: 3, WageMultiplier: 1, Status: game.StatusUnassigned, Round: 1,
		},
		{
			ID: GameIDCupSecond, ScheduleID: ScheduleIDSpringCup, HomeTeamID: "team-lynx", AwayTeamID: "team-bears",
			Division: "U13-2", StartAt: kickoff.Add(90 * time.Minute), EndAt: kickoff.Add(180 * time.Minute), Location: calgaryDowntown,
			PositionsNeeded: 2, WageMultiplier: 1, Status: game.StatusUnassigned, Round: 1,
		},
		{
			ID: GameIDCupDerby, ScheduleID: ScheduleIDSpringCup, HomeTeamID: "team-hawks", AwayTeamID: "team-lynx",
			Division: "U18-1", StartAt: kickoff.AddDate(0, 0, 7), EndAt: kickoff.AddDate(0, 0, 7).Add(90 * time.Minute), Location: redDeer,
			PositionsNeeded: 3, WageMultiplier: 1.5, MultiplierReason: "provincial final", Status: game.StatusUnassigned, Round: 2,
		},
		{
			ID: GameIDCupCanceled, ScheduleID: ScheduleIDSpringCup, HomeTeamID: "team-owls", AwayTeamID: "team-bears",
			Division: "U15-1", StartAt: kickoff.AddDate(0, 0, 7), EndAt: kickoff.AddDate(0, 0, 7).Add(90 * time.Minute), Location: edmonton,
			PositionsNeeded: 3, WageMultiplier: 1, Status: game.StatusCancelled, Round: 2,
		},
	}
}
