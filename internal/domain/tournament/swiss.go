package tournament

import "fmt"

// Swiss pairs adjacent teams each round over a circle rotation of the
// roster (the first team stays fixed). Pairings do not depend on results.
// With an odd roster one team sits out per round.
func Swiss(teams []Team, cfg Config) (Schedule, error) {
	cfg, err := prepare(teams, cfg, 4)
	if err != nil {
		return Schedule{}, err
	}
	if cfg.Rounds < 1 {
		return Schedule{}, fmt.Errorf("%w: swiss requires at least one round", ErrInvalidConfig)
	}

	ids := teamIDs(teams)
	if len(ids)%2 == 1 {
		ids = append(ids, "")
	}

	var games []Game
	byes := make(map[int][]string)
	for r := 1; r <= cfg.Rounds; r++ {
		order := rotate(ids, r-1)
		for i := 0; i+1 < len(order); i += 2 {
			home, away := order[i], order[i+1]
			switch {
			case home == "":
				byes[r] = append(byes[r], away)
				continue
			case away == "":
				byes[r] = append(byes[r], home)
				continue
			}
			games = append(games, Game{HomeTeamID: home, AwayTeamID: away, Round: r})
		}
	}

	schedule := finish(FormatSwiss, games, cfg, len(teams))
	for i := range schedule.Rounds {
		schedule.Rounds[i].ByeTeamIDs = byes[schedule.Rounds[i].Number]
	}
	for _, sitting := range byes {
		schedule.Summary.Byes += len(sitting)
	}

	return schedule, nil
}

// rotate keeps ids[0] in place and shifts the rest by k.
func rotate(ids []string, k int) []string {
	out := make([]string, len(ids))
	out[0] = ids[0]
	rest := len(ids) - 1
	for i := 1; i < len(ids); i++ {
		out[1+(i-1+k)%rest] = ids[i]
	}
	return out
}
