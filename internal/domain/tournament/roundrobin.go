package tournament

// RoundRobin schedules every unordered pair once. Games are emitted i<j in
// roster order. Each game's Round comes from the circle method, so no team
// plays twice in a round.
func RoundRobin(teams []Team, cfg Config) (Schedule, error) {
	cfg, err := prepare(teams, cfg, 2)
	if err != nil {
		return Schedule{}, err
	}

	games := pairAll(teamIDs(teams), 1, "", "")
	schedule := finish(FormatRoundRobin, games, cfg, len(teams))
	schedule.Summary.GamesPerTeam = len(teams) - 1

	return schedule, nil
}

func pairAll(ids []string, firstRound int, stage, group string) []Game {
	rounds := circleRounds(len(ids))
	games := make([]Game, 0, len(ids)*(len(ids)-1)/2)
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			games = append(games, Game{
				HomeTeamID: ids[i],
				AwayTeamID: ids[j],
				Round:      firstRound + rounds[i][j],
				Stage:      stage,
				Group:      group,
			})
		}
	}
	return games
}

// circleRounds returns the 0-based round of each pair i<j. Index 0 stays
// fixed while the others rotate; an odd roster gets a phantom entrant whose
// opponent sits out.
func circleRounds(n int) [][]int {
	out := make([][]int, n)
	for i := range out {
		out[i] = make([]int, n)
	}

	m := n + n%2
	others := m - 1
	for r := 0; r < others; r++ {
		setRound(out, 0, 1+r, r)
		for k := 1; k < m/2; k++ {
			a := 1 + (r+k)%others
			b := 1 + ((r-k)%others+others)%others
			setRound(out, a, b, r)
		}
	}
	return out
}

func setRound(out [][]int, a, b, round int) {
	if a >= len(out) || b >= len(out) {
		return
	}
	if a > b {
		a, b = b, a
	}
	out[a][b] = round
}
