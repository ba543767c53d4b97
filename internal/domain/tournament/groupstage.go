package tournament

import "fmt"

// GroupStagePlayoffs splits the roster into groups in roster order, plays
// a round robin inside each group and seeds the top finishers crosswise
// into a single-elimination bracket. The last group absorbs the remainder.
func GroupStagePlayoffs(teams []Team, cfg Config) (Schedule, error) {
	cfg, err := prepare(teams, cfg, 4)
	if err != nil {
		return Schedule{}, err
	}

	groups := splitGroups(teamIDs(teams), cfg.GroupSize)

	advance := cfg.AdvancePerGroup
	for _, g := range groups {
		advance = min(advance, len(g))
	}
	if len(groups)*advance < 2 {
		return Schedule{}, fmt.Errorf("%w: playoffs need at least two entrants", ErrInvalidConfig)
	}

	var games []Game
	lastGroupRound := 0
	for i, members := range groups {
		groupGames := pairAll(members, 1, StageGroup, groupLabel(i))
		for _, g := range groupGames {
			lastGroupRound = max(lastGroupRound, g.Round)
		}
		games = append(games, groupGames...)
	}
	groupStageGames := len(games)

	entrants := make([]string, 0, len(groups)*advance)
	for place := 1; place <= advance; place++ {
		for i := range groups {
			entrants = append(entrants, fmt.Sprintf("%s%d", groupLabel(i), place))
		}
	}
	games = append(games, bracket(entrants, lastGroupRound+1, StagePlayoffs)...)

	schedule := finish(FormatGroupStagePlayoffs, games, cfg, len(teams))
	schedule.Summary.Groups = len(groups)
	schedule.Summary.GroupStageGames = groupStageGames
	schedule.Summary.PlayoffGames = len(games) - groupStageGames

	return schedule, nil
}

func splitGroups(ids []string, size int) [][]string {
	count := max(1, len(ids)/size)
	groups := make([][]string, 0, count)
	for i := 0; i < count; i++ {
		start := i * size
		end := start + size
		if i == count-1 {
			end = len(ids)
		}
		groups = append(groups, ids[start:end])
	}
	return groups
}

// groupLabel returns "A".."Z", then "G27" and so on.
func groupLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("G%d", i+1)
}
