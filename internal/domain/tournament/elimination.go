package tournament

import (
	"fmt"
	"math/bits"
)

// SingleElimination pads the roster to a power of two. Byes go to the top
// seeds; a bye slot is kept in the bracket but is not a playable game.
func SingleElimination(teams []Team, cfg Config) (Schedule, error) {
	cfg, err := prepare(teams, cfg, 2)
	if err != nil {
		return Schedule{}, err
	}

	games := bracket(teamIDs(teams), 1, "")
	return finish(FormatSingleElimination, games, cfg, len(teams)), nil
}

// bracket builds size-1 match slots for the entrants, numbering rounds from
// firstRound. Later rounds reference earlier winners as "W<round>-<match>".
func bracket(entrants []string, firstRound int, stage string) []Game {
	size := nextPowerOfTwo(len(entrants))
	totalRounds := bits.TrailingZeros(uint(size))
	seeds := seedOrder(size)

	games := make([]Game, 0, size-1)
	winners := make([]string, 0, size/2)
	for m := 0; m < size/2; m++ {
		home := entrantAt(entrants, seeds[2*m])
		away := entrantAt(entrants, seeds[2*m+1])
		g := Game{
			HomeTeamID: home,
			AwayTeamID: away,
			Round:      firstRound,
			RoundName:  roundName(1, totalRounds),
			Stage:      stage,
			IsBye:      away == "",
		}
		games = append(games, g)
		if g.IsBye {
			winners = append(winners, home)
		} else {
			winners = append(winners, winnerLabel(firstRound, m+1))
		}
	}

	for r := 2; r <= totalRounds; r++ {
		round := firstRound + r - 1
		next := make([]string, 0, len(winners)/2)
		for m := 0; m < len(winners)/2; m++ {
			games = append(games, Game{
				HomeTeamID: winners[2*m],
				AwayTeamID: winners[2*m+1],
				Round:      round,
				RoundName:  roundName(r, totalRounds),
				Stage:      stage,
			})
			next = append(next, winnerLabel(round, m+1))
		}
		winners = next
	}

	return games
}

// seedOrder returns 1-based seeds in bracket slot order so seed 1 meets
// the lowest seed and the top two seeds can only meet in the final.
func seedOrder(size int) []int {
	seeds := []int{1}
	for len(seeds) < size {
		sum := len(seeds)*2 + 1
		next := make([]int, 0, len(seeds)*2)
		for _, s := range seeds {
			next = append(next, s, sum-s)
		}
		seeds = next
	}
	return seeds
}

func entrantAt(entrants []string, seed int) string {
	if seed > len(entrants) {
		return ""
	}
	return entrants[seed-1]
}

func roundName(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semi-Final"
	case 2:
		return "Quarter-Final"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}

func winnerLabel(round, match int) string {
	return fmt.Sprintf("W%d-%d", round, match)
}

func nextPowerOfTwo(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
