package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/synced-sports/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo officials and games. Officials are upserted
// on every run; the demo schedule is only inserted when it has no games,
// so the command can be repeated safely.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	officials := NewOfficialRepository(db)
	for _, o := range memory.SeedOfficials() {
		if err := officials.Upsert(ctx, o); err != nil {
			return fmt.Errorf("seed official %s: %w", o.ID, err)
		}
	}

	games := NewGameRepository(db)
	existing, err := games.ListBySchedule(ctx, memory.ScheduleIDSpringCup)
	if err != nil {
		return fmt.Errorf("list seeded schedule: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	if err := games.CreateBatch(ctx, memory.SeedGames()); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	return nil
}
