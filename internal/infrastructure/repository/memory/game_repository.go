package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	items map[string]game.Game
}

func NewGameRepository(games []game.Game) *GameRepository {
	items := make(map[string]game.Game, len(games))
	for _, item := range games {
		items[item.ID] = item
	}

	return &GameRepository{items: items}
}

func (r *GameRepository) GetByID(_ context.Context, id string) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	return item, ok, nil
}

func (r *GameRepository) ListBySchedule(_ context.Context, scheduleID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, item := range r.items {
		if item.ScheduleID == scheduleID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *GameRepository) CreateBatch(_ context.Context, games []game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range games {
		if _, exists := r.items[item.ID]; exists {
			return fmt.Errorf("game %s already exists", item.ID)
		}
	}
	for _, item := range games {
		r.items[item.ID] = item
	}
	return nil
}

func (r *GameRepository) UpdateStatus(_ context.Context, id string, status game.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *GameRepository) UpdateMultiplier(_ context.Context, id string, multiplier float64, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("game %s not found", id)
	}
	item.WageMultiplier = multiplier
	item.MultiplierReason = reason
	r.items[id] = item
	return nil
}
