package cache

import (
	"context"
	"slices"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	basecache "github.com/riskibarqy/synced-sports/internal/platform/cache"
)

const (
	keyOfficialAvailable = "official:available"
	prefixOfficialID     = "official:id:"
	prefixGameID         = "game:id:"
	prefixGameSchedule   = "game:schedule:"
)

type OfficialRepository struct {
	next      official.Repository
	byID      *basecache.Store[cachedOfficialByID]
	available *basecache.Store[[]official.Official]
}

func NewOfficialRepository(next official.Repository, ttl time.Duration, observer basecache.Observer) *OfficialRepository {
	return &OfficialRepository{
		next:      next,
		byID:      basecache.NewStore("official_by_id", ttl, basecache.WithObserver[cachedOfficialByID](observer)),
		available: basecache.NewStore("official_available", ttl, basecache.WithObserver[[]official.Official](observer)),
	}
}

func (r *OfficialRepository) GetByID(ctx context.Context, id string) (official.Official, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, prefixOfficialID+id, func(ctx context.Context) (cachedOfficialByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedOfficialByID{}, err
		}
		return cachedOfficialByID{value: cloneOfficial(item), exists: exists}, nil
	})
	if err != nil {
		return official.Official{}, false, err
	}

	return cloneOfficial(cached.value), cached.exists, nil
}

func (r *OfficialRepository) ListAvailable(ctx context.Context) ([]official.Official, error) {
	items, err := r.available.GetOrLoad(ctx, keyOfficialAvailable, func(ctx context.Context) ([]official.Official, error) {
		items, err := r.next.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}
		return cloneOfficials(items), nil
	})
	if err != nil {
		return nil, err
	}

	return cloneOfficials(items), nil
}

type cachedOfficialByID struct {
	value  official.Official
	exists bool
}

// GameRepository caches game snapshots. Writes go through to the next
// repository first and then drop the affected keys.
type GameRepository struct {
	next       game.Repository
	byID       *basecache.Store[cachedGameByID]
	bySchedule *basecache.Store[[]game.Game]
}

func NewGameRepository(next game.Repository, ttl time.Duration, observer basecache.Observer) *GameRepository {
	return &GameRepository{
		next:       next,
		byID:       basecache.NewStore("game_by_id", ttl, basecache.WithObserver[cachedGameByID](observer)),
		bySchedule: basecache.NewStore("game_by_schedule", ttl, basecache.WithObserver[[]game.Game](observer)),
	}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	cached, err := r.byID.GetOrLoad(ctx, prefixGameID+id, func(ctx context.Context) (cachedGameByID, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedGameByID{}, err
		}
		return cachedGameByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return game.Game{}, false, err
	}

	return cached.value, cached.exists, nil
}

func (r *GameRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]game.Game, error) {
	items, err := r.bySchedule.GetOrLoad(ctx, prefixGameSchedule+scheduleID, func(ctx context.Context) ([]game.Game, error) {
		items, err := r.next.ListBySchedule(ctx, scheduleID)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}

	return slices.Clone(items), nil
}

func (r *GameRepository) CreateBatch(ctx context.Context, games []game.Game) error {
	if err := r.next.CreateBatch(ctx, games); err != nil {
		return err
	}

	keys := make([]string, 0, len(games))
	for _, item := range games {
		keys = append(keys, prefixGameID+item.ID)
		r.bySchedule.Delete(ctx, prefixGameSchedule+item.ScheduleID)
	}
	r.byID.Delete(ctx, keys...)
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, id string, status game.Status) error {
	if err := r.next.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *GameRepository) UpdateMultiplier(ctx context.Context, id string, multiplier float64, reason string) error {
	if err := r.next.UpdateMultiplier(ctx, id, multiplier, reason); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// invalidate drops the game and every cached schedule listing, since the
// game's schedule is not known without another read.
func (r *GameRepository) invalidate(ctx context.Context, id string) {
	r.byID.Delete(ctx, prefixGameID+id)
	r.bySchedule.DeletePrefix(ctx, prefixGameSchedule)
}

type cachedGameByID struct {
	value  game.Game
	exists bool
}

func cloneOfficial(o official.Official) official.Official {
	copied := o
	copied.AllowedDivisions = slices.Clone(o.AllowedDivisions)
	copied.Capabilities = slices.Clone(o.Capabilities)
	return copied
}

func cloneOfficials(items []official.Official) []official.Official {
	out := make([]official.Official, 0, len(items))
	for _, item := range items {
		out = append(out, cloneOfficial(item))
	}
	return out
}
