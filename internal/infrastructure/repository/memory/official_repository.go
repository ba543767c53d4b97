package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/synced-sports/internal/domain/official"
)

type OfficialRepository struct {
	mu    sync.RWMutex
	items map[string]official.Official
}

func NewOfficialRepository(officials []official.Official) *OfficialRepository {
	items := make(map[string]official.Official, len(officials))
	for _, item := range officials {
		items[item.ID] = cloneOfficial(item)
	}

	return &OfficialRepository{items: items}
}

func (r *OfficialRepository) GetByID(_ context.Context, id string) (official.Official, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return official.Official{}, false, nil
	}

	return cloneOfficial(item), true, nil
}

func (r *OfficialRepository) ListAvailable(_ context.Context) ([]official.Official, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]official.Official, 0, len(r.items))
	for _, item := range r.items {
		if item.IsAvailable {
			out = append(out, cloneOfficial(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

// Upsert replaces the stored snapshot, mainly for fixtures and tests.
func (r *OfficialRepository) Upsert(_ context.Context, item official.Official) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneOfficial(item)
	return nil
}

func cloneOfficial(o official.Official) official.Official {
	copied := o
	copied.AllowedDivisions = slices.Clone(o.AllowedDivisions)
	copied.Capabilities = slices.Clone(o.Capabilities)
	return copied
}
