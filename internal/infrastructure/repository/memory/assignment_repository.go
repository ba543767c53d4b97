package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
)

// AssignmentRepository keeps assignments in memory. Create performs the
// uniqueness and capacity checks and the insert under one lock.
type AssignmentRepository struct {
	mu    sync.RWMutex
	items map[string]assignment.Assignment
	games *GameRepository
}

// NewAssignmentRepository reads game intervals from games when listing an
// official's held assignments.
func NewAssignmentRepository(games *GameRepository) *AssignmentRepository {
	return &AssignmentRepository{
		items: make(map[string]assignment.Assignment),
		games: games,
	}
}

func (r *AssignmentRepository) GetByID(_ context.Context, id string) (assignment.Assignment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return assignment.Assignment{}, false, nil
	}
	return cloneAssignment(item), true, nil
}

func (r *AssignmentRepository) ListHeldByOfficial(ctx context.Context, officialID string, from, to time.Time) ([]assignment.Held, error) {
	r.mu.RLock()
	mine := make([]assignment.Assignment, 0)
	for _, item := range r.items {
		if item.OfficialID == officialID {
			mine = append(mine, item)
		}
	}
	r.mu.RUnlock()

	out := make([]assignment.Held, 0, len(mine))
	for _, item := range mine {
		g, ok, err := r.games.GetByID(ctx, item.GameID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if !assignment.Overlaps(g.StartAt, g.EndAt, from, to) {
			continue
		}
		out = append(out, assignment.Held{
			AssignmentID: item.ID,
			GameID:       item.GameID,
			StartAt:      g.StartAt,
			EndAt:        g.EndAt,
			Status:       item.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].AssignmentID < out[j].AssignmentID
	})

	return out, nil
}

func (r *AssignmentRepository) ListByGame(_ context.Context, gameID string) ([]assignment.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]assignment.Assignment, 0)
	for _, item := range r.items {
		if item.GameID == gameID {
			out = append(out, cloneAssignment(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (r *AssignmentRepository) Create(_ context.Context, item assignment.Assignment, positionsNeeded int) error {
	if err := item.ValidateBasic(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return fmt.Errorf("assignment %s already exists", item.ID)
	}

	active := 0
	positionTaken := false
	for _, existing := range r.items {
		if existing.GameID != item.GameID || !existing.Status.Active() {
			continue
		}
		if existing.OfficialID == item.OfficialID {
			return fmt.Errorf("%w: official=%s game=%s", assignment.ErrDoubleBooked, item.OfficialID, item.GameID)
		}
		if existing.Position == item.Position {
			positionTaken = true
		}
		active++
	}
	if positionTaken {
		return fmt.Errorf("%w: game=%s position=%s", assignment.ErrPositionFilled, item.GameID, item.Position)
	}
	if positionsNeeded > 0 && active >= positionsNeeded {
		return fmt.Errorf("%w: game=%s", assignment.ErrCapacityExceeded, item.GameID)
	}

	r.items[item.ID] = cloneAssignment(item)
	return nil
}

// UpdateStatus moves the assignment from one status to another only when it
// is still in from. A stale caller gets ErrInvalidTransition.
func (r *AssignmentRepository) UpdateStatus(_ context.Context, id string, from, to assignment.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("assignment %s not found", id)
	}
	if item.Status != from {
		return fmt.Errorf("%w: assignment %s is %s, not %s", assignment.ErrInvalidTransition, id, item.Status, from)
	}
	if to.Active() && !from.Active() {
		for _, existing := range r.items {
			if existing.ID == id || existing.GameID != item.GameID || !existing.Status.Active() {
				continue
			}
			if existing.Position == item.Position {
				return fmt.Errorf("%w: game=%s position=%s", assignment.ErrPositionFilled, item.GameID, item.Position)
			}
			if existing.OfficialID == item.OfficialID {
				return fmt.Errorf("%w: official=%s game=%s", assignment.ErrDoubleBooked, item.OfficialID, item.GameID)
			}
		}
	}
	item.Status = to
	item.UpdatedAt = at
	r.items[id] = item
	return nil
}

func (r *AssignmentRepository) UpdateWage(_ context.Context, id string, calculatedWage, multiplier float64, reason string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return fmt.Errorf("assignment %s not found", id)
	}
	item.CalculatedWage = calculatedWage
	item.WageMultiplier = multiplier
	item.WageReason = reason
	item.UpdatedAt = at
	r.items[id] = item
	return nil
}

func cloneAssignment(a assignment.Assignment) assignment.Assignment {
	copied := a
	copied.Warnings = slices.Clone(a.Warnings)
	return copied
}
