package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, id string) (Game, bool, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]Game, error)
	CreateBatch(ctx context.Context, games []Game) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateMultiplier(ctx context.Context, id string, multiplier float64, reason string) error
}
