package assignment

import (
	"context"
	"time"
)

// Repository is the assignment store boundary. Create must be an atomic
// check-and-insert: it fails with ErrPositionFilled, ErrDoubleBooked or
// ErrCapacityExceeded instead of writing a second active row for the same
// (game, position) or (game, official), or more active rows than
// positionsNeeded. UpdateStatus is a compare-and-set on the current status
// and fails with ErrInvalidTransition when the row is no longer in from.
type Repository interface {
	GetByID(ctx context.Context, id string) (Assignment, bool, error)
	ListHeldByOfficial(ctx context.Context, officialID string, from, to time.Time) ([]Held, error)
	ListByGame(ctx context.Context, gameID string) ([]Assignment, error)
	Create(ctx context.Context, item Assignment, positionsNeeded int) error
	UpdateStatus(ctx context.Context, id string, from, to Status, at time.Time) error
	UpdateWage(ctx context.Context, id string, calculatedWage, multiplier float64, reason string, at time.Time) error
}
