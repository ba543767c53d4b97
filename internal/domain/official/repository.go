package official

import "context"

// Repository exposes official snapshot reads.
type Repository interface {
	GetByID(ctx context.Context, id string) (Official, bool, error)
	ListAvailable(ctx context.Context) ([]Official, error)
}
