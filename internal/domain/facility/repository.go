package facility

import "context"

// Repository persists the placed facility layout
type Repository interface {
	Save(ctx context.Context, facilities []*Facility) error
	Load(ctx context.Context) ([]*Facility, error)
}
