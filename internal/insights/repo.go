package insights

import "context"

// ListFilter narrows ListPublished.
type ListFilter struct {
	Category string
	Limit    int
	Offset   int
}

// Repo persists insights. Create returns ErrConflict when the slug is taken;
// GetByID returns ErrNotFound for unknown ids. ListPublished omits the encoded
// PDF data but keeps payload metadata.
type Repo interface {
	Create(ctx context.Context, ins Insight) error
	GetByID(ctx context.Context, id string) (Insight, error)
	ListPublished(ctx context.Context, filter ListFilter) ([]Insight, error)
	Ping(ctx context.Context) error
}
