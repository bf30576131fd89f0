package insights

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Insight
	bySlug map[string]string
}

var _ Repo = (*MemoryRepo)(nil)

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Insight),
		bySlug: make(map[string]string),
	}
}

// Create stores ins unless its id or slug is already taken.
func (r *MemoryRepo) Create(ctx context.Context, ins Insight) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySlug[ins.Slug]; ok {
		return ErrConflict
	}
	if _, ok := r.byID[ins.ID]; ok {
		return ErrConflict
	}
	r.byID[ins.ID] = clone(ins)
	r.bySlug[ins.Slug] = ins.ID
	return nil
}

// GetByID returns the stored insight.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Insight, error) {
	if err := ctx.Err(); err != nil {
		return Insight{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ins, ok := r.byID[id]
	if !ok {
		return Insight{}, ErrNotFound
	}
	return clone(ins), nil
}

// ListPublished returns published insights, newest publish date first.
func (r *MemoryRepo) ListPublished(ctx context.Context, filter ListFilter) ([]Insight, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	items := make([]Insight, 0, len(r.byID))
	for _, ins := range r.byID {
		if !ins.Published {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(ins.Category, filter.Category) {
			continue
		}
		items = append(items, ins.WithoutPDFData())
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].PublishDate.Equal(items[j].PublishDate) {
			return items[i].ID < items[j].ID
		}
		return items[i].PublishDate.After(items[j].PublishDate)
	})

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []Insight{}, nil
	}
	end := len(items)
	if filter.Limit > 0 && offset+filter.Limit < end {
		end = offset + filter.Limit
	}
	return items[offset:end], nil
}

// Ping always succeeds.
func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}

func clone(ins Insight) Insight {
	if ins.PDF != nil {
		payload := *ins.PDF
		ins.PDF = &payload
	}
	return ins
}
