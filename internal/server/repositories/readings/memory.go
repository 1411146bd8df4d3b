package readings

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/envmon/internal/server/models"
)

// InMemoryRepository keeps readings in insertion order.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items []models.Reading
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

func (r *InMemoryRepository) Create(ctx context.Context, reading *models.Reading) (*models.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *reading
	created.ID = newID()
	created.CreatedAt = r.now().UTC()
	r.items = append(r.items, created)

	return &created, nil
}

func (r *InMemoryRepository) List(ctx context.Context, order Order) ([]*models.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Reading, 0, len(r.items))
	for i := range r.items {
		item := r.items[i]
		result = append(result, &item)
	}
	if order == NewestFirst {
		slices.Reverse(result)
	}

	return result, nil
}

func (r *InMemoryRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}
