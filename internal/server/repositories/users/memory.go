package users

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/dmitrijs2005/envmon/internal/server/models"
)

// InMemoryRepository keeps accounts in a map guarded by a mutex. The map key
// is the email, so the mutex is the uniqueness constraint.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
	now   func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		users: make(map[string]models.User),
		now:   time.Now,
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}

	created := *user
	created.ID = newID()
	created.CreatedAt = r.now().UTC()
	r.users[created.Email] = created

	return &created, nil
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *InMemoryRepository) MarkVerified(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.IsVerified = true
	r.users[email] = u

	return nil
}
