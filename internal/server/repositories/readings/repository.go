// Package readings persists sensor readings.
package readings

import (
	"context"

	"github.com/dmitrijs2005/envmon/internal/server/models"
)

// Order selects the sort direction of List by creation time.
type Order int

const (
	NewestFirst Order = iota
	OldestFirst
)

func (o Order) String() string {
	if o == OldestFirst {
		return "oldest_first"
	}
	return "newest_first"
}

type Repository interface {
	Create(ctx context.Context, reading *models.Reading) (*models.Reading, error)
	List(ctx context.Context, order Order) ([]*models.Reading, error)
	Ping(ctx context.Context) error
}
