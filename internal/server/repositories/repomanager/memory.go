package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/envmon/internal/dbx"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/readings"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/users"
)

// InMemoryRepositoryManager hands out the same process-local repositories
// regardless of the DBTX it is given.
type InMemoryRepositoryManager struct {
	users    *users.InMemoryRepository
	readings *readings.InMemoryRepository
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		readings: readings.NewInMemoryRepository(),
	}
}

// RunMigrations is a no-op; there is no schema.
func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Readings(dbx.DBTX) readings.Repository {
	return m.readings
}
