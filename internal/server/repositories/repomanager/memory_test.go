package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/repositories/readings"
)

func TestInMemoryRepositoryManager_SharesState(t *testing.T) {
	m := NewInMemoryRepositoryManager()
	ctx := context.Background()

	if err := m.RunMigrations(ctx, nil); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}

	if _, err := m.Users(nil).Create(ctx, &models.User{Email: "a@example.com"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := m.Users(nil).FindByEmail(ctx, "a@example.com"); err != nil {
		t.Fatalf("user not visible through a second handle: %v", err)
	}

	if _, err := m.Readings(nil).Create(ctx, &models.Reading{Temperature: 1}); err != nil {
		t.Fatalf("Create reading error: %v", err)
	}
	list, err := m.Readings(nil).List(ctx, readings.NewestFirst)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}
}
