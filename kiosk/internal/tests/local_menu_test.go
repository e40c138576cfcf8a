package tests

import (
	"context"
	"testing"

	"menugenius/domain"
	"menugenius/kiosk/internal/service"
	"menugenius/kiosk/internal/storage"
	"menugenius/recommend"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalMenu_EditsPersist(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	menu := service.NewLocalMenu(store, recommend.SampleCatalog(), zap.NewNop())

	created, err := menu.CreateMenuItem(ctx, domain.MenuItemRequest{
		Name:       " Boxty ",
		Price:      decimal.RequireFromString("9.5"),
		SpiceLevel: "none",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	assert.Equal(t, "Boxty", created.Name)
	assert.True(t, created.IsAvailable)
	assert.Equal(t, domain.SpiceNone, created.SpiceLevel)

	soldOut := false
	updated, err := menu.UpdateMenuItem(ctx, 11, domain.MenuItemRequest{Name: "Boxty", Price: decimal.NewFromInt(10), IsAvailable: &soldOut})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, menu.DeleteMenuItem(ctx, 1))

	reopened := service.NewLocalMenu(store, recommend.SampleCatalog(), zap.NewNop())
	items, err := reopened.MenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 10)
	assert.Equal(t, 2, items[0].ID)
	last := items[len(items)-1]
	assert.Equal(t, "Boxty", last.Name)
	assert.False(t, last.IsAvailable)
	assert.True(t, decimal.NewFromInt(10).Equal(last.Price))
}

func TestLocalMenu_Errors(t *testing.T) {
	ctx := context.Background()
	menu := service.NewLocalMenu(storage.NewMemoryStore(), []domain.MenuItem{menuItem(1, "10")}, zap.NewNop())

	_, err := menu.CreateMenuItem(ctx, domain.MenuItemRequest{Name: "Free Lunch"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = menu.UpdateMenuItem(ctx, 42, domain.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(3)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, menu.DeleteMenuItem(ctx, 42), domain.ErrNotFound)

	items, err := menu.MenuItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestLocalMenu_CorruptStoreFallsBackToSeed(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(storage.KeyMenuItems, []byte("{broken")))

	menu := service.NewLocalMenu(store, recommend.SampleCatalog(), zap.NewNop())
	items, err := menu.MenuItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 10)

	items[0].Name = "changed"
	again, _ := menu.MenuItems(context.Background())
	assert.NotEqual(t, "changed", again[0].Name)
}
