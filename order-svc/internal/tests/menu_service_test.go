package tests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"
	"menugenius/order-svc/internal/mocks"
	"menugenius/order-svc/internal/service"
	"menugenius/recommend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMenuService(t *testing.T) (*service.MenuService, *mocks.MenuRepository, *service.Metrics) {
	repo := mocks.NewMenuRepository(t)
	metrics := service.NewMetrics(prometheus.NewRegistry())
	return service.NewMenuService(repo, metrics, zap.NewNop()), repo, metrics
}

func TestMenuService_RecommendSkipsUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, repo, metrics := newMenuService(t)

	catalog := []shared.MenuItem{
		menuItem(1, "Green Curry", "14", true),
		menuItem(2, "Sold Out Soup", "6", false),
		menuItem(3, "Garden Salad", "9", true),
	}
	repo.On("ListMenuItems", ctx).Return(catalog, nil).Once()

	resp, err := svc.Recommend(ctx, shared.RecommendationRequest{Query: "  something light  "})
	require.NoError(t, err)

	assert.Equal(t, "something light", resp.Query)
	assert.Equal(t, 2, resp.TotalMatches)
	require.Len(t, resp.MatchedItems, 2)
	assert.Equal(t, 1, resp.MatchedItems[0].ID)
	assert.Equal(t, 3, resp.MatchedItems[1].ID)
	assert.NotEqual(t, recommend.NoMatchesText, resp.Recommendation)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RecommendationRequests))
	assert.False(t, catalog[1].IsAvailable)
}

func TestMenuService_RecommendValidation(t *testing.T) {
	ctx := context.Background()
	negative := -3.0
	tests := []struct {
		name string
		req  shared.RecommendationRequest
	}{
		{name: "blank query", req: shared.RecommendationRequest{Query: "   "}},
		{name: "negative price cap", req: shared.RecommendationRequest{Query: "soup", MaxPrice: &negative}},
		{name: "negative topK", req: shared.RecommendationRequest{Query: "soup", TopK: -1}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, _, _ := newMenuService(t)

			_, err := svc.Recommend(ctx, testCase.req)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestMenuService_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("blank search lists everything", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		repo.On("ListMenuItems", ctx).Return([]shared.MenuItem{menuItem(1, "Pad Thai", "12", true)}, nil).Once()

		items, err := svc.Search(ctx, "  ")
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("search trims the query", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		repo.On("SearchMenuItems", ctx, "curry").Return([]shared.MenuItem{}, nil).Once()

		_, err := svc.Search(ctx, " curry ")
		require.NoError(t, err)
	})

	t.Run("category trims the name", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		repo.On("MenuItemsByCategory", ctx, "Desserts").Return([]shared.MenuItem{}, nil).Once()

		_, err := svc.ByCategory(ctx, "Desserts ")
		require.NoError(t, err)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		repo.On("GetMenuItem", ctx, 99).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
	})
}

func TestMenuService_Create(t *testing.T) {
	ctx := context.Background()
	svc, repo, metrics := newMenuService(t)

	repo.On("CreateMenuItem", ctx, mock.AnythingOfType("*domain.MenuItem")).
		Run(func(args mock.Arguments) { args.Get(1).(*shared.MenuItem).ID = 21 }).
		Return(nil).Once()

	item, err := svc.Create(ctx, shared.MenuItemRequest{
		Name:        "  Seafood Chowder ",
		Price:       decimal.RequireFromString("11.499"),
		Category:    "Starter",
		DietaryTags: []string{" pescatarian", ""},
		SpiceLevel:  "mild",
	})
	require.NoError(t, err)

	assert.Equal(t, 21, item.ID)
	assert.Equal(t, "Seafood Chowder", item.Name)
	assert.Equal(t, "11.5", item.Price.String())
	assert.Equal(t, []string{"pescatarian"}, item.DietaryTags)
	assert.Equal(t, shared.SpiceMild, item.SpiceLevel)
	assert.True(t, item.IsAvailable)
	assert.False(t, item.CreatedAt.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MenuChanges.WithLabelValues("create")))
}

func TestMenuService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		req  shared.MenuItemRequest
	}{
		{name: "blank name", req: shared.MenuItemRequest{Name: " ", Price: decimal.NewFromInt(5)}},
		{name: "zero price", req: shared.MenuItemRequest{Name: "Tea"}},
		{name: "negative price", req: shared.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(-1)}},
		{name: "negative calories", req: shared.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(3), Calories: -10}},
		{name: "unknown spice level", req: shared.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(3), SpiceLevel: "volcanic"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, _, _ := newMenuService(t)

			_, err := svc.Create(ctx, testCase.req)
			assert.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestMenuService_Update(t *testing.T) {
	ctx := context.Background()
	unavailable := false

	t.Run("keeps availability when unset", func(t *testing.T) {
		svc, repo, metrics := newMenuService(t)
		existing := menuItem(4, "Pad Thai", "12", true)
		repo.On("GetMenuItem", ctx, 4).Return(&existing, nil).Once()
		repo.On("UpdateMenuItem", ctx, mock.MatchedBy(func(item *shared.MenuItem) bool {
			return item.ID == 4 && item.Name == "Pad Thai Deluxe" && item.IsAvailable
		})).Return(nil).Once()

		item, err := svc.Update(ctx, 4, shared.MenuItemRequest{Name: "Pad Thai Deluxe", Price: decimal.NewFromInt(15)})
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(15).Equal(item.Price))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MenuChanges.WithLabelValues("update")))
	})

	t.Run("marks sold out", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		existing := menuItem(4, "Pad Thai", "12", true)
		repo.On("GetMenuItem", ctx, 4).Return(&existing, nil).Once()
		repo.On("UpdateMenuItem", ctx, mock.AnythingOfType("*domain.MenuItem")).Return(nil).Once()

		item, err := svc.Update(ctx, 4, shared.MenuItemRequest{Name: "Pad Thai", Price: decimal.NewFromInt(12), IsAvailable: &unavailable})
		require.NoError(t, err)
		assert.False(t, item.IsAvailable)
	})

	t.Run("missing item", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		repo.On("GetMenuItem", ctx, 99).Return(nil, sql.ErrNoRows).Once()

		_, err := svc.Update(ctx, 99, shared.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(3)})
		assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
	})

	t.Run("deleted while editing", func(t *testing.T) {
		svc, repo, _ := newMenuService(t)
		existing := menuItem(4, "Pad Thai", "12", true)
		repo.On("GetMenuItem", ctx, 4).Return(&existing, nil).Once()
		repo.On("UpdateMenuItem", ctx, mock.AnythingOfType("*domain.MenuItem")).Return(sql.ErrNoRows).Once()

		_, err := svc.Update(ctx, 4, shared.MenuItemRequest{Name: "Tea", Price: decimal.NewFromInt(3)})
		assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
	})

	t.Run("invalid request never reads", func(t *testing.T) {
		svc, _, _ := newMenuService(t)

		_, err := svc.Update(ctx, 4, shared.MenuItemRequest{Name: "Tea"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestMenuService_Delete(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name        string
		affected    int64
		repoErr     error
		expectedErr error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, expectedErr: service.ErrMenuItemNotFound},
		{name: "referenced by orders", repoErr: fmt.Errorf("%w: key (id)=(3)", domain.ErrMenuItemReferenced), expectedErr: service.ErrMenuItemInUse},
		{name: "database error", repoErr: errors.New("connection reset")},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, repo, metrics := newMenuService(t)
			repo.On("DeleteMenuItem", ctx, 3).Return(testCase.affected, testCase.repoErr).Once()

			err := svc.Delete(ctx, 3)
			switch {
			case testCase.expectedErr != nil:
				assert.ErrorIs(t, err, testCase.expectedErr)
			case testCase.repoErr != nil:
				assert.ErrorIs(t, err, testCase.repoErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, 1.0, testutil.ToFloat64(metrics.MenuChanges.WithLabelValues("delete")))
			}
		})
	}
}
