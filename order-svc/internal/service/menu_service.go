package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"
	"menugenius/recommend"

	"go.uber.org/zap"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrMenuItemInUse    = errors.New("menu item is used by existing orders")
)

type MenuService struct {
	repo    MenuRepository
	metrics *Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewMenuService(repo MenuRepository, metrics *Metrics, logger *zap.Logger) *MenuService {
	return &MenuService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

func (s *MenuService) List(ctx context.Context) ([]shared.MenuItem, error) {
	return s.repo.ListMenuItems(ctx)
}

func (s *MenuService) Get(ctx context.Context, id int) (*shared.MenuItem, error) {
	item, err := s.repo.GetMenuItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	return item, err
}

func (s *MenuService) Search(ctx context.Context, query string) ([]shared.MenuItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.ListMenuItems(ctx)
	}
	return s.repo.SearchMenuItems(ctx, query)
}

func (s *MenuService) ByCategory(ctx context.Context, category string) ([]shared.MenuItem, error) {
	return s.repo.MenuItemsByCategory(ctx, strings.TrimSpace(category))
}

// Recommend runs the deterministic matcher over the available menu.
func (s *MenuService) Recommend(ctx context.Context, req shared.RecommendationRequest) (shared.RecommendationResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return shared.RecommendationResponse{}, err
	}
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return shared.RecommendationResponse{}, fmt.Errorf("failed to load menu: %w", err)
	}
	available := make([]shared.MenuItem, 0, len(items))
	for _, item := range items {
		if item.IsAvailable {
			available = append(available, item)
		}
	}

	resp := recommend.Recommend(available, req, s.now())
	s.metrics.RecommendationRequests.Inc()
	s.logger.Debug("recommendation served",
		zap.String("query", req.Query),
		zap.Int("matches", resp.TotalMatches))
	return resp, nil
}

// Create adds a menu item. Items are available unless the request says
// otherwise.
func (s *MenuService) Create(ctx context.Context, req shared.MenuItemRequest) (*shared.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	now := s.now()
	item := req.Apply(shared.MenuItem{IsAvailable: true, CreatedAt: now, UpdatedAt: now})
	if err := s.repo.CreateMenuItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	s.metrics.MenuChanges.WithLabelValues("create").Inc()
	s.logger.Info("menu item created", zap.Int("id", item.ID), zap.String("name", item.Name))
	return &item, nil
}

// Update replaces the editable fields of item id.
func (s *MenuService) Update(ctx context.Context, id int, req shared.MenuItemRequest) (*shared.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item := req.Apply(*existing)
	item.UpdatedAt = s.now()
	if err := s.repo.UpdateMenuItem(ctx, &item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to update menu item %d: %w", id, err)
	}

	s.metrics.MenuChanges.WithLabelValues("update").Inc()
	s.logger.Info("menu item updated", zap.Int("id", item.ID), zap.Bool("available", item.IsAvailable))
	return &item, nil
}

// Delete removes item id. Items that orders still point at stay and fail with
// ErrMenuItemInUse; marking them unavailable is the way to retire them.
func (s *MenuService) Delete(ctx context.Context, id int) error {
	affected, err := s.repo.DeleteMenuItem(ctx, id)
	switch {
	case errors.Is(err, domain.ErrMenuItemReferenced):
		return fmt.Errorf("%w: mark it unavailable instead", ErrMenuItemInUse)
	case err != nil:
		return fmt.Errorf("failed to delete menu item %d: %w", id, err)
	case affected == 0:
		return ErrMenuItemNotFound
	}

	s.metrics.MenuChanges.WithLabelValues("delete").Inc()
	s.logger.Info("menu item deleted", zap.Int("id", id))
	return nil
}
