package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/storage"

	"go.uber.org/zap"
)

// LocalMenu keeps an editable menu in the kiosk's own storage, starting from
// a seed catalog. It stands in for the order service's menu when the kiosk
// runs on its mock catalog.
type LocalMenu struct {
	store  storage.KV
	logger *zap.Logger
	now    func() time.Time

	mu    sync.Mutex
	items []domain.MenuItem
}

func NewLocalMenu(store storage.KV, seed []domain.MenuItem, logger *zap.Logger) *LocalMenu {
	m := &LocalMenu{store: store, logger: logger, now: time.Now}
	err := storage.GetJSON(store, storage.KeyMenuItems, &m.items)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.items = cloneItems(seed)
	case err != nil:
		logger.Warn("failed to load local menu, using the sample catalog", zap.Error(err))
		m.items = cloneItems(seed)
	}
	return m
}

func (m *LocalMenu) MenuItems(_ context.Context) ([]domain.MenuItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items), nil
}

func (m *LocalMenu) CreateMenuItem(_ context.Context, req domain.MenuItemRequest) (domain.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.MenuItem{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	item := req.Apply(domain.MenuItem{ID: m.nextIDLocked(), IsAvailable: true, CreatedAt: now, UpdatedAt: now})
	m.items = append(m.items, item)
	if err := m.persistLocked(); err != nil {
		m.items = m.items[:len(m.items)-1]
		return domain.MenuItem{}, err
	}
	return item.Clone(), nil
}

func (m *LocalMenu) UpdateMenuItem(_ context.Context, id int, req domain.MenuItemRequest) (domain.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.MenuItem{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return domain.MenuItem{}, fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	prev := m.items[i]
	item := req.Apply(prev)
	item.UpdatedAt = m.now()
	m.items[i] = item
	if err := m.persistLocked(); err != nil {
		m.items[i] = prev
		return domain.MenuItem{}, err
	}
	return item.Clone(), nil
}

func (m *LocalMenu) DeleteMenuItem(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	prev := m.items
	m.items = append(append([]domain.MenuItem{}, prev[:i]...), prev[i+1:]...)
	if err := m.persistLocked(); err != nil {
		m.items = prev
		return err
	}
	return nil
}

func (m *LocalMenu) indexLocked(id int) int {
	for i, item := range m.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (m *LocalMenu) nextIDLocked() int {
	next := 1
	for _, item := range m.items {
		if item.ID >= next {
			next = item.ID + 1
		}
	}
	return next
}

func (m *LocalMenu) persistLocked() error {
	if err := storage.SetJSON(m.store, storage.KeyMenuItems, m.items); err != nil {
		m.logger.Warn("failed to persist local menu", zap.Error(err))
		return fmt.Errorf("%w: save menu: %v", domain.ErrServer, err)
	}
	return nil
}

func cloneItems(items []domain.MenuItem) []domain.MenuItem {
	out := make([]domain.MenuItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
