package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocalBackend keeps orders in the kiosk's own storage. It is used when the
// kiosk runs without an order service.
type LocalBackend struct {
	store  storage.KV
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	orders []domain.Order
}

func NewLocalBackend(store storage.KV, logger *zap.Logger) *LocalBackend {
	b := &LocalBackend{store: store, logger: logger, now: time.Now}
	if err := storage.GetJSON(store, storage.KeyOrders, &b.orders); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to load local orders", zap.Error(err))
		b.orders = nil
	}
	return b
}

func (b *LocalBackend) CreateOrder(_ context.Context, draft domain.Order) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	order := draft
	order.Items = domain.SnapshotItems(draft.Items)
	order.ID = uuid.NewString()
	order.OrderNumber = domain.NewOrderNumber(now)
	order.Status = domain.StatusPending
	order.CreatedAt = now
	order.UpdatedAt = now
	order.CompletedAt = nil

	b.orders = append(b.orders, order)
	b.persist()
	return order, nil
}

func (b *LocalBackend) GetOrder(_ context.Context, ref string) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(ref)
	if i < 0 {
		return domain.Order{}, fmt.Errorf("%w: order %s", domain.ErrNotFound, ref)
	}
	return b.copyOf(i), nil
}

func (b *LocalBackend) ActiveOrders(_ context.Context) ([]domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	active := make([]domain.Order, 0, len(b.orders))
	for i, o := range b.orders {
		if !o.Status.IsTerminal() {
			active = append(active, b.copyOf(i))
		}
	}
	return active, nil
}

func (b *LocalBackend) UpdateStatus(_ context.Context, ref string, status domain.Status, notes string) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(ref)
	if i < 0 {
		return domain.Order{}, fmt.Errorf("%w: order %s", domain.ErrNotFound, ref)
	}
	order := &b.orders[i]
	if err := domain.ValidateTransition(order.Status, status); err != nil {
		return domain.Order{}, err
	}

	now := b.now()
	order.Status = status
	order.UpdatedAt = now
	if status == domain.StatusCompleted {
		order.CompletedAt = &now
	}
	if notes = strings.TrimSpace(notes); notes != "" {
		order.Notes = notes
	}
	b.persist()
	return b.copyOf(i), nil
}

func (b *LocalBackend) find(ref string) int {
	for i := range b.orders {
		if b.orders[i].Matches(ref) {
			return i
		}
	}
	return -1
}

func (b *LocalBackend) copyOf(i int) domain.Order {
	o := b.orders[i]
	o.Items = domain.SnapshotItems(o.Items)
	return o
}

func (b *LocalBackend) persist() {
	if err := storage.SetJSON(b.store, storage.KeyOrders, b.orders); err != nil {
		b.logger.Warn("failed to persist local orders", zap.Error(err), zap.Int("orders", len(b.orders)))
	}
}
