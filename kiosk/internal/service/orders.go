package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"
	"menugenius/kiosk/internal/storage"

	"go.uber.org/zap"
)

// OrderManager is the only writer of order state on the client. It owns the
// current user order and the kitchen's active order list.
type OrderManager struct {
	backend OrderBackend
	store   storage.KV
	logger  *zap.Logger
	now     func() time.Time

	current *state.Cell[*domain.Order]
	active  *state.Cell[[]domain.Order]
}

func NewOrderManager(backend OrderBackend, store storage.KV, logger *zap.Logger) *OrderManager {
	return &OrderManager{
		backend: backend,
		store:   store,
		logger:  logger,
		now:     time.Now,
		current: state.NewCell[*domain.Order](nil),
		active:  state.NewCell[[]domain.Order](nil),
	}
}

func (m *OrderManager) CurrentOrder() state.Observable[*domain.Order] {
	return m.current
}

func (m *OrderManager) Orders() state.Observable[[]domain.Order] {
	return m.active
}

// CreateOrder validates and submits a new order. Nothing is sent and nothing
// changes when validation fails. On success the result becomes the current
// user order.
func (m *OrderManager) CreateOrder(ctx context.Context, items []domain.BasketItem, tableNumber, customerName, language string) (domain.Order, error) {
	draft, err := domain.NewOrder(items, tableNumber, customerName, language, m.now())
	if err != nil {
		return domain.Order{}, err
	}

	created, err := m.backend.CreateOrder(ctx, draft)
	if err != nil {
		m.logFailure("create order", err, zap.String("table", draft.TableNumber))
		return domain.Order{}, err
	}

	m.setCurrent(&created)
	return created, nil
}

// PlaceOrder creates an order from the basket contents and empties the basket
// once the order is accepted.
func (m *OrderManager) PlaceOrder(ctx context.Context, basket *Basket, tableNumber, customerName, language string) (domain.Order, error) {
	order, err := m.CreateOrder(ctx, basket.Items(), tableNumber, customerName, language)
	if err != nil {
		return domain.Order{}, err
	}
	basket.Clear()
	return order, nil
}

func (m *OrderManager) GetOrderByID(ctx context.Context, ref string) (domain.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Order{}, fmt.Errorf("%w: order id is required", domain.ErrValidation)
	}
	order, err := m.backend.GetOrder(ctx, ref)
	if err != nil {
		m.logFailure("get order", err, zap.String("ref", ref))
		return domain.Order{}, err
	}
	return order, nil
}

// RefreshOrder fetches ref and updates the current user order when it is the
// same order.
func (m *OrderManager) RefreshOrder(ctx context.Context, ref string) (domain.Order, error) {
	order, err := m.GetOrderByID(ctx, ref)
	if err != nil {
		return domain.Order{}, err
	}
	m.syncCurrent(order)
	return order, nil
}

// UpdateOrderStatus moves an order to status. Transitions the state machine
// refuses are reported as domain.ErrInvalidTransition without calling the
// backend's update.
func (m *OrderManager) UpdateOrderStatus(ctx context.Context, ref string, status domain.Status, notes string) (domain.Order, error) {
	existing, err := m.GetOrderByID(ctx, ref)
	if err != nil {
		return domain.Order{}, err
	}
	if err := domain.ValidateTransition(existing.Status, status); err != nil {
		return domain.Order{}, fmt.Errorf("order %s: %w", existing.Ref(), err)
	}

	updated, err := m.backend.UpdateStatus(ctx, existing.Ref(), status, notes)
	if err != nil {
		m.logFailure("update order status", err, zap.String("ref", ref), zap.Stringer("status", status))
		return domain.Order{}, err
	}

	m.syncCurrent(updated)
	m.syncActive(updated)
	return updated, nil
}

// ActiveOrders loads the non-terminal orders for the kitchen board.
func (m *OrderManager) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := m.backend.ActiveOrders(ctx)
	if err != nil {
		m.logFailure("list active orders", err)
		return nil, err
	}
	m.active.Set(orders)
	return orders, nil
}

// LoadCurrentUserOrder restores the tracked order from storage. Storage
// problems are logged and read as "no current order".
func (m *OrderManager) LoadCurrentUserOrder() *domain.Order {
	var order domain.Order
	err := storage.GetJSON(m.store, storage.KeyCurrentUserOrder, &order)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		m.current.Set(nil)
		return nil
	case err != nil:
		m.logger.Warn("failed to load current order", zap.Error(err))
		m.current.Set(nil)
		return nil
	}
	m.current.Set(&order)
	return &order
}

func (m *OrderManager) ClearCurrentUserOrder() {
	if err := m.store.Delete(storage.KeyCurrentUserOrder); err != nil {
		m.logger.Warn("failed to clear current order", zap.Error(err))
	}
	m.current.Set(nil)
}

// syncCurrent replaces the current user order with order when both refer to
// the same order and order is not older than what is held.
func (m *OrderManager) syncCurrent(order domain.Order) {
	m.current.Update(func(current *domain.Order) (*domain.Order, bool) {
		if current == nil || !(current.Matches(order.ID) || current.Matches(order.OrderNumber)) {
			return current, false
		}
		if isStale(order, *current) {
			return current, false
		}
		m.persistCurrent(&order)
		return &order, true
	})
}

func (m *OrderManager) syncActive(order domain.Order) {
	m.active.Update(func(orders []domain.Order) ([]domain.Order, bool) {
		if orders == nil {
			return orders, false
		}
		out := make([]domain.Order, 0, len(orders))
		for _, o := range orders {
			if o.Matches(order.ID) || o.Matches(order.OrderNumber) {
				if isStale(order, o) {
					out = append(out, o)
					continue
				}
				if order.Status.IsTerminal() {
					continue
				}
				o = order
			}
			out = append(out, o)
		}
		return out, true
	})
}

// isStale reports whether candidate was read before held. Statuses only move
// forward, so a lower status or an earlier update time means an older read.
func isStale(candidate, held domain.Order) bool {
	if candidate.Status < held.Status {
		return true
	}
	return candidate.UpdatedAt.Before(held.UpdatedAt)
}

func (m *OrderManager) setCurrent(order *domain.Order) {
	m.current.Update(func(*domain.Order) (*domain.Order, bool) {
		m.persistCurrent(order)
		return order, true
	})
}

func (m *OrderManager) persistCurrent(order *domain.Order) {
	if err := storage.SetJSON(m.store, storage.KeyCurrentUserOrder, order); err != nil {
		m.logger.Warn("failed to persist current order", zap.Error(err))
	}
}

func (m *OrderManager) logFailure(op string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrServer):
		m.logger.Error(op+" failed", fields...)
	case errors.Is(err, domain.ErrConnectivity):
		m.logger.Warn(op+" failed", fields...)
	default:
		m.logger.Debug(op+" failed", fields...)
	}
}
