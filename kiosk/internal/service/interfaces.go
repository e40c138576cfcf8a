package service

import (
	"context"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"
)

// OrderBackend is where orders live: the remote order service or the local
// self-contained store. ref is either an id or an ORD- order number.
type OrderBackend interface {
	CreateOrder(ctx context.Context, draft domain.Order) (domain.Order, error)
	GetOrder(ctx context.Context, ref string) (domain.Order, error)
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, ref string, status domain.Status, notes string) (domain.Order, error)
}

type RecommendationGateway interface {
	GetRecommendations(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error)
}

type MenuSource interface {
	MenuItems(ctx context.Context) ([]domain.MenuItem, error)
}

// MenuEditor changes the menu on behalf of a signed in kitchen user.
type MenuEditor interface {
	CreateMenuItem(ctx context.Context, req domain.MenuItemRequest) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int, req domain.MenuItemRequest) (domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int) error
}

// OrderTracker is the part of OrderManager the poller needs.
type OrderTracker interface {
	RefreshOrder(ctx context.Context, ref string) (domain.Order, error)
	LoadCurrentUserOrder() *domain.Order
	CurrentOrder() state.Observable[*domain.Order]
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type TickerFactory func(d time.Duration) Ticker

type Timer interface {
	Stop() bool
}

type AfterFunc func(d time.Duration, f func()) Timer

var (
	_ OrderTracker          = (*OrderManager)(nil)
	_ OrderBackend          = (*LocalBackend)(nil)
	_ RecommendationGateway = (*MockGateway)(nil)
	_ MenuSource            = (*MockGateway)(nil)
	_ MenuSource            = (*LocalMenu)(nil)
	_ MenuEditor            = (*LocalMenu)(nil)
)
