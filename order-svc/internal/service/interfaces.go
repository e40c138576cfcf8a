package service

import (
	"context"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"
)

type OrderServiceInterface interface {
	Create(ctx context.Context, req shared.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, id int) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Active(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, ref string, req shared.UpdateStatusRequest) (*domain.Order, error)
	QRCode(ctx context.Context, orderNumber string) ([]byte, error)
}

type MenuServiceInterface interface {
	List(ctx context.Context) ([]shared.MenuItem, error)
	Get(ctx context.Context, id int) (*shared.MenuItem, error)
	Search(ctx context.Context, query string) ([]shared.MenuItem, error)
	ByCategory(ctx context.Context, category string) ([]shared.MenuItem, error)
	Recommend(ctx context.Context, req shared.RecommendationRequest) (shared.RecommendationResponse, error)
	Create(ctx context.Context, req shared.MenuItemRequest) (*shared.MenuItem, error)
	Update(ctx context.Context, id int, req shared.MenuItemRequest) (*shared.MenuItem, error)
	Delete(ctx context.Context, id int) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order, from shared.Status) (int64, error)
	SaveQRCode(ctx context.Context, orderNumber string, qr []byte) error
	GetQRCode(ctx context.Context, orderNumber string) ([]byte, error)
}

type MenuRepository interface {
	ListMenuItems(ctx context.Context) ([]shared.MenuItem, error)
	GetMenuItem(ctx context.Context, id int) (*shared.MenuItem, error)
	GetMenuItems(ctx context.Context, ids []int) (map[int]shared.MenuItem, error)
	SearchMenuItems(ctx context.Context, query string) ([]shared.MenuItem, error)
	MenuItemsByCategory(ctx context.Context, category string) ([]shared.MenuItem, error)
	CreateMenuItem(ctx context.Context, item *shared.MenuItem) error
	// UpdateMenuItem returns sql.ErrNoRows when the item is gone.
	UpdateMenuItem(ctx context.Context, item *shared.MenuItem) error
	DeleteMenuItem(ctx context.Context, id int) (int64, error)
}

// OrderCache holds orders by order number. A miss is (nil, nil).
type OrderCache interface {
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
}

type StatusPublisher interface {
	PublishStatus(ctx context.Context, event domain.StatusEvent) error
}

type QRGenerator interface {
	Generate(orderNumber string) ([]byte, error)
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ MenuServiceInterface  = (*MenuService)(nil)
)
