package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidOrder        = errors.New("invalid order payload")
	ErrOrderNotFound       = errors.New("order not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrInvalidStatus       = errors.New("invalid order status")
)

const (
	EventOrderCreated  = "order_created"
	EventStatusChanged = "status_changed"
)

type OrderServiceConfig struct {
	ServiceChargeRate float64
	Now               func() time.Time
}

type OrderService struct {
	orders    OrderRepository
	menu      MenuRepository
	cache     OrderCache
	publisher StatusPublisher
	qr        QRGenerator
	metrics   *Metrics
	logger    *zap.Logger
	rate      decimal.Decimal
	now       func() time.Time
}

func NewOrderService(orders OrderRepository, menu MenuRepository, cache OrderCache, publisher StatusPublisher,
	qr QRGenerator, metrics *Metrics, logger *zap.Logger, cfg OrderServiceConfig) *OrderService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &OrderService{
		orders:    orders,
		menu:      menu,
		cache:     cache,
		publisher: publisher,
		qr:        qr,
		metrics:   metrics,
		logger:    logger,
		rate:      decimal.NewFromFloat(cfg.ServiceChargeRate),
		now:       cfg.Now,
	}
}

// Create prices the request against the menu and stores it as a pending
// order. The total is fixed here from the current menu prices.
func (s *OrderService) Create(ctx context.Context, req shared.CreateOrderRequest) (*domain.Order, error) {
	table := strings.TrimSpace(req.TableNumber)
	if table == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrInvalidOrder)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrInvalidOrder)
	}
	ids := make([]int, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity for menu item %d must be at least 1", ErrInvalidOrder, item.MenuItemID)
		}
		ids = append(ids, item.MenuItemID)
	}

	menuItems, err := s.menu.GetMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu items: %w", err)
	}

	now := s.now()
	order := &domain.Order{
		OrderNumber:  shared.NewOrderNumber(now),
		TableNumber:  table,
		CustomerName: strings.TrimSpace(req.CustomerName),
		Language:     strings.TrimSpace(req.Language),
		Notes:        req.Notes,
		Status:       shared.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
		Items:        make([]domain.OrderItem, 0, len(req.Items)),
	}
	if order.CustomerName == "" {
		order.CustomerName = shared.DefaultCustomerName
	}
	if order.Language == "" {
		order.Language = shared.DefaultLanguage
	}

	total := decimal.Zero
	for _, line := range req.Items {
		menuItem, ok := menuItems[line.MenuItemID]
		if !ok || !menuItem.IsAvailable {
			return nil, fmt.Errorf("%w: %d", ErrMenuItemUnavailable, line.MenuItemID)
		}
		item := domain.OrderItem{
			MenuItemID:          menuItem.ID,
			MenuItemName:        menuItem.Name,
			MenuItemDescription: menuItem.Description,
			Price:               menuItem.Price,
			Quantity:            line.Quantity,
			SpecialInstructions: strings.TrimSpace(line.SpecialInstructions),
		}
		total = total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}
	order.TotalAmount = total
	order.ServiceCharge = total.Mul(s.rate).Round(2)

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.metrics.OrdersCreated.Inc()
	s.logger.Info("order created",
		zap.Int("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("table", order.TableNumber),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	if s.qr != nil {
		if qr, err := s.qr.Generate(order.OrderNumber); err != nil {
			s.logger.Warn("failed to generate qr code", zap.String("order_number", order.OrderNumber), zap.Error(err))
		} else if err := s.orders.SaveQRCode(ctx, order.OrderNumber, qr); err != nil {
			s.logger.Warn("failed to store qr code", zap.String("order_number", order.OrderNumber), zap.Error(err))
		}
	}
	s.cacheOrder(ctx, order)
	s.publish(ctx, EventOrderCreated, order, shared.StatusPending)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, id int) (*domain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

// GetByNumber serves from the cache when it can and fills it on a miss.
func (s *OrderService) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	if cached, err := s.cache.GetOrder(ctx, orderNumber); err != nil {
		s.logger.Warn("order cache read failed", zap.String("order_number", orderNumber), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	order, err := s.orders.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		return nil, notFound(err)
	}
	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.PageNumber < 1 {
		filter.PageNumber = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, int(*filter.Status))
	}
	return s.orders.ListOrders(ctx, filter)
}

func (s *OrderService) Active(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ActiveOrders(ctx)
}

// UpdateStatus moves the order referenced by id or order number to the
// requested status. The state machine is checked against the stored status
// and the write only lands if nobody changed the status in between.
func (s *OrderService) UpdateStatus(ctx context.Context, ref string, req shared.UpdateStatusRequest) (*domain.Order, error) {
	next, err := shared.StatusFromOrdinal(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, req.Status)
	}

	order, err := s.lookup(ctx, ref)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if err := shared.ValidateTransition(from, next); err != nil {
		return nil, err
	}

	now := s.now()
	order.Status = next
	order.UpdatedAt = now
	if next == shared.StatusCompleted {
		order.CompletedAt = &now
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		order.Notes = notes
	}

	rows, err := s.orders.UpdateStatus(ctx, order, from)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: order %s changed concurrently", shared.ErrInvalidTransition, order.OrderNumber)
	}

	s.metrics.StatusTransitions.WithLabelValues(from.String(), next.String()).Inc()
	s.logger.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.Stringer("from", from),
		zap.Stringer("to", next))
	s.cacheOrder(ctx, order)
	s.publish(ctx, EventStatusChanged, order, from)
	return order, nil
}

// QRCode returns the stored PNG, regenerating it when the column is empty.
func (s *OrderService) QRCode(ctx context.Context, orderNumber string) ([]byte, error) {
	qr, err := s.orders.GetQRCode(ctx, orderNumber)
	if err != nil {
		return nil, notFound(err)
	}
	if len(qr) == 0 && s.qr != nil {
		regenerated, err := s.qr.Generate(orderNumber)
		if err != nil {
			return nil, fmt.Errorf("failed to generate qr code: %w", err)
		}
		if err := s.orders.SaveQRCode(ctx, orderNumber, regenerated); err != nil {
			s.logger.Warn("failed to cache regenerated qr code", zap.String("order_number", orderNumber), zap.Error(err))
		}
		return regenerated, nil
	}
	return qr, nil
}

// lookup resolves numeric refs as ids and anything else as an order number.
// Status changes always read from the database, never the cache.
func (s *OrderService) lookup(ctx context.Context, ref string) (*domain.Order, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		return s.Get(ctx, id)
	}
	order, err := s.orders.GetOrderByNumber(ctx, ref)
	if err != nil {
		return nil, notFound(err)
	}
	return order, nil
}

func (s *OrderService) cacheOrder(ctx context.Context, order *domain.Order) {
	if err := s.cache.SetOrder(ctx, order); err != nil {
		s.logger.Warn("order cache write failed", zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order, from shared.Status) {
	if s.publisher == nil {
		return
	}
	event := domain.StatusEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TableNumber: order.TableNumber,
		From:        from,
		To:          order.Status,
		Timestamp:   s.now(),
	}
	if err := s.publisher.PublishStatus(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event", zap.String("type", eventType), zap.String("order_number", order.OrderNumber), zap.Error(err))
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrOrderNotFound
	}
	return err
}
