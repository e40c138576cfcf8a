package domain

import (
	"errors"
	"time"

	shared "menugenius/domain"

	"github.com/shopspring/decimal"
)

// ErrMenuItemReferenced is returned when a menu item cannot be deleted because
// past orders point at it.
var ErrMenuItemReferenced = errors.New("menu item is referenced by orders")

type Order struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	TableNumber   string          `json:"table_number"`
	CustomerName  string          `json:"customer_name"`
	Language      string          `json:"language"`
	Notes         string          `json:"notes"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	Status        shared.Status   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Items         []OrderItem     `json:"items"`
}

type OrderItem struct {
	ID                  int             `json:"id"`
	MenuItemID          int             `json:"menu_item_id"`
	MenuItemName        string          `json:"menu_item_name"`
	MenuItemDescription string          `json:"menu_item_description"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions string          `json:"special_instructions"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (o Order) ToDto() shared.OrderDto {
	dto := shared.OrderDto{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		TableNumber:   o.TableNumber,
		CustomerName:  o.CustomerName,
		Language:      o.Language,
		TotalAmount:   o.TotalAmount.InexactFloat64(),
		ServiceCharge: o.ServiceCharge.InexactFloat64(),
		FinalAmount:   o.TotalAmount.Add(o.ServiceCharge).InexactFloat64(),
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		CompletedAt:   o.CompletedAt,
		Notes:         o.Notes,
		Items:         make([]shared.OrderItemDto, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, shared.OrderItemDto{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			MenuItemName:        item.MenuItemName,
			MenuItemDescription: item.MenuItemDescription,
			Price:               item.Price.InexactFloat64(),
			Quantity:            item.Quantity,
			Subtotal:            item.Subtotal().InexactFloat64(),
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return dto
}

// OrderFilter narrows GET /api/orders. Zero values mean no filter.
type OrderFilter struct {
	Status      *shared.Status
	TableNumber string
	PageNumber  int
	PageSize    int
}

// StatusEvent is published on every order creation and status change.
type StatusEvent struct {
	Type        string        `json:"type"`
	OrderID     int           `json:"order_id"`
	OrderNumber string        `json:"order_number"`
	TableNumber string        `json:"table_number"`
	From        shared.Status `json:"from"`
	To          shared.Status `json:"to"`
	Timestamp   time.Time     `json:"timestamp"`
}
