package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Envelope wraps every JSON response of the order API.
type Envelope[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func OK[T any](message string, data T) Envelope[T] {
	return Envelope[T]{Success: true, Message: message, Data: &data}
}

func Fail(message string, errs ...string) Envelope[struct{}] {
	return Envelope[struct{}]{Success: false, Message: message, Errors: errs}
}

type CreateOrderItem struct {
	MenuItemID          int    `json:"menuItemId"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
}

type CreateOrderRequest struct {
	TableNumber  string            `json:"tableNumber"`
	CustomerName string            `json:"customerName"`
	Language     string            `json:"language"`
	Notes        string            `json:"notes,omitempty"`
	Items        []CreateOrderItem `json:"items"`
}

type UpdateStatusRequest struct {
	Status int    `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

type OrderItemDto struct {
	ID                  int     `json:"id"`
	MenuItemID          int     `json:"menuItemId"`
	MenuItemName        string  `json:"menuItemName"`
	MenuItemDescription string  `json:"menuItemDescription,omitempty"`
	Price               float64 `json:"price"`
	Quantity            int     `json:"quantity"`
	Subtotal            float64 `json:"subtotal"`
	SpecialInstructions string  `json:"specialInstructions,omitempty"`
}

type OrderDto struct {
	ID            int            `json:"id"`
	OrderNumber   string         `json:"orderNumber"`
	TableNumber   string         `json:"tableNumber"`
	CustomerName  string         `json:"customerName"`
	Language      string         `json:"language"`
	TotalAmount   float64        `json:"totalAmount"`
	ServiceCharge float64        `json:"serviceCharge"`
	FinalAmount   float64        `json:"finalAmount"`
	Status        Status         `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Items         []OrderItemDto `json:"items"`
	CreatedBy     *UserSummary   `json:"createdBy,omitempty"`
}

// NewCreateOrderRequest turns a draft order into the POST /orders body.
func NewCreateOrderRequest(order Order) CreateOrderRequest {
	req := CreateOrderRequest{
		TableNumber:  order.TableNumber,
		CustomerName: order.CustomerName,
		Language:     order.Language,
		Notes:        order.Notes,
		Items:        make([]CreateOrderItem, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, CreateOrderItem{
			MenuItemID:          item.MenuItem.ID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return req
}

// OrderFromDto maps the wire shape onto the front-end order. Menu items carry
// only what the order API returns about them.
func OrderFromDto(dto OrderDto) Order {
	order := Order{
		ID:            strconv.Itoa(dto.ID),
		OrderNumber:   dto.OrderNumber,
		TableNumber:   dto.TableNumber,
		TotalAmount:   decimal.NewFromFloat(dto.TotalAmount),
		ServiceCharge: decimal.NewFromFloat(dto.ServiceCharge),
		Status:        dto.Status,
		CreatedAt:     dto.CreatedAt,
		UpdatedAt:     dto.UpdatedAt,
		CompletedAt:   dto.CompletedAt,
		CustomerName:  dto.CustomerName,
		Language:      dto.Language,
		Notes:         dto.Notes,
		CreatedBy:     dto.CreatedBy,
		Items:         make([]BasketItem, 0, len(dto.Items)),
	}
	if order.CustomerName == "" {
		order.CustomerName = DefaultCustomerName
	}
	for _, item := range dto.Items {
		order.Items = append(order.Items, BasketItem{
			MenuItem: MenuItem{
				ID:          item.MenuItemID,
				Name:        item.MenuItemName,
				Description: item.MenuItemDescription,
				Price:       decimal.NewFromFloat(item.Price),
				IsAvailable: true,
			},
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}
	return order
}
