package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultCustomerName = "Guest"
	DefaultLanguage     = "en"
	orderNumberPrefix   = "ORD-"
)

type BasketItem struct {
	MenuItem            MenuItem `json:"menuItem"`
	Quantity            int      `json:"quantity"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
}

func (b BasketItem) Subtotal() decimal.Decimal {
	return b.MenuItem.Price.Mul(decimal.NewFromInt(int64(b.Quantity)))
}

type Order struct {
	ID            string          `json:"id"`
	OrderNumber   string          `json:"orderNumber,omitempty"`
	TableNumber   string          `json:"tableNumber"`
	Items         []BasketItem    `json:"items"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	CustomerName  string          `json:"customerName"`
	Language      string          `json:"language"`
	Notes         string          `json:"notes,omitempty"`
	CreatedBy     *UserSummary    `json:"createdBy,omitempty"`
}

// FinalAmount is the frozen item total plus the service charge.
func (o Order) FinalAmount() decimal.Decimal {
	return o.TotalAmount.Add(o.ServiceCharge)
}

// Matches reports whether ref names this order, either by id or by order number.
func (o Order) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	return o.ID == ref || (o.OrderNumber != "" && o.OrderNumber == ref)
}

// Ref is the identifier used to look the order up again, preferring the order number.
func (o Order) Ref() string {
	if o.OrderNumber != "" {
		return o.OrderNumber
	}
	return o.ID
}

// NewOrder builds a pending order from a basket snapshot. The items are deep
// copied and the total is computed once here; it is never recomputed.
func NewOrder(items []BasketItem, tableNumber, customerName, language string, now time.Time) (Order, error) {
	tableNumber = strings.TrimSpace(tableNumber)
	if tableNumber == "" {
		return Order{}, fmt.Errorf("%w: table number is required", ErrValidation)
	}
	if len(items) == 0 {
		return Order{}, fmt.Errorf("%w: basket is empty", ErrValidation)
	}
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = DefaultCustomerName
	}
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}

	snapshot := SnapshotItems(items)
	return Order{
		TableNumber:   tableNumber,
		Items:         snapshot,
		TotalAmount:   TotalOf(snapshot),
		ServiceCharge: decimal.Zero,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
		CustomerName:  customerName,
		Language:      language,
	}, nil
}

func SnapshotItems(items []BasketItem) []BasketItem {
	if items == nil {
		return nil
	}
	out := make([]BasketItem, len(items))
	for i, item := range items {
		out[i] = item
		out[i].MenuItem = item.MenuItem.Clone()
	}
	return out
}

func TotalOf(items []BasketItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// NewOrderNumber returns an ORD-<unix millis>-<random> identifier.
func NewOrderNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return orderNumberPrefix + strconv.FormatInt(now.UnixMilli(), 10) + "-" + random
}

func IsOrderNumber(ref string) bool {
	return strings.HasPrefix(ref, orderNumberPrefix)
}
