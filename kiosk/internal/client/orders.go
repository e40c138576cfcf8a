package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"menugenius/domain"
)

// OrderClient is the remote order backend.
type OrderClient struct {
	*Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{Client: c}
}

func (c *OrderClient) CreateOrder(ctx context.Context, draft domain.Order) (domain.Order, error) {
	dto, err := callEnvelope[domain.OrderDto](ctx, c.Client, http.MethodPost, "/orders", domain.NewCreateOrderRequest(draft))
	if err != nil {
		return domain.Order{}, err
	}
	return domain.OrderFromDto(dto), nil
}

func (c *OrderClient) GetOrder(ctx context.Context, ref string) (domain.Order, error) {
	dto, err := callEnvelope[domain.OrderDto](ctx, c.Client, http.MethodGet, orderPath(ref), nil)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.OrderFromDto(dto), nil
}

func (c *OrderClient) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	dtos, err := callEnvelope[[]domain.OrderDto](ctx, c.Client, http.MethodGet, "/orders/active", nil)
	if err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(dtos))
	for _, dto := range dtos {
		orders = append(orders, domain.OrderFromDto(dto))
	}
	return orders, nil
}

func (c *OrderClient) UpdateStatus(ctx context.Context, ref string, status domain.Status, notes string) (domain.Order, error) {
	body := domain.UpdateStatusRequest{Status: int(status), Notes: notes}
	dto, err := callEnvelope[domain.OrderDto](ctx, c.Client, http.MethodPatch, orderPath(ref)+"/status", body)
	if err != nil {
		return domain.Order{}, err
	}
	return domain.OrderFromDto(dto), nil
}

// orderPath picks the lookup path: numeric ids go by id, anything else is
// treated as an order number.
func orderPath(ref string) string {
	if _, err := strconv.Atoi(ref); err == nil {
		return "/orders/" + ref
	}
	return "/orders/by-number/" + url.PathEscape(ref)
}
