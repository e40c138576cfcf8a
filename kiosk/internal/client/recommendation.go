package client

import (
	"context"
	"net/http"
	"strconv"

	"menugenius/domain"
)

type RecommendationClient struct {
	*Client
}

func NewRecommendationClient(c *Client) *RecommendationClient {
	return &RecommendationClient{Client: c}
}

func (c *RecommendationClient) GetRecommendations(ctx context.Context, req domain.RecommendationRequest) (domain.RecommendationResponse, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.RecommendationResponse{}, err
	}
	return callPlain[domain.RecommendationResponse](ctx, c.Client, http.MethodPost, "/recommendation", req)
}

type MenuClient struct {
	*Client
}

func NewMenuClient(c *Client) *MenuClient {
	return &MenuClient{Client: c}
}

func (c *MenuClient) MenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	return callPlain[[]domain.MenuItem](ctx, c.Client, http.MethodGet, "/menu-items", nil)
}

func (c *MenuClient) CreateMenuItem(ctx context.Context, req domain.MenuItemRequest) (domain.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.MenuItem{}, err
	}
	return callPlain[domain.MenuItem](ctx, c.Client, http.MethodPost, "/menu-items", req)
}

func (c *MenuClient) UpdateMenuItem(ctx context.Context, id int, req domain.MenuItemRequest) (domain.MenuItem, error) {
	req, err := req.Normalize()
	if err != nil {
		return domain.MenuItem{}, err
	}
	return callPlain[domain.MenuItem](ctx, c.Client, http.MethodPut, "/menu-items/"+strconv.Itoa(id), req)
}

func (c *MenuClient) DeleteMenuItem(ctx context.Context, id int) error {
	_, err := c.do(ctx, http.MethodDelete, "/menu-items/"+strconv.Itoa(id), nil)
	return err
}
