package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menugenius/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() (string, error) { return string(s), nil }

type failingHTTP struct{}

func (failingHTTP) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func sampleDto() domain.OrderDto {
	return domain.OrderDto{
		ID:          7,
		OrderNumber: "ORD-1700000000000-ABCDE",
		TableNumber: "T4",
		TotalAmount: 25,
		FinalAmount: 25,
		Status:      domain.StatusPending,
		CreatedAt:   time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Items: []domain.OrderItemDto{
			{ID: 1, MenuItemID: 1, MenuItemName: "Curry", Price: 10, Quantity: 2, Subtotal: 20},
			{ID: 2, MenuItemID: 2, MenuItemName: "Rice", Price: 5, Quantity: 1, Subtotal: 5},
		},
	}
}

func TestOrderClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body domain.CreateOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "T4", body.TableNumber)
		require.Len(t, body.Items, 2)
		assert.Equal(t, 2, body.Items[0].Quantity)

		writeJSON(t, w, http.StatusCreated, domain.OK("Order created", sampleDto()))
	}))
	defer server.Close()

	c := NewOrderClient(New(Config{BaseURL: server.URL + "/api/", Tokens: staticToken("tok")}, zap.NewNop()))
	draft, err := domain.NewOrder([]domain.BasketItem{
		{MenuItem: domain.MenuItem{ID: 1, Price: decimal.NewFromInt(10)}, Quantity: 2},
		{MenuItem: domain.MenuItem{ID: 2, Price: decimal.NewFromInt(5)}, Quantity: 1},
	}, "T4", "", "en", time.Now())
	require.NoError(t, err)

	order, err := c.CreateOrder(context.Background(), draft)
	require.NoError(t, err)
	assert.Equal(t, "7", order.ID)
	assert.Equal(t, "ORD-1700000000000-ABCDE", order.OrderNumber)
	assert.True(t, decimal.NewFromInt(25).Equal(order.TotalAmount))
	assert.Equal(t, domain.StatusPending, order.Status)
}

func TestOrderClient_GetOrderPaths(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writeJSON(t, w, http.StatusOK, domain.OK("", sampleDto()))
	}))
	defer server.Close()

	c := NewOrderClient(New(Config{BaseURL: server.URL}, zap.NewNop()))
	_, err := c.GetOrder(context.Background(), "7")
	require.NoError(t, err)
	_, err = c.GetOrder(context.Background(), "ORD-1700000000000-ABCDE")
	require.NoError(t, err)

	assert.Equal(t, []string{"/orders/7", "/orders/by-number/ORD-1700000000000-ABCDE"}, paths)
}

func TestOrderClient_UpdateStatusSendsOrdinal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/orders/by-number/ORD-1-ABCDE/status", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(domain.StatusReady), body["status"])

		dto := sampleDto()
		dto.Status = domain.StatusReady
		writeJSON(t, w, http.StatusOK, domain.OK("Status updated", dto))
	}))
	defer server.Close()

	c := NewOrderClient(New(Config{BaseURL: server.URL}, zap.NewNop()))
	order, err := c.UpdateStatus(context.Background(), "ORD-1-ABCDE", domain.StatusReady, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, order.Status)
}

func TestClient_ErrorCategories(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{name: "not found", status: http.StatusNotFound, body: domain.Fail("Order not found"), wantErr: domain.ErrNotFound},
		{name: "bad request", status: http.StatusBadRequest, body: domain.Fail("Validation failed", "table number is required"), wantErr: domain.ErrValidation},
		{name: "conflict", status: http.StatusConflict, body: domain.Fail("invalid status transition"), wantErr: domain.ErrInvalidTransition},
		{name: "forbidden", status: http.StatusForbidden, body: domain.Fail("forbidden"), wantErr: domain.ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, body: domain.Fail("boom"), wantErr: domain.ErrServer},
		{name: "unsuccessful envelope", status: http.StatusOK, body: domain.Fail("nope"), wantErr: domain.ErrServer},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(t, w, testCase.status, testCase.body)
			}))
			defer server.Close()

			c := NewOrderClient(New(Config{BaseURL: server.URL}, zap.NewNop()))
			_, err := c.GetOrder(context.Background(), "1")
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestClient_UnauthorizedRunsHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, domain.Fail("token expired"))
	}))
	defer server.Close()

	calls := 0
	c := NewOrderClient(New(Config{BaseURL: server.URL, OnUnauthorized: func() { calls++ }}, zap.NewNop()))
	_, err := c.ActiveOrders(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "token expired")
	assert.Equal(t, 1, calls)
}

func TestClient_ConnectivityFailure(t *testing.T) {
	c := NewOrderClient(New(Config{BaseURL: "http://orders.invalid", HTTP: failingHTTP{}}, zap.NewNop()))
	_, err := c.GetOrder(context.Background(), "1")
	assert.ErrorIs(t, err, domain.ErrConnectivity)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "Unable to connect to server. Is the backend running?", domain.UserMessage(err))
}

func TestRecommendationClient(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/recommendation", r.URL.Path)
		var req domain.RecommendationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.DefaultTopK, req.TopK)
		writeJSON(t, w, http.StatusOK, domain.RecommendationResponse{
			Query:          req.Query,
			Recommendation: "try these",
			MatchedItems:   []domain.MenuItem{{ID: 3, Name: "Curry", Price: decimal.RequireFromString("16.00")}},
			TotalMatches:   1,
		})
	}))
	defer server.Close()

	c := NewRecommendationClient(New(Config{BaseURL: server.URL}, zap.NewNop()))
	resp, err := c.GetRecommendations(context.Background(), domain.RecommendationRequest{Query: "curry"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalMatches)
	assert.True(t, decimal.NewFromInt(16).Equal(resp.MatchedItems[0].Price))

	_, err = c.GetRecommendations(context.Background(), domain.RecommendationRequest{Query: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 1, calls)
}

func TestMenuClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/menu-items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Irish Stew","price":18.5,"dietaryTags":["gluten-free"],"isAvailable":true}]`))
	}))
	defer server.Close()

	items, err := NewMenuClient(New(Config{BaseURL: server.URL}, zap.NewNop())).MenuItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "18.5", items[0].Price.String())
}

func TestMenuClient_Management(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		switch r.Method {
		case http.MethodPost:
			var req domain.MenuItemRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Boxty", req.Name)
			assert.Equal(t, domain.SpiceNone, req.SpiceLevel)
			writeJSON(t, w, http.StatusCreated, req.Apply(domain.MenuItem{ID: 15, IsAvailable: true}))
		case http.MethodPut:
			var req domain.MenuItemRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(t, w, http.StatusOK, req.Apply(domain.MenuItem{ID: 15, IsAvailable: true}))
		case http.MethodDelete:
			if r.URL.Path == "/menu-items/16" {
				http.Error(w, "menu item is used by existing orders", http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	ctx := context.Background()
	c := NewMenuClient(New(Config{BaseURL: server.URL, Tokens: staticToken("admin-token")}, zap.NewNop()))

	created, err := c.CreateMenuItem(ctx, domain.MenuItemRequest{Name: " Boxty ", Price: decimal.RequireFromString("9.5")})
	require.NoError(t, err)
	assert.Equal(t, 15, created.ID)
	assert.True(t, created.IsAvailable)

	soldOut := false
	updated, err := c.UpdateMenuItem(ctx, 15, domain.MenuItemRequest{Name: "Boxty", Price: decimal.NewFromInt(10), IsAvailable: &soldOut})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	require.NoError(t, c.DeleteMenuItem(ctx, 15))
	assert.ErrorIs(t, c.DeleteMenuItem(ctx, 16), domain.ErrInvalidTransition)

	_, err = c.CreateMenuItem(ctx, domain.MenuItemRequest{Name: "Boxty"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.Equal(t, []string{"POST /menu-items", "PUT /menu-items/15", "DELETE /menu-items/15", "DELETE /menu-items/16"}, seen)
}
