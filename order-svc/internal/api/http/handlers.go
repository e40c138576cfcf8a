package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	shared "menugenius/domain"
	"menugenius/order-svc/internal/domain"
	"menugenius/order-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Orders service.OrderServiceInterface
	Menu   service.MenuServiceInterface
	Secret []byte
	Logger *zap.Logger
}

func NewHandler(orders service.OrderServiceInterface, menu service.MenuServiceInterface, secret []byte, logger *zap.Logger) *Handler {
	return &Handler{
		Orders: orders,
		Menu:   menu,
		Secret: secret,
		Logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.requirePermission(shared.PermViewOrders, h.getOrders)).Methods("GET")
	r.HandleFunc("/api/orders/active", h.requirePermission(shared.PermViewOrders, h.getActiveOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/status", h.requirePermission(shared.PermManageOrders, h.updateStatus)).Methods("PATCH")
	r.HandleFunc("/api/orders/by-number/{orderNumber}", h.getOrderByNumber).Methods("GET")
	r.HandleFunc("/api/orders/by-number/{orderNumber}/status", h.requirePermission(shared.PermManageOrders, h.updateStatus)).Methods("PATCH")
	r.HandleFunc("/api/orders/by-number/{orderNumber}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/recommendation", h.recommend).Methods("POST")
	r.HandleFunc("/api/menu-items", h.getMenuItems).Methods("GET")
	r.HandleFunc("/api/menu-items", h.requirePermission(shared.PermManageMenu, h.createMenuItem)).Methods("POST")
	r.HandleFunc("/api/menu-items/search", h.searchMenuItems).Methods("GET")
	r.HandleFunc("/api/menu-items/category/{category}", h.getMenuItemsByCategory).Methods("GET")
	r.HandleFunc("/api/menu-items/{id:[0-9]+}", h.getMenuItem).Methods("GET")
	r.HandleFunc("/api/menu-items/{id:[0-9]+}", h.requirePermission(shared.PermManageMenu, h.updateMenuItem)).Methods("PUT")
	r.HandleFunc("/api/menu-items/{id:[0-9]+}", h.requirePermission(shared.PermManageMenu, h.deleteMenuItem)).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req shared.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, shared.Fail("Invalid JSON format", err.Error()))
		return
	}

	order, err := h.Orders.Create(r.Context(), req)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, shared.OK("Order created successfully", order.ToDto()))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, shared.Fail("Invalid order id"))
		return
	}
	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shared.OK("Order retrieved successfully", order.ToDto()))
}

func (h *Handler) getOrderByNumber(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.GetByNumber(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shared.OK("Order retrieved successfully", order.ToDto()))
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.OrderFilter{TableNumber: query.Get("tableNumber")}
	filter.PageNumber, _ = strconv.Atoi(query.Get("pageNumber"))
	filter.PageSize, _ = strconv.Atoi(query.Get("pageSize"))
	if raw := query.Get("status"); raw != "" {
		ordinal, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, shared.Fail("Invalid status filter", raw))
			return
		}
		status := shared.Status(ordinal)
		filter.Status = &status
	}

	orders, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shared.OK("Orders retrieved successfully", toDtos(orders)))
}

func (h *Handler) getActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.Active(r.Context())
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shared.OK("Active orders retrieved successfully", toDtos(orders)))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ref := vars["id"]
	if ref == "" {
		ref = vars["orderNumber"]
	}

	var req shared.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, shared.Fail("Invalid JSON format", err.Error()))
		return
	}

	order, err := h.Orders.UpdateStatus(r.Context(), ref, req)
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}
	h.Logger.Info("status updated by staff",
		zap.String("order_number", order.OrderNumber),
		zap.Stringer("status", order.Status),
		zap.String("staff", staffName(r)))
	writeJSON(w, http.StatusOK, shared.OK("Order status updated successfully", order.ToDto()))
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qrCode, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("failed to load qr code", zap.Error(err))
		http.Error(w, "Failed to load QR code", http.StatusInternalServerError)
		return
	}
	if len(qrCode) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}

func (h *Handler) recommend(w http.ResponseWriter, r *http.Request) {
	var req shared.RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.Menu.Recommend(r.Context(), req)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Logger.Error("recommendation failed", zap.Error(err))
		http.Error(w, "Failed to build recommendation", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context())
	h.writeMenu(w, items, err)
}

func (h *Handler) searchMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.Search(r.Context(), r.URL.Query().Get("q"))
	h.writeMenu(w, items, err)
}

func (h *Handler) getMenuItemsByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.ByCategory(r.Context(), mux.Vars(r)["category"])
	h.writeMenu(w, items, err)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	item, err := h.Menu.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			http.Error(w, "Menu item not found", http.StatusNotFound)
			return
		}
		h.Logger.Error("failed to load menu item", zap.Int("id", id), zap.Error(err))
		http.Error(w, "Failed to load menu item", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req shared.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.Menu.Create(r.Context(), req)
	if err != nil {
		h.writeMenuItemError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req shared.MenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	item, err := h.Menu.Update(r.Context(), id, req)
	if err != nil {
		h.writeMenuItemError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		h.writeMenuItemError(w, r, err)
		return
	}
	h.Logger.Info("menu item removed by staff", zap.Int("id", id), zap.String("staff", staffName(r)))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMenuItemError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrMenuItemNotFound):
		http.Error(w, "Menu item not found", http.StatusNotFound)
	case errors.Is(err, service.ErrMenuItemInUse):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.Logger.Error("menu management failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		http.Error(w, "Failed to save menu item", http.StatusInternalServerError)
	}
}

func (h *Handler) writeMenu(w http.ResponseWriter, items []shared.MenuItem, err error) {
	if err != nil {
		h.Logger.Error("failed to load menu", zap.Error(err))
		http.Error(w, "Failed to load menu", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []shared.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidOrder), errors.Is(err, service.ErrInvalidStatus), errors.Is(err, shared.ErrValidation):
		writeJSON(w, http.StatusBadRequest, shared.Fail("Invalid request", err.Error()))
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, shared.Fail("Order not found"))
	case errors.Is(err, service.ErrMenuItemUnavailable):
		writeJSON(w, http.StatusNotFound, shared.Fail("Menu item not available", err.Error()))
	case errors.Is(err, shared.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, shared.Fail("Invalid status transition", err.Error()))
	default:
		h.Logger.Error("order request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, shared.Fail("Internal server error"))
	}
}

func toDtos(orders []domain.Order) []shared.OrderDto {
	dtos := make([]shared.OrderDto, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, order.ToDto())
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
