package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/truckparts/backend/internal/adapter/http/dto"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// CheckoutService defines the checkout behavior needed by OrderHandler.
type CheckoutService interface {
	Checkout(ctx context.Context, input usecase.CheckoutInput) (*domain.Order, error)
	ValidateStock(ctx context.Context, items []usecase.CheckoutItem) error
	CancelOrder(ctx context.Context, orderID string) error
}

// OrderService defines the order behavior needed by OrderHandler.
type OrderService interface {
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, input usecase.ListOrdersInput) ([]*domain.Order, error)
	PayOrder(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Order, error)
}

// OrderHandler handles checkout and order requests.
type OrderHandler struct {
	checkoutUC CheckoutService
	orderUC    OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(checkoutUC CheckoutService, orderUC OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutUC: checkoutUC,
		orderUC:    orderUC,
	}
}

// Checkout places a guest order. Stock is validated and decremented in
// the same transaction that creates the order.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.checkoutUC.Checkout(r.Context(), req.ToUseCaseInput())
	if err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			writeError(w, http.StatusConflict, "insufficient stock", stockErr.Error())
			return
		}
		writeError(w, mapDomainError(err), "checkout failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// ValidateStock is the advisory pre-flight check for a cart.
func (h *OrderHandler) ValidateStock(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.checkoutUC.ValidateStock(r.Context(), req.ToUseCaseInput()); err != nil {
		var stockErr *domain.InsufficientStockError
		if errors.As(err, &stockErr) {
			writeError(w, http.StatusConflict, "insufficient stock", stockErr.Error())
			return
		}
		writeError(w, mapDomainError(err), "stock validation failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available": true})
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	order, err := h.orderUC.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// List lists orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUC.ListOrders(r.Context(), usecase.ListOrdersInput{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list orders", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrdersFromDomain(orders))
}

// Pay settles a pending order through the accounting gateway.
func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	var req dto.PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.PayOrder(r.Context(), id, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		writeError(w, mapDomainError(err), "payment failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Cancel cancels a pending order and restocks its items.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order ID", "")
		return
	}

	if err := h.checkoutUC.CancelOrder(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to cancel order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
