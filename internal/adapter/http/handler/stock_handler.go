package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/truckparts/backend/internal/adapter/http/dto"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// StockService defines the ledger behavior needed by StockHandler.
type StockService interface {
	GetQuantity(ctx context.Context, productID string) (int64, error)
	ApplyMovement(ctx context.Context, input usecase.MovementInput) (int64, error)
	ApplyMovements(ctx context.Context, inputs []usecase.MovementInput) ([]*domain.Movement, error)
	ListMovements(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error)
}

// ReconciliationService defines the audit behavior needed by StockHandler.
type ReconciliationService interface {
	ReconcileProduct(ctx context.Context, productID string) (*usecase.ReconciliationResult, error)
	ReconcileAll(ctx context.Context) ([]*usecase.ReconciliationResult, error)
}

// StockHandler handles stock ledger requests.
type StockHandler struct {
	ledgerUC         StockService
	reconciliationUC ReconciliationService
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(ledgerUC StockService, reconciliationUC ReconciliationService) *StockHandler {
	return &StockHandler{
		ledgerUC:         ledgerUC,
		reconciliationUC: reconciliationUC,
	}
}

// GetQuantity returns the current on-hand quantity for a product.
func (h *StockHandler) GetQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	quantity, err := h.ledgerUC.GetQuantity(r.Context(), productID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockResponse{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// Adjust applies one manual movement to a product's stock.
func (h *StockHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	var req dto.MovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	quantity, err := h.ledgerUC.ApplyMovement(r.Context(), req.ToUseCaseInput(productID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StockResponse{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// AdjustBatch applies several movements atomically. Either all of them
// commit or none do.
func (h *StockHandler) AdjustBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movements, err := h.ledgerUC.ApplyMovements(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to apply movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// ListMovements lists a product's movement history, newest first.
func (h *StockHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	filter := domain.MovementFilter{
		Reference: r.URL.Query().Get("reference"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp", err.Error())
			return
		}
		filter.From = &t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp", err.Error())
			return
		}
		filter.To = &t
	}

	movements, err := h.ledgerUC.ListMovements(r.Context(), productID, filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list movements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementsFromDomain(movements))
}

// Reconcile checks one product's quantity against its movement sum.
func (h *StockHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if productID == "" {
		writeError(w, http.StatusBadRequest, "missing product ID", "")
		return
	}

	result, err := h.reconciliationUC.ReconcileProduct(r.Context(), productID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to reconcile product", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(result))
}

// ReconcileAll sweeps every stock record.
func (h *StockHandler) ReconcileAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.reconciliationUC.ReconcileAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reconcile stock", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationsFromUseCase(results))
}
