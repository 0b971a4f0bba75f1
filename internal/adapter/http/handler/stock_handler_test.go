package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/truckparts/backend/internal/adapter/http/dto"
	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

type stockServiceStub struct {
	getQuantityFn    func(ctx context.Context, productID string) (int64, error)
	applyMovementFn  func(ctx context.Context, input usecase.MovementInput) (int64, error)
	applyMovementsFn func(ctx context.Context, inputs []usecase.MovementInput) ([]*domain.Movement, error)
	listMovementsFn  func(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error)
}

func (s *stockServiceStub) GetQuantity(ctx context.Context, productID string) (int64, error) {
	return s.getQuantityFn(ctx, productID)
}

func (s *stockServiceStub) ApplyMovement(ctx context.Context, input usecase.MovementInput) (int64, error) {
	return s.applyMovementFn(ctx, input)
}

func (s *stockServiceStub) ApplyMovements(ctx context.Context, inputs []usecase.MovementInput) ([]*domain.Movement, error) {
	return s.applyMovementsFn(ctx, inputs)
}

func (s *stockServiceStub) ListMovements(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
	return s.listMovementsFn(ctx, productID, filter)
}

type reconciliationServiceStub struct {
	reconcileFn    func(ctx context.Context, productID string) (*usecase.ReconciliationResult, error)
	reconcileAllFn func(ctx context.Context) ([]*usecase.ReconciliationResult, error)
}

func (s *reconciliationServiceStub) ReconcileProduct(ctx context.Context, productID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, productID)
}

func (s *reconciliationServiceStub) ReconcileAll(ctx context.Context) ([]*usecase.ReconciliationResult, error) {
	return s.reconcileAllFn(ctx)
}

func TestStockHandler_GetQuantity(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		getQuantityFn: func(ctx context.Context, productID string) (int64, error) {
			if productID != "prod-1" {
				t.Fatalf("expected productID prod-1, got %s", productID)
			}
			return 12, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stock/prod-1", nil)
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.GetQuantity(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.StockResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Quantity != 12 {
		t.Fatalf("expected quantity 12, got %d", resp.Quantity)
	}
}

func TestStockHandler_GetQuantity_NotFound(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		getQuantityFn: func(ctx context.Context, productID string) (int64, error) {
			return 0, domain.ErrStockNotFound
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stock/prod-missing", nil)
	req = setChiURLParam(req, "productID", "prod-missing")
	rec := httptest.NewRecorder()

	handler.GetQuantity(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStockHandler_Adjust(t *testing.T) {
	var captured usecase.MovementInput
	handler := NewStockHandler(&stockServiceStub{
		applyMovementFn: func(ctx context.Context, input usecase.MovementInput) (int64, error) {
			captured = input
			return 7, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.MovementRequest{Delta: -3, Reason: domain.ReasonManualAdjust, Reference: "rma-9"})
	req := httptest.NewRequest(http.MethodPost, "/stock/prod-1/movements", bytes.NewReader(body))
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.Adjust(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.ProductID != "prod-1" || captured.Delta != -3 || captured.Reason != domain.ReasonManualAdjust {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.StockResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", resp.Quantity)
	}
}

func TestStockHandler_Adjust_InsufficientStock(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		applyMovementFn: func(ctx context.Context, input usecase.MovementInput) (int64, error) {
			return 0, &domain.InsufficientStockError{ProductID: "prod-1", Requested: 10, Available: 4}
		},
	}, nil)

	body, _ := json.Marshal(dto.MovementRequest{Delta: -10, Reason: domain.ReasonSale})
	req := httptest.NewRequest(http.MethodPost, "/stock/prod-1/movements", bytes.NewReader(body))
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.Adjust(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestStockHandler_AdjustBatch(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		applyMovementsFn: func(ctx context.Context, inputs []usecase.MovementInput) ([]*domain.Movement, error) {
			if len(inputs) != 2 {
				t.Fatalf("expected 2 inputs, got %d", len(inputs))
			}
			return []*domain.Movement{
				{ID: "mov-1", ProductID: "prod-1", Delta: -2, NewQuantity: 8},
				{ID: "mov-2", ProductID: "prod-2", Delta: 5, NewQuantity: 11},
			}, nil
		},
	}, nil)

	body, _ := json.Marshal(dto.BatchMovementRequest{
		Movements: []dto.MovementRequest{
			{ProductID: "prod-1", Delta: -2, Reason: domain.ReasonSale},
			{ProductID: "prod-2", Delta: 5, Reason: domain.ReasonRestock},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/stock/movements", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.AdjustBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.MovementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 movements, got %d", len(resp))
	}
}

func TestStockHandler_ListMovements(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		listMovementsFn: func(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
			if productID != "prod-1" {
				t.Fatalf("expected productID prod-1, got %s", productID)
			}
			if filter.Reference != "order-1" || filter.Limit != 10 {
				t.Fatalf("expected filter to match query, got %+v", filter)
			}
			if filter.From == nil || filter.From.Year() != 2026 {
				t.Fatalf("expected from timestamp, got %v", filter.From)
			}
			return []*domain.Movement{{ID: "mov-1", ProductID: productID, CreatedAt: time.Now()}}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stock/prod-1/movements?reference=order-1&limit=10&from=2026-01-01T00:00:00Z", nil)
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.ListMovements(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStockHandler_ListMovements_BadTimestamp(t *testing.T) {
	handler := NewStockHandler(&stockServiceStub{
		listMovementsFn: func(ctx context.Context, productID string, filter domain.MovementFilter) ([]*domain.Movement, error) {
			t.Fatal("ListMovements should not be called for a bad timestamp")
			return nil, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stock/prod-1/movements?from=yesterday", nil)
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.ListMovements(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestStockHandler_Reconcile(t *testing.T) {
	handler := NewStockHandler(nil, &reconciliationServiceStub{
		reconcileFn: func(ctx context.Context, productID string) (*usecase.ReconciliationResult, error) {
			return &usecase.ReconciliationResult{
				ProductID:        productID,
				RecordedQuantity: 10,
				MovementSum:      10,
				IsReconciled:     true,
				LastChecked:      time.Now(),
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/stock/prod-1/reconcile", nil)
	req = setChiURLParam(req, "productID", "prod-1")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.IsReconciled {
		t.Fatal("expected reconciled result")
	}
}

func TestStockHandler_ReconcileAll(t *testing.T) {
	handler := NewStockHandler(nil, &reconciliationServiceStub{
		reconcileAllFn: func(ctx context.Context) ([]*usecase.ReconciliationResult, error) {
			return []*usecase.ReconciliationResult{
				{ProductID: "prod-1", IsReconciled: true},
				{ProductID: "prod-2", RecordedQuantity: 5, MovementSum: 4, Difference: 1},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/stock/reconcile", nil)
	rec := httptest.NewRecorder()

	handler.ReconcileAll(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []*dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp))
	}
}
