package usecase_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
	"github.com/truckparts/backend/internal/usecase/mocks"
)

func seedPendingOrder(orderRepo *mocks.MockOrderRepository, id string) *domain.Order {
	order := &domain.Order{
		ID:            id,
		Status:        domain.OrderStatusPending,
		PaymentMethod: domain.PaymentMethodCOD,
		PaymentStatus: domain.PaymentStatusPending,
		Items: []domain.OrderItem{
			{ID: id + "-item", OrderID: id, ProductID: "prod-1", Quantity: 2},
		},
	}
	orderRepo.Create(context.Background(), nil, order)

	return order
}

func TestOrderUseCase_PayOrder_COD(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository()
	gateway := mocks.NewMockAccountingGateway(ctrl)
	seedPendingOrder(orderRepo, "order-1")

	gateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return("qb-inv-77", nil)

	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), orderRepo, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), nil)

	order, err := uc.PayOrder(context.Background(), "order-1", domain.PaymentMethodCOD)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != domain.OrderStatusInvoiced {
		t.Errorf("expected status invoiced, got %s", order.Status)
	}
	if order.QBInvoiceID != "qb-inv-77" {
		t.Errorf("expected invoice id qb-inv-77, got %s", order.QBInvoiceID)
	}
	// COD remains unpaid until delivery
	if order.PaymentStatus != domain.PaymentStatusPending {
		t.Errorf("expected payment status pending, got %s", order.PaymentStatus)
	}
}

func TestOrderUseCase_PayOrder_Card(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository()
	gateway := mocks.NewMockAccountingGateway(ctrl)
	seedPendingOrder(orderRepo, "order-1")

	gateway.EXPECT().CreateSalesReceipt(gomock.Any(), gomock.Any()).Return("qb-sr-12", nil)

	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), orderRepo, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), nil)

	order, err := uc.PayOrder(context.Background(), "order-1", domain.PaymentMethodCard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Status != domain.OrderStatusCompleted {
		t.Errorf("expected status completed, got %s", order.Status)
	}
	if order.QBSalesReceiptID != "qb-sr-12" {
		t.Errorf("expected sales receipt id qb-sr-12, got %s", order.QBSalesReceiptID)
	}
	if order.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("expected payment status paid, got %s", order.PaymentStatus)
	}
}

func TestOrderUseCase_PayOrder_GatewayFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository()
	gateway := mocks.NewMockAccountingGateway(ctrl)
	seedPendingOrder(orderRepo, "order-1")

	gatewayErr := errors.New("quickbooks unavailable")
	gateway.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return("", gatewayErr)

	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), orderRepo, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), nil)

	_, err := uc.PayOrder(context.Background(), "order-1", domain.PaymentMethodCOD)
	if !errors.Is(err, gatewayErr) {
		t.Fatalf("expected gateway error, got %v", err)
	}

	// The order is marked failed; stock is untouched and the operator
	// decides whether to retry or cancel
	order, _ := orderRepo.GetByID(context.Background(), "order-1")
	if order.Status != domain.OrderStatusFailed {
		t.Errorf("expected status failed, got %s", order.Status)
	}
	if order.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected payment status failed, got %s", order.PaymentStatus)
	}
}

func TestOrderUseCase_PayOrder_Rejections(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	orderRepo := mocks.NewMockOrderRepository()
	gateway := mocks.NewMockAccountingGateway(ctrl)

	completed := seedPendingOrder(orderRepo, "order-done")
	completed.Status = domain.OrderStatusCompleted

	uc := usecase.NewOrderUseCase(mocks.NewMockTransactionManager(), orderRepo, mocks.NewMockOutboxRepository(), gateway, mocks.NewMockIDGenerator(), nil)

	if _, err := uc.PayOrder(context.Background(), "order-done", domain.PaymentMethodCOD); !errors.Is(err, domain.ErrOrderNotPending) {
		t.Errorf("expected ErrOrderNotPending, got %v", err)
	}

	if _, err := uc.PayOrder(context.Background(), "order-done", domain.PaymentMethod("barter")); !errors.Is(err, domain.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}

	if _, err := uc.PayOrder(context.Background(), "order-missing", domain.PaymentMethodCOD); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderUseCase_GetOrder(t *testing.T) {
	orderRepo := mocks.NewMockOrderRepository()
	seedPendingOrder(orderRepo, "order-1")

	uc := usecase.NewOrderUseCase(nil, orderRepo, nil, nil, nil, nil)

	order, err := uc.GetOrder(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order-1" {
		t.Errorf("expected order-1, got %s", order.ID)
	}

	if _, err := uc.GetOrder(context.Background(), "order-missing"); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
