package usecase

import (
	"context"
	"time"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
)

// OrderUseCase handles order retrieval and payment. Payment creates the
// accounting document in QuickBooks: cash-on-delivery orders become
// invoices, card orders become sales receipts. Stock was already
// decremented at checkout, so payment never touches the ledger.
type OrderUseCase struct {
	txManager  TransactionManager
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	accounting AccountingGateway
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(
	txManager TransactionManager,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	accounting AccountingGateway,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *OrderUseCase {
	return &OrderUseCase{
		txManager:  txManager,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		accounting: accounting,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// GetOrder retrieves an order with its items.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, id)
}

// ListOrdersInput represents input for listing orders.
type ListOrdersInput struct {
	Limit  int
	Offset int
}

// ListOrders lists orders, newest first.
func (uc *OrderUseCase) ListOrders(ctx context.Context, input ListOrdersInput) ([]*domain.Order, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.orderRepo.List(ctx, limit, offset)
}

// PayOrder confirms payment for a pending order. The accounting document
// is created first; the order row is then updated under lock with a
// re-check that it is still pending. A gateway failure marks the order
// failed and leaves the operator to retry or cancel (cancelling restocks).
func (uc *OrderUseCase) PayOrder(ctx context.Context, orderID string, method domain.PaymentMethod) (*domain.Order, error) {
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrOrderNotPending
	}

	var (
		docID      string
		gatewayErr error
	)

	switch method {
	case domain.PaymentMethodCOD:
		docID, gatewayErr = uc.accounting.CreateInvoice(ctx, order)
	case domain.PaymentMethodCard:
		docID, gatewayErr = uc.accounting.CreateSalesReceipt(ctx, order)
	}

	if gatewayErr != nil {
		if err := uc.markFailed(ctx, orderID); err != nil {
			return nil, err
		}

		return nil, gatewayErr
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err = uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPending {
		return nil, domain.ErrOrderNotPending
	}

	now := time.Now().UTC()
	order.PaymentMethod = method
	order.UpdatedAt = now

	switch method {
	case domain.PaymentMethodCOD:
		order.QBInvoiceID = docID
		order.Status = domain.OrderStatusInvoiced
	case domain.PaymentMethodCard:
		order.QBSalesReceiptID = docID
		order.Status = domain.OrderStatusCompleted
		order.PaymentStatus = domain.PaymentStatusPaid
	}

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, order); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   orderID,
		AggregateType: domain.AggregateTypeOrder,
		EventType:     domain.EventTypeOrderPaid,
		Payload: map[string]any{
			"order_id":       orderID,
			"payment_method": string(method),
			"qb_document_id": docID,
		},
		CreatedAt: now,
		Published: false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersPaid.WithLabelValues(string(method)).Inc()
	}

	return order, nil
}

func (uc *OrderUseCase) markFailed(ctx context.Context, orderID string) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	order, err := uc.orderRepo.GetByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		return err
	}

	if order.Status != domain.OrderStatusPending {
		return nil
	}

	order.Status = domain.OrderStatusFailed
	order.PaymentStatus = domain.PaymentStatusFailed
	order.UpdatedAt = time.Now().UTC()

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, order); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}
