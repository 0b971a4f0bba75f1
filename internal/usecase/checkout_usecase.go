package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/infrastructure/metrics"
)

// CheckoutUseCase turns a cart into a pending order. Stock is reserved at
// checkout: the order row, its items, and the negative stock movements are
// written in one transaction, so there is no window between validating
// stock and committing to it. Payment confirmation never touches stock;
// cancelling a pending order restocks it.
type CheckoutUseCase struct {
	txManager    TransactionManager
	productRepo  ProductRepository
	stockRepo    StockRepository
	movementRepo MovementRepository
	orderRepo    OrderRepository
	outboxRepo   OutboxRepository
	idGen        IDGenerator
	retrier      Retrier
	metrics      *metrics.Metrics
}

// NewCheckoutUseCase creates a new CheckoutUseCase.
func NewCheckoutUseCase(
	txManager TransactionManager,
	productRepo ProductRepository,
	stockRepo StockRepository,
	movementRepo MovementRepository,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics *metrics.Metrics,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		txManager:    txManager,
		productRepo:  productRepo,
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		orderRepo:    orderRepo,
		outboxRepo:   outboxRepo,
		idGen:        idGen,
		retrier:      retrier,
		metrics:      metrics,
	}
}

// CheckoutItem is one requested line of a checkout.
type CheckoutItem struct {
	ProductID string
	Quantity  int64
}

// CheckoutInput represents a checkout request.
type CheckoutInput struct {
	Items           []CheckoutItem
	GuestEmail      string
	Phone           string
	ShippingAddress string
	Country         string
	State           string
	City            string
	PostalCode      string
	PaymentMethod   domain.PaymentMethod
}

// ValidateStock is the read-only pre-flight check: it reports the first
// line item whose requested quantity exceeds what is on hand. It takes no
// locks, so it is advisory; Checkout repeats the check under lock.
func (uc *CheckoutUseCase) ValidateStock(ctx context.Context, items []CheckoutItem) error {
	if len(items) == 0 {
		return domain.ErrEmptyOrder
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.ErrInvalidQuantity
		}

		record, err := uc.stockRepo.GetByProductID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		if record.Quantity < item.Quantity {
			product, err := uc.productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}

			return &domain.InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: product.Name,
				Available:   record.Quantity,
				Requested:   item.Quantity,
			}
		}
	}

	return nil
}

// Checkout creates a pending order and decrements stock atomically.
// Insufficient stock on any line rejects the entire order.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, input CheckoutInput) (*domain.Order, error) {
	start := time.Now()

	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	if err := domain.ValidateEmail(input.GuestEmail); err != nil {
		return nil, err
	}

	if input.PaymentMethod != "" && !domain.ValidPaymentMethod(input.PaymentMethod) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	var order *domain.Order

	checkout := func() error {
		var err error
		order, err = uc.checkoutTx(ctx, input)

		return err
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, checkout)
	} else {
		err = checkout()
	}

	if err != nil {
		if uc.metrics != nil {
			uc.metrics.CheckoutsFailed.WithLabelValues(rejectionLabel(err)).Inc()
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.CheckoutsCompleted.Inc()
		uc.metrics.CheckoutDuration.Observe(time.Since(start).Seconds())
	}

	return order, nil
}

func (uc *CheckoutUseCase) checkoutTx(ctx context.Context, input CheckoutInput) (*domain.Order, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock stock rows in sorted order (DEADLOCK PREVENTION)
	productIDs := make([]string, 0, len(input.Items))
	seen := make(map[string]int64)
	for _, item := range input.Items {
		if _, ok := seen[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		// Duplicate lines for the same product collapse into one
		seen[item.ProductID] += item.Quantity
	}
	sort.Strings(productIDs)

	records, err := uc.stockRepo.GetByProductIDsForUpdate(txCtx, tx, productIDs)
	if err != nil {
		return nil, err
	}

	if len(records) != len(productIDs) {
		return nil, domain.ErrStockNotFound
	}

	recordMap := make(map[string]*domain.StockRecord, len(records))
	for _, r := range records {
		recordMap[r.ProductID] = r
	}

	products, err := uc.productRepo.GetByIDs(txCtx, productIDs)
	if err != nil {
		return nil, err
	}

	if len(products) != len(productIDs) {
		return nil, domain.ErrProductNotFound
	}

	productMap := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	now := time.Now().UTC()
	orderID := uc.idGen.Generate()

	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCOD
	}

	order := &domain.Order{
		ID:              orderID,
		GuestEmail:      input.GuestEmail,
		Phone:           input.Phone,
		ShippingAddress: input.ShippingAddress,
		Country:         input.Country,
		State:           input.State,
		City:            input.City,
		PostalCode:      input.PostalCode,
		Status:          domain.OrderStatusPending,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	for _, productID := range productIDs {
		product := productMap[productID]
		record := recordMap[productID]
		quantity := seen[productID]

		if err := record.ValidateChange(-quantity, product.Name); err != nil {
			return nil, err
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:          uc.idGen.Generate(),
			OrderID:     orderID,
			ProductID:   productID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.Price,
		})

		newQuantity := record.Apply(-quantity)

		movement := &domain.Movement{
			ID:               uc.idGen.Generate(),
			ProductID:        productID,
			Delta:            -quantity,
			Reason:           domain.ReasonSale,
			Reference:        orderID,
			PreviousQuantity: record.Quantity,
			NewQuantity:      newQuantity,
			CreatedAt:        now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return nil, err
		}

		if err := uc.stockRepo.UpdateQuantity(txCtx, tx, productID, newQuantity, now); err != nil {
			return nil, err
		}

		record.Quantity = newQuantity
	}

	order.Total = order.ComputeTotal()

	if err := uc.orderRepo.Create(txCtx, tx, order); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   orderID,
		AggregateType: domain.AggregateTypeOrder,
		EventType:     domain.EventTypeOrderPlaced,
		Payload: map[string]any{
			"order_id": orderID,
			"total":    order.Total.String(),
			"items":    len(order.Items),
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

	return order, nil
}

// CancelOrder cancels a pending order and returns its quantities to stock.
func (uc *CheckoutUseCase) CancelOrder(ctx context.Context, orderID string) error {
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
		return domain.ErrOrderNotPending
	}

	productIDs := make([]string, 0, len(order.Items))
	quantityByID := make(map[string]int64, len(order.Items))
	for _, item := range order.Items {
		if _, ok := quantityByID[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		quantityByID[item.ProductID] += item.Quantity
	}
	sort.Strings(productIDs)

	records, err := uc.stockRepo.GetByProductIDsForUpdate(txCtx, tx, productIDs)
	if err != nil {
		return err
	}

	recordMap := make(map[string]*domain.StockRecord, len(records))
	for _, r := range records {
		recordMap[r.ProductID] = r
	}

	now := time.Now().UTC()

	for _, productID := range productIDs {
		record := recordMap[productID]
		if record == nil {
			return domain.ErrStockNotFound
		}

		newQuantity := record.Apply(quantityByID[productID])

		movement := &domain.Movement{
			ID:               uc.idGen.Generate(),
			ProductID:        productID,
			Delta:            quantityByID[productID],
			Reason:           domain.ReasonOrderCancelled,
			Reference:        orderID,
			PreviousQuantity: record.Quantity,
			NewQuantity:      newQuantity,
			CreatedAt:        now,
		}

		if err := uc.movementRepo.Create(txCtx, tx, movement); err != nil {
			return err
		}

		if err := uc.stockRepo.UpdateQuantity(txCtx, tx, productID, newQuantity, now); err != nil {
			return err
		}

		record.Quantity = newQuantity
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = now

	if err := uc.orderRepo.UpdateStatus(txCtx, tx, order); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   orderID,
		AggregateType: domain.AggregateTypeOrder,
		EventType:     domain.EventTypeOrderCancelled,
		Payload:       map[string]any{"order_id": orderID},
		CreatedAt:     now,
		Published:     false,
	}
	if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(txCtx); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.OrdersCancelled.Inc()
	}

	return nil
}
