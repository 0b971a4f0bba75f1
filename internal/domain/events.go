package domain

import "time"

// Event types
const (
	EventTypeStockAdjusted  = "stock.adjusted"
	EventTypeOrderPlaced    = "order.placed"
	EventTypeOrderPaid      = "order.paid"
	EventTypeOrderCancelled = "order.cancelled"
	EventTypeProductCreated = "product.created"
)

// Aggregate types
const (
	AggregateTypeStock   = "stock"
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
)

// OutboxEvent represents an event to be published. Events are written in
// the same transaction as the state change they describe and published
// asynchronously by the outbox publisher.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// StockAdjustedEvent payload
type StockAdjustedEvent struct {
	ProductID   string `json:"product_id"`
	Delta       int64  `json:"delta"`
	NewQuantity int64  `json:"new_quantity"`
	Reason      string `json:"reason"`
	Reference   string `json:"reference,omitempty"`
}

// OrderPlacedEvent payload
type OrderPlacedEvent struct {
	OrderID string `json:"order_id"`
	Total   string `json:"total"`
	Items   int    `json:"items"`
}

// OrderPaidEvent payload
type OrderPaidEvent struct {
	OrderID       string `json:"order_id"`
	PaymentMethod string `json:"payment_method"`
	QBDocumentID  string `json:"qb_document_id"`
}

// OrderCancelledEvent payload
type OrderCancelledEvent struct {
	OrderID string `json:"order_id"`
}

// ProductCreatedEvent payload
type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku,omitempty"`
}
