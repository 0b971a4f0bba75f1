package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInvoiced  OrderStatus = "invoiced"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodCOD  PaymentMethod = "cod"
	PaymentMethodCard PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order is a customer purchase. Stock is reserved at checkout: the order's
// negative movements are written in the same transaction that creates it,
// so a pending order already owns its quantities.
type Order struct {
	ID               string
	GuestEmail       string
	Phone            string
	ShippingAddress  string
	Country          string
	State            string
	City             string
	PostalCode       string
	Status           OrderStatus
	PaymentMethod    PaymentMethod
	PaymentStatus    PaymentStatus
	Total            decimal.Decimal
	QBInvoiceID      string
	QBSalesReceiptID string
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem is one line of an order. UnitPrice snapshots the product price
// at checkout time.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// Subtotal returns quantity times unit price.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// ComputeTotal returns the sum of all item subtotals.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}

	return total
}

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentMethodCOD || m == PaymentMethodCard
}
