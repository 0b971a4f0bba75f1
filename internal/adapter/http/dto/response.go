package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Price        decimal.Decimal `json:"price"`
	BrandID      string          `json:"brand_id,omitempty"`
	CategoryID   string          `json:"category_id,omitempty"`
	CloverItemID string          `json:"clover_item_id,omitempty"`
	QBItemID     string          `json:"qb_item_id,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductFromDomain converts a domain product to a response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SKU:          p.SKU,
		Price:        p.Price,
		BrandID:      p.BrandID,
		CategoryID:   p.CategoryID,
		CloverItemID: p.CloverItemID,
		QBItemID:     p.QBItemID,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ProductsFromDomain converts domain products to responses.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, len(products))
	for i, p := range products {
		result[i] = ProductFromDomain(p)
	}
	return result
}

// StockResponse represents a stock record in API responses.
type StockResponse struct {
	ProductID string    `json:"product_id"`
	Quantity  int64     `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementResponse represents a ledger movement in API responses.
type MovementResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	Delta            int64     `json:"delta"`
	Reason           string    `json:"reason"`
	Reference        string    `json:"reference,omitempty"`
	PreviousQuantity int64     `json:"previous_quantity"`
	NewQuantity      int64     `json:"new_quantity"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementFromDomain converts a domain movement to a response.
func MovementFromDomain(m *domain.Movement) *MovementResponse {
	return &MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Delta:            m.Delta,
		Reason:           m.Reason,
		Reference:        m.Reference,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		CreatedAt:        m.CreatedAt,
	}
}

// MovementsFromDomain converts domain movements to responses.
func MovementsFromDomain(movements []*domain.Movement) []*MovementResponse {
	result := make([]*MovementResponse, len(movements))
	for i, m := range movements {
		result[i] = MovementFromDomain(m)
	}
	return result
}

// OrderItemResponse represents one order line in API responses.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID               string              `json:"id"`
	Status           string              `json:"status"`
	PaymentMethod    string              `json:"payment_method"`
	PaymentStatus    string              `json:"payment_status"`
	Total            decimal.Decimal     `json:"total"`
	GuestEmail       string              `json:"guest_email,omitempty"`
	Phone            string              `json:"phone,omitempty"`
	ShippingAddress  string              `json:"shipping_address,omitempty"`
	Country          string              `json:"country,omitempty"`
	State            string              `json:"state,omitempty"`
	City             string              `json:"city,omitempty"`
	PostalCode       string              `json:"postal_code,omitempty"`
	QBInvoiceID      string              `json:"qb_invoice_id,omitempty"`
	QBSalesReceiptID string              `json:"qb_sales_receipt_id,omitempty"`
	Items            []OrderItemResponse `json:"items,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// OrderFromDomain converts a domain order to a response.
func OrderFromDomain(o *domain.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		}
	}

	return &OrderResponse{
		ID:               o.ID,
		Status:           string(o.Status),
		PaymentMethod:    string(o.PaymentMethod),
		PaymentStatus:    string(o.PaymentStatus),
		Total:            o.Total,
		GuestEmail:       o.GuestEmail,
		Phone:            o.Phone,
		ShippingAddress:  o.ShippingAddress,
		Country:          o.Country,
		State:            o.State,
		City:             o.City,
		PostalCode:       o.PostalCode,
		QBInvoiceID:      o.QBInvoiceID,
		QBSalesReceiptID: o.QBSalesReceiptID,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// OrdersFromDomain converts domain orders to responses.
func OrdersFromDomain(orders []*domain.Order) []*OrderResponse {
	result := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = OrderFromDomain(o)
	}
	return result
}

// CredentialResponse represents a stored credential in API responses.
// Token values are never returned.
type CredentialResponse struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	AccountID string    `json:"account_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CredentialFromDomain converts a domain credential to a response.
func CredentialFromDomain(c *domain.Credential) *CredentialResponse {
	return &CredentialResponse{
		ID:        c.ID,
		Provider:  string(c.Provider),
		AccountID: c.AccountID,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// SyncResultResponse summarizes one catalog sync in API responses.
type SyncResultResponse struct {
	MerchantID string `json:"merchant_id"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
}

// SyncResultFromUseCase converts a sync result to a response.
func SyncResultFromUseCase(r *usecase.SyncResult) *SyncResultResponse {
	return &SyncResultResponse{
		MerchantID: r.MerchantID,
		Created:    r.Created,
		Updated:    r.Updated,
		Skipped:    r.Skipped,
	}
}

// ReconciliationResponse reports one product's ledger consistency check.
type ReconciliationResponse struct {
	ProductID        string    `json:"product_id"`
	RecordedQuantity int64     `json:"recorded_quantity"`
	MovementSum      int64     `json:"movement_sum"`
	Difference       int64     `json:"difference"`
	IsReconciled     bool      `json:"is_reconciled"`
	LastChecked      time.Time `json:"last_checked"`
}

// ReconciliationFromUseCase converts a reconciliation result to a response.
func ReconciliationFromUseCase(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		ProductID:        r.ProductID,
		RecordedQuantity: r.RecordedQuantity,
		MovementSum:      r.MovementSum,
		Difference:       r.Difference,
		IsReconciled:     r.IsReconciled,
		LastChecked:      r.LastChecked,
	}
}

// ReconciliationsFromUseCase converts reconciliation results to responses.
func ReconciliationsFromUseCase(results []*usecase.ReconciliationResult) []*ReconciliationResponse {
	out := make([]*ReconciliationResponse, len(results))
	for i, r := range results {
		out[i] = ReconciliationFromUseCase(r)
	}
	return out
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
