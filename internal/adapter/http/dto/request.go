package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/truckparts/backend/internal/domain"
	"github.com/truckparts/backend/internal/usecase"
)

// CreateProductRequest represents a request to create a product.
type CreateProductRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	Price           decimal.Decimal `json:"price"`
	BrandID         string          `json:"brand_id,omitempty"`
	CategoryID      string          `json:"category_id,omitempty"`
	CloverItemID    string          `json:"clover_item_id,omitempty"`
	QBItemID        string          `json:"qb_item_id,omitempty"`
	InitialQuantity int64           `json:"initial_quantity"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProductRequest) ToUseCaseInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name:            r.Name,
		Description:     r.Description,
		SKU:             r.SKU,
		Price:           r.Price,
		BrandID:         r.BrandID,
		CategoryID:      r.CategoryID,
		CloverItemID:    r.CloverItemID,
		QBItemID:        r.QBItemID,
		InitialQuantity: r.InitialQuantity,
	}
}

// UpdateProductRequest represents a request to update catalog fields.
// Stock cannot be changed here; only the ledger moves quantities.
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	SKU         string          `json:"sku,omitempty"`
	Price       decimal.Decimal `json:"price"`
	BrandID     string          `json:"brand_id,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	Active      bool            `json:"active"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateProductRequest) ToUseCaseInput() usecase.UpdateProductInput {
	return usecase.UpdateProductInput{
		Name:        r.Name,
		Description: r.Description,
		SKU:         r.SKU,
		Price:       r.Price,
		BrandID:     r.BrandID,
		CategoryID:  r.CategoryID,
		Active:      r.Active,
	}
}

// MovementRequest represents a single manual stock adjustment.
type MovementRequest struct {
	ProductID string `json:"product_id"`
	Delta     int64  `json:"delta"`
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input. productID overrides the body
// value when the route carries one.
func (r *MovementRequest) ToUseCaseInput(productID string) usecase.MovementInput {
	if productID == "" {
		productID = r.ProductID
	}

	return usecase.MovementInput{
		ProductID: productID,
		Delta:     r.Delta,
		Reason:    r.Reason,
		Reference: r.Reference,
	}
}

// BatchMovementRequest represents a batch of stock adjustments applied
// atomically.
type BatchMovementRequest struct {
	Movements []MovementRequest `json:"movements"`
}

// ToUseCaseInput converts to use case input.
func (r *BatchMovementRequest) ToUseCaseInput() []usecase.MovementInput {
	inputs := make([]usecase.MovementInput, len(r.Movements))
	for i, m := range r.Movements {
		inputs[i] = m.ToUseCaseInput("")
	}
	return inputs
}

// CheckoutItemRequest is one line of a checkout request.
type CheckoutItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// CheckoutRequest represents a guest checkout.
type CheckoutRequest struct {
	Items           []CheckoutItemRequest `json:"items"`
	GuestEmail      string                `json:"guest_email,omitempty"`
	Phone           string                `json:"phone,omitempty"`
	ShippingAddress string                `json:"shipping_address,omitempty"`
	Country         string                `json:"country,omitempty"`
	State           string                `json:"state,omitempty"`
	City            string                `json:"city,omitempty"`
	PostalCode      string                `json:"postal_code,omitempty"`
	PaymentMethod   string                `json:"payment_method,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CheckoutRequest) ToUseCaseInput() usecase.CheckoutInput {
	items := make([]usecase.CheckoutItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return usecase.CheckoutInput{
		Items:           items,
		GuestEmail:      r.GuestEmail,
		Phone:           r.Phone,
		ShippingAddress: r.ShippingAddress,
		Country:         r.Country,
		State:           r.State,
		City:            r.City,
		PostalCode:      r.PostalCode,
		PaymentMethod:   domain.PaymentMethod(r.PaymentMethod),
	}
}

// ValidateStockRequest asks whether the given quantities are coverable.
type ValidateStockRequest struct {
	Items []CheckoutItemRequest `json:"items"`
}

// ToUseCaseInput converts to use case input.
func (r *ValidateStockRequest) ToUseCaseInput() []usecase.CheckoutItem {
	items := make([]usecase.CheckoutItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = usecase.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}
	return items
}

// PayOrderRequest represents a payment for a pending order.
type PayOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// ConnectCredentialRequest stores a token set obtained from the provider's
// OAuth flow.
type ConnectCredentialRequest struct {
	Provider     string    `json:"provider"`
	AccountID    string    `json:"account_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ToUseCaseInput converts to use case input.
func (r *ConnectCredentialRequest) ToUseCaseInput() usecase.ConnectInput {
	return usecase.ConnectInput{
		Provider:     domain.Provider(r.Provider),
		AccountID:    r.AccountID,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}
