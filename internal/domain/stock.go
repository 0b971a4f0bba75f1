package domain

import (
	"time"
)

// StockRecord holds the current on-hand quantity for a single product.
// Exactly one record exists per product; it is created in the same
// transaction as the product and only the stock ledger may change it.
type StockRecord struct {
	ProductID string
	Quantity  int64
	UpdatedAt time.Time
}

// ValidateChange checks whether applying delta would keep the quantity
// non-negative. productName is used only for error reporting.
func (s *StockRecord) ValidateChange(delta int64, productName string) error {
	if s.Quantity+delta < 0 {
		return &InsufficientStockError{
			ProductID:   s.ProductID,
			ProductName: productName,
			Available:   s.Quantity,
			Requested:   -delta,
		}
	}

	return nil
}

// Apply returns the quantity after applying delta.
func (s *StockRecord) Apply(delta int64) int64 {
	return s.Quantity + delta
}
