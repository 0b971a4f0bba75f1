package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. External IDs link the product to the same
// item in Clover (POS) and QuickBooks (accounting); both are optional.
type Product struct {
	ID           string
	Name         string
	Description  string
	SKU          string
	Price        decimal.Decimal
	BrandID      string
	CategoryID   string
	CloverItemID string
	QBItemID     string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Brand groups products by manufacturer.
type Brand struct {
	ID        string
	Name      string
	QBID      string
	CreatedAt time.Time
}

// CategoryLevel positions a category in the part hierarchy.
type CategoryLevel string

const (
	CategoryLevelCategory    CategoryLevel = "category"
	CategoryLevelSubcategory CategoryLevel = "subcategory"
	CategoryLevelSystem      CategoryLevel = "system"
	CategoryLevelPiece       CategoryLevel = "piece"
)

// Category is a node in the part taxonomy (category > subcategory >
// system > piece).
type Category struct {
	ID        string
	Name      string
	ParentID  string
	Level     CategoryLevel
	QBID      string
	CreatedAt time.Time
}
