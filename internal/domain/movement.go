package domain

import "time"

// Well-known movement reasons. Reason is free text; these cover the
// movements the system itself generates.
const (
	ReasonInitial        = "initial"
	ReasonSale           = "sale"
	ReasonRestock        = "restock"
	ReasonOrderCancelled = "order_cancelled"
	ReasonManualAdjust   = "manual_adjustment"
)

// Movement is a single signed change applied to a stock record. Movements
// are append-only: once written they are never edited or deleted, and the
// sum of all deltas for a product equals its current quantity.
type Movement struct {
	ID               string
	ProductID        string
	Delta            int64
	Reason           string
	Reference        string
	PreviousQuantity int64
	NewQuantity      int64
	CreatedAt        time.Time
}

// MovementFilter narrows a movement listing. Zero values mean "no filter".
type MovementFilter struct {
	From      *time.Time
	To        *time.Time
	Reference string
	Limit     int
	Offset    int
}
