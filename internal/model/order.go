package model

import "time"

// OrderID uniquely identifies an order; allocated in strictly increasing order
type OrderID int64

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderDelivered OrderStatus = "delivered"
	OrderFailed    OrderStatus = "failed"
)

// IsTerminal returns true for statuses that can never change again
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderFailed
}

// CanTransition reports whether an order in status s may move to status to.
// Only Pending -> Delivered and Pending -> Failed are allowed.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	return s == OrderPending && to.IsTerminal()
}

// Order is one purchase attempt
type Order struct {
	ID             OrderID
	Item           CatalogItem // snapshot taken at submission
	DeliveryTarget string      // Steam ID supplied by the buyer, independent of the session identity
	Status         OrderStatus
	CreatedAt      time.Time
	ResolvedAt     time.Time // zero while pending
	FailureReason  string
}

// OrderSummary aggregates the ledger for the profile view
type OrderSummary struct {
	Total      int
	Pending    int
	Delivered  int
	Failed     int
	TotalSpent int // sum of delivered item prices
}
