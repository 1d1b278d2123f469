package domain

import "time"

// OrderStatus is fixed at order creation time. Payment execution is
// external; this service only records the outcome it is told.
type OrderStatus string

const (
	StatusPaymentDone   OrderStatus = "Payment Done"
	StatusPaymentFailed OrderStatus = "Payment Failed"
)

// OrderLine is a (product, quantity) snapshot reference inside an
// immutable order. Display data (name, image, price) is joined against
// the catalog at read time, never stored here.
type OrderLine struct {
	ProductID string
	Quantity  int
}

// Order is immutable once created. Only the checkout coordinator creates
// orders; nothing in this service ever mutates or deletes one.
type Order struct {
	ID          string
	UserID      string
	Lines       []OrderLine
	Address     string
	TotalAmount float64
	Status      OrderStatus
	CreatedAt   time.Time
}
