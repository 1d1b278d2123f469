package domain

import "time"

// CartLine is one (product, quantity) entry in a user's mutable cart.
// At most one line exists per product per user; Quantity is always
// strictly positive; a line that would reach zero is removed instead.
type CartLine struct {
	ProductID string
	Quantity  int
}

// User is the identity-owned record holding the mutable collections.
// Registration and authentication live outside this service; the user id
// arrives already verified.
type User struct {
	ID        string
	Name      string
	Email     string
	Img       string
	CreatedAt time.Time
}
