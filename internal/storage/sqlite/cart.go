package sqlite

import (
	"context"

	"github.com/dheras/foodcourt/internal/domain"
)

// AddCartLine merges quantity into the user's line for productID, creating
// the line if absent. The upsert is a single atomic statement, so two
// concurrent adds for the same line both land: the increment happens
// inside SQLite, never as a blind overwrite of a stale read.
func (s *Store) AddCartLine(ctx context.Context, userID, productID string, quantity int) error {
	const q = `
		INSERT INTO cart_lines (user_id, product_id, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = quantity + excluded.quantity`

	if _, err := s.db.ExecContext(ctx, q, userID, productID, quantity); err != nil {
		return unavailable(err, "add cart line for user %q", userID)
	}
	return nil
}

// RemoveCartLine subtracts quantity from the user's line for productID,
// deleting the line when the remainder is zero or below. A non-positive
// quantity deletes the line outright. Returns NotFound when no line
// exists.
func (s *Store) RemoveCartLine(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		const del = `DELETE FROM cart_lines WHERE user_id = ? AND product_id = ?`
		res, err := s.db.ExecContext(ctx, del, userID, productID)
		if err != nil {
			return unavailable(err, "remove cart line for user %q", userID)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return unavailable(err, "remove cart line for user %q", userID)
		}
		if n == 0 {
			return domain.NotFoundf("product %s not in cart", productID)
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "begin remove cart line")
	}
	defer tx.Rollback()

	const dec = `UPDATE cart_lines SET quantity = quantity - ? WHERE user_id = ? AND product_id = ? AND quantity > ?`
	res, err := tx.ExecContext(ctx, dec, quantity, userID, productID, quantity)
	if err != nil {
		return unavailable(err, "decrement cart line for user %q", userID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err, "decrement cart line for user %q", userID)
	}

	if n == 0 {
		// Either the line is absent or the decrement drains it. Delete
		// resolves which: zero rows deleted means there was no line.
		const del = `DELETE FROM cart_lines WHERE user_id = ? AND product_id = ?`
		res, err := tx.ExecContext(ctx, del, userID, productID)
		if err != nil {
			return unavailable(err, "delete cart line for user %q", userID)
		}
		deleted, err := res.RowsAffected()
		if err != nil {
			return unavailable(err, "delete cart line for user %q", userID)
		}
		if deleted == 0 {
			return domain.NotFoundf("product %s not in cart", productID)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err, "commit remove cart line")
	}
	return nil
}

// CartLines returns the user's cart in insertion order.
func (s *Store) CartLines(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `SELECT product_id, quantity FROM cart_lines WHERE user_id = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, unavailable(err, "list cart lines for user %q", userID)
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var l domain.CartLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, unavailable(err, "scan cart line for user %q", userID)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate cart lines for user %q", userID)
	}
	return lines, nil
}

// ClearCart deletes every line in the user's cart. Clearing an already
// empty cart is a no-op.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	const q = `DELETE FROM cart_lines WHERE user_id = ?`
	if _, err := s.db.ExecContext(ctx, q, userID); err != nil {
		return unavailable(err, "clear cart for user %q", userID)
	}
	return nil
}
