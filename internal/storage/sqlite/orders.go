package sqlite

import (
	"context"
	"database/sql"

	"github.com/dheras/foodcourt/internal/domain"
)

// CreateOrder persists an order and its lines in one transaction. A
// cancelled request leaves either the whole order or nothing; an order
// row without its lines can never be observed.
func (s *Store) CreateOrder(ctx context.Context, o domain.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "begin create order")
	}
	defer tx.Rollback()

	const ins = `INSERT INTO orders (id, user_id, address, total_amount, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, o.ID, o.UserID, o.Address, o.TotalAmount, string(o.Status), formatTime(o.CreatedAt)); err != nil {
		return unavailable(err, "insert order %q", o.ID)
	}

	const insLine = `INSERT INTO order_lines (order_id, position, product_id, quantity) VALUES (?, ?, ?, ?)`
	for i, line := range o.Lines {
		if _, err := tx.ExecContext(ctx, insLine, o.ID, i, line.ProductID, line.Quantity); err != nil {
			return unavailable(err, "insert line %d of order %q", i, o.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return unavailable(err, "commit order %q", o.ID)
	}
	return nil
}

// Order returns the order with id, lines in snapshot order.
func (s *Store) Order(ctx context.Context, id string) (domain.Order, error) {
	const q = `SELECT id, user_id, address, total_amount, status, created_at FROM orders WHERE id = ?`

	o, err := s.scanOrder(s.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, err
	}

	o.Lines, err = s.orderLines(ctx, o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	return o, nil
}

// OrdersByUser returns every order the user has placed, most recent
// first. A user with no orders gets an empty slice, not an error.
func (s *Store) OrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
		SELECT id, user_id, address, total_amount, status, created_at
		FROM   orders
		WHERE  user_id = ?
		ORDER  BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, unavailable(err, "list orders for user %q", userID)
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		o, err := s.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate orders for user %q", userID)
	}

	for i := range orders {
		orders[i].Lines, err = s.orderLines(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOrder(row rowScanner) (domain.Order, error) {
	var o domain.Order
	var status, createdAt string
	if err := row.Scan(&o.ID, &o.UserID, &o.Address, &o.TotalAmount, &status, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Order{}, err
		}
		return domain.Order{}, unavailable(err, "scan order")
	}
	o.Status = domain.OrderStatus(status)

	created, err := parseTime(createdAt)
	if err != nil {
		return domain.Order{}, unavailable(err, "parse order timestamp")
	}
	o.CreatedAt = created
	return o, nil
}

func (s *Store) orderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const q = `SELECT product_id, quantity FROM order_lines WHERE order_id = ? ORDER BY position`

	rows, err := s.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, unavailable(err, "list lines of order %q", orderID)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ProductID, &l.Quantity); err != nil {
			return nil, unavailable(err, "scan line of order %q", orderID)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate lines of order %q", orderID)
	}
	return lines, nil
}
