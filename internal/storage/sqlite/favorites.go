package sqlite

import "context"

// AddFavorite records productID in the user's favorites. Adding an
// already-favorited product is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, productID string) error {
	const q = `INSERT OR IGNORE INTO favorites (user_id, product_id) VALUES (?, ?)`
	if _, err := s.db.ExecContext(ctx, q, userID, productID); err != nil {
		return unavailable(err, "add favorite for user %q", userID)
	}
	return nil
}

// RemoveFavorite drops productID from the user's favorites. Removing a
// product that was never favorited is a no-op.
func (s *Store) RemoveFavorite(ctx context.Context, userID, productID string) error {
	const q = `DELETE FROM favorites WHERE user_id = ? AND product_id = ?`
	if _, err := s.db.ExecContext(ctx, q, userID, productID); err != nil {
		return unavailable(err, "remove favorite for user %q", userID)
	}
	return nil
}

// Favorites returns the user's favorited product ids in insertion order.
func (s *Store) Favorites(ctx context.Context, userID string) ([]string, error) {
	const q = `SELECT product_id FROM favorites WHERE user_id = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, unavailable(err, "list favorites for user %q", userID)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable(err, "scan favorite for user %q", userID)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err, "iterate favorites for user %q", userID)
	}
	return ids, nil
}
