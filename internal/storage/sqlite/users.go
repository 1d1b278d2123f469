package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/dheras/foodcourt/internal/domain"
)

// CreateUser inserts a user record. Registration itself happens in the
// identity collaborator; this path exists for seeding and tests.
func (s *Store) CreateUser(ctx context.Context, u domain.User) error {
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	const q = `INSERT INTO users (id, name, email, img, created_at) VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.Img, formatTime(created)); err != nil {
		return unavailable(err, "create user %q", u.ID)
	}
	return nil
}

// UserExists reports whether a user record exists for id.
func (s *Store) UserExists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT 1 FROM users WHERE id = ?`

	var one int
	err := s.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, unavailable(err, "check user %q", id)
	}
	return true, nil
}
