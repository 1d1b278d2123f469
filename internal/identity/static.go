package identity

import (
	"context"
	"sync"

	"github.com/dheras/foodcourt/internal/domain"
)

// Ensure Static implements the port at compile time.
var _ Provider = (*Static)(nil)

// Static is an in-memory Provider intended for local development and
// tests only, where no session store is running.
type Static struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewStatic returns a provider with no known tokens.
func NewStatic() *Static {
	return &Static{tokens: make(map[string]string)}
}

// Grant maps token to userID.
func (s *Static) Grant(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
}

func (s *Static) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.tokens[token]
	if !ok {
		return "", domain.NotFoundf("unknown session token")
	}
	return userID, nil
}
