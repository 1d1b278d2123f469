package identity

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dheras/foodcourt/internal/domain"
)

var _ Provider = (*SessionProvider)(nil)

// SessionProvider resolves tokens against the session records the
// identity collaborator keeps in Redis.
type SessionProvider struct {
	client *redis.Client
}

func NewSessionProvider(addr string) *SessionProvider {
	return &SessionProvider{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Close releases the Redis connection.
func (p *SessionProvider) Close() error {
	return p.client.Close()
}

func (p *SessionProvider) Resolve(ctx context.Context, token string) (string, error) {
	userID, err := p.client.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", domain.NotFoundf("unknown session token")
	}
	if err != nil {
		return "", domain.Unavailablef(err, "identity: session lookup")
	}
	return userID, nil
}

func sessionKey(token string) string {
	return fmt.Sprintf("storefront:session:%s", token)
}
