// Package identity resolves request credentials to user identifiers.
// Token issuance and password handling live in the external identity
// collaborator; this side only consumes verified identities.
package identity

import "context"

// Provider resolves an opaque bearer token to a stable user id. An
// unknown or expired token yields a domain NotFound error.
type Provider interface {
	Resolve(ctx context.Context, token string) (string, error)
}
