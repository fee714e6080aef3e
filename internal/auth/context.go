package auth

import "context"

// Identity is the trusted subset of a verified token, resolved once per
// request. Its presence in the context is the "authenticated" signal;
// there is no ambient principal anywhere else.
type Identity struct {
	UserID   int64
	Role     string
	Username string
}

type identityContextKey struct{}

// ContextWithIdentity attaches the resolved identity to the request context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the identity resolved by the authentication
// gate. ok is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
