// Package gate provides role-based route authorization.
// Each protected operation declares an AllowList of roles; the Gate resolves
// the caller's Profile and admits the call only when its role is listed.
// The package has no dependency on domain models.
//
// The package uses generics so the subject can be any comparable key:
//   - Gate[uint] for user ID based sessions
//   - Gate[string] for opaque token based sessions
package gate

import (
	"context"
	"fmt"
)

// Gate is the authorization checkpoint evaluated once per request.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]
}

// NewGate creates a Gate that looks subjects up through resolver.
func NewGate[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize returns ErrUnauthenticated for a zero or unknown subject and
// ErrForbidden when the subject's role is not in allowed. Resolver failures
// are returned wrapped.
func (g *Gate[U]) Authorize(ctx context.Context, user U, allowed AllowList) (Profile, error) {
	var zero U
	if user == zero {
		return nil, ErrUnauthenticated
	}
	profile, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}
	if !allowed.Permits(profile.Role()) {
		return profile, ErrForbidden
	}
	return profile, nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[U]) Can(ctx context.Context, user U, allowed AllowList) bool {
	_, err := g.Authorize(ctx, user, allowed)
	return err == nil
}
