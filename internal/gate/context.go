package gate

import "context"

type profileKey struct{}

// WithProfile stores the authorized profile for downstream handlers and templates.
func WithProfile(ctx context.Context, p Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, p)
}

// ProfileFrom returns the profile stored by WithProfile.
func ProfileFrom(ctx context.Context) (Profile, bool) {
	p, ok := ctx.Value(profileKey{}).(Profile)
	return p, ok && p != nil
}
