package gate

import "context"

// Profile is the authorization view of a subject.
type Profile interface {
	ID() uint
	Name() string
	Role() Role
}

// ProfileResolver resolves a subject to its profile.
// A nil profile with a nil error means the subject does not exist.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// StaticProfile is a simple in-memory profile implementation.
type StaticProfile struct {
	id   uint
	name string
	role Role
}

// NewStaticProfile creates a profile holding role.
func NewStaticProfile(id uint, name string, role Role) *StaticProfile {
	return &StaticProfile{id: id, name: name, role: role}
}

func (p *StaticProfile) ID() uint     { return p.id }
func (p *StaticProfile) Name() string { return p.name }
func (p *StaticProfile) Role() Role   { return p.role }

// StaticResolver is an in-memory resolver, handy in tests.
type StaticResolver[U comparable] struct {
	profiles map[U]Profile
}

func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{profiles: make(map[U]Profile)}
}

// Set assigns a profile to a subject.
func (r *StaticResolver[U]) Set(user U, profile Profile) {
	r.profiles[user] = profile
}

// Resolve returns the profile for the given subject, or nil.
func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	if profile, ok := r.profiles[user]; ok {
		return profile, nil
	}
	return nil, nil
}
