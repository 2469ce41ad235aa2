package gate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-backoffice/internal/gate"
)

func TestCachedResolver_CachesProfile(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticProfile(1, "alice", "RH"))

	cached := gate.NewCachedResolver[uint](inner, 5*time.Minute)

	p1, err := cached.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1.Role() != "RH" {
		t.Errorf("expected RH, got %s", p1.Role())
	}

	// Promote in the backing store; the cached value must win until invalidated.
	inner.Set(1, gate.NewStaticProfile(1, "alice", "CEO"))

	p2, _ := cached.Resolve(context.Background(), 1)
	if p2.Role() != "RH" {
		t.Errorf("expected cached RH, got %s", p2.Role())
	}

	cached.Invalidate(1)
	p3, _ := cached.Resolve(context.Background(), 1)
	if p3.Role() != "CEO" {
		t.Errorf("expected CEO after invalidate, got %s", p3.Role())
	}
}

func TestCachedResolver_InvalidateAll(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticProfile(1, "a", "RH"))
	inner.Set(2, gate.NewStaticProfile(2, "b", "RH"))
	cached := gate.NewCachedResolver[uint](inner, time.Hour)
	_, _ = cached.Resolve(context.Background(), 1)
	_, _ = cached.Resolve(context.Background(), 2)

	inner.Set(1, gate.NewStaticProfile(1, "a", "Comptable"))
	inner.Set(2, gate.NewStaticProfile(2, "b", "Comptable"))
	cached.InvalidateAll()

	for _, id := range []uint{1, 2} {
		p, _ := cached.Resolve(context.Background(), id)
		if p.Role() != "Comptable" {
			t.Errorf("user %d: expected Comptable, got %s", id, p.Role())
		}
	}
}

func TestCachedResolver_Expiry(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	inner.Set(1, gate.NewStaticProfile(1, "a", "RH"))
	cached := gate.NewCachedResolver[uint](inner, 10*time.Millisecond)
	_, _ = cached.Resolve(context.Background(), 1)

	inner.Set(1, gate.NewStaticProfile(1, "a", "CEO"))
	time.Sleep(30 * time.Millisecond)

	p, _ := cached.Resolve(context.Background(), 1)
	if p.Role() != "CEO" {
		t.Errorf("expected refreshed CEO, got %s", p.Role())
	}
}

func TestCachedResolver_MissNotCached(t *testing.T) {
	inner := gate.NewStaticResolver[uint]()
	cached := gate.NewCachedResolver[uint](inner, time.Hour)

	p, err := cached.Resolve(context.Background(), 7)
	if err != nil || p != nil {
		t.Fatalf("expected nil profile, got %v, %v", p, err)
	}
	inner.Set(7, gate.NewStaticProfile(7, "late", "RH"))
	p, _ = cached.Resolve(context.Background(), 7)
	if p == nil {
		t.Fatal("expected profile after creation")
	}
}

type failingResolver struct{}

func (failingResolver) Resolve(context.Context, uint) (gate.Profile, error) {
	return nil, errors.New("db down")
}

func TestGate_ResolverErrorIsSurfaced(t *testing.T) {
	g := gate.NewGate[uint](gate.NewCachedResolver[uint](failingResolver{}, time.Minute))
	_, err := g.Authorize(context.Background(), 1, gate.AnyRole)
	if err == nil || errors.Is(err, gate.ErrUnauthenticated) || errors.Is(err, gate.ErrForbidden) {
		t.Errorf("expected a wrapped resolver error, got %v", err)
	}
}
