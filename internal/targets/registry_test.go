package targets

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func liveIDs(r *Registry) []ID {
	var ids []ID
	for _, t := range r.Live() {
		ids = append(ids, t.ID)
	}
	return ids
}

func newSeeded(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Initialize(DefaultLayout()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}
	return r
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if len(r.Live()) != 0 {
		t.Errorf("new registry should be empty, got %d targets", len(r.Live()))
	}
	if r.Score() != 0 {
		t.Errorf("Score = %d, want 0", r.Score())
	}
	if r.Cleared() {
		t.Error("empty registry should not count as cleared")
	}
}

func TestRegistry_Initialize(t *testing.T) {
	r := newSeeded(t)

	list := r.Live()
	if len(list) != 3 {
		t.Fatalf("Live() returned %d targets, want 3", len(list))
	}
	if list[0].ID != 1 || list[1].ID != 2 || list[2].ID != 3 {
		t.Errorf("ids = %v, want [1 2 3]", liveIDs(r))
	}
	if list[0].Position != (mgl64.Vec3{5, 0, -5}) {
		t.Errorf("target 1 position = %v, want (5,0,-5)", list[0].Position)
	}
	if r.Total() != 3 {
		t.Errorf("Total = %d, want 3", r.Total())
	}
}

func TestRegistry_Initialize_Duplicate(t *testing.T) {
	r := NewRegistry()
	err := r.Initialize([]Target{{ID: 1}, {ID: 1}})
	if err == nil {
		t.Fatal("Initialize() should reject duplicate ids")
	}
	if len(r.Live()) != 0 {
		t.Errorf("failed Initialize should leave registry empty, got %d", len(r.Live()))
	}
}

func TestRegistry_Initialize_DefaultsSize(t *testing.T) {
	r := NewRegistry()
	if err := r.Initialize([]Target{{ID: 7}}); err != nil {
		t.Fatal(err)
	}
	tg, ok := r.Get(7)
	if !ok {
		t.Fatal("Get(7) should find target")
	}
	if tg.Size != DefaultSize {
		t.Errorf("Size = %v, want %v", tg.Size, DefaultSize)
	}
}

func TestRegistry_Hit(t *testing.T) {
	r := newSeeded(t)

	if got := r.Hit(2); got != Hit {
		t.Errorf("Hit(2) = %v, want %v", got, Hit)
	}
	if r.Score() != 1 {
		t.Errorf("Score = %d, want 1", r.Score())
	}
	ids := liveIDs(r)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("live ids = %v, want [1 3]", ids)
	}
	if _, ok := r.Get(2); ok {
		t.Error("Get(2) should fail after hit")
	}
}

func TestRegistry_Hit_Twice(t *testing.T) {
	r := newSeeded(t)

	r.Hit(2)
	if got := r.Hit(2); got != Miss {
		t.Errorf("second Hit(2) = %v, want %v", got, Miss)
	}
	if r.Score() != 1 {
		t.Errorf("Score = %d, want 1", r.Score())
	}
	ids := liveIDs(r)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("live ids = %v, want [1 3]", ids)
	}
}

func TestRegistry_Hit_Unknown(t *testing.T) {
	r := newSeeded(t)

	if got := r.Hit(999); got != Miss {
		t.Errorf("Hit(999) = %v, want %v", got, Miss)
	}
	if r.Score() != 0 {
		t.Errorf("Score = %d, want 0", r.Score())
	}
	if r.Remaining() != 3 {
		t.Errorf("Remaining = %d, want 3", r.Remaining())
	}
}

func TestRegistry_Cleared(t *testing.T) {
	r := newSeeded(t)
	for _, id := range []ID{1, 2, 3} {
		r.Hit(id)
	}
	if !r.Cleared() {
		t.Error("registry should be cleared after every target is hit")
	}
	if r.Score() != 3 {
		t.Errorf("Score = %d, want 3", r.Score())
	}
}

func TestRegistry_Initialize_ResetsScore(t *testing.T) {
	r := newSeeded(t)
	r.Hit(1)

	if err := r.Initialize(DefaultLayout()); err != nil {
		t.Fatal(err)
	}
	if r.Score() != 0 {
		t.Errorf("Score after re-Initialize = %d, want 0", r.Score())
	}
	if r.Remaining() != 3 {
		t.Errorf("Remaining = %d, want 3", r.Remaining())
	}
}

func TestHitResult_String(t *testing.T) {
	if Hit.String() != "hit" || Miss.String() != "miss" {
		t.Errorf("String() = %q/%q, want hit/miss", Hit.String(), Miss.String())
	}
}
