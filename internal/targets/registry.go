package targets

import (
	"cmp"
	"fmt"
	"slices"
)

// Registry owns the live targets and the score. Like the projectile manager
// it is driven from a single goroutine and holds no lock.
type Registry struct {
	targets map[ID]Target
	total   int
	score   int
}

func NewRegistry() *Registry {
	return &Registry{
		targets: make(map[ID]Target),
	}
}

// Initialize replaces the live set with the given targets and resets the score.
func (r *Registry) Initialize(list []Target) error {
	seeded := make(map[ID]Target, len(list))
	for _, t := range list {
		if _, dup := seeded[t.ID]; dup {
			return fmt.Errorf("duplicate target id %d", t.ID)
		}
		if t.Size <= 0 {
			t.Size = DefaultSize
		}
		seeded[t.ID] = t
	}
	r.targets = seeded
	r.total = len(seeded)
	r.score = 0
	return nil
}

// Hit removes a live target and scores it. Unknown or already removed ids
// are a Miss and change nothing.
func (r *Registry) Hit(id ID) HitResult {
	if _, ok := r.targets[id]; !ok {
		return Miss
	}
	delete(r.targets, id)
	r.score++
	return Hit
}

func (r *Registry) Get(id ID) (Target, bool) {
	t, ok := r.targets[id]
	return t, ok
}

// Live returns the live targets ordered by id.
func (r *Registry) Live() []Target {
	list := make([]Target, 0, len(r.targets))
	for _, t := range r.targets {
		list = append(list, t)
	}
	slices.SortFunc(list, func(a, b Target) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

func (r *Registry) Score() int {
	return r.score
}

func (r *Registry) Remaining() int {
	return len(r.targets)
}

// Total is the number of targets the registry was seeded with.
func (r *Registry) Total() int {
	return r.total
}

// Cleared reports whether every seeded target has been hit.
func (r *Registry) Cleared() bool {
	return r.total > 0 && len(r.targets) == 0
}
