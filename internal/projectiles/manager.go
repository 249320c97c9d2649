package projectiles

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultSpeed    = 0.2
	DefaultMaxRange = 100.0

	rangeEpsilon = 1e-9
)

// RangeReference selects the point a projectile's range is measured from.
type RangeReference int

const (
	// FromSpawn measures the distance travelled since Fire.
	FromSpawn RangeReference = iota
	// FromWorldOrigin measures the distance from (0,0,0), which makes shots
	// fired far from the origin expire early or late.
	FromWorldOrigin
)

func (r RangeReference) String() string {
	if r == FromWorldOrigin {
		return "origin"
	}
	return "spawn"
}

// ParseRangeReference accepts "spawn" or "origin".
func ParseRangeReference(s string) (RangeReference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spawn", "":
		return FromSpawn, nil
	case "origin", "world":
		return FromWorldOrigin, nil
	}
	return FromSpawn, fmt.Errorf("unknown range reference %q", s)
}

type Config struct {
	Speed     float64 // units per tick
	MaxRange  float64
	Reference RangeReference
}

func DefaultConfig() Config {
	return Config{
		Speed:     DefaultSpeed,
		MaxRange:  DefaultMaxRange,
		Reference: FromSpawn,
	}
}

// Manager owns every live projectile. It is not safe for concurrent use: a
// single goroutine drives Fire, Tick and Live.
type Manager struct {
	cfg    Config
	live   map[ID]*Projectile
	nextID ID
	ticks  uint64
}

func NewManager(cfg Config) *Manager {
	if cfg.Speed <= 0 {
		cfg.Speed = DefaultSpeed
	}
	if cfg.MaxRange <= 0 {
		cfg.MaxRange = DefaultMaxRange
	}
	return &Manager{
		cfg:    cfg,
		live:   make(map[ID]*Projectile),
		nextID: 1,
	}
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Fire spawns a projectile at origin heading along direction. A non-unit
// direction is normalized; a zero or non-finite direction, or a non-finite
// origin, panics.
func (m *Manager) Fire(origin, direction mgl64.Vec3) ID {
	unit, ok := Normalize(direction)
	if !ok {
		panic(fmt.Sprintf("projectiles: fire with invalid direction %v", direction))
	}
	if !Finite(origin) {
		panic(fmt.Sprintf("projectiles: fire from invalid origin %v", origin))
	}

	id := m.nextID
	m.nextID++
	m.live[id] = &Projectile{
		ID:        id,
		Origin:    origin,
		Position:  origin,
		Direction: unit,
		Speed:     m.cfg.Speed,
	}
	return id
}

// Tick advances every live projectile by one step, then removes the ones that
// reached MaxRange. It returns how many were removed.
func (m *Manager) Tick() int {
	m.ticks++
	for _, p := range m.live {
		p.Age++
		p.Position = p.Origin.Add(p.Direction.Mul(m.cfg.Speed * float64(p.Age)))
	}

	expired := 0
	limit := m.cfg.MaxRange - rangeEpsilon
	for id, p := range m.live {
		// a NaN distance counts as out of range
		if !(p.Distance(m.cfg.Reference) < limit) {
			delete(m.live, id)
			expired++
		}
	}
	return expired
}

// Live returns a copy of the live projectiles ordered by id.
func (m *Manager) Live() []Projectile {
	list := make([]Projectile, 0, len(m.live))
	for _, p := range m.live {
		list = append(list, *p)
	}
	slices.SortFunc(list, func(a, b Projectile) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return list
}

func (m *Manager) Get(id ID) (Projectile, bool) {
	p, ok := m.live[id]
	if !ok {
		return Projectile{}, false
	}
	return *p, true
}

func (m *Manager) Len() int {
	return len(m.live)
}

// Ticks reports how many ticks have run.
func (m *Manager) Ticks() uint64 {
	return m.ticks
}
