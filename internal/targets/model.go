package targets

import "github.com/go-gl/mathgl/mgl64"

type ID int

// DefaultSize is the edge length of a target cube.
const DefaultSize = 1.0

type Target struct {
	ID       ID
	Position mgl64.Vec3
	Size     float64
}

type HitResult int

const (
	Miss HitResult = iota
	Hit
)

func (r HitResult) String() string {
	if r == Hit {
		return "hit"
	}
	return "miss"
}

// DefaultLayout is the three-cube range the game starts with.
func DefaultLayout() []Target {
	return []Target{
		{ID: 1, Position: mgl64.Vec3{5, 0, -5}, Size: DefaultSize},
		{ID: 2, Position: mgl64.Vec3{-5, 0, -5}, Size: DefaultSize},
		{ID: 3, Position: mgl64.Vec3{0, 5, -5}, Size: DefaultSize},
	}
}
