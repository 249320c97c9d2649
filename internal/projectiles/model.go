package projectiles

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type ID uint64

// Projectile is a fired shot. Direction is a unit vector and never changes
// after Fire; Position is derived from Origin, Direction and Age.
type Projectile struct {
	ID        ID
	Origin    mgl64.Vec3
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Speed     float64 // units per tick
	Age       int     // ticks since fire
}

// Distance returns how far the projectile is from the point range is measured
// against. Travel since spawn is speed × age, which stays exact where the
// per-tick step is lost to rounding far from the world origin.
func (p Projectile) Distance(ref RangeReference) float64 {
	if ref == FromWorldOrigin {
		return p.Position.Len()
	}
	return p.Speed * float64(p.Age)
}

// Normalize scales v to unit length. It reports false when v is zero or has a
// non-finite component. Components are divided by the largest magnitude
// first so that huge or tiny vectors neither overflow nor underflow.
func Normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	scale := math.Max(math.Abs(v[0]), math.Max(math.Abs(v[1]), math.Abs(v[2])))
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return mgl64.Vec3{}, false
	}
	u := mgl64.Vec3{v[0] / scale, v[1] / scale, v[2] / scale}
	u = u.Mul(1 / u.Len())
	if !Finite(u) || !mgl64.FloatEqualThreshold(u.Len(), 1, 1e-9) {
		return mgl64.Vec3{}, false
	}
	return u, true
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
