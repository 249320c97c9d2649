// Package pick resolves an aim ray to the target it points at, standing in
// for the picking a 3D render surface would do itself.
package pick

import (
	"math"
	"targetrange/internal/targets"

	"github.com/go-gl/mathgl/mgl64"
)

type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Intersect returns the ray parameter at which it enters the target's cube.
func Intersect(ray Ray, t targets.Target) (float64, bool) {
	half := t.Size / 2
	lo := t.Position.Sub(mgl64.Vec3{half, half, half})
	hi := t.Position.Add(mgl64.Vec3{half, half, half})

	tNear, tFar := math.Inf(-1), math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		o, d := ray.Origin[axis], ray.Direction[axis]
		if d == 0 {
			if o < lo[axis] || o > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - o) / d
		t2 := (hi[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}
	if tFar < 0 {
		return 0, false
	}
	return math.Max(tNear, 0), true
}

// First returns the id of the nearest target hit by the ray.
func First(ray Ray, list []targets.Target) (targets.ID, bool) {
	var (
		best  targets.ID
		bestT = math.Inf(1)
		found bool
	)
	for _, t := range list {
		if d, ok := Intersect(ray, t); ok && d < bestT {
			best, bestT, found = t.ID, d, true
		}
	}
	return best, found
}
