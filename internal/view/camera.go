package view

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const maxPitch = 89 * math.Pi / 180

// Camera is a first-person viewpoint. At zero yaw and pitch it looks down -Z.
type Camera struct {
	Eye   mgl64.Vec3
	Yaw   float64 // radians, positive turns left
	Pitch float64 // radians, positive looks up
	Fov   float64 // vertical field of view in radians
}

func NewCamera() Camera {
	return Camera{Fov: mgl64.DegToRad(75)}
}

func (c Camera) rotation() mgl64.Mat3 {
	return mgl64.Rotate3DY(c.Yaw).Mul3(mgl64.Rotate3DX(c.Pitch))
}

// Forward is the unit aim direction.
func (c Camera) Forward() mgl64.Vec3 {
	return c.rotation().Mul3x1(mgl64.Vec3{0, 0, -1}).Normalize()
}

// Turn rotates the camera, keeping pitch short of straight up or down.
func (c *Camera) Turn(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Project maps a world point onto a w×h character grid whose cells are
// twice as tall as they are wide. ok is false for points behind the camera
// or off screen.
func (c Camera) Project(p mgl64.Vec3, w, h int) (x, y int, ok bool) {
	local := c.rotation().Transpose().Mul3x1(p.Sub(c.Eye))
	depth := -local.Z()
	if depth <= 0.1 {
		return 0, 0, false
	}
	fov := c.Fov
	if fov <= 0 {
		fov = mgl64.DegToRad(75)
	}
	scale := float64(h) / 2 / math.Tan(fov/2)

	fx := float64(w)/2 + local.X()/depth*scale*2
	fy := float64(h)/2 - local.Y()/depth*scale
	x, y = int(math.Round(fx)), int(math.Round(fy))
	if x < 0 || y < 0 || x >= w || y >= h {
		return x, y, false
	}
	return x, y, true
}
