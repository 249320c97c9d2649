package wshub

import (
	"errors"
	"targetrange/internal/gamedata"
	"targetrange/internal/projectiles"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	TypeFire  = "fire"
	TypeShoot = "shoot"
	TypePick  = "pick"

	TypeFrame   = "frame"
	TypeShot    = "shot"
	TypeHit     = "hit"
	TypeWelcome = "welcome"
	TypeLeave   = "leave"
	TypeError   = "error"
)

var (
	errBadDirection = errors.New("direction must be a non-zero finite vector")
	errBadOrigin    = errors.New("origin must be a finite point")
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type      string      `json:"t"`
	TargetID  int         `json:"id,omitempty"`
	Origin    *mgl64.Vec3 `json:"o,omitempty"`
	Direction *mgl64.Vec3 `json:"d,omitempty"`
}

// Ray returns the origin and direction of a fire or shoot message.
func (m ClientMessage) Ray() (origin, direction mgl64.Vec3, err error) {
	if m.Origin != nil {
		origin = *m.Origin
	}
	if m.Direction == nil {
		return origin, direction, errBadDirection
	}
	if _, ok := projectiles.Normalize(*m.Direction); !ok {
		return origin, direction, errBadDirection
	}
	if !projectiles.Finite(origin) {
		return origin, direction, errBadOrigin
	}
	return origin, *m.Direction, nil
}

type ProjectileView struct {
	ID       uint64     `json:"id"`
	Position mgl64.Vec3 `json:"pos"`
}

type TargetView struct {
	ID       int        `json:"id"`
	Position mgl64.Vec3 `json:"pos"`
	Size     float64    `json:"size"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type         string           `json:"t"`
	ClientID     string           `json:"cid,omitempty"`
	Tick         uint64           `json:"tick,omitempty"`
	Projectiles  []ProjectileView `json:"p,omitempty"`
	Targets      []TargetView     `json:"tg,omitempty"`
	Score        int              `json:"s"`
	Cleared      bool             `json:"done,omitempty"`
	TargetID     int              `json:"id,omitempty"`
	ProjectileID uint64           `json:"pid,omitempty"`
	Result       string           `json:"r,omitempty"`
	Error        string           `json:"e,omitempty"`
}

// FrameMessage converts a game snapshot into its wire form.
func FrameMessage(f gamedata.Frame) ServerMessage {
	msg := ServerMessage{
		Type:        TypeFrame,
		Tick:        f.Tick,
		Score:       f.Score,
		Cleared:     f.Cleared,
		Projectiles: make([]ProjectileView, 0, len(f.Projectiles)),
		Targets:     make([]TargetView, 0, len(f.Targets)),
	}
	for _, p := range f.Projectiles {
		msg.Projectiles = append(msg.Projectiles, ProjectileView{ID: uint64(p.ID), Position: p.Position})
	}
	for _, t := range f.Targets {
		msg.Targets = append(msg.Targets, TargetView{ID: int(t.ID), Position: t.Position, Size: t.Size})
	}
	return msg
}
