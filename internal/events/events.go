package events

import (
	"targetrange/internal/projectiles"
	"targetrange/internal/targets"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const busCapacity = 64

type ShotEvent struct {
	ProjectileID projectiles.ID `json:"pid"`
	Origin       mgl64.Vec3     `json:"o"`
	Direction    mgl64.Vec3     `json:"d"`
	At           time.Time      `json:"at"`
}

type HitEvent struct {
	TargetID targets.ID `json:"id"`
	Position mgl64.Vec3 `json:"pos"`
	Score    int        `json:"s"`
	Cleared  bool       `json:"done,omitempty"`
	At       time.Time  `json:"at"`
}

type Bus struct {
	Shots chan ShotEvent
	Hits  chan HitEvent
}

func NewBus() *Bus {
	return &Bus{
		Shots: make(chan ShotEvent, busCapacity),
		Hits:  make(chan HitEvent, busCapacity),
	}
}

// PublishShot never blocks; it reports false when the event was dropped.
func (b *Bus) PublishShot(ev ShotEvent) bool {
	select {
	case b.Shots <- ev:
		return true
	default:
		return false
	}
}

// PublishHit never blocks; it reports false when the event was dropped.
func (b *Bus) PublishHit(ev HitEvent) bool {
	select {
	case b.Hits <- ev:
		return true
	default:
		return false
	}
}

// Close must only be called once the publisher has stopped.
func (b *Bus) Close() {
	close(b.Shots)
	close(b.Hits)
}
