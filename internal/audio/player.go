package audio

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Player owns the speaker. A nil or disabled Player is silent.
type Player struct {
	mu      sync.Mutex
	volume  float64
	enabled bool
}

// NewPlayer initializes the speaker. On failure it returns the error along
// with a silent player, so callers can keep going without sound.
func NewPlayer(volume float64) (*Player, error) {
	p := &Player{volume: volume}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return p, fmt.Errorf("initializing speaker: %w", err)
	}
	p.enabled = true
	return p, nil
}

func (p *Player) Shot() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Play(withVolume(NewShotSound(sampleRate), p.volume))
}

// Close stops playback. The speaker cannot be reopened.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		speaker.Clear()
		p.enabled = false
		log.Println("[Audio] Speaker stopped")
	}
}
