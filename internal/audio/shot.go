// Package audio synthesizes the shot sound played by the terminal client.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

const (
	ShotDuration  = 120 * time.Millisecond
	shotStartFreq = 900.0
	shotEndFreq   = 120.0
)

// shot is a square wave whose pitch sweeps down exponentially while its
// amplitude decays to zero.
type shot struct {
	rate     beep.SampleRate
	phase    float64
	position int
	total    int
}

// NewShotSound returns a single shot, ShotDuration long, at the given rate.
func NewShotSound(rate beep.SampleRate) beep.Streamer {
	return &shot{rate: rate, total: rate.N(ShotDuration)}
}

func (s *shot) Stream(samples [][2]float64) (n int, ok bool) {
	if s.position >= s.total {
		return 0, false
	}
	for i := range samples {
		if s.position >= s.total {
			return i, true
		}
		progress := float64(s.position) / float64(s.total)
		freq := shotStartFreq * math.Pow(shotEndFreq/shotStartFreq, progress)
		amp := (1 - progress) * (1 - progress)

		val := -amp
		if s.phase < 0.5 {
			val = amp
		}
		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.position++
	}
	return len(samples), true
}

func (s *shot) Err() error { return nil }

// withVolume scales s linearly; vol <= 0 silences it.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
