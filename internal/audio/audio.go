// Package audio plays a short tone when the observer walks up to a wall.
package audio

import (
	"fmt"
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate   = beep.SampleRate(44100)
	toneDuration = 60 * time.Millisecond
)

// Player plays a tone of the given frequency.
type Player interface {
	Play(freq float64, d time.Duration)
}

// Proximity detects the moment a distance drops below Threshold. It re-arms
// once the distance rises back to 1.25x the threshold so jitter at the edge
// does not retrigger.
type Proximity struct {
	Threshold float64
	near      bool
}

// Update returns true only on the frame the distance first falls below the
// threshold.
func (p *Proximity) Update(distance float64) bool {
	if p.near {
		if distance >= p.Threshold*1.25 {
			p.near = false
		}
		return false
	}
	if distance < p.Threshold {
		p.near = true
		return true
	}
	return false
}

// Cue plays a tone each time the forward distance crosses into proximity.
type Cue struct {
	prox   Proximity
	player Player
	toneHz float64
}

// NewCue creates a cue that plays toneHz through player.
func NewCue(threshold, toneHz float64, player Player) *Cue {
	return &Cue{
		prox:   Proximity{Threshold: threshold},
		player: player,
		toneHz: toneHz,
	}
}

// Observe feeds one frame's forward distance.
func (c *Cue) Observe(distance float64) {
	if c.prox.Update(distance) {
		c.player.Play(c.toneHz, toneDuration)
	}
}

// Beeper plays sine tones on the system speaker.
type Beeper struct{}

// NewBeeper initializes the speaker. Callers should treat failure as
// non-fatal and run without sound.
func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}
	return &Beeper{}, nil
}

// Play queues a tone and returns immediately.
func (b *Beeper) Play(freq float64, d time.Duration) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("Skipping tone: %v", err)
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}
