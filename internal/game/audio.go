//go:build !android

package game

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/oto/v2"

	"skyfx/internal/config"
	"skyfx/internal/mathutil"
	"skyfx/internal/sfx"
)

// maxSplatters limits simultaneous splatter cues to avoid clipping.
const maxSplatters = 3

// AudioSystem plays procedural cues. A nil *AudioSystem is silent.
type AudioSystem struct {
	ctx    *oto.Context
	ready  chan struct{}
	volume atomic.Uint64 // float64 bits

	activeSplatters atomic.Int32
	variant         atomic.Uint64
}

// InitAudio opens the output device. It returns nil, nil when audio is
// disabled in the configuration.
func InitAudio(cfg config.Audio) (*AudioSystem, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ctx, ready, err := oto.NewContext(sfx.SampleRate, sfx.ChannelCount, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	a := &AudioSystem{ctx: ctx, ready: ready}
	a.SetVolume(cfg.Volume)
	a.variant.Store(uint64(time.Now().UnixNano()))
	return a, nil
}

func (a *AudioSystem) SetVolume(v float64) {
	if a == nil {
		return
	}
	a.volume.Store(math.Float64bits(mathutil.ClampF(v, 0, 1)))
}

func (a *AudioSystem) Volume() float64 {
	if a == nil {
		return 0
	}
	return math.Float64frombits(a.volume.Load())
}

// Play renders and plays a chime on its own goroutine. Cues requested
// before the device is ready are dropped.
func (a *AudioSystem) Play(kind sfx.Kind) {
	if !a.accepting() {
		return
	}
	seed := a.variant.Add(0x9E3779B97F4A7C15)
	a.play(func() []byte { return sfx.Generate(kind, seed) }, nil)
}

// Splat voices one blood drop landing. At most maxSplatters play at once;
// the rest are dropped.
func (a *AudioSystem) Splat(im sfx.Impact) {
	if !a.accepting() {
		return
	}
	if a.activeSplatters.Add(1) > maxSplatters {
		a.activeSplatters.Add(-1)
		return
	}
	seed := a.variant.Add(0x9E3779B97F4A7C15)
	a.play(func() []byte { return sfx.Splat(im, seed) }, func() { a.activeSplatters.Add(-1) })
}

func (a *AudioSystem) accepting() bool {
	if a == nil || a.Volume() <= 0 {
		return false
	}
	select {
	case <-a.ready:
		return true
	default:
		return false
	}
}

// play renders on a goroutine so synthesis never stalls the frame thread.
func (a *AudioSystem) play(render func() []byte, done func()) {
	go func() {
		if done != nil {
			defer done()
		}
		samples := render()
		if len(samples) == 0 {
			return
		}
		player := a.ctx.NewPlayer(sfx.NewReader(samples))
		player.SetVolume(a.Volume())
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}
