// Package sfx synthesises the host's sound cues as interleaved stereo
// float32 little-endian PCM.
package sfx

import (
	"io"
	"math"

	"skyfx/internal/mathutil"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	frameBytes   = 8 // two float32 channels
)

// Kind identifies a sound cue.
type Kind int

const (
	Splatter Kind = iota
	ChimeLight
	ChimeDark
)

func (k Kind) String() string {
	switch k {
	case Splatter:
		return "splatter"
	case ChimeLight:
		return "chime-light"
	case ChimeDark:
		return "chime-dark"
	}
	return "unknown"
}

// Generate renders kind. seed drives the noise stream, so the same seed
// always gives the same samples. Splatter renders a mid-sized drop; use Splat
// to voice a specific impact.
func Generate(kind Kind, seed uint64) []byte {
	switch kind {
	case Splatter:
		return Splat(Impact{Size: 3.5, Speed: 3}, seed)
	case ChimeLight:
		// Rising: the scene brightens.
		return genChime([]float64{523.25, 659.25, 783.99}, 0.22)
	case ChimeDark:
		return genChime([]float64{392.00, 311.13, 261.63}, 0.2)
	}
	return nil
}

// Reader streams a rendered cue to a player.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader { return &Reader{data: data} }

func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// Frames is the number of stereo frames in a rendered buffer.
func Frames(buf []byte) int { return len(buf) / frameBytes }

// Sample decodes the left and right channel of frame i.
func Sample(buf []byte, i int) (left, right float32) {
	o := i * frameBytes
	l := uint32(buf[o]) | uint32(buf[o+1])<<8 | uint32(buf[o+2])<<16 | uint32(buf[o+3])<<24
	r := uint32(buf[o+4]) | uint32(buf[o+5])<<8 | uint32(buf[o+6])<<16 | uint32(buf[o+7])<<24
	return math.Float32frombits(l), math.Float32frombits(r)
}

// putStereo writes a [-1,1] sample to both channels of frame i.
func putStereo(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	o := i * frameBytes
	for c := 0; c < ChannelCount; c++ {
		buf[o+c*4] = byte(v)
		buf[o+c*4+1] = byte(v >> 8)
		buf[o+c*4+2] = byte(v >> 16)
		buf[o+c*4+3] = byte(v >> 24)
	}
}

// Impact is a blood drop landing: its radius in pixels and its vertical
// speed on contact in pixels per frame.
type Impact struct {
	Size  float64
	Speed float64
}

const (
	minDropSize  = 1
	maxDropSize  = 12
	fullSpeed    = 6 // impacts at or above this speed play at full force
	maxSpatters  = 4
	spatterWidth = 0.004 // seconds
)

// force maps impact speed to [0.2, 1].
func (im Impact) force() float64 {
	return mathutil.ClampF(im.Speed/fullSpeed, 0.2, 1)
}

// Splat voices a drop hitting the ground as three layers: a noise smack
// whose brightness follows the impact speed, a low body thud that grows with
// the drop, and the rising plink of the air pocket it traps, pitched from
// its size. A few seeded spatter clicks trail the smack.
func Splat(im Impact, seed uint64) []byte {
	rng := mathutil.NewRand(seed)
	force := im.force()
	size := mathutil.ClampF(im.Size, minDropSize, maxDropSize)
	sizeK := size / maxDropSize

	dur := 0.05 + 0.01*size + 0.05*force
	n := int(dur * SampleRate)
	buf := make([]byte, n*frameBytes)

	// Bigger pockets ring lower.
	plinkHz := mathutil.ClampF(2600/size, 250, 1800)
	plinkTau := 0.02 + 0.004*size
	thudHz := 55 + 90*(1-sizeK)
	smackCut := 0.15 + 0.6*force // one-pole coefficient: higher is brighter

	type click struct{ at, amp float64 }
	clicks := make([]click, 1+rng.Intn(maxSpatters))
	for i := range clicks {
		clicks[i] = click{
			at:  dur * (0.1 + 0.5*rng.Float64()),
			amp: 0.15 * force * (0.5 + rng.Float64()),
		}
	}

	var lp, plinkPhase float64
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		noise := rng.Float64()*2 - 1

		lp += smackCut * (noise - lp)
		smack := lp * math.Exp(-t/0.008) * 0.55 * force

		thud := math.Sin(2*math.Pi*thudHz*t) * math.Exp(-t/0.03) * (0.2 + 0.3*sizeK) * force

		var plink float64
		if pt := t - 0.002; pt > 0 {
			plinkPhase += 2 * math.Pi * plinkHz * (1 + 0.8*pt/dur) / SampleRate
			plink = math.Sin(plinkPhase) * math.Exp(-pt/plinkTau) * 0.3
		}

		var spatter float64
		for _, c := range clicks {
			if d := t - c.at; d >= 0 && d < spatterWidth {
				spatter += noise * c.amp * (1 - d/spatterWidth)
			}
		}

		putStereo(buf, i, math.Tanh((smack+thud+plink+spatter)*1.2)*0.9)
	}
	return buf
}

// bellPartials are the inharmonic overtones of a small struck bell, as
// frequency ratio and relative level.
var bellPartials = []struct{ ratio, level float64 }{
	{1, 1},
	{2.76, 0.45},
	{5.4, 0.2},
	{8.93, 0.08},
}

// genChime strikes each note in turn, every note ringing under the next.
// Higher partials die away faster.
func genChime(notes []float64, gain float64) []byte {
	step := int(0.11 * SampleRate)
	total := len(notes)*step + int(0.35*SampleRate)
	mix := make([]float64, total)
	for ni, freq := range notes {
		start := ni * step
		for j := 0; start+j < total; j++ {
			t := float64(j) / SampleRate
			attack := 1 - math.Exp(-t/0.002)
			var s float64
			for pi, p := range bellPartials {
				decay := 0.35 / float64(pi+1)
				s += math.Sin(2*math.Pi*freq*p.ratio*t) * p.level * math.Exp(-t/decay)
			}
			mix[start+j] += s * attack * gain
		}
	}
	buf := make([]byte, total*frameBytes)
	for i, s := range mix {
		putStereo(buf, i, math.Tanh(s))
	}
	return buf
}
