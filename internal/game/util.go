package game

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// Rand is a xorshift64 generator. Every game owns one, so a run replays
// exactly from its seed.
type Rand struct {
	s uint64
}

// NewRand returns a generator for seed. A zero seed is replaced with a fixed
// non-zero constant since xorshift never leaves the zero state.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Rand{s: seed}
}

// RandomSeed returns a non-zero seed from crypto/rand.
func RandomSeed() uint64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	s := binary.LittleEndian.Uint64(b[:])
	if s == 0 {
		s = 1
	}
	return s
}

func (r *Rand) next() uint64 {
	r.s ^= r.s << 13
	r.s ^= r.s >> 7
	r.s ^= r.s << 17
	return r.s
}

// Uint64 returns the next raw value.
func (r *Rand) Uint64() uint64 { return r.next() }

// Float returns a value in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Range returns a value in [lo, hi).
func (r *Rand) Range(lo, hi float64) float64 {
	return lo + r.Float()*(hi-lo)
}

// IntRange returns an integer in [lo, hi], both ends included.
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(r.next()%uint64(hi-lo+1))
}

// Chance reports true with probability p.
func (r *Rand) Chance(p float64) bool {
	return r.Float() < p
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Wrap reduces v into [0, d).
func Wrap(v, d float64) float64 {
	r := math.Mod(v, d)
	if r < 0 {
		r += d
	}
	// r+d can round up to d for tiny negative r
	if r >= d {
		r = 0
	}
	return r
}

// countdown subtracts dt from a timer without going below zero.
func countdown(t, dt float64) float64 {
	t -= dt
	if t < 0 {
		return 0
	}
	return t
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
