package game

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Size tiers used for scoring.
type SizeTier uint8

const (
	TierSmall SizeTier = iota
	TierMedium
	TierLarge
)

func (t SizeTier) String() string {
	switch t {
	case TierSmall:
		return "small"
	case TierMedium:
		return "medium"
	default:
		return "large"
	}
}

// Asteroid drifts in a straight line and wraps at the screen edges. Its
// outline is for drawing only; collisions use the circle.
type Asteroid struct {
	ID uint64
	Body
	Vertices []Vec2 // outline offsets from Pos
	Alive    bool

	screen Vec2
	entry  axis // axis the asteroid is still entering along, if any
}

type axis uint8

const (
	axisNone axis = iota
	axisX
	axisY
)

func (a *Asteroid) Kind() Kind { return KindAsteroid }

// Update moves the asteroid one tick
func (a *Asteroid) Update(dt float64) {
	if !a.Alive {
		return
	}
	a.integrate(dt)
	switch a.entry {
	case axisX:
		a.Pos.Y = Wrap(a.Pos.Y, a.screen.Y)
		if a.Pos.X >= 0 && a.Pos.X < a.screen.X {
			a.entry = axisNone
		}
	case axisY:
		a.Pos.X = Wrap(a.Pos.X, a.screen.X)
		if a.Pos.Y >= 0 && a.Pos.Y < a.screen.Y {
			a.entry = axisNone
		}
	default:
		a.wrap(a.screen.X, a.screen.Y)
	}
}

// Tier classifies a radius: up to one minimum radius is small, up to two is
// medium, anything larger is large.
func Tier(radius, minRadius float64) SizeTier {
	switch {
	case radius <= minRadius:
		return TierSmall
	case radius <= 2*minRadius:
		return TierMedium
	default:
		return TierLarge
	}
}

// ScoreFor returns the points for destroying an asteroid of the given radius.
func ScoreFor(radius float64, cfg *Config) int {
	switch Tier(radius, cfg.AsteroidMinRadius) {
	case TierSmall:
		return cfg.ScoreSmall
	case TierMedium:
		return cfg.ScoreMedium
	default:
		return cfg.ScoreLarge
	}
}

// SplitVelocities returns the two child velocities for a split at angle
// degrees: the parent velocity turned by +angle and -angle, scaled by 1.2.
func SplitVelocities(parent Vec2, angle float64) (Vec2, Vec2) {
	return parent.Rotate(angle).Scale(1.2), parent.Rotate(-angle).Scale(1.2)
}

// outlineSeed derives a per-asteroid seed so the outline is a pure function
// of the run seed and the asteroid id.
func outlineSeed(runSeed, id uint64) uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], runSeed)
	binary.LittleEndian.PutUint64(b[8:], id)
	return xxhash.Sum64(b[:])
}

// outline samples n jittered points around a circle of the given radius.
func outline(seed uint64, radius float64, n int) []Vec2 {
	r := NewRand(seed)
	pts := make([]Vec2, n)
	step := 2 * math.Pi / float64(n)
	for i := range pts {
		ang := float64(i)*step + r.Range(-0.3, 0.3)*step
		dist := radius * r.Range(0.75, 1.1)
		pts[i] = Vec2{math.Cos(ang) * dist, math.Sin(ang) * dist}
	}
	return pts
}
