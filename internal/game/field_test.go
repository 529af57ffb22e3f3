package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTimer(t *testing.T) {
	cfg := DefaultConfig()
	rng := NewRand(4)
	field := NewAsteroidField(&cfg, rng, NewFactory(&cfg, rng, 4))

	assert.Nil(t, field.Update(0.5))
	assert.NotNil(t, field.Update(0.5))
	assert.Nil(t, field.Update(0.5), "timer resets after a spawn")
	assert.NotNil(t, field.Update(0.5))
}

func TestFieldSpawnsInwardFromOffscreen(t *testing.T) {
	cfg := DefaultConfig()
	rng := NewRand(11)
	field := NewAsteroidField(&cfg, rng, NewFactory(&cfg, rng, 11))
	radii := map[float64]bool{20: true, 40: true, 60: true}

	for i := 0; i < 500; i++ {
		a := field.Spawn()
		require.True(t, a.Alive)
		assert.True(t, radii[a.Radius], "radius %v", a.Radius)

		offscreen := a.Pos.X < 0 || a.Pos.X >= cfg.ScreenWidth || a.Pos.Y < 0 || a.Pos.Y >= cfg.ScreenHeight
		assert.True(t, offscreen, "spawned at %v", a.Pos)
		assert.NotEqual(t, axisNone, a.entry)

		speed := a.Vel.Len()
		assert.True(t, speed >= cfg.AsteroidMinSpeed && speed <= cfg.AsteroidMaxSpeed, "speed %v", speed)

		// the inward component is positive for every edge
		var inward float64
		switch {
		case a.Pos.X < 0:
			inward = a.Vel.X
		case a.Pos.X >= cfg.ScreenWidth:
			inward = -a.Vel.X
		case a.Pos.Y < 0:
			inward = a.Vel.Y
		default:
			inward = -a.Vel.Y
		}
		assert.Greater(t, inward, 0.0)
	}
}
