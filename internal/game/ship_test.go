package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShip() *Ship {
	cfg := DefaultConfig()
	return NewShip(&cfg)
}

func TestShipFrictionBeforeIntegration(t *testing.T) {
	s := newTestShip()
	s.Vel = Vec2{0, 100}
	s.Update(0.1)

	assert.InDelta(t, 99, s.Vel.Y, 1e-9)
	assert.InDelta(t, 360+9.9, s.Pos.Y, 1e-9)
}

func TestShipThrustAndBoost(t *testing.T) {
	s := newTestShip()
	s.Steer(Controls{Thrust: true}, 0.1)
	assert.InDelta(t, 30, s.Vel.Y, 1e-9)

	s.Vel = Vec2{}
	s.SpeedBoost = 1
	s.Steer(Controls{Thrust: true}, 0.1)
	assert.InDelta(t, 45, s.Vel.Y, 1e-9)

	s.Vel = Vec2{}
	s.SpeedBoost = 0
	s.Steer(Controls{Brake: true}, 0.1)
	assert.InDelta(t, -30, s.Vel.Y, 1e-9)
}

func TestShipTurning(t *testing.T) {
	s := newTestShip()
	s.Steer(Controls{TurnRight: true}, 0.5)
	assert.InDelta(t, 150, s.Heading, 1e-9)
	s.Steer(Controls{TurnLeft: true}, 0.25)
	assert.InDelta(t, 75, s.Heading, 1e-9)
}

func TestShipSpeedCap(t *testing.T) {
	s := newTestShip()
	s.cfg.PlayerMaxSpeed = 450
	s.Vel = Vec2{1000, 0}
	s.Update(0.01)
	assert.InDelta(t, s.cfg.PlayerMaxSpeed, s.Vel.Len(), 1e-9)
}

func TestShipUncappedByDefault(t *testing.T) {
	s := newTestShip()
	require.Zero(t, s.cfg.PlayerMaxSpeed)
	s.SpeedBoost = 1e9
	dt := 1.0 / 60
	for i := 0; i < 2000; i++ {
		s.Steer(Controls{Thrust: true}, dt)
		s.Update(dt)
	}
	// v = friction * (v + accel*boost*dt) settles at 0.99*7.5/0.01
	assert.InDelta(t, 742.5, s.Vel.Len(), 0.5)
}

func TestShipWraps(t *testing.T) {
	s := newTestShip()
	s.Pos = Vec2{1279, 1}
	s.Vel = Vec2{200, -200}
	s.Update(0.1)
	assert.True(t, s.Pos.X >= 0 && s.Pos.X < 1280)
	assert.True(t, s.Pos.Y >= 0 && s.Pos.Y < 720)
	assert.Less(t, s.Pos.X, 100.0)
	assert.Greater(t, s.Pos.Y, 600.0)
}

func TestShipTriangleHitbox(t *testing.T) {
	s := newTestShip()
	s.Pos = Vec2{100, 100}

	tri := s.Triangle()
	assert.InDelta(t, 120, tri[0].Y, 1e-9, "nose points along +Y at heading 0")

	assert.True(t, s.HitBy(Circle{Center: Vec2{100, 100}, Radius: 1}))
	assert.True(t, s.HitBy(Circle{Center: Vec2{100, 119}, Radius: 1}))
	assert.False(t, s.HitBy(Circle{Center: Vec2{100, 125}, Radius: 1}))
	// a big circle overlapping the hull does not count unless its center is inside
	assert.False(t, s.HitBy(Circle{Center: Vec2{140, 100}, Radius: 60}))

	s.Heading = 180
	assert.True(t, s.HitBy(Circle{Center: Vec2{100, 81}, Radius: 1}))
	assert.False(t, s.HitBy(Circle{Center: Vec2{100, 121}, Radius: 1}))
	assert.False(t, s.HitBy(Circle{Center: Vec2{100, 79}, Radius: 1}))
}

func TestShipTimersCountDown(t *testing.T) {
	s := newTestShip()
	s.Invulnerable = 0.05
	s.SpeedBoost = 1
	s.BombCooldown = 0.5
	s.Update(0.1)
	assert.Zero(t, s.Invulnerable)
	assert.InDelta(t, 0.9, s.SpeedBoost, 1e-9)
	assert.InDelta(t, 0.4, s.BombCooldown, 1e-9)
}

func TestShipParkAndRespawn(t *testing.T) {
	s := newTestShip()
	s.Vel = Vec2{10, 10}
	s.Weapon.Cooldown = 0.2
	s.Park()
	assert.Less(t, s.Pos.X, 0.0)
	assert.Less(t, s.Pos.Y, 0.0)
	assert.Zero(t, s.Vel)

	s.Respawn()
	assert.Equal(t, s.cfg.Center(), s.Pos)
	assert.Zero(t, s.Vel)
	assert.Equal(t, s.cfg.RespawnInvulnerability, s.Invulnerable)
	assert.Equal(t, 0.2, s.Weapon.Cooldown, "respawn keeps the weapon state")
}
