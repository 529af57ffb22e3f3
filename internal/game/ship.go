package game

// Ship is the player's craft. A destroyed ship is parked off-screen while the
// respawn timer runs rather than removed.
type Ship struct {
	Body
	Heading      float64 // degrees
	Invulnerable float64 // seconds remaining
	SpeedBoost   float64 // seconds remaining
	Weapon       Weapon
	BombCooldown float64

	cfg *Config
}

// NewShip creates a ship at the center of the screen.
func NewShip(cfg *Config) *Ship {
	return &Ship{
		Body: newBody(cfg.Center(), Vec2{}, cfg.PlayerRadius),
		cfg:  cfg,
	}
}

func (s *Ship) Kind() Kind { return KindShip }

// Steer applies turning and thrust input for one frame.
func (s *Ship) Steer(in Controls, dt float64) {
	if in.TurnLeft {
		s.Heading -= s.cfg.PlayerTurnSpeed * dt
	}
	if in.TurnRight {
		s.Heading += s.cfg.PlayerTurnSpeed * dt
	}
	if in.Thrust {
		s.accelerate(dt)
	}
	if in.Brake {
		s.accelerate(-dt)
	}
}

func (s *Ship) accelerate(dt float64) {
	accel := s.cfg.PlayerAcceleration
	if s.SpeedBoost > 0 {
		accel *= s.cfg.SpeedBoostFactor
	}
	s.Vel = s.Vel.Add(Heading(s.Heading).Scale(accel * dt))
}

// Update applies friction, integrates, wraps and runs the ship's timers.
func (s *Ship) Update(dt float64) {
	s.Vel = s.Vel.Scale(s.cfg.PlayerFriction)
	if limit := s.cfg.PlayerMaxSpeed; limit > 0 {
		if speed := s.Vel.Len(); speed > limit {
			s.Vel = s.Vel.Scale(limit / speed)
		}
	}
	s.integrate(dt)
	s.wrap(s.cfg.ScreenWidth, s.cfg.ScreenHeight)

	s.Weapon.Tick(dt)
	s.Invulnerable = countdown(s.Invulnerable, dt)
	s.SpeedBoost = countdown(s.SpeedBoost, dt)
	s.BombCooldown = countdown(s.BombCooldown, dt)
}

// Triangle returns the world-space hull: nose, then the two stern corners.
func (s *Ship) Triangle() Triangle {
	forward := Heading(s.Heading)
	right := Heading(s.Heading + 90).Scale(s.Radius / 1.5)
	nose := s.Pos.Add(forward.Scale(s.Radius))
	stern := s.Pos.Sub(forward.Scale(s.Radius))
	return Triangle{nose, stern.Sub(right), stern.Add(right)}
}

// HitBy reports whether c's center lies inside the ship's hull. The ship uses
// its triangle while the other body is reduced to its center point.
func (s *Ship) HitBy(c Circle) bool {
	return PointInTriangle(c.Center, s.Triangle())
}

// Park moves the ship off-screen and stops it.
func (s *Ship) Park() {
	s.Pos = Vec2{-s.cfg.ScreenWidth, -s.cfg.ScreenHeight}
	s.Vel = Vec2{}
}

// Respawn places the ship at the screen center at rest and grants the
// respawn invulnerability window.
func (s *Ship) Respawn() {
	s.Pos = s.cfg.Center()
	s.Vel = Vec2{}
	s.Invulnerable = s.cfg.RespawnInvulnerability
}
