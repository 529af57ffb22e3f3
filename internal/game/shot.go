package game

import "math"

// Shot is a projectile. It dies on its first asteroid hit or when its
// lifetime runs out.
type Shot struct {
	ID uint64
	Body
	Life  float64
	Alive bool

	screen Vec2
}

func (s *Shot) Kind() Kind { return KindShot }

func shotLife(cfg *Config) float64 {
	if cfg.ShotLifetime <= 0 {
		return math.Inf(1)
	}
	return cfg.ShotLifetime
}

// Update moves the shot one tick
func (s *Shot) Update(dt float64) {
	if !s.Alive {
		return
	}
	s.integrate(dt)
	s.wrap(s.screen.X, s.screen.Y)
	s.Life -= dt
	if s.Life <= 0 {
		s.Alive = false
	}
}
