package game

import "fmt"

// PowerUpKind selects the effect a power-up grants.
type PowerUpKind uint8

const (
	PowerUpShield PowerUpKind = iota
	PowerUpSpeed
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpShield:
		return "shield"
	case PowerUpSpeed:
		return "speed"
	default:
		return fmt.Sprintf("powerup(%d)", k)
	}
}

// PowerUp is a collectible left behind by destroyed asteroids.
type PowerUp struct {
	ID uint64
	Body
	Type  PowerUpKind
	Life  float64
	Alive bool

	screen Vec2
}

func (p *PowerUp) Kind() Kind { return KindPowerUp }

// Update ticks down the pickup lifetime
func (p *PowerUp) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.integrate(dt)
	p.wrap(p.screen.X, p.screen.Y)
	p.Life -= dt
	if p.Life <= 0 {
		p.Alive = false
	}
}

// Apply grants the effect to the ship for duration seconds and consumes the
// power-up.
func (p *PowerUp) Apply(s *Ship, duration float64) {
	switch p.Type {
	case PowerUpShield:
		s.Invulnerable = duration
	case PowerUpSpeed:
		s.SpeedBoost = duration
	}
	p.Alive = false
}
