package game

import "fmt"

// Kind tags the closed set of entity variants.
type Kind uint8

const (
	KindShip Kind = iota
	KindAsteroid
	KindShot
	KindPowerUp
	KindBomb
	KindParticle
)

var kindNames = [...]string{"ship", "asteroid", "shot", "powerup", "bomb", "particle"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Entity is the capability every variant exposes to the loop.
type Entity interface {
	Kind() Kind
	Update(dt float64)
	Bounds() Circle
}

// Body is the circular hit volume shared by the gameplay entities.
// Radius is fixed for the lifetime of the body.
type Body struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
}

func newBody(pos, vel Vec2, radius float64) Body {
	if !(radius > 0) {
		panic(fmt.Sprintf("game: body radius must be positive, got %v", radius))
	}
	return Body{Pos: pos, Vel: vel, Radius: radius}
}

// Bounds returns the body's circle.
func (b *Body) Bounds() Circle {
	return Circle{Center: b.Pos, Radius: b.Radius}
}

// Overlaps is the circle-circle narrow-phase test.
func (b *Body) Overlaps(o *Body) bool {
	return CirclesOverlap(b.Bounds(), o.Bounds())
}

// integrate advances the position by one explicit Euler step.
func (b *Body) integrate(dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}

// wrap applies toroidal screen wrap to both axes.
func (b *Body) wrap(w, h float64) {
	b.Pos.X = Wrap(b.Pos.X, w)
	b.Pos.Y = Wrap(b.Pos.Y, h)
}

var (
	_ Entity = (*Ship)(nil)
	_ Entity = (*Asteroid)(nil)
	_ Entity = (*Shot)(nil)
	_ Entity = (*PowerUp)(nil)
	_ Entity = (*Bomb)(nil)
	_ Entity = (*Particle)(nil)
)
