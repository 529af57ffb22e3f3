package game

// Factory builds every entity of a run. It owns the id counter and draws all
// randomness from the game's generator.
type Factory struct {
	cfg    *Config
	rng    *Rand
	seed   uint64
	nextID uint64
}

func NewFactory(cfg *Config, rng *Rand, seed uint64) *Factory {
	return &Factory{cfg: cfg, rng: rng, seed: seed}
}

func (f *Factory) id() uint64 {
	f.nextID++
	return f.nextID
}

func (f *Factory) screen() Vec2 {
	return Vec2{f.cfg.ScreenWidth, f.cfg.ScreenHeight}
}

// NewShot creates a live shot from a weapon's spec.
func (f *Factory) NewShot(s ShotSpec) *Shot {
	return &Shot{
		ID:     f.id(),
		Body:   newBody(s.Pos, s.Vel, f.cfg.ShotRadius),
		Life:   shotLife(f.cfg),
		Alive:  true,
		screen: f.screen(),
	}
}

// NewAsteroid creates a live asteroid with its outline.
func (f *Factory) NewAsteroid(pos, vel Vec2, radius float64) *Asteroid {
	id := f.id()
	return &Asteroid{
		ID:       id,
		Body:     newBody(pos, vel, radius),
		Vertices: outline(outlineSeed(f.seed, id), radius, f.cfg.AsteroidVertices),
		Alive:    true,
		screen:   f.screen(),
	}
}

// Split kills a and returns its children. An asteroid at or below the minimum
// radius has none; a larger one yields two of radius R-min whose velocities
// are the parent's turned by +θ and -θ, θ drawn from [20,50] degrees.
func (f *Factory) Split(a *Asteroid) []*Asteroid {
	a.Alive = false
	minR := f.cfg.AsteroidMinRadius
	if a.Radius <= minR {
		return nil
	}
	angle := f.rng.Range(20, 50)
	v1, v2 := SplitVelocities(a.Vel, angle)
	r := a.Radius - minR
	children := []*Asteroid{
		f.NewAsteroid(a.Pos, v1, r),
		f.NewAsteroid(a.Pos, v2, r),
	}
	for _, c := range children {
		c.entry = a.entry
	}
	return children
}

// NewPowerUp creates a stationary power-up of a random kind at pos.
func (f *Factory) NewPowerUp(pos Vec2) *PowerUp {
	kind := PowerUpShield
	if f.rng.Chance(0.5) {
		kind = PowerUpSpeed
	}
	return &PowerUp{
		ID:     f.id(),
		Body:   newBody(pos, Vec2{}, f.cfg.PowerUpRadius),
		Type:   kind,
		Life:   f.cfg.PowerUpLifetime,
		Alive:  true,
		screen: f.screen(),
	}
}

// MaybePowerUp rolls the drop chance and returns nil on a miss.
func (f *Factory) MaybePowerUp(pos Vec2) *PowerUp {
	if !f.rng.Chance(f.cfg.PowerUpChance) {
		return nil
	}
	return f.NewPowerUp(pos)
}

// NewBomb creates an armed bomb at pos.
func (f *Factory) NewBomb(pos Vec2) *Bomb {
	return &Bomb{
		ID:    f.id(),
		Body:  newBody(pos, Vec2{}, f.cfg.BombRadius),
		Fuse:  f.cfg.BombFuse,
		Alive: true,
	}
}
