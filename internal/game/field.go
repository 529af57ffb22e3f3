package game

// AsteroidField spawns asteroids just outside a random screen edge on a fixed
// interval.
type AsteroidField struct {
	cfg     *Config
	rng     *Rand
	factory *Factory
	timer   float64
}

func NewAsteroidField(cfg *Config, rng *Rand, f *Factory) *AsteroidField {
	return &AsteroidField{cfg: cfg, rng: rng, factory: f}
}

type edge struct {
	dir  Vec2                 // inward unit normal
	at   func(t float64) Vec2 // t in [0,1) along the edge
	axis axis
}

func (af *AsteroidField) edges() [4]edge {
	w, h := af.cfg.ScreenWidth, af.cfg.ScreenHeight
	off := af.cfg.AsteroidMaxRadius()
	return [4]edge{
		{Vec2{1, 0}, func(t float64) Vec2 { return Vec2{-off, t * h} }, axisX},
		{Vec2{-1, 0}, func(t float64) Vec2 { return Vec2{w + off, t * h} }, axisX},
		{Vec2{0, 1}, func(t float64) Vec2 { return Vec2{t * w, -off} }, axisY},
		{Vec2{0, -1}, func(t float64) Vec2 { return Vec2{t * w, h + off} }, axisY},
	}
}

// Update advances the spawn timer and returns the spawned asteroid, or nil.
func (af *AsteroidField) Update(dt float64) *Asteroid {
	af.timer += dt
	if af.timer <= af.cfg.AsteroidSpawnInterval {
		return nil
	}
	af.timer = 0
	return af.Spawn()
}

// Spawn creates one asteroid at a random edge heading inward.
func (af *AsteroidField) Spawn() *Asteroid {
	e := af.edges()[af.rng.IntRange(0, 3)]
	speed := af.rng.Range(af.cfg.AsteroidMinSpeed, af.cfg.AsteroidMaxSpeed)
	vel := e.dir.Scale(speed).Rotate(af.rng.Range(-30, 30))
	pos := e.at(af.rng.Float())
	radius := af.cfg.AsteroidMinRadius * float64(af.rng.IntRange(1, af.cfg.AsteroidKinds))
	a := af.factory.NewAsteroid(pos, vel, radius)
	a.entry = e.axis
	return a
}
