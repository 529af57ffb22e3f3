package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Reason tells why a run ended.
type Reason string

const (
	ReasonGameOver   Reason = "game_over"
	ReasonQuit       Reason = "quit"
	ReasonFrameLimit Reason = "frame_limit"
)

// Result summarizes a finished run. Ending a run is never an error.
type Result struct {
	Reason  Reason
	Score   int
	Frames  uint64
	Elapsed float64
}

type Options struct {
	Seed      uint64 // 0 picks a random seed
	Logger    *zap.Logger
	Telemetry Telemetry
}

// Game owns every entity and collaborator of one session. It is driven from
// a single goroutine and does no locking.
type Game struct {
	cfg  Config
	log  *zap.Logger
	tel  Telemetry
	seed uint64
	rng  *Rand

	bus     *EventBus
	state   *State
	factory *Factory
	field   *AsteroidField
	pool    *ParticlePool
	grid    *SpatialGrid[*Asteroid]

	ship      *Ship
	asteroids []*Asteroid
	shots     []*Shot
	powerups  []*PowerUp
	bombs     []*Bomb
	particles []*Particle

	frame     uint64
	elapsed   float64
	maxRadius float64
	nearby    []*Asteroid
}

// New validates cfg and builds a game with the ship at the screen center.
func New(cfg Config, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = RandomSeed()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = NopTelemetry()
	}

	g := &Game{
		cfg:   cfg,
		log:   opts.Logger,
		tel:   opts.Telemetry,
		seed:  opts.Seed,
		rng:   NewRand(opts.Seed),
		bus:   NewEventBus(),
		state: NewState(cfg.StartingLives),
		pool:  NewParticlePool(cfg.ParticlePoolSize),
		grid:  NewSpatialGrid[*Asteroid](cfg.GridCellSize),
	}
	g.factory = NewFactory(&g.cfg, g.rng, g.seed)
	g.field = NewAsteroidField(&g.cfg, g.rng, g.factory)
	g.ship = NewShip(&g.cfg)
	g.bus.SubscribeAll(g.tel.RecordEvent)
	return g, nil
}

func (g *Game) Config() Config { return g.cfg }
func (g *Game) Seed() uint64 { return g.seed }
func (g *Game) Frame() uint64 { return g.frame }
func (g *Game) Elapsed() float64 { return g.elapsed }
func (g *Game) State() *State { return g.state }
func (g *Game) Bus() *EventBus { return g.bus }
func (g *Game) Pool() *ParticlePool { return g.pool }
func (g *Game) Ship() *Ship { return g.ship }
func (g *Game) Asteroids() []*Asteroid { return g.asteroids }
func (g *Game) Shots() []*Shot { return g.shots }
func (g *Game) PowerUps() []*PowerUp { return g.powerups }
func (g *Game) Bombs() []*Bomb { return g.bombs }
func (g *Game) Particles() []*Particle { return g.particles }

// SpawnAsteroid adds an asteroid at pos outside the regular field spawner.
func (g *Game) SpawnAsteroid(pos, vel Vec2, radius float64) *Asteroid {
	a := g.factory.NewAsteroid(pos, vel, radius)
	g.asteroids = append(g.asteroids, a)
	return a
}

// SpawnPowerUp adds a power-up of the given kind at pos.
func (g *Game) SpawnPowerUp(pos Vec2, kind PowerUpKind) *PowerUp {
	p := g.factory.NewPowerUp(pos)
	p.Type = kind
	g.powerups = append(g.powerups, p)
	return p
}

func (g *Game) emit(e Event) {
	e.Frame = g.frame
	g.bus.Emit(e)
}

// Step advances the simulation by dt. It returns false once the game is over;
// no further frames run after that.
func (g *Game) Step(dt float64, in Controls) bool {
	if g.state.GameOver() {
		return false
	}
	g.frame++
	g.elapsed += dt

	if g.state.TickRespawn(dt) {
		g.ship.Respawn()
		g.emit(Event{Type: EventPlayerRespawned, X: g.ship.Pos.X, Y: g.ship.Pos.Y, Lives: g.state.Lives()})
	}
	if g.state.Active() {
		g.updateEntities(dt, in)
	}

	g.rebuildGrid()
	if g.checkShip() {
		g.compact()
		return false
	}
	g.checkShots()
	g.detonateBombs()
	g.collectPowerUps()
	g.compact()

	if n := uint64(g.cfg.SnapshotEvery); n > 0 && g.frame%n == 0 {
		g.tel.RecordSnapshot(g.Snapshot())
	}
	return true
}

func (g *Game) updateEntities(dt float64, in Controls) {
	s := g.ship
	if in.Weapon != "" && in.Weapon != s.Weapon.Kind.String() {
		if err := s.Weapon.Select(in.Weapon); err != nil {
			g.log.Warn("weapon selection rejected", zap.Error(err), zap.String("current", s.Weapon.Kind.String()))
		} else {
			g.emit(Event{Type: EventWeaponChanged, X: s.Pos.X, Y: s.Pos.Y, Kind: in.Weapon})
		}
	}

	s.Steer(in, dt)
	if in.Fire {
		if specs := s.Weapon.Trigger(s.Pos, s.Heading, &g.cfg); len(specs) > 0 {
			for _, spec := range specs {
				g.shots = append(g.shots, g.factory.NewShot(spec))
			}
			g.emit(Event{Type: EventWeaponFired, X: s.Pos.X, Y: s.Pos.Y, Kind: s.Weapon.Kind.String(), Count: len(specs)})
		}
	}
	if in.Bomb && s.BombCooldown <= 0 {
		b := g.factory.NewBomb(s.Pos)
		g.bombs = append(g.bombs, b)
		s.BombCooldown = g.cfg.BombCooldown
		g.emit(Event{Type: EventBombDropped, X: b.Pos.X, Y: b.Pos.Y, ID: b.ID})
	}
	s.Update(dt)

	for _, a := range g.asteroids {
		a.Update(dt)
	}
	for _, sh := range g.shots {
		sh.Update(dt)
	}
	for _, p := range g.powerups {
		p.Update(dt)
		if !p.Alive {
			g.emit(Event{Type: EventPowerUpExpired, X: p.Pos.X, Y: p.Pos.Y, ID: p.ID, Kind: p.Type.String()})
		}
	}
	for _, b := range g.bombs {
		b.Update(dt)
	}
	if a := g.field.Update(dt); a != nil {
		g.asteroids = append(g.asteroids, a)
		g.emit(Event{Type: EventAsteroidSpawned, X: a.Pos.X, Y: a.Pos.Y, ID: a.ID, Radius: a.Radius})
	}
	for _, p := range g.particles {
		p.Update(dt)
	}
}

func (g *Game) rebuildGrid() {
	g.grid.Clear()
	g.maxRadius = 0
	for _, a := range g.asteroids {
		if !a.Alive {
			continue
		}
		g.grid.Insert(a.Pos, a)
		if a.Radius > g.maxRadius {
			g.maxRadius = a.Radius
		}
	}
}

// checkShip resolves at most one ship death and reports whether it ended the
// game.
func (g *Game) checkShip() bool {
	s := g.ship
	if !g.state.Active() || s.Invulnerable > 0 {
		return false
	}
	// the hit test uses asteroid centers, so the query only has to cover the hull
	g.nearby = g.grid.NearbyBuf(s.Pos, s.Radius*1.5, g.nearby[:0])
	for _, a := range g.nearby {
		if !a.Alive || !s.HitBy(a.Bounds()) {
			continue
		}
		return g.killPlayer()
	}
	return false
}

func (g *Game) killPlayer() bool {
	s := g.ship
	g.explode(s.Pos)
	over := g.state.LoseLife()
	g.emit(Event{Type: EventPlayerHit, X: s.Pos.X, Y: s.Pos.Y, Lives: g.state.Lives()})
	if over {
		g.log.Info("game over", zap.Int("score", g.state.Score()), zap.Uint64("frame", g.frame))
		g.emit(Event{Type: EventGameOver, X: s.Pos.X, Y: s.Pos.Y, Points: g.state.Score()})
		return true
	}
	s.Park()
	g.state.SetRespawnTimer(g.cfg.RespawnDelay)
	return false
}

func (g *Game) checkShots() {
	for _, sh := range g.shots {
		if !sh.Alive {
			continue
		}
		g.nearby = g.grid.NearbyBuf(sh.Pos, sh.Radius+g.maxRadius, g.nearby[:0])
		for _, a := range g.nearby {
			if !a.Alive || !sh.Overlaps(&a.Body) {
				continue
			}
			g.destroyAsteroid(a)
			sh.Alive = false
			break
		}
	}
}

func (g *Game) detonateBombs() {
	for _, b := range g.bombs {
		if !b.Alive || !b.Detonated {
			continue
		}
		blast := b.Blast(g.cfg.BombBlastRadius)
		hits := 0
		g.nearby = g.grid.NearbyBuf(b.Pos, blast.Radius+g.maxRadius, g.nearby[:0])
		for _, a := range g.nearby {
			if !a.Alive || !CirclesOverlap(blast, a.Bounds()) {
				continue
			}
			g.destroyAsteroid(a)
			hits++
		}
		b.Alive = false
		g.explode(b.Pos)
		g.emit(Event{Type: EventBombDetonated, X: b.Pos.X, Y: b.Pos.Y, ID: b.ID, Radius: blast.Radius, Count: hits})
	}
}

// destroyAsteroid scores a, drops a power-up on a lucky roll and splits it.
func (g *Game) destroyAsteroid(a *Asteroid) {
	points := ScoreFor(a.Radius, &g.cfg)
	g.state.AddScore(points)
	g.emit(Event{Type: EventAsteroidShot, X: a.Pos.X, Y: a.Pos.Y, ID: a.ID, Radius: a.Radius, Points: points, Kind: Tier(a.Radius, g.cfg.AsteroidMinRadius).String()})
	g.explode(a.Pos)

	if p := g.factory.MaybePowerUp(a.Pos); p != nil {
		g.powerups = append(g.powerups, p)
		g.emit(Event{Type: EventPowerUpSpawned, X: p.Pos.X, Y: p.Pos.Y, ID: p.ID, Kind: p.Type.String()})
	}
	if children := g.factory.Split(a); len(children) > 0 {
		g.asteroids = append(g.asteroids, children...)
		g.emit(Event{Type: EventAsteroidSplit, X: a.Pos.X, Y: a.Pos.Y, ID: a.ID, Radius: children[0].Radius, Count: len(children)})
	}
}

func (g *Game) collectPowerUps() {
	if !g.state.Active() {
		return
	}
	s := g.ship
	for _, p := range g.powerups {
		if !p.Alive || !s.Overlaps(&p.Body) {
			continue
		}
		p.Apply(s, g.cfg.PowerUpDuration)
		g.emit(Event{Type: EventPowerUpCollected, X: p.Pos.X, Y: p.Pos.Y, ID: p.ID, Kind: p.Type.String()})
	}
}

// explode bursts particles at pos. When the pool runs dry the remainder are
// allocated on the heap and the shortfall is reported.
func (g *Game) explode(pos Vec2) {
	transient := 0
	for i := 0; i < g.cfg.ExplosionParticles; i++ {
		p := g.pool.Acquire()
		if p == nil {
			p = &Particle{poolIndex: -1}
			transient++
		}
		p.spark(pos, g.rng)
		g.particles = append(g.particles, p)
	}
	if transient > 0 {
		g.log.Warn("particle pool exhausted",
			zap.Int("transient", transient),
			zap.Int("pool_size", g.pool.Cap()),
			zap.Uint64("frame", g.frame))
		g.emit(Event{Type: EventParticlePoolExhausted, X: pos.X, Y: pos.Y, Count: transient})
	}
}

func (g *Game) compact() {
	g.asteroids = keepAlive(g.asteroids, func(a *Asteroid) bool { return a.Alive })
	g.shots = keepAlive(g.shots, func(s *Shot) bool { return s.Alive })
	g.powerups = keepAlive(g.powerups, func(p *PowerUp) bool { return p.Alive })
	g.bombs = keepAlive(g.bombs, func(b *Bomb) bool { return b.Alive })
	g.particles = keepAlive(g.particles, func(p *Particle) bool {
		if !p.Alive && p.Pooled() {
			g.pool.Release(p)
		}
		return p.Alive
	})
}

// keepAlive filters items in place.
func keepAlive[T any](items []T, alive func(T) bool) []T {
	n := 0
	for _, it := range items {
		if alive(it) {
			items[n] = it
			n++
		}
	}
	clear(items[n:])
	return items[:n]
}

// Snapshot captures the current state.
func (g *Game) Snapshot() Snapshot {
	s := g.ship
	n := g.cfg.SnapshotSample
	return Snapshot{
		Frame:        g.frame,
		Elapsed:      round2(g.elapsed),
		Width:        g.cfg.ScreenWidth,
		Height:       g.cfg.ScreenHeight,
		Score:        g.state.Score(),
		Lives:        g.state.Lives(),
		RespawnTimer: round2(g.state.RespawnTimer()),
		GameOver:     g.state.GameOver(),
		Ship: ShipState{
			X:            round2(s.Pos.X),
			Y:            round2(s.Pos.Y),
			VX:           round2(s.Vel.X),
			VY:           round2(s.Vel.Y),
			Radius:       s.Radius,
			Heading:      round2(s.Heading),
			Weapon:       s.Weapon.Kind.String(),
			Cooldown:     round2(max(s.Weapon.Cooldown, 0)),
			Invulnerable: round2(s.Invulnerable),
			SpeedBoost:   round2(s.SpeedBoost),
		},
		Counts: Counts{
			Asteroids: len(g.asteroids),
			Shots:     len(g.shots),
			PowerUps:  len(g.powerups),
			Bombs:     len(g.bombs),
			Particles: len(g.particles),
		},
		Asteroids: sample(g.asteroids, n, func(a *Asteroid) BodyState {
			return bodyState(a.ID, &a.Body, Tier(a.Radius, g.cfg.AsteroidMinRadius).String())
		}),
		Shots: sample(g.shots, n, func(s *Shot) BodyState { return bodyState(s.ID, &s.Body, "") }),
		PowerUps: sample(g.powerups, n, func(p *PowerUp) BodyState {
			return bodyState(p.ID, &p.Body, p.Type.String())
		}),
		Bombs: sample(g.bombs, n, func(b *Bomb) BodyState { return bodyState(b.ID, &b.Body, "") }),
	}
}

// Run drives the game at the configured tick rate until game over, a quit
// control or ctx cancellation. out may be nil.
func (g *Game) Run(ctx context.Context, in Input, out Renderer) Result {
	dt := 1.0 / float64(g.cfg.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.TickRate))
	defer ticker.Stop()

	g.log.Info("run started", zap.Uint64("seed", g.seed), zap.Int("tick_rate", g.cfg.TickRate))
	for {
		select {
		case <-ctx.Done():
			return g.finish(ReasonQuit)
		case <-ticker.C:
		}
		if r, done := g.frameOnce(dt, in, out); done {
			return r
		}
	}
}

// RunFrames steps up to frames frames back to back without pacing. It is the
// headless driver.
func (g *Game) RunFrames(ctx context.Context, in Input, out Renderer, frames int) Result {
	dt := 1.0 / float64(g.cfg.TickRate)
	g.log.Info("headless run started", zap.Uint64("seed", g.seed), zap.Int("frames", frames))
	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			return g.finish(ReasonQuit)
		}
		if r, done := g.frameOnce(dt, in, out); done {
			return r
		}
	}
	return g.finish(ReasonFrameLimit)
}

func (g *Game) frameOnce(dt float64, in Input, out Renderer) (Result, bool) {
	c := in.Poll()
	if c.Quit {
		return g.finish(ReasonQuit), true
	}
	alive := g.Step(dt, c)
	if out != nil {
		if err := out.Render(g); err != nil {
			g.log.Warn("render failed", zap.Error(err))
		}
	}
	if !alive {
		return g.finish(ReasonGameOver), true
	}
	return Result{}, false
}

func (g *Game) finish(reason Reason) Result {
	g.tel.RecordSnapshot(g.Snapshot())
	r := Result{
		Reason:  reason,
		Score:   g.state.Score(),
		Frames:  g.frame,
		Elapsed: g.elapsed,
	}
	g.log.Info("run finished",
		zap.String("reason", string(reason)),
		zap.Int("score", r.Score),
		zap.Uint64("frames", r.Frames),
		zap.Float64("elapsed", r.Elapsed))
	return r
}
