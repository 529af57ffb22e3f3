package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const testDT = 1.0 / 60

// quietConfig disables the field spawner and power-up drops so a test
// controls every entity.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.AsteroidSpawnInterval = 1e9
	cfg.PowerUpChance = 0
	return cfg
}

func newTestGame(t *testing.T, cfg Config) *Game {
	t.Helper()
	g, err := New(cfg, Options{Seed: 1})
	require.NoError(t, err)
	return g
}

type recordingTelemetry struct {
	events    []Event
	snapshots []Snapshot
}

func (r *recordingTelemetry) RecordEvent(e Event)       { r.events = append(r.events, e) }
func (r *recordingTelemetry) RecordSnapshot(s Snapshot) { r.snapshots = append(r.snapshots, s) }

func (r *recordingTelemetry) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type scriptedInput []Controls

func (s *scriptedInput) Poll() Controls {
	if len(*s) == 0 {
		return Controls{}
	}
	c := (*s)[0]
	*s = (*s)[1:]
	return c
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PlayerFriction = 1.5
	cfg.GridCellSize = 0
	_, err := New(cfg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "player_friction")
	assert.Contains(t, err.Error(), "grid_cell_size")
}

func TestApproachingAsteroidKillsShip(t *testing.T) {
	cfg := quietConfig()
	g := newTestGame(t, cfg)
	center := cfg.Center()
	maxR := cfg.AsteroidMaxRadius()
	a := g.SpawnAsteroid(Vec2{center.X, center.Y - 300}, Vec2{0, 100}, maxR)
	reach := g.Ship().Radius + maxR

	died := false
	for i := 0; i < 600 && !died; i++ {
		require.True(t, g.Step(testDT, Controls{}))
		if g.State().Lives() < cfg.StartingLives {
			died = true
			break
		}
	}
	require.True(t, died, "ship never died")
	assert.Less(t, a.Pos.Dist(center), reach)
	assert.Equal(t, cfg.StartingLives-1, g.State().Lives())
	assert.Equal(t, 2.0, g.State().RespawnTimer())
	assert.False(t, g.State().Active())
	assert.Less(t, g.Ship().Pos.X, 0.0, "dead ship is parked off-screen")
}

func TestRespawnSequence(t *testing.T) {
	cfg := quietConfig()
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	center := cfg.Center()
	a := g.SpawnAsteroid(Vec2{center.X, center.Y - 200}, Vec2{0, 100}, 60)

	for g.State().Active() {
		require.True(t, g.Step(testDT, Controls{}))
	}
	frozenAt := a.Pos

	waited := 0
	for !g.State().Active() {
		require.True(t, g.Step(testDT, Controls{}))
		waited++
		if !g.State().Active() {
			assert.Equal(t, frozenAt, a.Pos, "the world holds still during the respawn wait")
			assert.Less(t, g.Ship().Pos.X, 0.0)
		}
	}
	assert.Equal(t, 120, waited)

	s := g.Ship()
	assert.Equal(t, center, s.Pos)
	assert.Zero(t, s.Vel)
	assert.InDelta(t, cfg.RespawnInvulnerability, s.Invulnerable, testDT+1e-9)
	assert.Equal(t, 1, tel.count(EventPlayerHit))
	assert.Equal(t, 1, tel.count(EventPlayerRespawned))
}

func TestInvulnerableShipSurvives(t *testing.T) {
	cfg := quietConfig()
	g := newTestGame(t, cfg)
	g.Ship().Invulnerable = 100
	g.SpawnAsteroid(cfg.Center(), Vec2{}, 60)

	for i := 0; i < 30; i++ {
		require.True(t, g.Step(testDT, Controls{}))
	}
	assert.Equal(t, cfg.StartingLives, g.State().Lives())
}

func TestGameOverEndsRun(t *testing.T) {
	cfg := quietConfig()
	cfg.StartingLives = 1
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	g.SpawnAsteroid(cfg.Center(), Vec2{}, 40)

	assert.False(t, g.Step(testDT, Controls{}))
	assert.True(t, g.State().GameOver())
	assert.Zero(t, g.State().Lives())
	assert.Equal(t, 1, tel.count(EventGameOver))

	frame := g.Frame()
	assert.False(t, g.Step(testDT, Controls{}))
	assert.Equal(t, frame, g.Frame(), "no frames run after game over")
}

func TestRunReportsGameOver(t *testing.T) {
	cfg := quietConfig()
	cfg.StartingLives = 1
	g := newTestGame(t, cfg)
	g.SpawnAsteroid(cfg.Center(), Vec2{}, 40)

	in := &scriptedInput{}
	res := g.RunFrames(context.Background(), in, nil, 100)
	assert.Equal(t, ReasonGameOver, res.Reason)
	assert.Equal(t, uint64(1), res.Frames)
}

func TestRunStopsOnQuit(t *testing.T) {
	cfg := quietConfig()
	g := newTestGame(t, cfg)
	in := &scriptedInput{{}, {}, {Quit: true}}

	res := g.RunFrames(context.Background(), in, nil, 100)
	assert.Equal(t, ReasonQuit, res.Reason)
	assert.Equal(t, uint64(2), res.Frames)
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newTestGame(t, quietConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := g.Run(ctx, &scriptedInput{}, nil)
	assert.Equal(t, ReasonQuit, res.Reason)
	assert.Zero(t, res.Frames)
}

func TestShotDestroysSmallAsteroid(t *testing.T) {
	cfg := quietConfig()
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	center := cfg.Center()
	g.SpawnAsteroid(Vec2{center.X, center.Y + 100}, Vec2{}, cfg.AsteroidMinRadius)

	require.True(t, g.Step(testDT, Controls{Fire: true}))
	assert.Len(t, g.Shots(), 1)
	for i := 0; i < 30; i++ {
		require.True(t, g.Step(testDT, Controls{}))
	}

	assert.Equal(t, cfg.ScoreSmall, g.State().Score())
	assert.Empty(t, g.Asteroids())
	assert.Empty(t, g.Shots())
	assert.Equal(t, 1, tel.count(EventAsteroidShot))
	assert.Equal(t, 0, tel.count(EventAsteroidSplit))
	assert.NotEmpty(t, g.Particles())
}

func TestShotSplitsMediumAsteroidOnce(t *testing.T) {
	cfg := quietConfig()
	g := newTestGame(t, cfg)
	center := cfg.Center()
	g.SpawnAsteroid(Vec2{center.X, center.Y + 100}, Vec2{}, 2*cfg.AsteroidMinRadius)

	require.True(t, g.Step(testDT, Controls{Fire: true}))
	for i := 0; i < 20; i++ {
		require.True(t, g.Step(testDT, Controls{}))
	}

	assert.Equal(t, cfg.ScoreMedium, g.State().Score(), "one shot destroys at most one asteroid")
	require.Len(t, g.Asteroids(), 2)
	for _, a := range g.Asteroids() {
		assert.Equal(t, cfg.AsteroidMinRadius, a.Radius)
	}
	assert.Empty(t, g.Shots())
}

func TestPowerUpDrop(t *testing.T) {
	cfg := quietConfig()
	cfg.PowerUpChance = 1
	g := newTestGame(t, cfg)
	center := cfg.Center()
	target := Vec2{center.X, center.Y + 100}
	g.SpawnAsteroid(target, Vec2{}, cfg.AsteroidMinRadius)

	g.Step(testDT, Controls{Fire: true})
	for i := 0; i < 20; i++ {
		g.Step(testDT, Controls{})
	}
	require.Len(t, g.PowerUps(), 1)
	assert.Equal(t, target, g.PowerUps()[0].Pos)
}

func TestCollectPowerUps(t *testing.T) {
	cfg := quietConfig()
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	at := cfg.Center().Add(Vec2{0, 20})

	g.SpawnPowerUp(at, PowerUpShield)
	require.True(t, g.Step(testDT, Controls{}))
	assert.Equal(t, cfg.PowerUpDuration, g.Ship().Invulnerable)
	assert.Empty(t, g.PowerUps())

	g.SpawnPowerUp(at, PowerUpSpeed)
	require.True(t, g.Step(testDT, Controls{}))
	assert.Equal(t, cfg.PowerUpDuration, g.Ship().SpeedBoost)
	assert.Equal(t, 2, tel.count(EventPowerUpCollected))
}

func TestPowerUpExpires(t *testing.T) {
	cfg := quietConfig()
	cfg.PowerUpLifetime = 0.1
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	g.SpawnPowerUp(Vec2{50, 50}, PowerUpSpeed)

	for i := 0; i < 10; i++ {
		g.Step(testDT, Controls{})
	}
	assert.Empty(t, g.PowerUps())
	assert.Equal(t, 1, tel.count(EventPowerUpExpired))
	assert.Zero(t, g.Ship().SpeedBoost)
}

func TestBombClearsNearbyAsteroids(t *testing.T) {
	cfg := quietConfig()
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	center := cfg.Center()
	g.SpawnAsteroid(center.Add(Vec2{100, 0}), Vec2{}, cfg.AsteroidMinRadius)
	far := g.SpawnAsteroid(center.Add(Vec2{400, 0}), Vec2{}, cfg.AsteroidMinRadius)

	require.True(t, g.Step(testDT, Controls{Bomb: true}))
	require.Len(t, g.Bombs(), 1)
	g.Step(testDT, Controls{Bomb: true})
	assert.Len(t, g.Bombs(), 1, "bomb cooldown blocks a second drop")

	for i := 0; i < 100; i++ {
		g.Step(testDT, Controls{})
	}
	assert.Empty(t, g.Bombs())
	assert.Equal(t, []*Asteroid{far}, g.Asteroids())
	assert.Equal(t, cfg.ScoreSmall, g.State().Score())
	require.Equal(t, 1, tel.count(EventBombDetonated))
	for _, e := range tel.events {
		if e.Type == EventBombDetonated {
			assert.Equal(t, 1, e.Count)
		}
	}
}

func TestParticlePoolFallbackIsReported(t *testing.T) {
	cfg := quietConfig()
	cfg.ParticlePoolSize = 5
	cfg.ExplosionParticles = 20
	core, logs := observer.New(zap.WarnLevel)
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Logger: zap.New(core), Telemetry: tel})
	require.NoError(t, err)
	center := cfg.Center()
	g.SpawnAsteroid(Vec2{center.X, center.Y + 100}, Vec2{}, cfg.AsteroidMinRadius)

	g.Step(testDT, Controls{Fire: true})
	for i := 0; i < 15; i++ {
		g.Step(testDT, Controls{})
	}

	assert.Equal(t, cfg.ScoreSmall, g.State().Score())
	assert.Equal(t, 1, logs.FilterMessage("particle pool exhausted").Len())
	require.Equal(t, 1, tel.count(EventParticlePoolExhausted))
	assert.Zero(t, g.Pool().Available())

	// particles return to the pool once they die
	for i := 0; i < 90; i++ {
		g.Step(testDT, Controls{})
	}
	assert.Empty(t, g.Particles())
	assert.Equal(t, 5, g.Pool().Available())
}

func TestUnknownWeaponIsRejected(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	tel := &recordingTelemetry{}
	g, err := New(quietConfig(), Options{Seed: 1, Logger: zap.New(core), Telemetry: tel})
	require.NoError(t, err)

	g.Step(testDT, Controls{Weapon: "laser"})
	assert.Equal(t, WeaponNormal, g.Ship().Weapon.Kind)
	assert.Equal(t, 1, logs.FilterMessage("weapon selection rejected").Len())

	g.Step(testDT, Controls{Weapon: "spread", Fire: true})
	assert.Equal(t, WeaponSpread, g.Ship().Weapon.Kind)
	assert.Len(t, g.Shots(), 3)
	assert.Equal(t, 1, tel.count(EventWeaponChanged))
}

func TestSnapshotCadence(t *testing.T) {
	cfg := quietConfig()
	cfg.SnapshotEvery = 10
	cfg.SnapshotSample = 2
	tel := &recordingTelemetry{}
	g, err := New(cfg, Options{Seed: 1, Telemetry: tel})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		g.SpawnAsteroid(Vec2{float64(100 + i*50), 50}, Vec2{10, 0}, 20)
	}

	res := g.RunFrames(context.Background(), &scriptedInput{}, nil, 25)
	assert.Equal(t, ReasonFrameLimit, res.Reason)
	require.Len(t, tel.snapshots, 3, "two on cadence and one at the end")

	s := tel.snapshots[0]
	assert.Equal(t, uint64(10), s.Frame)
	assert.Equal(t, 5, s.Counts.Asteroids)
	assert.Len(t, s.Asteroids, 2)
	assert.Equal(t, cfg.StartingLives, s.Lives)
	assert.Equal(t, "normal", s.Ship.Weapon)
	assert.Equal(t, uint64(25), tel.snapshots[2].Frame)
}

func TestSameSeedReplaysIdentically(t *testing.T) {
	run := func() (Result, Snapshot) {
		cfg := DefaultConfig()
		g, err := New(cfg, Options{Seed: 2024})
		require.NoError(t, err)
		res := g.RunFrames(context.Background(), NewAutopilot(g, 9), nil, 1200)
		return res, g.Snapshot()
	}
	r1, s1 := run()
	r2, s2 := run()
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s2)
	assert.Positive(t, r1.Frames)
}
