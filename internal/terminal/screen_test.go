package terminal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"asteroids/internal/game"
)

func newSim(t *testing.T, opts Options, log *zap.Logger) (*Screen, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	s, err := New(sim, opts, log)
	require.NoError(t, err)
	sim.SetSize(80, 25)
	t.Cleanup(s.Close)
	return s, sim
}

func row(scr tcell.Screen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := scr.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func TestKeysHeldWithinWindow(t *testing.T) {
	s, _ := newSim(t, Options{HoldWindow: 100 * time.Millisecond}, nil)
	now := time.Unix(1000, 0)
	s.now = func() time.Time { return now }

	s.handleKey(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	s.handleKey(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))

	c := s.Poll()
	assert.True(t, c.Thrust)
	assert.True(t, c.TurnLeft)
	assert.True(t, c.Fire)
	assert.False(t, c.TurnRight)
	assert.False(t, c.Brake)

	now = now.Add(150 * time.Millisecond)
	c = s.Poll()
	assert.False(t, c.Thrust)
	assert.False(t, c.Fire)
}

func TestWeaponSelectionDeliveredOnce(t *testing.T) {
	s, _ := newSim(t, Options{}, nil)
	s.handleKey(tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone))

	assert.Equal(t, "spread", s.Poll().Weapon)
	assert.Empty(t, s.Poll().Weapon)
}

func TestQuitIsSticky(t *testing.T) {
	s, _ := newSim(t, Options{}, nil)
	s.handleKey(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))

	assert.True(t, s.Poll().Quit)
	assert.True(t, s.Poll().Quit)
}

func TestRenderDrawsHUDAndWorld(t *testing.T) {
	s, sim := newSim(t, Options{}, nil)
	cfg := game.DefaultConfig()
	cfg.AsteroidSpawnInterval = 1e9
	g, err := game.New(cfg, game.Options{Seed: 7})
	require.NoError(t, err)
	g.SpawnAsteroid(game.Vec2{X: 200, Y: 200}, game.Vec2{}, 40)

	require.NoError(t, s.Render(g))

	hud := row(sim, 0, 80)
	assert.Contains(t, hud, "SCORE 0")
	assert.Contains(t, hud, "LIVES 3")
	assert.Contains(t, hud, "WEAPON normal")

	var found bool
	for y := 1; y < 25 && !found; y++ {
		found = strings.ContainsRune(row(sim, y, 80), '#')
	}
	assert.True(t, found, "asteroid outline drawn")
}

func TestMissingBackgroundFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s, _ := newSim(t, Options{Background: filepath.Join(t.TempDir(), "missing.txt")}, zap.New(core))

	assert.Nil(t, s.background)
	assert.Equal(t, 1, logs.FilterMessage("background unavailable, using flat fill").Len())
}

func TestBackgroundLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stars.txt")
	require.NoError(t, os.WriteFile(path, []byte("  .   *\n*    .\n"), 0o644))
	s, sim := newSim(t, Options{Background: path}, nil)
	require.Len(t, s.background, 2)

	cfg := game.DefaultConfig()
	cfg.AsteroidSpawnInterval = 1e9
	g, err := game.New(cfg, game.Options{Seed: 1})
	require.NoError(t, err)
	require.NoError(t, s.Render(g))

	r, _, _, _ := sim.GetContent(0, 2)
	assert.Equal(t, '*', r)
}
