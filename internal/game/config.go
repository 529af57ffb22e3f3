package game

import (
	"errors"
	"fmt"
)

// Config holds the tunables of one run. It is copied into the game at
// construction and never changes afterwards.
type Config struct {
	ScreenWidth  float64 `yaml:"screen_width"`
	ScreenHeight float64 `yaml:"screen_height"`
	TickRate     int     `yaml:"tick_rate"` // frames per second

	PlayerRadius       float64 `yaml:"player_radius"`
	PlayerTurnSpeed    float64 `yaml:"player_turn_speed"` // degrees/s
	PlayerAcceleration float64 `yaml:"player_acceleration"`
	PlayerFriction     float64 `yaml:"player_friction"`  // velocity multiplier per frame
	PlayerMaxSpeed     float64 `yaml:"player_max_speed"` // 0 disables the cap
	SpeedBoostFactor   float64 `yaml:"speed_boost_factor"`

	ShotRadius   float64 `yaml:"shot_radius"`
	ShotSpeed    float64 `yaml:"shot_speed"`
	ShotCooldown float64 `yaml:"shot_cooldown"`
	ShotLifetime float64 `yaml:"shot_lifetime"` // 0 keeps shots until they hit
	SpreadAngle  float64 `yaml:"spread_angle"`

	AsteroidMinRadius     float64 `yaml:"asteroid_min_radius"`
	AsteroidKinds         int     `yaml:"asteroid_kinds"`
	AsteroidSpawnInterval float64 `yaml:"asteroid_spawn_interval"`
	AsteroidMinSpeed      float64 `yaml:"asteroid_min_speed"`
	AsteroidMaxSpeed      float64 `yaml:"asteroid_max_speed"`
	AsteroidVertices      int     `yaml:"asteroid_vertices"`

	ScoreLarge  int `yaml:"score_large"`
	ScoreMedium int `yaml:"score_medium"`
	ScoreSmall  int `yaml:"score_small"`

	StartingLives          int     `yaml:"starting_lives"`
	RespawnDelay           float64 `yaml:"respawn_delay"`
	RespawnInvulnerability float64 `yaml:"respawn_invulnerability"`

	PowerUpChance   float64 `yaml:"powerup_chance"`
	PowerUpRadius   float64 `yaml:"powerup_radius"`
	PowerUpLifetime float64 `yaml:"powerup_lifetime"`
	PowerUpDuration float64 `yaml:"powerup_duration"`

	BombRadius      float64 `yaml:"bomb_radius"`
	BombFuse        float64 `yaml:"bomb_fuse"`
	BombBlastRadius float64 `yaml:"bomb_blast_radius"`
	BombCooldown    float64 `yaml:"bomb_cooldown"`

	GridCellSize float64 `yaml:"grid_cell_size"`

	ParticlePoolSize   int `yaml:"particle_pool_size"`
	ExplosionParticles int `yaml:"explosion_particles"`

	SnapshotEvery  int `yaml:"snapshot_every"` // frames between snapshots, 0 disables
	SnapshotSample int `yaml:"snapshot_sample"`
}

// DefaultConfig returns the stock arcade tuning.
func DefaultConfig() Config {
	return Config{
		ScreenWidth:  1280,
		ScreenHeight: 720,
		TickRate:     60,

		PlayerRadius:       20,
		PlayerTurnSpeed:    300,
		PlayerAcceleration: 300,
		PlayerFriction:     0.99,
		PlayerMaxSpeed:     0,
		SpeedBoostFactor:   1.5,

		ShotRadius:   5,
		ShotSpeed:    500,
		ShotCooldown: 0.3,
		ShotLifetime: 1.5,
		SpreadAngle:  15,

		AsteroidMinRadius:     20,
		AsteroidKinds:         3,
		AsteroidSpawnInterval: 0.8,
		AsteroidMinSpeed:      40,
		AsteroidMaxSpeed:      100,
		AsteroidVertices:      12,

		ScoreLarge:  20,
		ScoreMedium: 50,
		ScoreSmall:  100,

		StartingLives:          3,
		RespawnDelay:           2.0,
		RespawnInvulnerability: 3.0,

		PowerUpChance:   0.15,
		PowerUpRadius:   15,
		PowerUpLifetime: 10,
		PowerUpDuration: 5,

		BombRadius:      8,
		BombFuse:        1.5,
		BombBlastRadius: 150,
		BombCooldown:    3,

		GridCellSize: 100,

		ParticlePoolSize:   200,
		ExplosionParticles: 20,

		SnapshotEvery:  60,
		SnapshotSample: 10,
	}
}

// AsteroidMaxRadius is the radius of the largest asteroid the field spawns.
func (c *Config) AsteroidMaxRadius() float64 {
	return c.AsteroidMinRadius * float64(c.AsteroidKinds)
}

// Center returns the middle of the screen.
func (c *Config) Center() Vec2 {
	return Vec2{c.ScreenWidth / 2, c.ScreenHeight / 2}
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if !(v > 0) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}

	positive("screen_width", c.ScreenWidth)
	positive("screen_height", c.ScreenHeight)
	positive("tick_rate", float64(c.TickRate))
	positive("player_radius", c.PlayerRadius)
	positive("shot_radius", c.ShotRadius)
	positive("shot_speed", c.ShotSpeed)
	positive("asteroid_min_radius", c.AsteroidMinRadius)
	positive("asteroid_kinds", float64(c.AsteroidKinds))
	positive("asteroid_spawn_interval", c.AsteroidSpawnInterval)
	positive("asteroid_min_speed", c.AsteroidMinSpeed)
	positive("asteroid_max_speed", c.AsteroidMaxSpeed)
	positive("starting_lives", float64(c.StartingLives))
	positive("powerup_radius", c.PowerUpRadius)
	positive("bomb_radius", c.BombRadius)
	positive("bomb_blast_radius", c.BombBlastRadius)
	if c.GridCellSize < 1 {
		errs = append(errs, fmt.Errorf("grid_cell_size must be at least 1, got %v", c.GridCellSize))
	}
	if !(c.PlayerFriction > 0 && c.PlayerFriction < 1) {
		errs = append(errs, fmt.Errorf("player_friction must be in (0,1), got %v", c.PlayerFriction))
	}
	if c.PowerUpChance < 0 || c.PowerUpChance > 1 {
		errs = append(errs, fmt.Errorf("powerup_chance must be in [0,1], got %v", c.PowerUpChance))
	}
	if c.AsteroidMaxSpeed < c.AsteroidMinSpeed {
		errs = append(errs, fmt.Errorf("asteroid_max_speed %v below asteroid_min_speed %v", c.AsteroidMaxSpeed, c.AsteroidMinSpeed))
	}
	if c.AsteroidVertices < 3 {
		errs = append(errs, fmt.Errorf("asteroid_vertices must be at least 3, got %d", c.AsteroidVertices))
	}
	if !(c.ScoreSmall >= 0 && c.ScoreMedium >= 0 && c.ScoreLarge >= 0) {
		errs = append(errs, errors.New("asteroid scores must not be negative"))
	}
	nonNegative("player_turn_speed", c.PlayerTurnSpeed)
	nonNegative("player_acceleration", c.PlayerAcceleration)
	nonNegative("player_max_speed", c.PlayerMaxSpeed)
	nonNegative("shot_cooldown", c.ShotCooldown)
	nonNegative("shot_lifetime", c.ShotLifetime)
	nonNegative("respawn_delay", c.RespawnDelay)
	nonNegative("respawn_invulnerability", c.RespawnInvulnerability)
	nonNegative("powerup_lifetime", c.PowerUpLifetime)
	nonNegative("powerup_duration", c.PowerUpDuration)
	nonNegative("bomb_fuse", c.BombFuse)
	nonNegative("bomb_cooldown", c.BombCooldown)
	nonNegative("particle_pool_size", float64(c.ParticlePoolSize))
	nonNegative("explosion_particles", float64(c.ExplosionParticles))
	nonNegative("snapshot_every", float64(c.SnapshotEvery))
	nonNegative("snapshot_sample", float64(c.SnapshotSample))
	return errors.Join(errs...)
}
