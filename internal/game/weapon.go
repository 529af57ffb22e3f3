package game

import (
	"errors"
	"fmt"
)

// ErrUnknownWeapon is returned when a weapon name is not one of the known
// kinds. The current weapon is left unchanged.
var ErrUnknownWeapon = errors.New("unknown weapon")

// WeaponKind selects a fire pattern.
type WeaponKind uint8

const (
	WeaponNormal WeaponKind = iota
	WeaponSpread
	WeaponRapid
)

var weaponNames = map[WeaponKind]string{
	WeaponNormal: "normal",
	WeaponSpread: "spread",
	WeaponRapid:  "rapid",
}

func (k WeaponKind) String() string {
	if n, ok := weaponNames[k]; ok {
		return n
	}
	return fmt.Sprintf("weapon(%d)", k)
}

// ParseWeapon maps a name to its kind.
func ParseWeapon(name string) (WeaponKind, error) {
	for k, n := range weaponNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
}

// ShotSpec is one projectile a weapon emits.
type ShotSpec struct {
	Pos Vec2
	Vel Vec2
}

// Fire computes the shots for kind fired from pos along heading and the
// cooldown that follows.
func Fire(kind WeaponKind, pos Vec2, heading float64, cfg *Config) ([]ShotSpec, float64) {
	shoot := func(deg, speed float64) ShotSpec {
		return ShotSpec{Pos: pos, Vel: Heading(deg).Scale(speed)}
	}
	switch kind {
	case WeaponSpread:
		return []ShotSpec{
			shoot(heading-cfg.SpreadAngle, cfg.ShotSpeed),
			shoot(heading, cfg.ShotSpeed),
			shoot(heading+cfg.SpreadAngle, cfg.ShotSpeed),
		}, cfg.ShotCooldown
	case WeaponRapid:
		return []ShotSpec{shoot(heading, cfg.ShotSpeed*1.2)}, cfg.ShotCooldown / 3
	default:
		return []ShotSpec{shoot(heading, cfg.ShotSpeed)}, cfg.ShotCooldown
	}
}

// Weapon is the selected kind plus its cooldown state.
type Weapon struct {
	Kind     WeaponKind
	Cooldown float64
}

// Ready reports whether the weapon can fire.
func (w *Weapon) Ready() bool { return w.Cooldown <= 0 }

// Trigger fires if ready and arms the cooldown. It returns nil while the
// weapon is cooling down.
func (w *Weapon) Trigger(pos Vec2, heading float64, cfg *Config) []ShotSpec {
	if !w.Ready() {
		return nil
	}
	shots, cd := Fire(w.Kind, pos, heading, cfg)
	w.Cooldown = cd
	return shots
}

// Tick counts the cooldown down. It runs every frame regardless of state.
func (w *Weapon) Tick(dt float64) {
	w.Cooldown -= dt
}

// Select switches to the named weapon. The cooldown carries over.
func (w *Weapon) Select(name string) error {
	k, err := ParseWeapon(name)
	if err != nil {
		return err
	}
	w.Kind = k
	return nil
}
