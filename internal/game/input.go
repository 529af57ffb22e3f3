package game

// Controls is the state of every logical action for one frame.
type Controls struct {
	Thrust    bool
	TurnLeft  bool
	TurnRight bool
	Brake     bool
	Fire      bool
	Bomb      bool
	Quit      bool
	Weapon    string // non-empty selects a weapon by name
}

// Input supplies the controls at the start of each frame.
type Input interface {
	Poll() Controls
}

// Renderer draws the world after each frame.
type Renderer interface {
	Render(g *Game) error
}

// Autopilot is a scripted Input for headless runs. It turns toward the
// nearest asteroid, fires whenever it can and cycles weapons.
type Autopilot struct {
	g     *Game
	rng   *Rand
	frame int
}

func NewAutopilot(g *Game, seed uint64) *Autopilot {
	return &Autopilot{g: g, rng: NewRand(seed)}
}

func (a *Autopilot) Poll() Controls {
	a.frame++
	c := Controls{Fire: true}
	ship := a.g.Ship()

	var target *Asteroid
	best := 0.0
	for _, ast := range a.g.Asteroids() {
		d := ast.Pos.Dist(ship.Pos)
		if target == nil || d < best {
			target, best = ast, d
		}
	}
	if target != nil {
		to := target.Pos.Sub(ship.Pos)
		fwd := Heading(ship.Heading)
		// sign of the cross product tells which way to turn
		if fwd.X*to.Y-fwd.Y*to.X > 0 {
			c.TurnRight = true
		} else {
			c.TurnLeft = true
		}
		c.Brake = best < 150
		c.Bomb = best < 120
	}
	c.Thrust = a.rng.Chance(0.1)
	if a.frame%600 == 0 {
		c.Weapon = WeaponKind(a.rng.IntRange(0, 2)).String()
	}
	return c
}
