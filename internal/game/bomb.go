package game

// Bomb sits where it was dropped until its fuse burns down, then clears every
// asteroid inside its blast radius.
type Bomb struct {
	ID uint64
	Body
	Fuse      float64
	Detonated bool
	Alive     bool
}

func (b *Bomb) Kind() Kind { return KindBomb }

func (b *Bomb) Update(dt float64) {
	if !b.Alive || b.Detonated {
		return
	}
	b.Fuse -= dt
	if b.Fuse <= 0 {
		b.Detonated = true
	}
}

// Blast returns the circle swept by the detonation.
func (b *Bomb) Blast(radius float64) Circle {
	return Circle{Center: b.Pos, Radius: radius}
}
