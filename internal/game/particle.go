package game

import "math"

// Particle is pure decoration with no gameplay interaction.
type Particle struct {
	Pos     Vec2
	Vel     Vec2
	Size    float64
	Age     float64
	MaxLife float64
	Alive   bool

	poolIndex int // -1 for transient particles
}

func (p *Particle) Kind() Kind { return KindParticle }

func (p *Particle) Bounds() Circle {
	return Circle{Center: p.Pos, Radius: p.Size}
}

// Alpha fades linearly from 1 at birth to 0 at the end of the lifetime.
func (p *Particle) Alpha() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return Clamp(1-p.Age/p.MaxLife, 0, 1)
}

// Pooled reports whether the particle belongs to a ParticlePool.
func (p *Particle) Pooled() bool { return p.poolIndex >= 0 }

func (p *Particle) Update(dt float64) {
	if !p.Alive {
		return
	}
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Age += dt
	if p.Age >= p.MaxLife {
		p.Alive = false
	}
}

// spark initializes p as one explosion fragment around pos.
func (p *Particle) spark(pos Vec2, r *Rand) {
	ang := r.Range(0, 2*math.Pi)
	speed := r.Range(50, 150)
	p.Pos = pos
	p.Vel = Vec2{math.Cos(ang) * speed, math.Sin(ang) * speed}
	p.Size = r.Range(2, 6)
	p.Age = 0
	p.MaxLife = r.Range(0.5, 1.0)
	p.Alive = true
}

// ParticlePool hands out pre-allocated particles. Acquire returns nil when
// every particle is in use; the caller decides how to degrade.
type ParticlePool struct {
	items  []*Particle
	active int
}

// NewParticlePool pre-allocates size particles.
func NewParticlePool(size int) *ParticlePool {
	p := &ParticlePool{items: make([]*Particle, size)}
	for i := range p.items {
		p.items[i] = &Particle{poolIndex: i}
	}
	return p
}

// Acquire takes a free particle from the pool.
func (p *ParticlePool) Acquire() *Particle {
	if p.active >= len(p.items) {
		return nil
	}
	pt := p.items[p.active]
	pt.poolIndex = p.active
	p.active++
	return pt
}

// Release gives a pooled particle back using swap-and-pop. Transient
// particles and particles already released are ignored.
func (p *ParticlePool) Release(pt *Particle) {
	i := pt.poolIndex
	if i < 0 || i >= p.active || p.items[i] != pt {
		return
	}
	last := p.active - 1
	if i != last {
		p.items[i], p.items[last] = p.items[last], p.items[i]
		p.items[i].poolIndex = i
		pt.poolIndex = last
	}
	pt.Alive = false
	p.active--
}

// Available is the number of particles that can still be acquired.
func (p *ParticlePool) Available() int { return len(p.items) - p.active }

// Cap is the pool size.
func (p *ParticlePool) Cap() int { return len(p.items) }
