package pool

import "github.com/jakecoffman/cp"

// DefaultLifespan is how long an impact particle lives, in seconds.
const DefaultLifespan = 0.3

// Particle is a short-lived visual owned exclusively by its pool.
type Particle struct {
	Slot

	Pos  cp.Vector
	TTL  float64
	Fade float64
}

// ParticlePool is the particle specialization of Pool.
type ParticlePool struct {
	pool     *Pool[Particle, *Particle]
	lifespan float64
}

func NewParticlePool(max int, lifespan float64) *ParticlePool {
	if lifespan <= 0 {
		lifespan = DefaultLifespan
	}
	return &ParticlePool{
		pool:     New(max, func(p *Particle) { *p = Particle{} }),
		lifespan: lifespan,
	}
}

// Spawn activates a particle at pos with a full lifespan. It returns nil when
// the pool is exhausted.
func (pp *ParticlePool) Spawn(pos cp.Vector) *Particle {
	p := pp.pool.Acquire()
	if p == nil {
		return nil
	}
	p.Pos = pos
	p.TTL = pp.lifespan
	p.Fade = 1
	return p
}

// Update counts every live particle down by dt, releases the expired ones and
// refreshes Fade (ttl / lifespan) on the survivors.
func (pp *ParticlePool) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	pp.pool.Sweep(func(p *Particle) bool {
		p.TTL -= dt
		if p.TTL <= 0 {
			p.TTL = 0
			p.Fade = 0
			return true
		}
		p.Fade = p.TTL / pp.lifespan
		return false
	}, nil)
}

func (pp *ParticlePool) Lifespan() float64       { return pp.lifespan }
func (pp *ParticlePool) Each(fn func(*Particle)) { pp.pool.Each(fn) }
func (pp *ParticlePool) Release(p *Particle)     { pp.pool.Release(p) }
func (pp *ParticlePool) Active() int             { return pp.pool.Active() }
func (pp *ParticlePool) Cap() int                { return pp.pool.Cap() }
