package pool

import (
	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/ecs"
	"github.com/jfad2010/ivangohsgreen/lane"
)

// DefaultMargin is how far outside the camera window a projectile may travel
// before it is swept.
const DefaultMargin = 200.0

// MaxHitMemory bounds how many distinct victims a projectile remembers, so a
// piercing shot does not hit the same target on consecutive ticks.
const MaxHitMemory = 8

// Projectile is a pooled shot.
type Projectile struct {
	Slot

	Pos    cp.Vector
	Vel    cp.Vector
	Owner  ecs.Entity
	Damage float64
	Pierce int
	Origin component.Faction
	Size   lane.SizeClass

	hits  [MaxHitMemory]ecs.Entity
	nhits int
}

// AlreadyHit reports whether victim was already struck by this shot.
func (p *Projectile) AlreadyHit(victim ecs.Entity) bool {
	for i := 0; i < p.nhits; i++ {
		if p.hits[i] == victim {
			return true
		}
	}
	return false
}

func (p *Projectile) remember(victim ecs.Entity) {
	if p.nhits < len(p.hits) {
		p.hits[p.nhits] = victim
		p.nhits++
		return
	}
	copy(p.hits[:], p.hits[1:])
	p.hits[len(p.hits)-1] = victim
}

// FireSpec describes a shot to activate.
type FireSpec struct {
	Pos    cp.Vector
	Vel    cp.Vector
	Owner  ecs.Entity
	Damage float64
	Pierce int
	Origin component.Faction
	Size   lane.SizeClass
}

// ProjectilePool is the projectile specialization of Pool.
type ProjectilePool struct {
	pool   *Pool[Projectile, *Projectile]
	Margin float64
}

func NewProjectilePool(max int) *ProjectilePool {
	return &ProjectilePool{
		pool:   New(max, func(p *Projectile) { *p = Projectile{} }),
		Margin: DefaultMargin,
	}
}

// Fire activates a projectile, or returns nil when the pool is exhausted.
// Pierce below 1 is raised to 1.
func (pp *ProjectilePool) Fire(spec FireSpec) *Projectile {
	p := pp.pool.Acquire()
	if p == nil {
		return nil
	}
	p.Pos = spec.Pos
	p.Vel = spec.Vel
	p.Owner = spec.Owner
	p.Damage = spec.Damage
	p.Pierce = spec.Pierce
	if p.Pierce < 1 {
		p.Pierce = 1
	}
	p.Origin = spec.Origin
	p.Size = spec.Size
	return p
}

// Hit records a strike on victim and spends one pierce. It reports whether
// the projectile was exhausted and released.
func (pp *ProjectilePool) Hit(p *Projectile, victim ecs.Entity) bool {
	if p == nil || !p.Active() {
		return false
	}
	p.remember(victim)
	p.Pierce--
	if p.Pierce <= 0 {
		p.Pierce = 0
		pp.pool.Release(p)
		return true
	}
	return false
}

// Release returns p to the pool. Idempotent.
func (pp *ProjectilePool) Release(p *Projectile) {
	pp.pool.Release(p)
}

// Advance applies position deltas for dt seconds.
func (pp *ProjectilePool) Advance(dt float64) {
	pp.pool.Each(func(p *Projectile) {
		p.Pos = p.Pos.Add(p.Vel.Mult(dt))
	})
}

// SweepOutside releases projectiles that left window grown by Margin on each
// side and hands the rest to keep. A window with no height only bounds x.
func (pp *ProjectilePool) SweepOutside(window cp.BB, keep func(*Projectile)) {
	m := pp.Margin
	if m < 0 {
		m = 0
	}
	bounded := window.T > window.B
	grown := cp.BB{L: window.L - m, B: window.B - m, R: window.R + m, T: window.T + m}
	pp.pool.Sweep(func(p *Projectile) bool {
		if p.Pos.X < grown.L || p.Pos.X > grown.R {
			return true
		}
		return bounded && (p.Pos.Y < grown.B || p.Pos.Y > grown.T)
	}, keep)
}

// Sweep exposes the generic sweep for custom predicates.
func (pp *ProjectilePool) Sweep(release func(*Projectile) bool, keep func(*Projectile)) {
	pp.pool.Sweep(release, keep)
}

func (pp *ProjectilePool) Each(fn func(*Projectile)) { pp.pool.Each(fn) }
func (pp *ProjectilePool) Active() int               { return pp.pool.Active() }
func (pp *ProjectilePool) Cap() int                  { return pp.pool.Cap() }
