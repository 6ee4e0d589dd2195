package combat

import (
	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/pool"
)

// Pickup is a heal on the belt. Small ones drop from defeated enemies: they
// pop up, fall back to the lane they dropped on, and home in on the player once
// close enough or old enough. Big ones are placed up front and never move.
type Pickup struct {
	pool.Slot

	Pos    cp.Vector
	Vel    cp.Vector
	Ground float64
	Age    float64
	Heal   float64
	Homing bool
	Big    bool
}

type pickupPool = pool.Pool[Pickup, *Pickup]

func newPickupPool(max int) *pickupPool {
	return pool.New(max, func(p *Pickup) { *p = Pickup{} })
}

// step integrates one pickup for dt seconds.
func (p *Pickup) step(dt float64, player cp.Vector, cfg PickupConfig) {
	p.Age += dt
	if p.Big {
		return
	}
	if !p.Homing {
		if p.Age > cfg.AutoCollect || player.Distance(p.Pos) < cfg.MagnetRadius {
			p.Homing = true
		}
	}
	if p.Homing {
		d := player.Sub(p.Pos)
		dist := d.Length()
		reach := cfg.HomeSpeed * dt
		if dist <= reach {
			p.Pos = player
		} else {
			p.Pos = p.Pos.Add(d.Mult(reach / dist))
		}
		p.Vel = cp.Vector{}
		return
	}
	p.Vel.Y += cfg.Gravity * dt
	p.Pos = p.Pos.Add(p.Vel.Mult(dt))
	if p.Vel.Y > 0 && p.Pos.Y >= p.Ground {
		p.Pos.Y = p.Ground
		p.Vel = cp.Vector{}
	}
}
