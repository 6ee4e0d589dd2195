package combat

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/boss"
	"github.com/jfad2010/ivangohsgreen/common"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/ecs"
	"github.com/jfad2010/ivangohsgreen/lane"
)

// Combatant is anything a projectile can strike.
type Combatant interface {
	component.Damageable
	lane.Target
	Entity() ecs.Entity
	X() float64
}

var (
	_ Combatant = (*Enemy)(nil)
	_ Combatant = (*Player)(nil)
	_ Combatant = (*Ally)(nil)
	_ Combatant = (*bossBody)(nil)
)

// Enemy is a spawned formation member.
type Enemy struct {
	ID         ecs.Entity
	Archetype  string
	Pos        cp.Vector
	Health     component.Health
	Class      lane.SizeClass
	Speed      float64
	ContactDPS float64
}

func (e *Enemy) Entity() ecs.Entity             { return e.ID }
func (e *Enemy) X() float64                     { return e.Pos.X }
func (e *Enemy) LaneY() float64                 { return e.Pos.Y }
func (e *Enemy) Size() lane.SizeClass           { return e.Class }
func (e *Enemy) Alive() bool                    { return e.Health.Alive() }
func (e *Enemy) TakeDamage(amount float64) bool { return e.Health.TakeDamage(amount) }

// Player is the controlled character.
type Player struct {
	ID     ecs.Entity
	Pos    cp.Vector
	Facing float64
	Health component.Health
	Class  lane.SizeClass

	shieldLeft     float64
	shieldCooldown float64
	cfg            PlayerConfig
}

func (p *Player) Entity() ecs.Entity   { return p.ID }
func (p *Player) X() float64           { return p.Pos.X }
func (p *Player) LaneY() float64       { return p.Pos.Y }
func (p *Player) Size() lane.SizeClass { return p.Class }
func (p *Player) Alive() bool          { return p.Health.Alive() }

// TakeDamage ignores damage while the timed shield is up.
func (p *Player) TakeDamage(amount float64) bool {
	if p.shieldLeft > 0 {
		return false
	}
	return p.Health.TakeDamage(amount)
}

// Shielded reports whether the timed shield is up.
func (p *Player) Shielded() bool { return p.shieldLeft > 0 }

// ShieldCharge returns 1 when the shield can be raised, rising from 0 while
// it recharges.
func (p *Player) ShieldCharge() float64 {
	if p.cfg.ShieldCooldown <= 0 {
		return 1
	}
	return common.Clamp(1-p.shieldCooldown/p.cfg.ShieldCooldown, 0, 1)
}

func (p *Player) raiseShield() bool {
	if !p.Alive() || p.shieldCooldown > 0 {
		return false
	}
	p.shieldLeft = p.cfg.ShieldDuration
	p.shieldCooldown = p.cfg.ShieldCooldown
	return true
}

func (p *Player) tick(dt float64) {
	p.Health.Tick(dt)
	p.shieldLeft = max(0, p.shieldLeft-dt)
	p.shieldCooldown = max(0, p.shieldCooldown-dt)
}

// move applies an input axis and keeps the player on the belt.
func (p *Player) move(axis cp.Vector, dt float64, w World) {
	ax := common.Clamp(axis.X, -1, 1)
	ay := common.Clamp(axis.Y, -1, 1)
	p.Pos.X = common.Clamp(p.Pos.X+ax*p.cfg.Speed*dt, 0, w.Width)
	p.Pos.Y = common.Clamp(p.Pos.Y+ay*p.cfg.Speed*p.cfg.LaneSpeed*dt, w.LaneTop, w.LaneBottom)
	if ax != 0 {
		p.Facing = common.Sign(ax)
	}
}

// AllyCommand is the standing order given to the ally.
type AllyCommand string

const (
	AllyHold    AllyCommand = "hold"
	AllyAdvance AllyCommand = "advance"
	AllyRetreat AllyCommand = "retreat"
)

func ParseAllyCommand(s string) (AllyCommand, error) {
	switch c := AllyCommand(strings.ToLower(strings.TrimSpace(s))); c {
	case AllyHold, AllyAdvance, AllyRetreat:
		return c, nil
	case "":
		return AllyHold, nil
	}
	return AllyHold, fmt.Errorf("combat: unknown ally command %q", s)
}

// Ally follows the player's lane and fires on its own cadence.
type Ally struct {
	ID      ecs.Entity
	Pos     cp.Vector
	Health  component.Health
	Command AllyCommand

	fireLeft float64
	cfg      AllyConfig
}

func (a *Ally) Entity() ecs.Entity             { return a.ID }
func (a *Ally) X() float64                     { return a.Pos.X }
func (a *Ally) LaneY() float64                 { return a.Pos.Y }
func (a *Ally) Size() lane.SizeClass           { return lane.SizeMedium }
func (a *Ally) Alive() bool                    { return a.Health.Alive() }
func (a *Ally) TakeDamage(amount float64) bool { return a.Health.TakeDamage(amount) }

// follow moves the ally according to its command, then leashes it to the
// player unless advancing.
func (a *Ally) follow(p *Player, dt float64) {
	a.Health.Tick(dt)
	a.Health.Heal(a.cfg.Regen * dt)
	a.Pos.Y = p.Pos.Y

	step := a.cfg.Speed * dt
	switch a.Command {
	case AllyAdvance:
		a.Pos.X += step
		return
	case AllyRetreat:
		a.Pos.X = common.Approach(a.Pos.X, p.Pos.X-a.cfg.RetreatGap, step)
	default:
		a.Pos.X = common.Approach(a.Pos.X, p.Pos.X-a.cfg.HoldOffset, step)
	}
	if a.Pos.X > p.Pos.X+a.cfg.Leash {
		a.Pos.X = p.Pos.X + a.cfg.Leash
	}
}

// ready counts down the fire timer and reports when a shot is due.
func (a *Ally) ready(dt float64) bool {
	if a.cfg.FireInterval <= 0 {
		return false
	}
	a.fireLeft -= dt
	if a.fireLeft > 0 {
		return false
	}
	a.fireLeft += a.cfg.FireInterval
	if a.fireLeft <= 0 {
		a.fireLeft = a.cfg.FireInterval
	}
	return true
}

// bossBody gives the phase machine an entity handle so it can be targeted.
type bossBody struct {
	*boss.Machine
	id ecs.Entity
}

func (b *bossBody) Entity() ecs.Entity { return b.id }
func (b *bossBody) X() float64         { return b.Pos().X }
