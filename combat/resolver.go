// Package combat is the composition root of the fight. A Resolver owns every
// live entity and pool and advances them one tick at a time: director,
// formation spawns, boss, movement, collisions, culling and pool sweeps, in
// that order.
package combat

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/boss"
	"github.com/jfad2010/ivangohsgreen/common"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/director"
	"github.com/jfad2010/ivangohsgreen/ecs"
	"github.com/jfad2010/ivangohsgreen/lane"
	"github.com/jfad2010/ivangohsgreen/pool"
)

// muzzle is how far in front of the player a shot appears.
const muzzle = 18.0

// Input is the per-tick snapshot supplied by the input layer. Move is an
// axis in [-1, 1] on each component; Fire is a key-press edge; Shield is an
// externally driven invulnerability flag.
type Input struct {
	DT         float64
	Move       cp.Vector
	Fire       bool
	Shield     bool
	Difficulty float64
}

// Spawn is one enemy realized from a formation this tick.
type Spawn struct {
	ID        ecs.Entity
	Archetype string
	Pos       cp.Vector
}

// Shot is one projectile launched this tick.
type Shot struct {
	Pos    cp.Vector
	Vel    cp.Vector
	Damage float64
	Pierce int
	Owner  ecs.Entity
	Origin component.Faction
}

// Kill attributes a defeat to the entity that fired the finishing shot.
// OwnerAlive is false when the owner itself was destroyed before the kill
// landed.
type Kill struct {
	Owner      ecs.Entity
	OwnerAlive bool
	Victim     ecs.Entity
	Origin     component.Faction
	Archetype  string
	Pos        cp.Vector
}

type BossStatus struct {
	Present      bool
	Phase        boss.Phase
	Telegraphing bool
	HP           float64
	MaxHP        float64
	Enraged      bool
	Defeated     bool
	Pos          cp.Vector
}

// Report is the outbound result of a tick. Its slices are reused by the next
// Tick. Shots and spawns injected between ticks through Fire and Spawn are
// carried into the next report.
type Report struct {
	Clock          float64
	Waves          int
	Spawns         []Spawn
	Shots          []Shot
	Kills          []Kill
	Hits           int
	Blocked        int
	Collected      int
	PlayerDamage   float64
	PlayerDown     bool
	DroppedShots   int
	DroppedSpawns  int
	Pressure       float64
	VolleyOpen     bool
	VolleyConsumed bool
	BossDefeated   bool
	Boss           BossStatus
}

func (rep *Report) reset() {
	*rep = Report{
		Spawns: rep.Spawns[:0],
		Shots:  rep.Shots[:0],
		Kills:  rep.Kills[:0],
	}
}

type target struct {
	c       Combatant
	faction component.Faction
}

// Resolver owns the fight. It is not safe for concurrent use.
type Resolver struct {
	Events component.CombatEventEmitter

	cfg      Config
	rng      *rand.Rand
	registry *ecs.Registry
	director *director.Director

	player  Player
	ally    *Ally
	enemies []Enemy
	boss    *bossBody

	shots   *pool.ProjectilePool
	sparks  *pool.ParticlePool
	pickups *pickupPool

	camera    cp.BB
	clock     float64
	report    Report
	carry     Report
	ticking   bool
	targets   []target
	formation []cp.Vector

	// nearSignaled latches once proximity has been reported to the director;
	// it clears when the player leaves the trigger radius.
	nearSignaled bool
	// rearm counts the natural phase entries left before another forced
	// VOLLEY may be consumed.
	rearm int
}

// New builds a resolver for the given timeline. Wave validation errors are
// returned here and never during a tick.
func New(cfg Config, waves []director.FormationWave) (*Resolver, error) {
	cfg = cfg.withDefaults()
	dir, err := director.New(waves, cfg.Director)
	if err != nil {
		return nil, fmt.Errorf("combat: %w", err)
	}

	r := &Resolver{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		registry:  ecs.NewRegistry(),
		director:  dir,
		enemies:   make([]Enemy, 0, cfg.MaxEnemies),
		shots:     pool.NewProjectilePool(cfg.Projectiles),
		sparks:    pool.NewParticlePool(cfg.Particles, cfg.ParticleLifespan),
		pickups:   newPickupPool(cfg.Pickups),
		targets:   make([]target, 0, cfg.MaxEnemies+3),
		formation: make([]cp.Vector, 0, 16),
	}
	r.player = Player{
		ID:     r.registry.Create(),
		Pos:    cp.Vector{X: cfg.Player.Start, Y: cfg.World.LaneBottom},
		Facing: 1,
		Health: component.NewHealth(cfg.Player.HP),
		Class:  cfg.Player.Size,
		cfg:    cfg.Player,
	}
	if cfg.Ally.Enabled {
		r.ally = &Ally{
			ID:       r.registry.Create(),
			Pos:      cp.Vector{X: r.player.Pos.X - cfg.Ally.HoldOffset, Y: r.player.Pos.Y},
			Health:   component.NewHealth(cfg.Ally.HP),
			Command:  AllyHold,
			fireLeft: cfg.Ally.FireInterval,
			cfg:      cfg.Ally,
		}
	}
	r.placeBigPickups()
	r.updateCamera()
	return r, nil
}

// Tick advances the fight by in.DT seconds and returns the outbound report.
func (r *Resolver) Tick(in Input) *Report {
	dt := max(0, in.DT)
	rep := &r.report
	rep.reset()
	rep.Spawns = append(rep.Spawns, r.carry.Spawns...)
	rep.Shots = append(rep.Shots, r.carry.Shots...)
	rep.DroppedShots = r.carry.DroppedShots
	rep.DroppedSpawns = r.carry.DroppedSpawns
	r.carry.reset()
	r.ticking = true
	defer func() { r.ticking = false }()
	r.clock += dt
	rep.Clock = r.clock

	if r.player.Alive() {
		r.player.move(in.Move, dt, r.cfg.World)
		if in.Fire {
			r.firePlayer()
		}
	}
	r.updateCamera()

	out := r.director.Update(director.Input{
		DT:          dt,
		Progress:    r.Progress(),
		Difficulty:  in.Difficulty,
		LiveEnemies: len(r.enemies),
		NearBoss:    r.nearBossSignal(),
	})
	rep.Waves = len(out.Waves)
	for _, w := range out.Waves {
		r.realize(w)
	}
	if out.VolleyOpened {
		r.Events.Emit(component.CombatEvent{Type: component.EventVolleyOpened, Pos: r.player.Pos})
	}

	r.updateBoss(dt)
	rep.Pressure = r.director.Pressure()
	rep.VolleyOpen = r.director.VolleyOpen()

	r.integrate(dt)

	shielded := in.Shield || r.player.Shielded()
	r.resolveProjectiles(shielded)
	r.resolveContact(dt, shielded)
	r.collectPickups()

	r.cull()
	r.shots.SweepOutside(r.camera, nil)
	r.sparks.Update(dt)
	cullX := r.camera.L - r.cfg.World.CullMargin
	r.pickups.Sweep(func(k *Pickup) bool { return k.Pos.X < cullX }, nil)

	r.fillBossStatus()
	return rep
}

// Fire launches a projectile outside the normal input path. It returns nil
// when the projectile pool is exhausted.
func (r *Resolver) Fire(spec pool.FireSpec) *pool.Projectile {
	out := r.outbox()
	p := r.shots.Fire(spec)
	if p == nil {
		out.DroppedShots++
		return nil
	}
	out.Shots = append(out.Shots, Shot{
		Pos:    p.Pos,
		Vel:    p.Vel,
		Damage: p.Damage,
		Pierce: p.Pierce,
		Owner:  p.Owner,
		Origin: p.Origin,
	})
	return p
}

// Spawn places a single enemy of the given archetype. It reports false when
// the enemy cap is full.
func (r *Resolver) Spawn(archetype string, pos cp.Vector) (ecs.Entity, bool) {
	arch, _ := r.cfg.archetype(archetype)
	return r.spawn(archetype, arch, pos)
}

// RaiseShield starts the timed shield if it has recharged.
func (r *Resolver) RaiseShield() bool {
	if !r.player.raiseShield() {
		return false
	}
	r.logf("combat: shield up")
	return true
}

// SetAllyCommand changes the ally's standing order. No-op without an ally.
func (r *Resolver) SetAllyCommand(cmd AllyCommand) {
	if r.ally != nil {
		r.ally.Command = cmd
	}
}

// Progress is the player's position along the belt in [0, 1].
func (r *Resolver) Progress() float64 {
	return common.Clamp(r.player.Pos.X/r.cfg.World.Width, 0, 1)
}

func (r *Resolver) Player() *Player                   { return &r.player }
func (r *Resolver) Ally() *Ally                       { return r.ally }
func (r *Resolver) Enemies() []Enemy                  { return r.enemies }
func (r *Resolver) Projectiles() *pool.ProjectilePool { return r.shots }
func (r *Resolver) Particles() *pool.ParticlePool     { return r.sparks }
func (r *Resolver) Director() *director.Director      { return r.director }
func (r *Resolver) Camera() cp.BB                     { return r.camera }
func (r *Resolver) Clock() float64                    { return r.clock }
func (r *Resolver) Config() Config                    { return r.cfg }
func (r *Resolver) EachPickup(fn func(*Pickup))       { r.pickups.Each(fn) }
func (r *Resolver) IsAlive(e ecs.Entity) bool         { return r.registry.IsAlive(e) }

// Boss returns the boss once it has arrived, otherwise nil.
func (r *Resolver) Boss() *boss.Machine {
	if r.boss == nil {
		return nil
	}
	return r.boss.Machine
}

// BossEntity returns the boss handle, or the zero Entity before it arrives.
func (r *Resolver) BossEntity() ecs.Entity {
	if r.boss == nil {
		return 0
	}
	return r.boss.id
}

func (r *Resolver) updateCamera() {
	w := r.cfg.World
	left := common.Clamp(r.player.Pos.X-w.ViewLead, 0, math.Max(0, w.Width-w.ViewWidth))
	r.camera = cp.BB{L: left, B: 0, R: left + w.ViewWidth, T: w.ViewHeight}
}

// nearBossSignal reports proximity to the director once per approach, on the
// first tick the boss accepts interrupts.
func (r *Resolver) nearBossSignal() bool {
	if !r.nearBoss() {
		r.nearSignaled = false
		return false
	}
	if r.nearSignaled || !r.boss.AcceptsInterrupt() {
		return false
	}
	r.nearSignaled = true
	return true
}

// outbox is where shots and spawns are recorded: the live report during a
// tick, otherwise the carry-over merged into the next one.
func (r *Resolver) outbox() *Report {
	if r.ticking {
		return &r.report
	}
	return &r.carry
}

func (r *Resolver) nearBoss() bool {
	if r.boss == nil || !r.boss.Alive() {
		return false
	}
	return math.Abs(r.boss.X()-r.player.Pos.X) <= r.cfg.Boss.Trigger
}

func (r *Resolver) firePlayer() {
	f := r.player.Facing
	if f == 0 {
		f = 1
	}
	r.Fire(pool.FireSpec{
		Pos:    cp.Vector{X: r.player.Pos.X + f*muzzle, Y: r.player.Pos.Y},
		Vel:    cp.Vector{X: f * r.cfg.Player.BulletSpeed},
		Owner:  r.player.ID,
		Damage: r.cfg.Player.BulletDamage,
		Pierce: r.cfg.Player.BulletPierce,
		Origin: component.FactionPlayer,
	})
}

// realize turns a triggered wave into enemies ahead of the player.
func (r *Resolver) realize(w director.FormationWave) {
	world := r.cfg.World
	baseX := math.Min(r.player.Pos.X+world.SpawnAhead, world.Width-world.SpawnMargin)
	laneY := world.LaneTop
	if w.Lane == director.LaneBottom {
		laneY = world.LaneBottom
	}
	arch, known := r.cfg.archetype(w.Archetype)
	if !known {
		r.logf("combat: unknown archetype %q, using defaults", w.Archetype)
	}
	r.formation = Formation(r.formation[:0], w, baseX, laneY)
	for _, pos := range r.formation {
		r.spawn(w.Archetype, arch, pos)
	}
}

func (r *Resolver) spawn(tag string, arch Archetype, pos cp.Vector) (ecs.Entity, bool) {
	if len(r.enemies) >= r.cfg.MaxEnemies {
		r.outbox().DroppedSpawns++
		r.logf("combat: enemy cap reached, dropped %s", tag)
		return 0, false
	}
	id := r.registry.Create()
	r.enemies = append(r.enemies, Enemy{
		ID:         id,
		Archetype:  tag,
		Pos:        pos,
		Health:     component.NewHealth(arch.HP),
		Class:      arch.Size,
		Speed:      arch.Speed,
		ContactDPS: arch.ContactDPS,
	})
	out := r.outbox()
	out.Spawns = append(out.Spawns, Spawn{ID: id, Archetype: tag, Pos: pos})
	return id, true
}

// updateBoss spawns the boss once it comes within the spawn horizon and
// advances it. The volley window is only consumed when the boss can act on
// it, so an ENGAGE boss leaves it open. After a forced VOLLEY the boss must
// run one full natural phase before the next window is consumed.
func (r *Resolver) updateBoss(dt float64) {
	if r.cfg.Boss.Disabled {
		return
	}
	if r.boss == nil {
		if r.cfg.Boss.X-r.player.Pos.X > r.cfg.World.SpawnAhead {
			return
		}
		pos := cp.Vector{X: r.cfg.Boss.X, Y: (r.cfg.World.LaneTop + r.cfg.World.LaneBottom) / 2}
		r.boss = &bossBody{Machine: boss.New(r.cfg.Boss.Machine, pos), id: r.registry.Create()}
		r.logf("combat: boss arrived at %.0f", pos.X)
	}

	b := r.boss
	interrupt := false
	if r.rearm == 0 && b.AcceptsInterrupt() && r.director.ConsumeVolleyWindow() {
		interrupt = true
		r.rearm = 2
		r.report.VolleyConsumed = true
	}
	out := b.Update(boss.Input{DT: dt, Interrupt: interrupt, Player: r.player.Pos})
	if !interrupt && r.rearm > 0 {
		r.rearm = max(0, r.rearm-len(out.Entered))
	}
	for _, p := range out.Entered {
		r.Events.Emit(component.CombatEvent{
			Type:     component.EventBossPhase,
			Attacker: b.id,
			Pos:      out.Pos,
			Detail:   p.String(),
		})
	}
	for _, f := range out.Fire {
		r.Fire(pool.FireSpec{
			Pos:    f.Pos,
			Vel:    f.Vel,
			Owner:  b.id,
			Damage: f.Damage,
			Pierce: f.Pierce,
			Origin: component.FactionEnemy,
			Size:   f.Size,
		})
	}
}

// integrate applies position deltas and per-actor timers.
func (r *Resolver) integrate(dt float64) {
	r.player.tick(dt)

	if a := r.ally; a != nil && a.Alive() {
		a.follow(&r.player, dt)
		if a.ready(dt) {
			f := r.player.Facing
			if f == 0 {
				f = 1
			}
			r.Fire(pool.FireSpec{
				Pos:    a.Pos,
				Vel:    cp.Vector{X: f * r.cfg.Player.BulletSpeed},
				Owner:  a.ID,
				Damage: a.cfg.Damage,
				Pierce: 1,
				Origin: component.FactionAlly,
			})
		}
	}

	for i := range r.enemies {
		e := &r.enemies[i]
		if e.Speed > 0 && e.Alive() {
			e.Pos.X = common.Approach(e.Pos.X, r.player.Pos.X, e.Speed*dt)
		}
	}

	r.shots.Advance(dt)

	player := r.player.Pos
	r.pickups.Each(func(k *Pickup) { k.step(dt, player, r.cfg.Pickup) })
}

func (r *Resolver) collectTargets() {
	r.targets = r.targets[:0]
	for i := range r.enemies {
		if r.enemies[i].Alive() {
			r.targets = append(r.targets, target{c: &r.enemies[i], faction: component.FactionEnemy})
		}
	}
	if r.boss != nil && r.boss.Alive() {
		r.targets = append(r.targets, target{c: r.boss, faction: component.FactionEnemy})
	}
	if r.player.Alive() {
		r.targets = append(r.targets, target{c: &r.player, faction: component.FactionPlayer})
	}
	if r.ally != nil && r.ally.Alive() {
		r.targets = append(r.targets, target{c: r.ally, faction: component.FactionAlly})
	}
}

// resolveProjectiles tests every active projectile against every hostile
// target. The band comes from the target's size class.
func (r *Resolver) resolveProjectiles(shielded bool) {
	r.collectTargets()
	r.shots.Each(func(p *pool.Projectile) {
		for _, t := range r.targets {
			if !p.Active() {
				return
			}
			if component.Friendly(p.Origin, t.faction) || !t.c.Alive() || p.AlreadyHit(t.c.Entity()) {
				continue
			}
			if !lane.Reach(p.Pos.X, t.c.X(), r.cfg.Reach) || !lane.ProjectileHitsTarget(p.Pos.Y, t.c, r.cfg.Band) {
				continue
			}
			if t.c == Combatant(&r.player) {
				r.strikePlayer(p, shielded)
				continue
			}
			r.strike(p, t.c)
		}
	})
}

func (r *Resolver) strike(p *pool.Projectile, c Combatant) {
	rep := &r.report
	owner, origin, dmg, pos := p.Owner, p.Origin, p.Damage, p.Pos
	victim := c.Entity()

	killed := c.TakeDamage(dmg)
	rep.Hits++
	r.sparks.Spawn(pos)
	r.shots.Hit(p, victim)

	evt := component.CombatEvent{Type: component.EventHit, Attacker: owner, Target: victim, Damage: dmg, Pos: pos}
	r.Events.Emit(evt)
	evt.Type = component.EventDamageApplied
	r.Events.Emit(evt)
	if killed {
		r.kill(owner, origin, c, pos)
	}
}

func (r *Resolver) strikePlayer(p *pool.Projectile, shielded bool) {
	owner, dmg, pos := p.Owner, p.Damage, p.Pos
	r.shots.Hit(p, r.player.ID)
	r.sparks.Spawn(pos)
	if shielded {
		r.report.Blocked++
		r.Events.Emit(component.CombatEvent{Type: component.EventShieldBlock, Attacker: owner, Target: r.player.ID, Damage: dmg, Pos: pos})
		return
	}
	r.Events.Emit(component.CombatEvent{Type: component.EventHit, Attacker: owner, Target: r.player.ID, Damage: dmg, Pos: pos})
	if r.damagePlayer(dmg, owner) {
		r.player.Health.StartIFrames(r.cfg.Player.IFrames)
	}
}

// damagePlayer reports whether damage was applied.
func (r *Resolver) damagePlayer(amount float64, attacker ecs.Entity) bool {
	before := r.player.Health.Current
	if !r.player.Health.ApplyDamage(amount) {
		return false
	}
	applied := before - r.player.Health.Current
	r.report.PlayerDamage += applied
	evt := component.CombatEvent{Type: component.EventDamageApplied, Attacker: attacker, Target: r.player.ID, Damage: applied, Pos: r.player.Pos}
	r.Events.Emit(evt)
	if r.player.Health.Dead {
		r.report.PlayerDown = true
		evt.Type = component.EventDeath
		r.Events.Emit(evt)
		r.logf("combat: player down at %.1fs", r.clock)
	}
	return true
}

func (r *Resolver) kill(owner ecs.Entity, origin component.Faction, c Combatant, pos cp.Vector) {
	k := Kill{
		Owner:      owner,
		OwnerAlive: r.registry.IsAlive(owner),
		Victim:     c.Entity(),
		Origin:     origin,
		Pos:        pos,
	}
	switch v := c.(type) {
	case *Enemy:
		k.Archetype = v.Archetype
		r.drop(v.Pos)
	case *bossBody:
		k.Archetype = "boss"
		r.report.BossDefeated = true
		r.Events.Emit(component.CombatEvent{Type: component.EventBossDefeated, Attacker: owner, Target: v.id, Pos: pos})
		r.logf("combat: boss defeated by %s", origin)
	case *Ally:
		k.Archetype = "ally"
	}
	r.report.Kills = append(r.report.Kills, k)
	r.Events.Emit(component.CombatEvent{Type: component.EventDeath, Attacker: owner, Target: k.Victim, Pos: pos, Detail: k.Archetype})
}

// drop leaves a pickup behind. Pool exhaustion skips it silently.
func (r *Resolver) drop(pos cp.Vector) {
	if r.rng.Float64() >= r.cfg.Pickup.DropChance {
		return
	}
	k := r.pickups.Acquire()
	if k == nil {
		return
	}
	k.Pos = pos
	k.Ground = pos.Y
	k.Vel = cp.Vector{X: r.rng.Float64()*80 - 40, Y: -200}
	k.Heal = r.cfg.Pickup.Heal
}

// placeBigPickups spaces the big heals evenly along the world at random
// heights within the belt.
func (r *Resolver) placeBigPickups() {
	n := r.cfg.Pickup.Big
	w := r.cfg.World
	spacing := w.Width / float64(n+1)
	for i := 1; i <= n; i++ {
		k := r.pickups.Acquire()
		if k == nil {
			r.logf("combat: pickup pool full, placed %d of %d big pickups", i-1, n)
			return
		}
		y := w.LaneTop + r.rng.Float64()*(w.LaneBottom-w.LaneTop)
		k.Pos = cp.Vector{X: spacing * float64(i), Y: y}
		k.Ground = y
		k.Heal = r.cfg.Pickup.BigHeal
		k.Big = true
	}
}

// resolveContact applies contact damage from enemies to the player and ally.
// Contact damage is a rate, so it scales with dt.
func (r *Resolver) resolveContact(dt float64, shielded bool) {
	if dt <= 0 {
		return
	}
	for i := range r.enemies {
		e := &r.enemies[i]
		if !e.Alive() || e.ContactDPS <= 0 {
			continue
		}
		if r.player.Alive() && lane.Reach(e.Pos.X, r.player.Pos.X, r.cfg.Reach) && lane.EnemyHitsPlayer(e.Pos.Y, &r.player, r.cfg.Band) {
			if shielded {
				r.report.Blocked++
			} else {
				r.damagePlayer(e.ContactDPS*dt, e.ID)
			}
		}
		if a := r.ally; a != nil && a.Alive() && lane.Reach(e.Pos.X, a.Pos.X, r.cfg.Reach) && lane.EnemyHitsPlayer(e.Pos.Y, a, r.cfg.Band) {
			if a.TakeDamage(e.ContactDPS * dt) {
				r.kill(e.ID, component.FactionEnemy, a, a.Pos)
			}
		}
	}
}

func (r *Resolver) collectPickups() {
	if !r.player.Alive() {
		return
	}
	r.pickups.Each(func(k *Pickup) {
		if !lane.Reach(k.Pos.X, r.player.Pos.X, r.cfg.Reach) || !lane.PickupHitsPlayer(k.Pos.Y, &r.player, r.cfg.Band) {
			return
		}
		r.player.Health.Heal(k.Heal)
		r.report.Collected++
		r.Events.Emit(component.CombatEvent{Type: component.EventPickup, Target: r.player.ID, Damage: -k.Heal, Pos: k.Pos})
		r.pickups.Release(k)
	})
}

// cull drops dead enemies and those left behind the camera. Only deaths
// count as kills; culled enemies simply vanish.
func (r *Resolver) cull() {
	left := r.camera.L - r.cfg.World.CullMargin
	kept := r.enemies[:0]
	for _, e := range r.enemies {
		if e.Alive() && e.Pos.X >= left {
			kept = append(kept, e)
			continue
		}
		r.registry.Destroy(e.ID)
	}
	r.enemies = kept
}

func (r *Resolver) fillBossStatus() {
	if r.boss == nil {
		return
	}
	b := r.boss
	r.report.Boss = BossStatus{
		Present:      true,
		Phase:        b.Phase(),
		Telegraphing: b.Telegraphing(),
		HP:           b.HP(),
		MaxHP:        b.MaxHP(),
		Enraged:      b.Enraged(),
		Defeated:     b.Defeated(),
		Pos:          b.Pos(),
	}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.cfg.Logger != nil {
		r.cfg.Logger.Printf(format, args...)
	}
}
