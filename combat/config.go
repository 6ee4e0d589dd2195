package combat

import (
	"log"

	"github.com/jfad2010/ivangohsgreen/boss"
	"github.com/jfad2010/ivangohsgreen/director"
	"github.com/jfad2010/ivangohsgreen/lane"
)

// Archetype is the static description of an enemy kind.
type Archetype struct {
	HP         float64
	Size       lane.SizeClass
	Speed      float64
	ContactDPS float64
}

// World describes the belt the fight happens on. Y grows downward.
type World struct {
	Width       float64
	LaneTop     float64
	LaneBottom  float64
	ViewWidth   float64
	ViewHeight  float64
	ViewLead    float64
	SpawnAhead  float64
	SpawnMargin float64
	CullMargin  float64
}

type PlayerConfig struct {
	HP             float64
	Size           lane.SizeClass
	Speed          float64
	LaneSpeed      float64
	BulletSpeed    float64
	BulletDamage   float64
	BulletPierce   int
	IFrames        float64
	ShieldDuration float64
	ShieldCooldown float64
	Start          float64
}

type AllyConfig struct {
	Enabled      bool
	HP           float64
	Regen        float64
	Speed        float64
	Leash        float64
	HoldOffset   float64
	RetreatGap   float64
	FireInterval float64
	Damage       float64
}

type PickupConfig struct {
	DropChance   float64
	Heal         float64
	MagnetRadius float64
	AutoCollect  float64
	HomeSpeed    float64
	Gravity      float64
	// Big heals sit still on the belt, spaced evenly along the world.
	Big     int
	BigHeal float64
}

type BossConfig struct {
	Disabled bool
	X        float64
	Trigger  float64
	Machine  boss.Config
}

// Config is the static tuning for a Resolver. Zero fields fall back to the
// defaults.
type Config struct {
	World            World
	Band             float64
	Reach            float64
	MaxEnemies       int
	Projectiles      int
	Particles        int
	Pickups          int
	ParticleLifespan float64
	Player           PlayerConfig
	Ally             AllyConfig
	Pickup           PickupConfig
	Boss             BossConfig
	Director         director.Config
	Archetypes       map[string]Archetype
	Seed             int64
	Logger           *log.Logger
}

// DefaultArchetype is used for archetype tags with no entry in Config.
var DefaultArchetype = Archetype{HP: 5, Speed: 30, ContactDPS: 2}

func DefaultConfig() Config {
	return Config{
		World: World{
			Width:       8000,
			LaneTop:     360,
			LaneBottom:  520,
			ViewWidth:   1024,
			ViewHeight:  576,
			ViewLead:    300,
			SpawnAhead:  900,
			SpawnMargin: 200,
			CullMargin:  200,
		},
		Band:             lane.DefaultBand,
		Reach:            lane.DefaultReach,
		MaxEnemies:       64,
		Projectiles:      256,
		Particles:        128,
		Pickups:          32,
		ParticleLifespan: 0.3,
		Player: PlayerConfig{
			HP:             10,
			Speed:          220,
			LaneSpeed:      0.7,
			BulletSpeed:    480,
			BulletDamage:   2,
			BulletPierce:   1,
			IFrames:        0.5,
			ShieldDuration: 1.5,
			ShieldCooldown: 6,
			Start:          120,
		},
		Ally: AllyConfig{
			HP:           10,
			Regen:        1,
			Speed:        200,
			Leash:        120,
			HoldOffset:   60,
			RetreatGap:   120,
			FireInterval: 1.2,
			Damage:       1,
		},
		Pickup: PickupConfig{
			DropChance:   0.5,
			Heal:         1,
			MagnetRadius: 120,
			AutoCollect:  3,
			HomeSpeed:    300,
			Gravity:      300,
			BigHeal:      3,
		},
		Boss: BossConfig{
			X:       7600,
			Trigger: 600,
			Machine: boss.DefaultConfig(),
		},
		Director: director.DefaultConfig(),
		Archetypes: map[string]Archetype{
			"grunt":  DefaultArchetype,
			"runner": {HP: 3, Size: lane.SizeSmall, Speed: 90, ContactDPS: 1},
			"brute":  {HP: 12, Size: lane.SizeLarge, Speed: 20, ContactDPS: 4},
		},
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	w, dw := &c.World, d.World
	if w.Width <= 0 {
		w.Width = dw.Width
	}
	if w.LaneTop <= 0 && w.LaneBottom <= 0 {
		w.LaneTop, w.LaneBottom = dw.LaneTop, dw.LaneBottom
	}
	if w.LaneBottom < w.LaneTop {
		w.LaneTop, w.LaneBottom = w.LaneBottom, w.LaneTop
	}
	if w.ViewWidth <= 0 {
		w.ViewWidth = dw.ViewWidth
	}
	if w.ViewHeight <= 0 {
		w.ViewHeight = dw.ViewHeight
	}
	if w.ViewLead <= 0 {
		w.ViewLead = dw.ViewLead
	}
	if w.SpawnAhead <= 0 {
		w.SpawnAhead = dw.SpawnAhead
	}
	if w.SpawnMargin <= 0 {
		w.SpawnMargin = dw.SpawnMargin
	}
	if w.CullMargin <= 0 {
		w.CullMargin = dw.CullMargin
	}
	if c.Band <= 0 {
		c.Band = d.Band
	}
	if c.Reach <= 0 {
		c.Reach = d.Reach
	}
	if c.MaxEnemies <= 0 {
		c.MaxEnemies = d.MaxEnemies
	}
	if c.Projectiles <= 0 {
		c.Projectiles = d.Projectiles
	}
	if c.Particles <= 0 {
		c.Particles = d.Particles
	}
	if c.Pickups <= 0 {
		c.Pickups = d.Pickups
	}
	if c.ParticleLifespan <= 0 {
		c.ParticleLifespan = d.ParticleLifespan
	}

	p, dp := &c.Player, d.Player
	if p.HP <= 0 {
		p.HP = dp.HP
	}
	if p.Speed <= 0 {
		p.Speed = dp.Speed
	}
	if p.LaneSpeed <= 0 {
		p.LaneSpeed = dp.LaneSpeed
	}
	if p.BulletSpeed <= 0 {
		p.BulletSpeed = dp.BulletSpeed
	}
	if p.BulletDamage <= 0 {
		p.BulletDamage = dp.BulletDamage
	}
	if p.BulletPierce <= 0 {
		p.BulletPierce = dp.BulletPierce
	}
	if p.IFrames < 0 {
		p.IFrames = 0
	}
	if p.ShieldDuration <= 0 {
		p.ShieldDuration = dp.ShieldDuration
	}
	if p.ShieldCooldown <= 0 {
		p.ShieldCooldown = dp.ShieldCooldown
	}
	if p.Start <= 0 {
		p.Start = dp.Start
	}

	a, da := &c.Ally, d.Ally
	if a.HP <= 0 {
		a.HP = da.HP
	}
	if a.Regen < 0 {
		a.Regen = 0
	}
	if a.Speed <= 0 {
		a.Speed = da.Speed
	}
	if a.Leash <= 0 {
		a.Leash = da.Leash
	}
	if a.HoldOffset <= 0 {
		a.HoldOffset = da.HoldOffset
	}
	if a.RetreatGap <= 0 {
		a.RetreatGap = da.RetreatGap
	}
	if a.Damage <= 0 {
		a.Damage = da.Damage
	}

	k, dk := &c.Pickup, d.Pickup
	if k.DropChance < 0 {
		k.DropChance = 0
	}
	if k.Heal <= 0 {
		k.Heal = dk.Heal
	}
	if k.MagnetRadius <= 0 {
		k.MagnetRadius = dk.MagnetRadius
	}
	if k.AutoCollect <= 0 {
		k.AutoCollect = dk.AutoCollect
	}
	if k.HomeSpeed <= 0 {
		k.HomeSpeed = dk.HomeSpeed
	}
	if k.Gravity <= 0 {
		k.Gravity = dk.Gravity
	}
	if k.Big < 0 {
		k.Big = 0
	}
	if k.BigHeal <= 0 {
		k.BigHeal = dk.BigHeal
	}

	if c.Boss.X <= 0 {
		c.Boss.X = w.Width - 400
	}
	if c.Boss.Trigger <= 0 {
		c.Boss.Trigger = d.Boss.Trigger
	}
	if c.Boss.Machine.MaxHP <= 0 && c.Boss.Machine.Telegraph <= 0 {
		seed := c.Boss.Machine.Seed
		c.Boss.Machine = d.Boss.Machine
		c.Boss.Machine.Seed = seed
	}
	if c.Boss.Machine.Logger == nil {
		c.Boss.Machine.Logger = c.Logger
	}
	if c.Director.Logger == nil {
		c.Director.Logger = c.Logger
	}
	if c.Archetypes == nil {
		c.Archetypes = d.Archetypes
	}
	return c
}

// archetype looks up tag, falling back to DefaultArchetype.
func (c Config) archetype(tag string) (Archetype, bool) {
	a, ok := c.Archetypes[tag]
	if !ok {
		return DefaultArchetype, false
	}
	if a.HP <= 0 {
		a.HP = DefaultArchetype.HP
	}
	return a, true
}
