package prefabs

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jfad2010/ivangohsgreen/boss"
	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/director"
	"github.com/jfad2010/ivangohsgreen/lane"
	"gopkg.in/yaml.v3"
)

// DefaultEncounter is the encounter shipped with the binary.
const DefaultEncounter = "default.yaml"

var ErrInvalidEncounter = errors.New("prefabs: invalid encounter")

// LoadSpec reads a yaml prefab into T without validating it.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// EncounterSpec is the authored description of one fight: the belt, every
// tuning knob and the wave timeline. Zero fields fall back to the engine
// defaults.
type EncounterSpec struct {
	Name       string                   `yaml:"name"`
	Seed       int64                    `yaml:"seed"`
	World      WorldSpec                `yaml:"world"`
	Lane       LaneSpec                 `yaml:"lane"`
	Pools      PoolSpec                 `yaml:"pools"`
	Director   DirectorSpec             `yaml:"director"`
	Player     PlayerSpec               `yaml:"player"`
	Ally       AllySpec                 `yaml:"ally"`
	Pickups    PickupSpec               `yaml:"pickups"`
	Boss       BossSpec                 `yaml:"boss"`
	Archetypes map[string]ArchetypeSpec `yaml:"archetypes"`
	Waves      []WaveSpec               `yaml:"waves"`
	Difficulty DifficultySpec           `yaml:"difficulty"`
}

type WorldSpec struct {
	Width       float64 `yaml:"width"`
	LaneTop     float64 `yaml:"lane_top"`
	LaneBottom  float64 `yaml:"lane_bottom"`
	ViewWidth   float64 `yaml:"view_width"`
	ViewHeight  float64 `yaml:"view_height"`
	ViewLead    float64 `yaml:"view_lead"`
	SpawnAhead  float64 `yaml:"spawn_ahead"`
	SpawnMargin float64 `yaml:"spawn_margin"`
	CullMargin  float64 `yaml:"cull_margin"`
}

type LaneSpec struct {
	Band  float64 `yaml:"band"`
	Reach float64 `yaml:"reach"`
}

type PoolSpec struct {
	MaxEnemies       int     `yaml:"max_enemies"`
	Projectiles      int     `yaml:"projectiles"`
	Particles        int     `yaml:"particles"`
	Pickups          int     `yaml:"pickups"`
	ParticleLifespan float64 `yaml:"particle_lifespan"`
}

type DirectorSpec struct {
	EnemyCap          int     `yaml:"enemy_cap"`
	PressureDecay     float64 `yaml:"pressure_decay"`
	PressureThreshold float64 `yaml:"pressure_threshold"`
	VolleyWindow      float64 `yaml:"volley_window"`
}

type PlayerSpec struct {
	HP             float64        `yaml:"hp"`
	Size           lane.SizeClass `yaml:"size"`
	Speed          float64        `yaml:"speed"`
	LaneSpeed      float64        `yaml:"lane_speed"`
	BulletSpeed    float64        `yaml:"bullet_speed"`
	BulletDamage   float64        `yaml:"bullet_damage"`
	BulletPierce   int            `yaml:"bullet_pierce"`
	IFrames        float64        `yaml:"iframes"`
	ShieldDuration float64        `yaml:"shield_duration"`
	ShieldCooldown float64        `yaml:"shield_cooldown"`
	Start          float64        `yaml:"start"`
}

type AllySpec struct {
	Enabled      bool    `yaml:"enabled"`
	HP           float64 `yaml:"hp"`
	Regen        float64 `yaml:"regen"`
	Speed        float64 `yaml:"speed"`
	Leash        float64 `yaml:"leash"`
	HoldOffset   float64 `yaml:"hold_offset"`
	RetreatGap   float64 `yaml:"retreat_gap"`
	FireInterval float64 `yaml:"fire_interval"`
	Damage       float64 `yaml:"damage"`
}

type PickupSpec struct {
	DropChance   *float64 `yaml:"drop_chance"`
	Heal         float64  `yaml:"heal"`
	MagnetRadius float64  `yaml:"magnet_radius"`
	AutoCollect  float64  `yaml:"auto_collect"`
	HomeSpeed    float64  `yaml:"home_speed"`
	Gravity      float64  `yaml:"gravity"`
	Big          int      `yaml:"big"`
	BigHeal      float64  `yaml:"big_heal"`
}

// BossSpec authors boss timings in milliseconds. An omitted size keeps the
// boss large.
type BossSpec struct {
	Disabled        bool            `yaml:"disabled"`
	X               float64         `yaml:"x"`
	Trigger         float64         `yaml:"trigger"`
	MaxHP           float64         `yaml:"max_hp"`
	Size            *lane.SizeClass `yaml:"size"`
	TelegraphMS     int             `yaml:"telegraph_ms"`
	PhaseMS         int             `yaml:"phase_ms"`
	EnrageScale     float64         `yaml:"enrage_scale"`
	EnrageThreshold float64         `yaml:"enrage_threshold"`
	EngageWindowMS  int             `yaml:"engage_window_ms"`
	EngageFireMS    int             `yaml:"engage_fire_ms"`
	EngageMotionMS  int             `yaml:"engage_motion_ms"`
	EngageShift     float64         `yaml:"engage_shift"`
	RainMS          int             `yaml:"rain_ms"`
	RainSpread      float64         `yaml:"rain_spread"`
	RainHeight      float64         `yaml:"rain_height"`
	RainSpeed       float64         `yaml:"rain_speed"`
	OrbMS           int             `yaml:"orb_ms"`
	OrbSpeed        float64         `yaml:"orb_speed"`
	FanAngles       []float64       `yaml:"fan_angles"`
	FanSpeed        float64         `yaml:"fan_speed"`
	ShotDamage      float64         `yaml:"shot_damage"`
	OrbDamage       float64         `yaml:"orb_damage"`
}

type ArchetypeSpec struct {
	HP         float64        `yaml:"hp"`
	Size       lane.SizeClass `yaml:"size"`
	Speed      float64        `yaml:"speed"`
	ContactDPS float64        `yaml:"contact_dps"`
}

type WaveSpec struct {
	Time          float64 `yaml:"time"`
	Archetype     string  `yaml:"archetype"`
	Lane          string  `yaml:"lane"`
	Pattern       string  `yaml:"pattern"`
	Count         int     `yaml:"count"`
	Spacing       float64 `yaml:"spacing"`
	Radius        float64 `yaml:"radius"`
	MinProgress   float64 `yaml:"min_progress"`
	MinDifficulty float64 `yaml:"min_difficulty"`
}

// DifficultySpec names the script that maps progress and elapsed time to a
// difficulty value. Without a script the difficulty stays at Base.
type DifficultySpec struct {
	Script string  `yaml:"script"`
	Base   float64 `yaml:"base"`
}

// LoadEncounter reads, parses and validates a named encounter.
func LoadEncounter(name string) (*EncounterSpec, error) {
	if name == "" {
		name = DefaultEncounter
	}
	if path.Ext(name) == "" {
		name += ".yaml"
	}
	spec, err := LoadSpec[EncounterSpec](name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", name, err)
	}
	return &spec, nil
}

// ParseEncounter decodes yaml and validates the result.
func ParseEncounter(data []byte) (*EncounterSpec, error) {
	var spec EncounterSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate reports every problem at once, wrapped with ErrInvalidEncounter.
func (s *EncounterSpec) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	w := s.World
	if w.Width < 0 {
		add("world: negative width %v", w.Width)
	}
	if w.LaneTop != 0 || w.LaneBottom != 0 {
		if w.LaneTop >= w.LaneBottom {
			add("world: lane_top %v must be above lane_bottom %v", w.LaneTop, w.LaneBottom)
		}
	}
	if s.Lane.Band < 0 || s.Lane.Reach < 0 {
		add("lane: band and reach must not be negative")
	}
	p := s.Pools
	if p.MaxEnemies < 0 || p.Projectiles < 0 || p.Particles < 0 || p.Pickups < 0 {
		add("pools: capacities must not be negative")
	}
	if s.Player.BulletPierce < 0 {
		add("player: negative bullet_pierce %d", s.Player.BulletPierce)
	}
	if c := s.Pickups.DropChance; c != nil && (*c < 0 || *c > 1) {
		add("pickups: drop_chance %v outside [0, 1]", *c)
	}
	if s.Pickups.Big < 0 {
		add("pickups: negative big count %d", s.Pickups.Big)
	}
	b := s.Boss
	if b.EnrageScale < 0 || b.EnrageScale > 1 {
		add("boss: enrage_scale %v outside [0, 1]", b.EnrageScale)
	}
	if b.EnrageThreshold < 0 || b.EnrageThreshold > 1 {
		add("boss: enrage_threshold %v outside [0, 1]", b.EnrageThreshold)
	}
	for _, ms := range []int{b.TelegraphMS, b.PhaseMS, b.EngageWindowMS, b.EngageFireMS, b.EngageMotionMS, b.RainMS, b.OrbMS} {
		if ms < 0 {
			add("boss: negative duration %dms", ms)
			break
		}
	}
	for name, a := range s.Archetypes {
		if strings.TrimSpace(name) == "" {
			add("archetypes: empty name")
		}
		if a.HP < 0 || a.Speed < 0 || a.ContactDPS < 0 {
			add("archetypes: %s has negative stats", name)
		}
	}
	for i, wave := range s.Waves {
		if err := wave.toWave().Validate(); err != nil {
			add("wave %d: %w", i, err)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w %q: %w", ErrInvalidEncounter, s.Name, errors.Join(errs...))
}

// Config converts the spec into resolver tuning.
func (s *EncounterSpec) Config() combat.Config {
	cfg := combat.DefaultConfig()
	cfg.Seed = s.Seed

	w := s.World
	cfg.World = combat.World{
		Width:       w.Width,
		LaneTop:     w.LaneTop,
		LaneBottom:  w.LaneBottom,
		ViewWidth:   w.ViewWidth,
		ViewHeight:  w.ViewHeight,
		ViewLead:    w.ViewLead,
		SpawnAhead:  w.SpawnAhead,
		SpawnMargin: w.SpawnMargin,
		CullMargin:  w.CullMargin,
	}
	cfg.Band = s.Lane.Band
	cfg.Reach = s.Lane.Reach
	cfg.MaxEnemies = s.Pools.MaxEnemies
	cfg.Projectiles = s.Pools.Projectiles
	cfg.Particles = s.Pools.Particles
	cfg.Pickups = s.Pools.Pickups
	cfg.ParticleLifespan = s.Pools.ParticleLifespan

	cfg.Director = director.Config{
		EnemyCap:          s.Director.EnemyCap,
		PressureDecay:     s.Director.PressureDecay,
		PressureThreshold: s.Director.PressureThreshold,
		VolleyWindow:      s.Director.VolleyWindow,
	}

	pl := s.Player
	cfg.Player = combat.PlayerConfig{
		HP:             pl.HP,
		Size:           pl.Size,
		Speed:          pl.Speed,
		LaneSpeed:      pl.LaneSpeed,
		BulletSpeed:    pl.BulletSpeed,
		BulletDamage:   pl.BulletDamage,
		BulletPierce:   pl.BulletPierce,
		IFrames:        pl.IFrames,
		ShieldDuration: pl.ShieldDuration,
		ShieldCooldown: pl.ShieldCooldown,
		Start:          pl.Start,
	}

	a := s.Ally
	cfg.Ally = combat.AllyConfig{
		Enabled:      a.Enabled,
		HP:           a.HP,
		Regen:        a.Regen,
		Speed:        a.Speed,
		Leash:        a.Leash,
		HoldOffset:   a.HoldOffset,
		RetreatGap:   a.RetreatGap,
		FireInterval: a.FireInterval,
		Damage:       a.Damage,
	}

	k := s.Pickups
	drop := cfg.Pickup.DropChance
	if k.DropChance != nil {
		drop = *k.DropChance
	}
	cfg.Pickup = combat.PickupConfig{
		DropChance:   drop,
		Heal:         k.Heal,
		MagnetRadius: k.MagnetRadius,
		AutoCollect:  k.AutoCollect,
		HomeSpeed:    k.HomeSpeed,
		Gravity:      k.Gravity,
		Big:          k.Big,
		BigHeal:      k.BigHeal,
	}

	cfg.Boss = combat.BossConfig{
		Disabled: s.Boss.Disabled,
		X:        s.Boss.X,
		Trigger:  s.Boss.Trigger,
		Machine:  s.Boss.machine(s.Seed),
	}

	if len(s.Archetypes) > 0 {
		cfg.Archetypes = make(map[string]combat.Archetype, len(s.Archetypes))
		for name, a := range s.Archetypes {
			cfg.Archetypes[name] = combat.Archetype{HP: a.HP, Size: a.Size, Speed: a.Speed, ContactDPS: a.ContactDPS}
		}
	}
	return cfg
}

func (b BossSpec) machine(seed int64) boss.Config {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	d := boss.DefaultConfig()
	size := d.Size
	if b.Size != nil {
		size = *b.Size
	}
	maxHP := b.MaxHP
	if maxHP <= 0 {
		maxHP = d.MaxHP
	}
	return boss.Config{
		MaxHP:              maxHP,
		Size:               size,
		Telegraph:          ms(b.TelegraphMS),
		PhaseDuration:      ms(b.PhaseMS),
		EnrageScale:        b.EnrageScale,
		EnrageThreshold:    b.EnrageThreshold,
		EngageWindow:       ms(b.EngageWindowMS),
		EngageFireInterval: ms(b.EngageFireMS),
		EngageMotion:       ms(b.EngageMotionMS),
		EngageShift:        b.EngageShift,
		RainInterval:       ms(b.RainMS),
		RainSpread:         b.RainSpread,
		RainHeight:         b.RainHeight,
		RainSpeed:          b.RainSpeed,
		OrbInterval:        ms(b.OrbMS),
		OrbSpeed:           b.OrbSpeed,
		FanAngles:          b.FanAngles,
		FanSpeed:           b.FanSpeed,
		ShotDamage:         b.ShotDamage,
		OrbDamage:          b.OrbDamage,
		Seed:               seed,
	}
}

// FormationWaves converts the authored timeline.
func (s *EncounterSpec) FormationWaves() []director.FormationWave {
	out := make([]director.FormationWave, 0, len(s.Waves))
	for _, w := range s.Waves {
		out = append(out, w.toWave())
	}
	return out
}

func (w WaveSpec) toWave() director.FormationWave {
	return director.FormationWave{
		Time:          w.Time,
		Archetype:     strings.TrimSpace(w.Archetype),
		Lane:          director.Lane(strings.ToLower(strings.TrimSpace(w.Lane))),
		Pattern:       director.Pattern(strings.ToLower(strings.TrimSpace(w.Pattern))),
		Count:         w.Count,
		Spacing:       w.Spacing,
		Radius:        w.Radius,
		MinProgress:   w.MinProgress,
		MinDifficulty: w.MinDifficulty,
	}
}
