// Package boss drives the boss attack cycle: an ENGAGE opener followed by
// VOLLEY, RAIN and HEAVY_ORBS in rotation, each preceded by a telegraph.
//
// The machine never touches projectiles or entities. Every Update returns
// fire orders as plain values and the caller decides how to realize them.
package boss

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/common"
	"github.com/jfad2010/ivangohsgreen/lane"
)

// Config holds static tuning. Zero fields fall back to the defaults, except
// Size where the zero value is a valid class.
type Config struct {
	MaxHP              float64
	Size               lane.SizeClass
	Telegraph          time.Duration
	PhaseDuration      time.Duration
	EnrageScale        float64
	EnrageThreshold    float64
	EngageWindow       time.Duration
	EngageFireInterval time.Duration
	EngageMotion       time.Duration
	EngageShift        float64
	RainInterval       time.Duration
	RainSpread         float64
	RainHeight         float64
	RainSpeed          float64
	OrbInterval        time.Duration
	OrbSpeed           float64
	FanAngles          []float64
	FanSpeed           float64
	ShotDamage         float64
	OrbDamage          float64
	Seed               int64
	Logger             *log.Logger
}

func DefaultConfig() Config {
	return Config{
		MaxHP:              100,
		Size:               lane.SizeLarge,
		Telegraph:          400 * time.Millisecond,
		PhaseDuration:      3000 * time.Millisecond,
		EnrageScale:        0.6,
		EnrageThreshold:    0.3,
		EngageWindow:       4 * time.Second,
		EngageFireInterval: time.Second,
		EngageMotion:       3 * time.Second,
		EngageShift:        200,
		RainInterval:       200 * time.Millisecond,
		RainSpread:         80,
		RainHeight:         200,
		RainSpeed:          200,
		OrbInterval:        800 * time.Millisecond,
		OrbSpeed:           100,
		FanAngles:          []float64{-0.3, -0.15, 0, 0.15, 0.3},
		FanSpeed:           250,
		ShotDamage:         1,
		OrbDamage:          2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxHP <= 0 {
		c.MaxHP = d.MaxHP
	}
	if c.Telegraph <= 0 {
		c.Telegraph = d.Telegraph
	}
	if c.PhaseDuration <= 0 {
		c.PhaseDuration = d.PhaseDuration
	}
	if c.EnrageScale <= 0 {
		c.EnrageScale = d.EnrageScale
	}
	if c.EnrageThreshold <= 0 {
		c.EnrageThreshold = d.EnrageThreshold
	}
	if c.EngageWindow <= 0 {
		c.EngageWindow = d.EngageWindow
	}
	if c.EngageFireInterval <= 0 {
		c.EngageFireInterval = d.EngageFireInterval
	}
	if c.EngageMotion <= 0 {
		c.EngageMotion = d.EngageMotion
	}
	if c.EngageShift <= 0 {
		c.EngageShift = d.EngageShift
	}
	if c.RainInterval <= 0 {
		c.RainInterval = d.RainInterval
	}
	if c.RainSpread <= 0 {
		c.RainSpread = d.RainSpread
	}
	if c.RainHeight <= 0 {
		c.RainHeight = d.RainHeight
	}
	if c.RainSpeed <= 0 {
		c.RainSpeed = d.RainSpeed
	}
	if c.OrbInterval <= 0 {
		c.OrbInterval = d.OrbInterval
	}
	if c.OrbSpeed <= 0 {
		c.OrbSpeed = d.OrbSpeed
	}
	if len(c.FanAngles) == 0 {
		c.FanAngles = d.FanAngles
	}
	if c.FanSpeed <= 0 {
		c.FanSpeed = d.FanSpeed
	}
	if c.ShotDamage <= 0 {
		c.ShotDamage = d.ShotDamage
	}
	if c.OrbDamage <= 0 {
		c.OrbDamage = d.OrbDamage
	}
	return c
}

// FireOrder asks the caller to launch one projectile.
type FireOrder struct {
	Phase  Phase
	Pos    cp.Vector
	Vel    cp.Vector
	Damage float64
	Pierce int
	Size   lane.SizeClass
}

// Input is the per-tick snapshot. Interrupt is the edge-triggered volley
// signal; it is ignored unless AcceptsInterrupt reports true.
type Input struct {
	DT        float64
	Interrupt bool
	Player    cp.Vector
}

// Output reports the machine state after a tick. Fire and Entered are reused
// by the next Update. DefeatedNow is true on exactly one Update.
type Output struct {
	Phase        Phase
	Telegraphing bool
	Entered      []Phase
	Fire         []FireOrder
	Pos          cp.Vector
	HP           float64
	MaxHP        float64
	Enraged      bool
	Defeated     bool
	DefeatedNow  bool
}

// Machine is the boss phase state machine. A phase is a tagged state plus a
// stage timer and at most one repeating attack timer.
type Machine struct {
	cfg Config
	rng *rand.Rand

	phase     Phase
	telegraph bool
	cycleIdx  int

	stageLeft  time.Duration
	every      time.Duration
	repeatLeft time.Duration

	pos        cp.Vector
	player     cp.Vector
	engageFrom float64
	engageDir  float64
	engaged    time.Duration

	hp        float64
	enraged   bool
	defeated  bool
	announced bool

	fire    []FireOrder
	entered []Phase
}

// New returns a machine at full health, already in ENGAGE.
func New(cfg Config, pos cp.Vector) *Machine {
	cfg = cfg.withDefaults()
	m := &Machine{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		phase:      PhaseEngage,
		stageLeft:  cfg.EngageWindow,
		every:      cfg.EngageFireInterval,
		repeatLeft: cfg.EngageFireInterval,
		pos:        pos,
		engageFrom: pos.X,
		hp:         cfg.MaxHP,
		fire:       make([]FireOrder, 0, 16),
		entered:    make([]Phase, 0, 4),
	}
	m.entered = append(m.entered, PhaseEngage)
	m.logf("boss: engage")
	return m
}

// Update advances every timer by in.DT seconds. Timers expire in order within
// the tick, and a repeating attack due at the same instant as a stage expiry
// fires first.
func (m *Machine) Update(in Input) Output {
	m.player = in.Player
	if !m.defeated {
		if in.Interrupt && m.AcceptsInterrupt() {
			m.Force(PhaseVolley)
		}
		if m.engageDir == 0 {
			m.engageDir = m.facing()
		}
		m.advance(toDuration(in.DT))
	}

	out := Output{
		Phase:        m.phase,
		Telegraphing: m.telegraph && !m.defeated,
		Entered:      m.entered,
		Fire:         m.fire,
		Pos:          m.pos,
		HP:           m.hp,
		MaxHP:        m.cfg.MaxHP,
		Enraged:      m.enraged,
		Defeated:     m.defeated,
	}
	if m.defeated && !m.announced {
		m.announced = true
		out.DefeatedNow = true
	}
	m.fire = m.fire[:0]
	m.entered = m.entered[:0]
	return out
}

// Force cancels the current stage and enters p through its telegraph without
// moving the cycle pointer. It panics on unknown phases and on ENGAGE, which
// is never re-entered. A defeated boss ignores it.
func (m *Machine) Force(p Phase) {
	if !p.Valid() {
		panic(fmt.Errorf("%w: %d", ErrUnknownPhase, uint8(p)))
	}
	if p == PhaseEngage {
		panic("boss: ENGAGE cannot be re-entered")
	}
	if m.defeated {
		return
	}
	m.logf("boss: forced %s", p)
	m.enter(p)
}

// AcceptsInterrupt reports whether a forced VOLLEY would be honored now.
func (m *Machine) AcceptsInterrupt() bool {
	return !m.defeated && m.phase != PhaseEngage
}

// TakeDamage applies damage and reports true only on the hit that defeats the
// boss. All timers are cancelled at that moment.
func (m *Machine) TakeDamage(amount float64) bool {
	if m.defeated || amount <= 0 {
		return false
	}
	m.hp -= amount
	if m.hp < 0 {
		m.hp = 0
	}
	m.checkEnrage()
	if m.hp > 0 {
		return false
	}
	m.defeated = true
	m.telegraph = false
	m.stageLeft = 0
	m.every = 0
	m.repeatLeft = 0
	m.logf("boss: defeated")
	return true
}

// Heal restores hp up to the maximum. It never clears the enrage latch.
func (m *Machine) Heal(amount float64) {
	if m.defeated || amount <= 0 {
		return
	}
	m.hp = math.Min(m.cfg.MaxHP, m.hp+amount)
}

func (m *Machine) Alive() bool { return !m.defeated }

func (m *Machine) Phase() Phase { return m.phase }

func (m *Machine) Telegraphing() bool { return m.telegraph && !m.defeated }

func (m *Machine) HP() float64 { return m.hp }

func (m *Machine) MaxHP() float64 { return m.cfg.MaxHP }

func (m *Machine) Enraged() bool { return m.enraged }

func (m *Machine) Defeated() bool { return m.defeated }

func (m *Machine) Pos() cp.Vector { return m.pos }

func (m *Machine) LaneY() float64 { return m.pos.Y }

func (m *Machine) Size() lane.SizeClass { return m.cfg.Size }

// PhaseDuration is the hold time of the next cyclic phase, shortened once
// enraged.
func (m *Machine) PhaseDuration() time.Duration {
	if !m.enraged {
		return m.cfg.PhaseDuration
	}
	return time.Duration(math.Round(float64(m.cfg.PhaseDuration) * m.cfg.EnrageScale))
}

func (m *Machine) advance(d time.Duration) {
	for d > 0 && !m.defeated {
		step := m.stageLeft
		if m.every > 0 && m.repeatLeft < step {
			step = m.repeatLeft
		}
		if step > d {
			m.elapse(d)
			return
		}
		m.elapse(step)
		d -= step
		if m.every > 0 && m.repeatLeft <= 0 {
			m.repeatLeft += m.every
			m.repeat()
		}
		if m.stageLeft <= 0 {
			m.expire()
		}
	}
}

func (m *Machine) elapse(d time.Duration) {
	m.stageLeft -= d
	if m.every > 0 {
		m.repeatLeft -= d
	}
	if m.phase == PhaseEngage && m.engaged < m.cfg.EngageMotion {
		m.engaged += d
		t := common.Clamp(float64(m.engaged)/float64(m.cfg.EngageMotion), 0, 1)
		m.pos.X = common.Lerp(m.engageFrom, m.engageFrom+m.engageDir*m.cfg.EngageShift, t)
	}
}

// expire ends the current stage: the ENGAGE window, a telegraph or a phase
// hold.
func (m *Machine) expire() {
	switch {
	case m.phase == PhaseEngage:
		m.every = 0
		m.advanceCycle()
	case m.telegraph:
		m.telegraph = false
		m.stageLeft = m.PhaseDuration()
		m.execute()
	default:
		m.advanceCycle()
	}
}

func (m *Machine) advanceCycle() {
	next := cycle[m.cycleIdx]
	m.cycleIdx = (m.cycleIdx + 1) % len(cycle)
	m.enter(next)
}

func (m *Machine) enter(p Phase) {
	m.phase = p
	m.telegraph = true
	m.stageLeft = m.cfg.Telegraph
	m.every = 0
	m.repeatLeft = 0
	m.entered = append(m.entered, p)
	m.logf("boss: telegraph %s", p)
}

// execute runs the phase effect once its telegraph has elapsed.
func (m *Machine) execute() {
	m.logf("boss: %s for %s", m.phase, m.stageLeft)
	switch m.phase {
	case PhaseVolley:
		m.fan()
	case PhaseRain:
		m.every = m.cfg.RainInterval
		m.repeatLeft = m.every
	case PhaseHeavyOrbs:
		m.every = m.cfg.OrbInterval
		m.repeatLeft = m.every
	}
}

func (m *Machine) repeat() {
	switch m.phase {
	case PhaseEngage:
		m.fan()
	case PhaseRain:
		m.rain()
	case PhaseHeavyOrbs:
		m.orb()
	}
}

func (m *Machine) fan() {
	base := 0.0
	if m.facing() < 0 {
		base = math.Pi
	}
	for _, a := range m.cfg.FanAngles {
		m.fire = append(m.fire, FireOrder{
			Phase:  m.phase,
			Pos:    m.pos,
			Vel:    cp.ForAngle(base + a).Mult(m.cfg.FanSpeed),
			Damage: m.cfg.ShotDamage,
			Pierce: 1,
		})
	}
}

func (m *Machine) rain() {
	offset := (m.rng.Float64()*2 - 1) * m.cfg.RainSpread
	m.fire = append(m.fire, FireOrder{
		Phase:  PhaseRain,
		Pos:    cp.Vector{X: m.pos.X + offset, Y: m.pos.Y - m.cfg.RainHeight},
		Vel:    cp.Vector{Y: m.cfg.RainSpeed},
		Damage: m.cfg.ShotDamage,
		Pierce: 1,
	})
}

func (m *Machine) orb() {
	m.fire = append(m.fire, FireOrder{
		Phase:  PhaseHeavyOrbs,
		Pos:    m.pos,
		Vel:    cp.Vector{X: m.facing() * m.cfg.OrbSpeed},
		Damage: m.cfg.OrbDamage,
		Pierce: 1,
		Size:   lane.SizeLarge,
	})
}

func (m *Machine) checkEnrage() {
	if m.enraged || m.hp > m.cfg.MaxHP*m.cfg.EnrageThreshold {
		return
	}
	m.enraged = true
	m.logf("boss: enraged at %.0f/%.0f", m.hp, m.cfg.MaxHP)
}

// facing is +1 when the player is to the right of the boss, -1 otherwise.
func (m *Machine) facing() float64 {
	if m.player.X > m.pos.X {
		return 1
	}
	return -1
}

func (m *Machine) logf(format string, args ...any) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Printf(format, args...)
	}
}

func toDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
