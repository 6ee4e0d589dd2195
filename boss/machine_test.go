package boss

import (
	"bytes"
	"errors"
	"log"
	"math"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/lane"
)

var (
	_ component.Damageable = (*Machine)(nil)
	_ lane.Target          = (*Machine)(nil)
)

var player = cp.Vector{X: 100, Y: 440}

type trace struct {
	entered []Phase
	fired   map[Phase]int
	orders  []FireOrder
	last    Output
}

// run feeds fixed steps and records every phase entry and fire order.
func run(m *Machine, total, dt float64) trace {
	tr := trace{fired: map[Phase]int{}}
	steps := int(math.Round(total / dt))
	for i := 0; i < steps; i++ {
		out := m.Update(Input{DT: dt, Player: player})
		tr.entered = append(tr.entered, out.Entered...)
		for _, f := range out.Fire {
			tr.fired[f.Phase]++
			tr.orders = append(tr.orders, f)
		}
		tr.last = out
	}
	return tr
}

func newMachine() *Machine {
	return New(Config{Seed: 7}, cp.Vector{X: 800, Y: 440})
}

func TestEngageFiresFansThenEntersVolley(t *testing.T) {
	m := newMachine()
	require.Equal(t, PhaseEngage, m.Phase())

	tr := run(m, 3.9, 0.1)
	assert.Equal(t, PhaseEngage, m.Phase())
	assert.Equal(t, 3*5, tr.fired[PhaseEngage], "one fan per second")

	tr = run(m, 0.1, 0.1)
	assert.Equal(t, 5, tr.fired[PhaseEngage], "the fan due at the window end still fires")
	assert.Equal(t, []Phase{PhaseVolley}, tr.entered)
	assert.True(t, tr.last.Telegraphing)
}

func TestEngageMovesTowardPlayer(t *testing.T) {
	m := newMachine()
	run(m, 1.5, 0.1)
	assert.InDelta(t, 700, m.Pos().X, 1e-6)
	run(m, 2, 0.1)
	assert.InDelta(t, 600, m.Pos().X, 1e-6, "motion stops after 200 units")
	assert.Equal(t, 440.0, m.Pos().Y)
}

func TestZeroConfigRainSpreads(t *testing.T) {
	m := newMachine()
	run(m, 4+3.4, 0.05)
	require.Equal(t, PhaseRain, m.Phase())

	tr := run(m, 1.4, 0.05)
	require.GreaterOrEqual(t, tr.fired[PhaseRain], 5)
	xs := map[float64]bool{}
	for _, o := range tr.orders {
		if o.Phase != PhaseRain {
			continue
		}
		assert.LessOrEqual(t, math.Abs(o.Pos.X-m.Pos().X), 80.0)
		xs[o.Pos.X] = true
	}
	assert.Greater(t, len(xs), 1, "rain lands at random offsets")
}

func TestCycleOrderAfterEngage(t *testing.T) {
	m := newMachine()
	tr := run(m, 4+3*3.4+1, 0.05)
	assert.Equal(t, []Phase{PhaseEngage, PhaseVolley, PhaseRain, PhaseHeavyOrbs, PhaseVolley}, tr.entered)
}

func TestTelegraphHoldsFire(t *testing.T) {
	m := newMachine()
	run(m, 4, 0.1)
	require.Equal(t, PhaseVolley, m.Phase())

	tr := run(m, 0.3, 0.1)
	assert.Empty(t, tr.orders)
	assert.True(t, m.Telegraphing())

	tr = run(m, 0.1, 0.1)
	assert.Len(t, tr.orders, 5, "volley fan fires right after the telegraph")
	assert.False(t, m.Telegraphing())
}

func TestPhaseAttackCounts(t *testing.T) {
	m := newMachine()
	run(m, 4+3.4, 0.1)
	require.Equal(t, PhaseRain, m.Phase())

	tr := run(m, 3.4, 0.1)
	assert.Equal(t, 15, tr.fired[PhaseRain], "every 200ms across 3s")
	assert.Equal(t, PhaseHeavyOrbs, m.Phase())

	tr = run(m, 3.4, 0.1)
	assert.Equal(t, 3, tr.fired[PhaseHeavyOrbs], "every 800ms across 3s")
	assert.Equal(t, PhaseVolley, m.Phase())
}

func TestLargeStepFiresEveryDueEvent(t *testing.T) {
	fine := newMachine()
	coarse := newMachine()
	a := run(fine, 20, 0.01)
	b := run(coarse, 20, 2.5)
	assert.Equal(t, a.entered, b.entered)
	assert.Equal(t, a.fired, b.fired)
}

func TestRainAndOrbShape(t *testing.T) {
	m := newMachine()
	tr := run(m, 4+3.4+3.4+3.4, 0.1)
	bossPos := m.Pos()
	for _, o := range tr.orders {
		switch o.Phase {
		case PhaseRain:
			assert.LessOrEqual(t, math.Abs(o.Pos.X-bossPos.X), 80.0)
			assert.Equal(t, bossPos.Y-200, o.Pos.Y)
			assert.Equal(t, cp.Vector{Y: 200}, o.Vel)
		case PhaseHeavyOrbs:
			assert.Equal(t, lane.SizeLarge, o.Size)
			assert.Equal(t, -100.0, o.Vel.X, "orbs travel toward the player side")
			assert.Equal(t, 2.0, o.Damage)
		case PhaseVolley, PhaseEngage:
			assert.Less(t, o.Vel.X, 0.0, "fans open toward the player side")
			assert.InDelta(t, 250, o.Vel.Length(), 1e-9)
		}
	}
}

func TestEnrageScenario(t *testing.T) {
	m := newMachine()
	assert.Equal(t, 3000*time.Millisecond, m.PhaseDuration())

	assert.False(t, m.TakeDamage(35))
	assert.Equal(t, 65.0, m.HP())
	assert.False(t, m.Enraged())

	assert.False(t, m.TakeDamage(40))
	assert.Equal(t, 25.0, m.HP())
	assert.True(t, m.Enraged())
	assert.Equal(t, 1800*time.Millisecond, m.PhaseDuration())

	m.Heal(100)
	assert.Equal(t, 100.0, m.HP())
	assert.True(t, m.Enraged(), "enrage is a one-way latch")
	assert.Equal(t, 1800*time.Millisecond, m.PhaseDuration())
}

func TestEnragedPhasesShorten(t *testing.T) {
	m := newMachine()
	m.TakeDamage(80)
	run(m, 4, 0.1)
	require.Equal(t, PhaseVolley, m.Phase())

	tr := run(m, 0.4+1.8, 0.1)
	assert.Equal(t, []Phase{PhaseRain}, tr.entered)

	tr = run(m, 0.4+1.8, 0.1)
	assert.Equal(t, 9, tr.fired[PhaseRain])
	assert.Equal(t, []Phase{PhaseHeavyOrbs}, tr.entered)
}

func TestInterruptIgnoredDuringEngage(t *testing.T) {
	m := newMachine()
	assert.False(t, m.AcceptsInterrupt())
	out := m.Update(Input{DT: 0.1, Interrupt: true, Player: player})
	assert.Equal(t, PhaseEngage, out.Phase)
	assert.Equal(t, []Phase{PhaseEngage}, out.Entered, "only the opening entry is reported")
}

func TestInterruptForcesVolleyWithoutMovingCycle(t *testing.T) {
	m := newMachine()
	run(m, 4+3.4+1, 0.1)
	require.Equal(t, PhaseRain, m.Phase())
	require.True(t, m.AcceptsInterrupt())

	out := m.Update(Input{DT: 0.1, Interrupt: true, Player: player})
	assert.Equal(t, PhaseVolley, out.Phase)
	assert.True(t, out.Telegraphing)
	assert.Equal(t, []Phase{PhaseVolley}, out.Entered)

	tr := run(m, 3.4, 0.1)
	assert.Equal(t, []Phase{PhaseHeavyOrbs}, tr.entered, "rotation resumes after the displaced phase")
}

func TestInterruptRestartsVolleyTelegraph(t *testing.T) {
	m := newMachine()
	run(m, 4.3, 0.1)
	require.Equal(t, PhaseVolley, m.Phase())
	require.True(t, m.Telegraphing())

	m.Update(Input{DT: 0.05, Interrupt: true, Player: player})
	tr := run(m, 0.3, 0.1)
	assert.Empty(t, tr.orders, "the telegraph restarted")
	tr = run(m, 0.1, 0.1)
	assert.Len(t, tr.orders, 5)
}

func TestDefeatCancelsTimers(t *testing.T) {
	m := newMachine()
	run(m, 4+3.4+1, 0.1)
	require.Equal(t, PhaseRain, m.Phase())

	assert.True(t, m.TakeDamage(150))
	assert.False(t, m.TakeDamage(5), "defeat is reported once")
	assert.Equal(t, 0.0, m.HP())
	assert.False(t, m.Alive())

	out := m.Update(Input{DT: 0.1, Player: player})
	assert.True(t, out.Defeated)
	assert.True(t, out.DefeatedNow)

	tr := run(m, 10, 0.1)
	assert.Empty(t, tr.orders, "no timer fires after defeat")
	assert.Empty(t, tr.entered)
	assert.False(t, tr.last.DefeatedNow)
	assert.True(t, tr.last.Defeated)

	m.Force(PhaseVolley)
	assert.Empty(t, m.Update(Input{DT: 1}).Entered)
	m.Heal(50)
	assert.Equal(t, 0.0, m.HP())
}

func TestForcePanicsOnUnknownPhase(t *testing.T) {
	m := newMachine()
	assert.Panics(t, func() { m.Force(Phase(42)) })
	assert.Panics(t, func() { m.Force(PhaseEngage) })
}

func TestParsePhase(t *testing.T) {
	cases := []struct {
		in   string
		want Phase
	}{
		{"ENGAGE", PhaseEngage},
		{"volley", PhaseVolley},
		{" Rain ", PhaseRain},
		{"heavy_orbs", PhaseHeavyOrbs},
		{"heavy-orbs", PhaseHeavyOrbs},
	}
	for _, c := range cases {
		got, err := ParsePhase(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got)
	}

	_, err := ParsePhase("laser")
	assert.True(t, errors.Is(err, ErrUnknownPhase))
	assert.Panics(t, func() { MustParsePhase("laser") })
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

func TestLoggerReceivesTransitions(t *testing.T) {
	var buf bytes.Buffer
	m := New(Config{Logger: log.New(&buf, "", 0)}, cp.Vector{X: 800, Y: 440})
	run(m, 4.5, 0.1)
	m.TakeDamage(80)
	assert.Contains(t, buf.String(), "boss: engage")
	assert.Contains(t, buf.String(), "boss: telegraph VOLLEY")
	assert.Contains(t, buf.String(), "boss: enraged")
}
