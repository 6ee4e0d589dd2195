package director

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wave(at float64, archetype string, count int) FormationWave {
	return FormationWave{Time: at, Archetype: archetype, Lane: LaneTop, Pattern: PatternLine, Count: count, Spacing: 60}
}

func mustNew(t *testing.T, waves []FormationWave) *Director {
	t.Helper()
	d, err := New(waves, DefaultConfig())
	require.NoError(t, err)
	return d
}

func archetypes(ws []FormationWave) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Archetype)
	}
	return out
}

func TestNewSortsStablyWithoutTouchingInput(t *testing.T) {
	in := []FormationWave{wave(3, "c", 1), wave(1, "a", 1), wave(3, "d", 1), wave(1, "b", 1)}
	d := mustNew(t, in)

	out := d.Update(Input{DT: 5})
	assert.Equal(t, []string{"a", "b", "c", "d"}, archetypes(out.Waves))
	assert.Equal(t, "c", in[0].Archetype, "caller slice must not be reordered")
}

func TestWavesTriggerWhenClockPasses(t *testing.T) {
	d := mustNew(t, []FormationWave{wave(1, "a", 1), wave(2, "b", 1)})

	assert.Empty(t, d.Update(Input{DT: 0.5}).Waves)
	assert.Equal(t, []string{"a"}, archetypes(d.Update(Input{DT: 0.5}).Waves), "time <= clock triggers")
	assert.Empty(t, d.Update(Input{DT: 0.5}).Waves)
	assert.Equal(t, []string{"b"}, archetypes(d.Update(Input{DT: 0.5}).Waves))
	assert.Equal(t, 0, d.Pending())
	assert.InDelta(t, 2.0, d.Clock(), 1e-9)
}

func TestGatedWavesAreSkippedForGood(t *testing.T) {
	gated := wave(1, "gated", 2)
	gated.MinProgress = 0.5
	hard := wave(1, "hard", 2)
	hard.MinDifficulty = 2
	d := mustNew(t, []FormationWave{gated, hard, wave(1, "open", 2)})

	out := d.Update(Input{DT: 1, Progress: 0.4, Difficulty: 1})
	assert.Equal(t, []string{"open"}, archetypes(out.Waves))
	assert.Equal(t, 0, d.Pending(), "failed candidates are still consumed")

	out = d.Update(Input{DT: 1, Progress: 1, Difficulty: 5})
	assert.Empty(t, out.Waves, "a skipped wave is never retried")
}

func TestEnemyCapUsesSnapshot(t *testing.T) {
	d := mustNew(t, []FormationWave{wave(0, "a", 5), wave(0, "b", 5)})
	out := d.Update(Input{DT: 0.1, LiveEnemies: 29})
	assert.Equal(t, []string{"a", "b"}, archetypes(out.Waves), "the cap is checked against the caller snapshot, not a running count")

	d = mustNew(t, []FormationWave{wave(0, "a", 5)})
	assert.Empty(t, d.Update(Input{DT: 0.1, LiveEnemies: 30}).Waves)

	d = mustNew(t, []FormationWave{wave(0, "a", 5)})
	assert.Len(t, d.Update(Input{DT: 0.1, LiveEnemies: 30, EnemyCap: 31}).Waves, 1, "per-tick cap override")
}

func TestEachWaveEvaluatedExactlyOnce(t *testing.T) {
	var ws []FormationWave
	for i := 0; i < 50; i++ {
		ws = append(ws, wave(float64(i%7)*0.37, "w", 1))
	}
	d := mustNew(t, ws)
	total := 0
	for i := 0; i < 400; i++ {
		total += len(d.Update(Input{DT: 0.016}).Waves)
	}
	assert.Equal(t, 50, total)
}

func TestPressureDecayAndIncrement(t *testing.T) {
	d := mustNew(t, []FormationWave{wave(0, "a", 4), wave(0, "b", 3)})

	out := d.Update(Input{DT: 0.2})
	assert.InDelta(t, 7.0, out.Pressure, 1e-9, "decay applies before the increment")

	out = d.Update(Input{DT: 2})
	assert.InDelta(t, 6.0, out.Pressure, 1e-9)

	// 6 / 0.5 = 12 seconds to drain; well within 2*score/decay.
	elapsed := 0.0
	for out.Pressure > 0 && elapsed < 24 {
		out = d.Update(Input{DT: 0.1})
		elapsed += 0.1
		require.GreaterOrEqual(t, out.Pressure, 0.0)
	}
	assert.Equal(t, 0.0, out.Pressure)
	assert.LessOrEqual(t, elapsed, 2*6/0.5)
}

func TestVolleyOpensOnPressure(t *testing.T) {
	d := mustNew(t, []FormationWave{wave(0, "swarm", 11)})
	out := d.Update(Input{DT: 0.5})
	require.True(t, out.VolleyOpened)
	assert.True(t, out.VolleyOpen)
	assert.True(t, d.VolleyOpen())

	assert.True(t, d.ConsumeVolleyWindow())
	assert.False(t, d.ConsumeVolleyWindow(), "a window is consumed at most once")
	assert.False(t, d.VolleyOpen())
}

func TestVolleyWindowCountsDown(t *testing.T) {
	d := mustNew(t, nil)

	out := d.Update(Input{DT: 0.5, NearBoss: true})
	require.True(t, out.VolleyOpened)

	for i := 0; i < 2; i++ {
		out = d.Update(Input{DT: 0.5})
		assert.True(t, out.VolleyOpen, "tick %d", i)
		assert.False(t, out.VolleyOpened)
	}
	out = d.Update(Input{DT: 0.5})
	assert.False(t, out.VolleyOpen, "the window elapses on the fourth tick")
	assert.False(t, d.ConsumeVolleyWindow())
}

func TestVolleyDoesNotReopenWhileOpen(t *testing.T) {
	d := mustNew(t, nil)
	require.True(t, d.Update(Input{DT: 0.1, NearBoss: true}).VolleyOpened)
	assert.False(t, d.Update(Input{DT: 0.1, NearBoss: true}).VolleyOpened)

	require.True(t, d.ConsumeVolleyWindow())
	assert.True(t, d.Update(Input{DT: 0.1, NearBoss: true}).VolleyOpened, "after consumption a new window may open")
}

func TestValidationRejectsMalformedWaves(t *testing.T) {
	cases := []struct {
		name string
		mod  func(w *FormationWave)
	}{
		{"negative_count", func(w *FormationWave) { w.Count = -1 }},
		{"missing_pattern", func(w *FormationWave) { w.Pattern = "" }},
		{"unknown_pattern", func(w *FormationWave) { w.Pattern = "spiral" }},
		{"unknown_lane", func(w *FormationWave) { w.Lane = "middle" }},
		{"negative_time", func(w *FormationWave) { w.Time = -2 }},
		{"missing_archetype", func(w *FormationWave) { w.Archetype = " " }},
		{"negative_radius", func(w *FormationWave) { w.Radius = -5 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := wave(1, "a", 3)
			c.mod(&w)
			_, err := New([]FormationWave{wave(0, "ok", 1), w}, DefaultConfig())
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidWave))
		})
	}
}

func TestResetRewindsTimeline(t *testing.T) {
	d := mustNew(t, []FormationWave{wave(1, "a", 20)})
	d.Update(Input{DT: 1})
	require.Greater(t, d.Pressure(), 0.0)

	d.Reset()
	assert.Equal(t, 1, d.Pending())
	assert.Equal(t, 0.0, d.Pressure())
	assert.Equal(t, 0.0, d.Clock())
	assert.Len(t, d.Update(Input{DT: 1}).Waves, 1)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultConfig().EnemyCap, cfg.EnemyCap)
	assert.Equal(t, 0.5, cfg.PressureDecay)
	assert.Equal(t, 10.0, cfg.PressureThreshold)
	assert.Equal(t, 2.0, cfg.VolleyWindow)
}
