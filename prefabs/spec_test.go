package prefabs

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfad2010/ivangohsgreen/boss"
	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/director"
	"github.com/jfad2010/ivangohsgreen/lane"
)

func TestLoadDefaultEncounter(t *testing.T) {
	spec, err := LoadEncounter("")
	require.NoError(t, err)
	assert.Equal(t, "default", spec.Name)
	require.Len(t, spec.Waves, 12)

	cfg := spec.Config()
	assert.Equal(t, 400*time.Millisecond, cfg.Boss.Machine.Telegraph)
	assert.Equal(t, 3*time.Second, cfg.Boss.Machine.PhaseDuration)
	assert.Equal(t, lane.SizeLarge, cfg.Boss.Machine.Size)
	assert.Len(t, cfg.Boss.Machine.FanAngles, 5)
	assert.Equal(t, int64(7), cfg.Boss.Machine.Seed)
	assert.Equal(t, lane.SizeSmall, cfg.Archetypes["runner"].Size)
	assert.True(t, cfg.Ally.Enabled)
	assert.Equal(t, 0.5, cfg.Pickup.DropChance)

	waves := spec.FormationWaves()
	assert.Equal(t, director.PatternArc, waves[2].Pattern)
	assert.Equal(t, director.LaneBottom, waves[1].Lane)

	r, err := combat.New(cfg, waves)
	require.NoError(t, err)
	assert.Equal(t, 12, r.Director().Pending())
}

func TestLoadEncounterStripsPrefix(t *testing.T) {
	spec, err := LoadEncounter("prefabs/default.yaml")
	require.NoError(t, err)
	assert.Equal(t, "default", spec.Name)

	spec, err = LoadEncounter("default")
	require.NoError(t, err)
	assert.Equal(t, "default", spec.Name)
}

func TestLoadEncounterMissing(t *testing.T) {
	_, err := LoadEncounter("nope.yaml")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidEncounter)
}

func TestLoadEncounterMatchesLoadSpec(t *testing.T) {
	raw, err := LoadSpec[EncounterSpec](DefaultEncounter)
	require.NoError(t, err)
	spec, err := LoadEncounter(DefaultEncounter)
	require.NoError(t, err)
	assert.Equal(t, raw, *spec)
	assert.Equal(t, 4, spec.Pickups.Big)
	assert.Equal(t, 3.0, spec.Pickups.BigHeal)

	cfg := spec.Config()
	assert.Equal(t, 4, cfg.Pickup.Big)
	assert.Equal(t, 3.0, cfg.Pickup.BigHeal)
}

func TestParseEncounterMinimal(t *testing.T) {
	spec, err := ParseEncounter([]byte(`
name: tiny
waves:
  - {time: 1, archetype: Grunt, lane: TOP, pattern: Line, count: 2}
`))
	require.NoError(t, err)

	cfg := spec.Config()
	assert.Equal(t, combat.DefaultConfig().Pickup.DropChance, cfg.Pickup.DropChance)
	m := boss.New(cfg.Boss.Machine, cp.Vector{X: 800, Y: 440})
	for i := 0; i < 35; i++ {
		m.Update(boss.Input{DT: 0.1, Player: cp.Vector{X: 100, Y: 440}})
	}
	assert.InDelta(t, 600, m.Pos().X, 1e-6, "omitted engage_shift moves the default distance")
	assert.Equal(t, lane.SizeLarge, cfg.Boss.Machine.Size)
	assert.Contains(t, cfg.Archetypes, "grunt", "defaults kept without an archetypes section")

	w := spec.FormationWaves()[0]
	assert.Equal(t, director.LaneTop, w.Lane)
	assert.Equal(t, director.PatternLine, w.Pattern)
	assert.Equal(t, "Grunt", w.Archetype)
}

func TestParseEncounterExplicitZeroDropChance(t *testing.T) {
	spec, err := ParseEncounter([]byte("pickups:\n  drop_chance: 0\n"))
	require.NoError(t, err)
	assert.Zero(t, spec.Config().Pickup.DropChance)
}

func TestParseEncounterBossSize(t *testing.T) {
	spec, err := ParseEncounter([]byte("boss:\n  size: medium\n"))
	require.NoError(t, err)
	assert.Equal(t, lane.SizeMedium, spec.Config().Boss.Machine.Size)

	_, err = ParseEncounter([]byte("boss:\n  size: huge\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, lane.ErrUnknownSize)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	_, err := ParseEncounter([]byte(`
name: broken
world: {lane_top: 500, lane_bottom: 400}
pools: {projectiles: -1}
pickups: {drop_chance: 2}
boss: {enrage_scale: 1.5, phase_ms: -10}
archetypes:
  grunt: {hp: -1}
waves:
  - {time: -1, archetype: grunt, lane: middle, pattern: zigzag}
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEncounter)
	assert.ErrorIs(t, err, director.ErrInvalidWave)

	msg := err.Error()
	for _, want := range []string{
		"broken",
		"lane_top",
		"pools",
		"drop_chance",
		"enrage_scale",
		"negative duration",
		"grunt has negative stats",
		"wave 0",
		"zigzag",
		"middle",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestParseEncounterBadYAML(t *testing.T) {
	_, err := ParseEncounter([]byte("waves: {"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidEncounter)
}

func TestLoadSpecGeneric(t *testing.T) {
	spec, err := LoadSpec[EncounterSpec]("default.yaml")
	require.NoError(t, err)
	assert.Equal(t, "difficulty.tengo", spec.Difficulty.Script)
}
