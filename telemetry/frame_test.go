package telemetry

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/component"
	"github.com/jfad2010/ivangohsgreen/pool"
)

func TestNewFrameCopiesReport(t *testing.T) {
	cfg := combat.DefaultConfig()
	cfg.Boss.Disabled = true
	cfg.Ally.Enabled = true
	cfg.Pickup.DropChance = 0
	r, err := combat.New(cfg, nil)
	require.NoError(t, err)

	victim, ok := r.Spawn("grunt", cp.Vector{X: r.Player().Pos.X + 30, Y: r.Player().Pos.Y})
	require.True(t, ok)
	r.Fire(pool.FireSpec{Pos: cp.Vector{X: r.Player().Pos.X + 30, Y: r.Player().Pos.Y}, Damage: 50, Owner: r.Player().ID, Origin: component.FactionPlayer})

	rep := r.Tick(combat.Input{DT: 1.0 / 60})
	require.Len(t, rep.Kills, 1)
	f := NewFrame(r, rep)

	assert.Equal(t, rep.Clock, f.Clock)
	assert.Equal(t, 1, f.Hits)
	require.Len(t, f.Kills, 1)
	assert.Equal(t, uint64(victim), f.Kills[0].Victim)
	assert.Equal(t, "player", f.Kills[0].Origin)
	assert.Equal(t, "grunt", f.Kills[0].Archetype)
	assert.Equal(t, 10.0, f.Player.HP)
	assert.Equal(t, 1.0, f.Player.Shield)
	require.NotNil(t, f.Ally)
	assert.Equal(t, "hold", f.Ally.Command)
	assert.Nil(t, f.Boss)
	assert.Zero(t, f.Enemies)

	r.Tick(combat.Input{DT: 1.0 / 60})
	assert.Len(t, f.Kills, 1, "frames survive the next tick")
	assert.Equal(t, "grunt", f.Kills[0].Archetype)
}

func TestFrameYAML(t *testing.T) {
	f := Frame{Clock: 2, Boss: &BossFrame{Phase: "VOLLEY", Telegraphing: true}}
	out, err := f.YAML()
	require.NoError(t, err)
	s := string(out)
	assert.Contains(t, s, "clock: 2")
	assert.Contains(t, s, "phase: VOLLEY")
	assert.Contains(t, s, "telegraphing: true")
	assert.NotContains(t, s, "ally:")
}
