package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthTakeDamageReportsKillOnce(t *testing.T) {
	h := NewHealth(5)
	deaths := 0
	h.OnDeath = func(*Health) { deaths++ }

	assert.False(t, h.TakeDamage(2))
	assert.Equal(t, 3.0, h.Current)
	assert.True(t, h.TakeDamage(10))
	assert.Equal(t, 0.0, h.Current, "hp clamps at zero")
	assert.False(t, h.TakeDamage(1), "already dead")
	assert.Equal(t, 1, deaths)
	assert.False(t, h.Alive())
}

func TestHealthIFramesBlockDamage(t *testing.T) {
	h := NewHealth(10)
	h.StartIFrames(0.5)
	require.False(t, h.ApplyDamage(3))
	h.Tick(0.25)
	require.False(t, h.ApplyDamage(3))
	h.Tick(0.25)
	require.True(t, h.ApplyDamage(3))
	assert.Equal(t, 7.0, h.Current)
}

func TestHealthHealCapsAtMax(t *testing.T) {
	h := NewHealth(10)
	h.ApplyDamage(4)
	h.Heal(100)
	assert.Equal(t, 10.0, h.Current)
	assert.Equal(t, 1.0, h.Fraction())
}

func TestFriendly(t *testing.T) {
	cases := []struct {
		a, b Faction
		want bool
	}{
		{FactionPlayer, FactionAlly, true},
		{FactionAlly, FactionAlly, true},
		{FactionPlayer, FactionEnemy, false},
		{FactionEnemy, FactionEnemy, true},
		{FactionNeutral, FactionEnemy, false},
	}
	for _, c := range cases {
		t.Run(c.a.String()+"_"+c.b.String(), func(t *testing.T) {
			assert.Equal(t, c.want, Friendly(c.a, c.b))
		})
	}
}

func TestParseFaction(t *testing.T) {
	f, err := ParseFaction("Ally")
	require.NoError(t, err)
	assert.Equal(t, FactionAlly, f)

	_, err = ParseFaction("pirate")
	assert.Error(t, err)
}

func TestEmitterFansOut(t *testing.T) {
	var em CombatEventEmitter
	var got []CombatEventType
	em.Subscribe(func(evt CombatEvent) { got = append(got, evt.Type) })
	em.Subscribe(nil)
	em.Emit(CombatEvent{Type: EventHit})
	em.Emit(CombatEvent{Type: EventDeath})
	assert.Equal(t, []CombatEventType{EventHit, EventDeath}, got)
}
