package pool

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticleFadesAndExpires(t *testing.T) {
	pp := NewParticlePool(2, 0.4)
	p := pp.Spawn(cp.Vector{X: 3, Y: 4})
	require.NotNil(t, p)
	assert.Equal(t, 0.4, p.TTL)
	assert.Equal(t, 1.0, p.Fade)

	pp.Update(0.1)
	assert.InDelta(t, 0.3, p.TTL, 1e-9)
	assert.InDelta(t, 0.75, p.Fade, 1e-9)

	pp.Update(0.1)
	assert.InDelta(t, 0.5, p.Fade, 1e-9)

	pp.Update(0.25)
	assert.False(t, p.Active())
	assert.Equal(t, 0.0, p.TTL, "ttl clamps at zero")
	assert.Equal(t, 0, pp.Active())
}

func TestParticleTTLMonotonic(t *testing.T) {
	pp := NewParticlePool(1, DefaultLifespan)
	p := pp.Spawn(cp.Vector{})
	prev := p.TTL
	for p.Active() {
		pp.Update(0.016)
		assert.LessOrEqual(t, p.TTL, prev)
		assert.LessOrEqual(t, p.TTL, pp.Lifespan())
		prev = p.TTL
	}
}

func TestParticleSpawnExhaustion(t *testing.T) {
	pp := NewParticlePool(1, 0)
	assert.Equal(t, DefaultLifespan, pp.Lifespan())
	require.NotNil(t, pp.Spawn(cp.Vector{}))
	assert.Nil(t, pp.Spawn(cp.Vector{}))
	pp.Update(1)
	assert.NotNil(t, pp.Spawn(cp.Vector{}), "expired particle returns to the pool")
}

func TestParticleNegativeDTIsIgnored(t *testing.T) {
	pp := NewParticlePool(1, 0.3)
	p := pp.Spawn(cp.Vector{})
	pp.Update(-1)
	assert.Equal(t, 0.3, p.TTL)
}
