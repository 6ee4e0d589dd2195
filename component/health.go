package component

// Health is a reusable health component for any entity that can take damage.
// IFrames counts down in seconds.
type Health struct {
	Max     float64
	Current float64
	IFrames float64
	Dead    bool

	OnDamage func(h *Health, amount float64)
	OnDeath  func(h *Health)
}

// NewHealth creates a Health component with max/current initialized.
func NewHealth(max float64) Health {
	if max <= 0 {
		max = 1
	}
	return Health{Max: max, Current: max}
}

// Alive reports whether the entity is alive.
func (h *Health) Alive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// ApplyDamage applies damage if not in i-frames. Returns true if damage was applied.
func (h *Health) ApplyDamage(amount float64) bool {
	if h == nil || h.Dead || h.IFrames > 0 || amount <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, amount)
	}
	if h.Current <= 0 {
		h.Dead = true
		if h.OnDeath != nil {
			h.OnDeath(h)
		}
	}
	return true
}

// TakeDamage implements Damageable.
func (h *Health) TakeDamage(amount float64) bool {
	if !h.Alive() {
		return false
	}
	return h.ApplyDamage(amount) && h.Dead
}

// Heal restores health up to Max.
func (h *Health) Heal(amount float64) {
	if h == nil || h.Dead || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// StartIFrames sets invulnerability for the given number of seconds.
func (h *Health) StartIFrames(seconds float64) {
	if h == nil || seconds <= 0 {
		return
	}
	if seconds > h.IFrames {
		h.IFrames = seconds
	}
}

// Tick advances the i-frame timer.
func (h *Health) Tick(dt float64) {
	if h == nil || h.IFrames <= 0 {
		return
	}
	h.IFrames -= dt
	if h.IFrames < 0 {
		h.IFrames = 0
	}
}

// Fraction returns Current/Max in [0, 1].
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}
