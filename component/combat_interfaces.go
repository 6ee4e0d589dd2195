package component

// Damageable is implemented by every combat participant that can be hurt:
// enemies, the player and bosses. The resolver only deals damage through it.
type Damageable interface {
	// TakeDamage applies amount and reports whether this call killed the
	// receiver. It returns true at most once over the receiver's lifetime.
	TakeDamage(amount float64) bool
	Alive() bool
}

var _ Damageable = (*Health)(nil)
