package ecs

import "fmt"

// Entity is a generational handle: the low 32 bits hold the 1-based slot and
// the high 32 bits the generation. The zero Entity is never issued.
type Entity uint64

const slotBits = 32

func newEntity(slot, gen uint32) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(slot))
}

// Slot is the registry slot the handle points at.
func (e Entity) Slot() uint32 { return uint32(e) }

// Generation is how many times the slot had been recycled when e was issued.
func (e Entity) Generation() uint32 { return uint32(uint64(e) >> slotBits) }

// String renders slot:generation.
func (e Entity) String() string {
	return fmt.Sprintf("%d:%d", e.Slot(), e.Generation())
}

func (e Entity) Valid() bool { return e.Slot() != 0 }
