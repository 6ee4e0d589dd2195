package ecs

// Registry hands out entity handles and tracks which are still alive.
// Slots are recycled with a bumped generation, so a stale handle (for example
// the owner of a projectile that died mid-flight) never aliases a newer entity.
type Registry struct {
	gen   []uint32
	free  []uint32
	alive int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new live entity.
func (r *Registry) Create() Entity {
	var slot uint32
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.gen = append(r.gen, 0)
		slot = uint32(len(r.gen))
	}
	r.alive++
	return newEntity(slot, r.gen[slot-1])
}

// Destroy retires the handle. It returns false for stale or unknown handles.
func (r *Registry) Destroy(e Entity) bool {
	if !r.IsAlive(e) {
		return false
	}
	r.gen[e.Slot()-1]++
	r.free = append(r.free, e.Slot())
	r.alive--
	return true
}

// IsAlive reports whether e is the current generation of its slot.
func (r *Registry) IsAlive(e Entity) bool {
	if r == nil || !e.Valid() {
		return false
	}
	slot := e.Slot()
	if int(slot) > len(r.gen) {
		return false
	}
	return r.gen[slot-1] == e.Generation()
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.alive
}
