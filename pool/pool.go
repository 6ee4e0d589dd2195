// Package pool provides fixed-capacity reuse pools. Every instance a pool will
// ever hand out is allocated when the pool is built; Acquire and Release only
// flip flags and move indices on a preallocated free list.
package pool

// Slot is embedded by every pooled item and carries its bookkeeping.
type Slot struct {
	index  int
	active bool
}

// Active reports whether the item is currently handed out.
func (s *Slot) Active() bool {
	return s != nil && s.active
}

func (s *Slot) slot() *Slot { return s }

// Item is satisfied by any type embedding Slot.
type Item interface {
	slot() *Slot
}

// Pool is a fixed-capacity pool of T. PT is *T and is inferred from reset.
type Pool[T any, PT interface {
	*T
	Item
}] struct {
	items  []T
	free   []int
	reset  func(PT)
	active int
}

// New builds a pool holding exactly max items. reset puts an item into its
// inert state; it runs once per item here and again on every Acquire.
func New[T any, PT interface {
	*T
	Item
}](max int, reset func(PT)) *Pool[T, PT] {
	if max < 0 {
		max = 0
	}
	p := &Pool[T, PT]{
		items: make([]T, max),
		free:  make([]int, 0, max),
		reset: reset,
	}
	for i := max - 1; i >= 0; i-- {
		item := PT(&p.items[i])
		p.clear(item)
		item.slot().index = i
		p.free = append(p.free, i)
	}
	return p
}

func (p *Pool[T, PT]) clear(item PT) {
	if p.reset == nil {
		return
	}
	s := *item.slot()
	p.reset(item)
	*item.slot() = s
}

// Acquire activates an inactive item in place and returns it, or nil when
// every item is in use. Callers treat nil as "skip silently".
func (p *Pool[T, PT]) Acquire() PT {
	if p == nil || len(p.free) == 0 {
		return nil
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	item := PT(&p.items[idx])
	p.clear(item)
	item.slot().active = true
	p.active++
	return item
}

// Release deactivates item. Releasing an inactive item, nil, or an item that
// belongs to another pool is a no-op.
func (p *Pool[T, PT]) Release(item PT) {
	if p == nil || item == nil {
		return
	}
	s := item.slot()
	if !s.active || s.index < 0 || s.index >= len(p.items) || PT(&p.items[s.index]) != item {
		return
	}
	s.active = false
	p.free = append(p.free, s.index)
	p.active--
}

// Sweep visits every active item once, releasing those for which release
// returns true and passing survivors to keep.
func (p *Pool[T, PT]) Sweep(release func(PT) bool, keep func(PT)) {
	if p == nil {
		return
	}
	for i := range p.items {
		item := PT(&p.items[i])
		if !item.slot().active {
			continue
		}
		if release != nil && release(item) {
			p.Release(item)
			continue
		}
		if keep != nil {
			keep(item)
		}
	}
}

// Each visits every active item in slot order. fn may release the item.
func (p *Pool[T, PT]) Each(fn func(PT)) {
	p.Sweep(nil, fn)
}

// Active returns how many items are handed out.
func (p *Pool[T, PT]) Active() int {
	if p == nil {
		return 0
	}
	return p.active
}

// Cap returns the fixed capacity.
func (p *Pool[T, PT]) Cap() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}
