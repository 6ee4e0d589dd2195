// Package director turns elapsed time, player progress and live threat count
// into a stream of formation waves, and derives the pressure score and volley
// window that the boss reacts to.
package director

import (
	"fmt"
	"log"
	"sort"
)

// Config holds static tuning. Zero fields fall back to the defaults.
// PressureDecay is per second and VolleyWindow is in seconds.
type Config struct {
	EnemyCap          int
	PressureDecay     float64
	PressureThreshold float64
	VolleyWindow      float64
	Logger            *log.Logger
}

func DefaultConfig() Config {
	return Config{
		EnemyCap:          30,
		PressureDecay:     0.5,
		PressureThreshold: 10,
		VolleyWindow:      2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.EnemyCap <= 0 {
		c.EnemyCap = d.EnemyCap
	}
	if c.PressureDecay <= 0 {
		c.PressureDecay = d.PressureDecay
	}
	if c.PressureThreshold <= 0 {
		c.PressureThreshold = d.PressureThreshold
	}
	if c.VolleyWindow <= 0 {
		c.VolleyWindow = d.VolleyWindow
	}
	return c
}

// Input is the per-tick world snapshot. EnemyCap overrides Config.EnemyCap
// for this tick when positive.
type Input struct {
	DT          float64
	Progress    float64
	Difficulty  float64
	LiveEnemies int
	EnemyCap    int
	NearBoss    bool
}

// Output is the per-tick result. Waves is reused by the next Update.
// VolleyOpened is true only on the tick the window opened.
type Output struct {
	Waves        []FormationWave
	Pressure     float64
	VolleyOpen   bool
	VolleyOpened bool
}

// Director schedules formation waves along a fixed timeline.
type Director struct {
	cfg      Config
	waves    []FormationWave
	next     int
	clock    float64
	pressure float64
	volley   float64

	triggered []FormationWave
}

// New validates and sorts the timeline. Ties keep declaration order.
func New(waves []FormationWave, cfg Config) (*Director, error) {
	for i, w := range waves {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("wave %d: %w", i, err)
		}
	}
	sorted := append([]FormationWave(nil), waves...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Director{
		cfg:       cfg.withDefaults(),
		waves:     sorted,
		triggered: make([]FormationWave, 0, len(sorted)),
	}, nil
}

// Update advances the clock by in.DT and evaluates every wave whose time has
// come. Each wave is evaluated exactly once: one that fails its gates or the
// enemy cap is skipped for good.
func (d *Director) Update(in Input) Output {
	dt := in.DT
	if dt < 0 {
		dt = 0
	}
	d.clock += dt

	capacity := d.cfg.EnemyCap
	if in.EnemyCap > 0 {
		capacity = in.EnemyCap
	}

	d.triggered = d.triggered[:0]
	for d.next < len(d.waves) && d.waves[d.next].Time <= d.clock {
		w := d.waves[d.next]
		d.next++
		if in.Progress >= w.MinProgress && in.Difficulty >= w.MinDifficulty && in.LiveEnemies < capacity {
			d.triggered = append(d.triggered, w)
		} else if d.cfg.Logger != nil {
			d.cfg.Logger.Printf("director: skipped wave %s at %.2fs", w.Archetype, w.Time)
		}
	}

	d.pressure -= dt * d.cfg.PressureDecay
	if d.pressure < 0 {
		d.pressure = 0
	}
	for _, w := range d.triggered {
		d.pressure += float64(w.Count)
	}

	opened := false
	if (d.pressure > d.cfg.PressureThreshold || in.NearBoss) && d.volley <= 0 {
		d.volley = d.cfg.VolleyWindow
		opened = true
		if d.cfg.Logger != nil {
			d.cfg.Logger.Printf("director: volley window opened (pressure %.1f)", d.pressure)
		}
	}
	if d.volley > 0 {
		d.volley -= dt
	}

	return Output{
		Waves:        d.triggered,
		Pressure:     d.pressure,
		VolleyOpen:   d.volley > 0,
		VolleyOpened: opened,
	}
}

// ConsumeVolleyWindow closes an open window and reports true; otherwise it
// reports false. A window can be consumed at most once.
func (d *Director) ConsumeVolleyWindow() bool {
	if d.volley <= 0 {
		return false
	}
	d.volley = 0
	if d.cfg.Logger != nil {
		d.cfg.Logger.Printf("director: volley window consumed")
	}
	return true
}

// Clock returns elapsed simulated seconds.
func (d *Director) Clock() float64 { return d.clock }

// Pressure returns the current pressure score.
func (d *Director) Pressure() float64 { return d.pressure }

// VolleyOpen reports whether a window is currently open.
func (d *Director) VolleyOpen() bool { return d.volley > 0 }

// Pending returns how many waves have not yet been evaluated.
func (d *Director) Pending() int { return len(d.waves) - d.next }

// Reset rewinds the timeline to the start.
func (d *Director) Reset() {
	d.next = 0
	d.clock = 0
	d.pressure = 0
	d.volley = 0
	d.triggered = d.triggered[:0]
}
