package main

import (
	"fmt"
	"log"

	"github.com/jfad2010/ivangohsgreen/combat"
	"github.com/jfad2010/ivangohsgreen/prefabs"
)

// Summary is the outcome of a headless run.
type Summary struct {
	Encounter     string  `yaml:"encounter"`
	Seconds       float64 `yaml:"seconds"`
	Ticks         int     `yaml:"ticks"`
	Spawns        int     `yaml:"spawns"`
	Fired         int     `yaml:"fired"`
	Kills         int     `yaml:"kills"`
	Hits          int     `yaml:"hits"`
	Blocked       int     `yaml:"blocked"`
	Collected     int     `yaml:"collected"`
	PlayerDamage  float64 `yaml:"player_damage"`
	PlayerHP      float64 `yaml:"player_hp"`
	DownAt        float64 `yaml:"down_at,omitempty"`
	DroppedShots  int     `yaml:"dropped_shots"`
	DroppedSpawns int     `yaml:"dropped_spawns"`
	MaxPressure   float64 `yaml:"max_pressure"`
	Volleys       int     `yaml:"volleys"`
	WavesLeft     int     `yaml:"waves_left"`
	BossPhase     string  `yaml:"boss_phase,omitempty"`
	BossDefeated  bool    `yaml:"boss_defeated"`
}

// Options drives a headless run.
type Options struct {
	Encounter string
	Seconds   float64
	DT        float64
	// AutoFire fires every FireEvery seconds and raises the shield whenever a
	// volley window opens.
	AutoFire  bool
	FireEvery float64
	Logger    *log.Logger
}

// Simulate runs the encounter at a fixed step with no rendering.
func Simulate(opts Options) (*Summary, error) {
	if opts.DT <= 0 {
		opts.DT = 1.0 / 60
	}
	if opts.FireEvery <= 0 {
		opts.FireEvery = 0.25
	}
	spec, err := prefabs.LoadEncounter(opts.Encounter)
	if err != nil {
		return nil, err
	}
	curve, err := prefabs.LoadDifficultyCurve(spec.Difficulty)
	if err != nil {
		return nil, err
	}
	cfg := spec.Config()
	cfg.Logger = opts.Logger
	r, err := combat.New(cfg, spec.FormationWaves())
	if err != nil {
		return nil, err
	}

	sum := &Summary{Encounter: spec.Name}
	var (
		sinceShot  float64
		volleyOpen bool
	)
	for r.Clock() < opts.Seconds {
		difficulty, err := curve.Eval(r.Progress(), r.Clock())
		if err != nil {
			return nil, fmt.Errorf("tick %d: %w", sum.Ticks, err)
		}
		in := combat.Input{DT: opts.DT, Difficulty: difficulty}
		if opts.AutoFire {
			sinceShot += opts.DT
			if sinceShot >= opts.FireEvery {
				sinceShot = 0
				in.Fire = true
			}
		}

		rep := r.Tick(in)
		sum.Ticks++
		sum.Spawns += len(rep.Spawns)
		sum.Fired += len(rep.Shots)
		sum.Kills += len(rep.Kills)
		sum.Hits += rep.Hits
		sum.Blocked += rep.Blocked
		sum.Collected += rep.Collected
		sum.PlayerDamage += rep.PlayerDamage
		sum.DroppedShots += rep.DroppedShots
		sum.DroppedSpawns += rep.DroppedSpawns
		if rep.Pressure > sum.MaxPressure {
			sum.MaxPressure = rep.Pressure
		}
		if rep.VolleyOpen && !volleyOpen {
			sum.Volleys++
			if opts.AutoFire {
				r.RaiseShield()
			}
		}
		volleyOpen = rep.VolleyOpen
		if rep.BossDefeated {
			sum.BossDefeated = true
		}
		if rep.PlayerDown {
			sum.DownAt = rep.Clock
			break
		}
	}

	sum.Seconds = r.Clock()
	sum.PlayerHP = r.Player().Health.Current
	sum.WavesLeft = r.Director().Pending()
	if b := r.Boss(); b != nil {
		sum.BossPhase = b.Phase().String()
	}
	return sum, nil
}
