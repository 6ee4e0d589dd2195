package component

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/jfad2010/ivangohsgreen/ecs"
)

// Faction identifies teams for friendly-fire checks and projectile origin tags.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionAlly
	FactionEnemy
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionAlly:
		return "ally"
	case FactionEnemy:
		return "enemy"
	}
	return "neutral"
}

// ParseFaction maps an origin tag to a Faction.
func ParseFaction(s string) (Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "player":
		return FactionPlayer, nil
	case "ally":
		return FactionAlly, nil
	case "enemy":
		return FactionEnemy, nil
	case "", "neutral":
		return FactionNeutral, nil
	}
	return FactionNeutral, fmt.Errorf("component: unknown faction %q", s)
}

// Friendly reports whether a and b fight on the same side. Players and
// allies never hurt each other.
func Friendly(a, b Faction) bool {
	if a == FactionNeutral || b == FactionNeutral {
		return false
	}
	side := func(f Faction) Faction {
		if f == FactionAlly {
			return FactionPlayer
		}
		return f
	}
	return side(a) == side(b)
}

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHit           CombatEventType = "hit"
	EventDamageApplied CombatEventType = "damage_applied"
	EventDeath         CombatEventType = "death"
	EventShieldBlock   CombatEventType = "shield_block"
	EventPickup        CombatEventType = "pickup"
	EventBossPhase     CombatEventType = "boss_phase"
	EventBossDefeated  CombatEventType = "boss_defeated"
	EventVolleyOpened  CombatEventType = "volley_opened"
)

// CombatEvent is emitted during combat resolution.
type CombatEvent struct {
	Type     CombatEventType
	Attacker ecs.Entity
	Target   ecs.Entity
	Damage   float64
	Pos      cp.Vector
	Detail   string
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter fans combat events out to subscribers.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Subscribe registers a handler.
func (e *CombatEventEmitter) Subscribe(h CombatEventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}
