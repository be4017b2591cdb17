package component

import "github.com/milk9111/fadingmemory/common"

// Faction identifies which side an attack belongs to.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionBoss
	FactionHazard
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionBoss:
		return "boss"
	case FactionHazard:
		return "hazard"
	default:
		return "neutral"
	}
}

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventHit           CombatEventType = "hit"
	EventDamageApplied CombatEventType = "damage_applied"
	EventParry         CombatEventType = "parry"
	EventDeflect       CombatEventType = "deflect"
	EventBlock         CombatEventType = "block"
	EventLaunch        CombatEventType = "launch"
	EventHazardSpawn   CombatEventType = "hazard_spawn"
	EventHazardBreak   CombatEventType = "hazard_break"
	EventShake         CombatEventType = "shake"
	EventDeath         CombatEventType = "death"
)

// CombatEvent is emitted during the update and resolution steps.
type CombatEvent struct {
	Type      CombatEventType
	Attacker  Faction
	Source    string
	Target    string
	Damage    int
	Frame     int
	Pos       common.Vec2
	Knockback float64
	// Magnitude carries the shake strength for EventShake.
	Magnitude float64
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter fans events out to its handlers.
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
