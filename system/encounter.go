package system

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

const (
	FixedStep = 1.0 / 60
	// MaxStep bounds a single update so a stalled frame cannot tunnel actors
	// through each other.
	MaxStep = 1.0 / 30

	DamageShake     = 5.0
	DamageShakeTime = 0.2
)

// Outcome is the terminal signal of an encounter.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerDefeated
	OutcomeBossDefeated
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlayerDefeated:
		return "player_defeated"
	case OutcomeBossDefeated:
		return "boss_defeated"
	default:
		return "none"
	}
}

// EncounterConfig describes one fight.
type EncounterConfig struct {
	Arena  obj.Arena
	Player obj.PlayerConfig
	Boss   *obj.BossConfig
	Seed   int64
	// PlayerHP carries health over from a previous fight. Zero starts full.
	PlayerHP int
}

// HUD is the read-only view of an encounter for display.
type HUD struct {
	Frame       int     `json:"frame"`
	PlayerHP    int     `json:"player_hp"`
	PlayerMaxHP int     `json:"player_max_hp"`
	PlayerState string  `json:"player_state"`
	DashReady   bool    `json:"dash_ready"`
	BossName    string  `json:"boss_name"`
	BossTitle   string  `json:"boss_title"`
	BossHP      int     `json:"boss_hp"`
	BossMaxHP   int     `json:"boss_max_hp"`
	BossState   string  `json:"boss_state"`
	BossPhase   string  `json:"boss_phase,omitempty"`
	ShieldUp    bool    `json:"shield_up"`
	ParryWindow bool    `json:"parry_window"`
	Hazards     int     `json:"hazards"`
	Shake       float64 `json:"shake"`
	Outcome     string  `json:"outcome"`
}

// Encounter owns every actor and hazard of a single fight and steps them in
// a fixed order.
type Encounter struct {
	Arena  obj.Arena
	Player *obj.Player
	Boss   *obj.Boss
	Events *component.CombatEventEmitter
	Frame  int
	Time   float64

	input      component.Input
	outcome    Outcome
	shake      float64
	shakeTimer float64

	logger  *log.Logger
	metrics *Metrics
}

type EncounterOption func(*Encounter)

// WithLogger routes encounter lifecycle logs to l.
func WithLogger(l *log.Logger) EncounterOption {
	return func(e *Encounter) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records frames, events and the outcome on m.
func WithMetrics(m *Metrics) EncounterOption {
	return func(e *Encounter) {
		e.metrics = m
	}
}

func NewEncounter(cfg EncounterConfig, opts ...EncounterOption) *Encounter {
	e := &Encounter{
		Arena:  cfg.Arena,
		Events: &component.CombatEventEmitter{},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.Player = obj.NewPlayer(cfg.Player, cfg.Arena)
	if cfg.PlayerHP > 0 && cfg.PlayerHP < e.Player.Health.Max {
		e.Player.Health.Current = cfg.PlayerHP
	}
	e.Boss = obj.NewBoss(cfg.Boss, cfg.Arena, rand.New(rand.NewSource(cfg.Seed)))
	e.Boss.Events = e.Events

	e.Events.Subscribe(e.onEvent)
	e.logger.Info("encounter started", "boss", cfg.Boss.Name, "seed", cfg.Seed, "player_hp", e.Player.Health.Current)
	return e
}

func (e *Encounter) onEvent(evt component.CombatEvent) {
	e.metrics.ObserveEvent(evt)
	switch evt.Type {
	case component.EventDamageApplied:
		e.raiseShake(DamageShake)
		e.logger.Debug("player hit", "source", evt.Source, "damage", evt.Damage, "frame", evt.Frame)
	case component.EventParry, component.EventDeflect:
		e.logger.Debug(string(evt.Type), "boss", evt.Target, "frame", evt.Frame)
	}
}

func (e *Encounter) raiseShake(magnitude float64) {
	if magnitude <= 0 {
		return
	}
	if magnitude >= e.shake {
		e.shake = magnitude
	}
	e.shakeTimer = DamageShakeTime
}

// Step advances the fight by dt with the given held controls and returns the
// outcome. Once an outcome is reached further steps are no-ops.
func (e *Encounter) Step(held component.InputAction, dt float64) Outcome {
	if e.outcome != OutcomeNone {
		return e.outcome
	}
	start := time.Now()
	dt = common.Clamp(dt, 0, MaxStep)
	e.Frame++
	e.Time += dt

	e.input.Advance(held)
	e.Player.Update(dt, &e.input)
	e.Boss.Update(dt, e.Player)
	Resolve(e.Player, e.Boss, e.Frame, e.Events)

	e.raiseShake(e.Boss.ShakeRequested)
	if e.shakeTimer > 0 {
		e.shakeTimer = common.Countdown(e.shakeTimer, dt)
		if e.shakeTimer == 0 {
			e.shake = 0
		}
	}

	switch {
	case !e.Boss.Health.IsAlive():
		e.finish(OutcomeBossDefeated)
	case !e.Player.Health.IsAlive():
		e.finish(OutcomePlayerDefeated)
	}
	e.metrics.ObserveFrame(time.Since(start))
	return e.outcome
}

func (e *Encounter) finish(o Outcome) {
	e.outcome = o
	e.metrics.ObserveOutcome(e.Boss.Name(), o)
	target := e.Boss.Name()
	if o == OutcomePlayerDefeated {
		target = "player"
	}
	e.Events.Emit(component.CombatEvent{Type: component.EventDeath, Target: target, Frame: e.Frame})
	e.logger.Info("encounter finished", "boss", e.Boss.Name(), "outcome", o, "frame", e.Frame,
		"player_hp", e.Player.Health.Current, "boss_hp", e.Boss.Health.Current)
}

func (e *Encounter) Outcome() Outcome { return e.outcome }

// Shake is the current screen shake magnitude.
func (e *Encounter) Shake() float64 { return e.shake }

// Input is the snapshot used on the last step.
func (e *Encounter) Input() *component.Input { return &e.input }

func (e *Encounter) HUD() HUD {
	p, b := e.Player, e.Boss
	return HUD{
		Frame:       e.Frame,
		PlayerHP:    p.Health.Current,
		PlayerMaxHP: p.Health.Max,
		PlayerState: p.AttackState(),
		DashReady:   p.DashReady(),
		BossName:    b.Name(),
		BossTitle:   b.Config().Title,
		BossHP:      b.Health.Current,
		BossMaxHP:   b.Health.Max,
		BossState:   b.StateName(),
		BossPhase:   b.PhaseName(),
		ShieldUp:    b.ShieldUp(),
		ParryWindow: b.ParryWindow(),
		Hazards:     len(b.Hazards()),
		Shake:       e.shake,
		Outcome:     e.outcome.String(),
	}
}
