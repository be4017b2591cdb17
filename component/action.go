package component

import "github.com/milk9111/fadingmemory/common"

// ActionState is the phase of a TimedAction.
type ActionState int

const (
	ActionReady ActionState = iota
	ActionWindup
	ActionActive
	ActionRecovery
	ActionStunned
)

func (s ActionState) String() string {
	switch s {
	case ActionReady:
		return "ready"
	case ActionWindup:
		return "windup"
	case ActionActive:
		return "active"
	case ActionRecovery:
		return "recovery"
	case ActionStunned:
		return "stunned"
	default:
		return "unknown"
	}
}

// ActionTiming holds the per-phase durations of a TimedAction, in seconds.
type ActionTiming struct {
	Windup   float64 `yaml:"windup"`
	Active   float64 `yaml:"active"`
	Recovery float64 `yaml:"recovery"`
	// Cooldown gates Start after the action begins. It never blocks
	// movement or the running phases.
	Cooldown float64 `yaml:"cooldown"`
	// RecoveryCancel lets Start interrupt the recovery phase.
	RecoveryCancel bool `yaml:"recovery_cancel"`
}

// Hitbox is an optional rectangle. Active is the presence flag; Rect is
// meaningless while it is false.
type Hitbox struct {
	Rect   common.Rect
	Active bool
}

func (h *Hitbox) Set(r common.Rect) {
	h.Rect = r
	h.Active = true
}

func (h *Hitbox) Clear() {
	h.Rect = common.Rect{}
	h.Active = false
}

// Get returns the rect and whether one is present.
func (h Hitbox) Get() (common.Rect, bool) {
	return h.Rect, h.Active
}

func (h *Hitbox) Translate(dx, dy float64) {
	if !h.Active {
		return
	}
	h.Rect = h.Rect.Translate(dx, dy)
}

// TimedAction is the ready → windup → active → recovery cycle shared by every
// attack, dash and launcher. Guards between sibling actions live with the
// owner; TimedAction only rejects starts that its own state forbids.
type TimedAction struct {
	Name   string
	Timing ActionTiming

	State ActionState
	Timer float64
	// Cooldown counts down independently of State.
	Cooldown float64
	// DamageApplied latches on the first hit of an activation.
	DamageApplied bool
	Hitbox        Hitbox

	stunRecovery float64
}

func NewTimedAction(name string, timing ActionTiming) TimedAction {
	return TimedAction{Name: name, Timing: timing}
}

// CanStart reports whether Start would succeed.
func (a *TimedAction) CanStart() bool {
	if a.Cooldown > 0 {
		return false
	}
	switch a.State {
	case ActionReady:
		return true
	case ActionRecovery:
		return a.Timing.RecoveryCancel
	default:
		return false
	}
}

// Start enters windup. It is a no-op returning false when the action is busy
// or cooling down.
func (a *TimedAction) Start() bool {
	if !a.CanStart() {
		return false
	}
	a.State = ActionWindup
	a.Timer = nonNegative(a.Timing.Windup)
	a.Hitbox.Clear()
	a.DamageApplied = false
	if a.Timing.Cooldown > 0 {
		a.Cooldown = a.Timing.Cooldown
	}
	return true
}

// Update advances timers by dt and performs at most one phase transition. It
// returns the state entered this frame, if any.
func (a *TimedAction) Update(dt float64) (ActionState, bool) {
	if dt < 0 {
		dt = 0
	}
	if a.Cooldown > 0 {
		a.Cooldown = common.Countdown(a.Cooldown, dt)
	}
	if a.State == ActionReady {
		return ActionReady, false
	}

	a.Timer = common.Countdown(a.Timer, dt)
	if a.Timer > 0 {
		return a.State, false
	}

	switch a.State {
	case ActionWindup:
		a.State = ActionActive
		a.Timer = nonNegative(a.Timing.Active)
	case ActionActive:
		a.State = ActionRecovery
		a.Timer = nonNegative(a.Timing.Recovery)
		a.Hitbox.Clear()
	case ActionStunned:
		a.State = ActionRecovery
		a.Timer = nonNegative(a.stunRecovery)
	case ActionRecovery:
		a.State = ActionReady
		a.Timer = 0
	}
	return a.State, true
}

// ForceRecovery ends the windup or active phase early.
func (a *TimedAction) ForceRecovery(duration float64) {
	if a.State == ActionReady {
		return
	}
	a.State = ActionRecovery
	a.Timer = nonNegative(duration)
	a.Hitbox.Clear()
}

// Stun interrupts the action. When the stun expires the action enters
// recovery for the given duration and never resumes the interrupted phase.
func (a *TimedAction) Stun(duration, recovery float64) {
	a.State = ActionStunned
	a.Timer = nonNegative(duration)
	a.stunRecovery = recovery
	a.Hitbox.Clear()
}

// Expire zeroes the timer so the next Update transitions.
func (a *TimedAction) Expire() {
	if a.State != ActionReady {
		a.Timer = 0
	}
}

// Reset returns the action to ready, keeping the cooldown.
func (a *TimedAction) Reset() {
	a.State = ActionReady
	a.Timer = 0
	a.Hitbox.Clear()
	a.DamageApplied = false
}

// IsBusy reports windup or active, the phases that lock the owner in place.
func (a *TimedAction) IsBusy() bool {
	return a.State == ActionWindup || a.State == ActionActive
}

func (a *TimedAction) IsActive() bool {
	return a.State == ActionActive
}

// Progress is the elapsed fraction of the current phase.
func (a *TimedAction) Progress() float64 {
	var total float64
	switch a.State {
	case ActionWindup:
		total = a.Timing.Windup
	case ActionActive:
		total = a.Timing.Active
	case ActionRecovery:
		total = a.Timing.Recovery
	default:
		return 0
	}
	if total <= 0 {
		return 1
	}
	return common.Clamp01((total - a.Timer) / total)
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
