package system

import (
	"math"
	"math/rand"

	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
)

// Autopilot is a seeded input policy that plays the player side of an
// encounter without a keyboard. The same seed against the same encounter
// always produces the same inputs.
type Autopilot struct {
	rng *rand.Rand
	// Engage is the preferred distance to the boss.
	Engage float64
	// Aggression is the chance per decision of swinging when in range.
	Aggression float64

	last component.InputAction
	wait int
}

func NewAutopilot(seed int64) *Autopilot {
	return &Autopilot{
		rng:        rand.New(rand.NewSource(seed)),
		Engage:     90,
		Aggression: 0.35,
	}
}

// Next picks the controls to hold this frame.
func (a *Autopilot) Next(e *Encounter) component.InputAction {
	held := a.decide(e)
	// Let go for a frame after a jump so the next one is a fresh press.
	if a.last&component.InputJump != 0 {
		held &^= component.InputJump
	}
	a.last = held
	return held
}

func (a *Autopilot) decide(e *Encounter) component.InputAction {
	p, b := e.Player, e.Boss
	toward := component.InputMoveRight
	away := component.InputMoveLeft
	if b.Pos.X < p.Pos.X {
		toward, away = away, toward
	}

	if b.ParryWindow() {
		if spec := b.CurrentAttack(); spec != nil {
			switch spec.Counter {
			case obj.CounterDeflect:
				return component.InputHeavy
			case obj.CounterTip, obj.CounterHitbox:
				return component.InputLight
			}
		}
	}

	if threat := a.threat(e); threat != component.InputNone {
		if p.DashReady() {
			return threat | component.InputDash
		}
		return threat
	}

	if a.wait > 0 {
		a.wait--
		return component.InputNone
	}

	dist := math.Abs(b.Pos.X - p.Pos.X)
	if dist > a.Engage+b.Config().HalfWidth {
		return toward
	}
	if b.Striking() && p.DashReady() && a.rng.Float64() < 0.5 {
		return away | component.InputDash
	}
	if a.rng.Float64() > a.Aggression {
		return component.InputNone
	}

	a.wait = a.rng.Intn(12)
	switch r := a.rng.Float64(); {
	case r < 0.6:
		return component.InputLight
	case r < 0.8 && p.Heavy.Cooldown <= 0:
		return component.InputHeavy
	case r < 0.9:
		return component.InputLauncher
	default:
		return component.InputJump
	}
}

// threat returns the direction to move out of an incoming hazard.
func (a *Autopilot) threat(e *Encounter) component.InputAction {
	p := e.Player
	for _, h := range e.Boss.Hazards() {
		switch h.(type) {
		case *obj.Meteor, *obj.Shockwave:
		default:
			continue
		}
		pos := h.Position()
		if math.Abs(pos.X-p.Pos.X) > 70 {
			continue
		}
		if h.Phase() == "windup" || h.Phase() == "falling" || h.Phase() == "moving" {
			if pos.X < p.Pos.X {
				return component.InputMoveRight
			}
			return component.InputMoveLeft
		}
	}
	return component.InputNone
}
