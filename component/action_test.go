package component

import (
	"testing"

	"github.com/milk9111/fadingmemory/common"
)

func lightTiming() ActionTiming {
	return ActionTiming{Windup: 0.10, Active: 0.12, Recovery: 0.20, Cooldown: 0.25}
}

func TestTimedActionCycle(t *testing.T) {
	a := NewTimedAction("light", lightTiming())
	if !a.Start() {
		t.Fatalf("start from ready should succeed")
	}
	if a.State != ActionWindup || a.Timer != 0.10 {
		t.Fatalf("expected windup with full timer, got %v %.2f", a.State, a.Timer)
	}

	want := []ActionState{ActionActive, ActionRecovery, ActionReady}
	var seen []ActionState
	const dt = 1.0 / 60
	for i := 0; i < 120 && len(seen) < len(want); i++ {
		prevTimer := a.Timer
		prevState := a.State
		next, changed := a.Update(dt)
		if changed {
			seen = append(seen, next)
			continue
		}
		if next != prevState {
			t.Fatalf("state changed without reporting a transition")
		}
		if a.Timer > prevTimer {
			t.Fatalf("timer increased from %.4f to %.4f", prevTimer, a.Timer)
		}
		if a.Timer < 0 {
			t.Fatalf("timer went negative: %.4f", a.Timer)
		}
	}
	if len(seen) != len(want) {
		t.Fatalf("expected transitions %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transition %d: expected %v, got %v", i, want[i], seen[i])
		}
	}
}

func TestTimedActionOneTransitionPerFrame(t *testing.T) {
	a := NewTimedAction("burst", ActionTiming{Windup: 0.01, Active: 0.01, Recovery: 0.01})
	a.Start()
	next, changed := a.Update(10)
	if !changed || next != ActionActive {
		t.Fatalf("expected a single windup->active transition, got %v changed=%v", next, changed)
	}
	if a.Timer != 0.01 {
		t.Fatalf("leftover time must not carry into the next phase, timer=%.3f", a.Timer)
	}
}

func TestTimedActionPhasesLastWholeFrames(t *testing.T) {
	a := NewTimedAction("bash", ActionTiming{Windup: 0.30, Active: 0.25, Recovery: 0.5})
	a.Start()
	frames := map[ActionState]int{}
	for i := 0; i < 120 && a.State != ActionReady; i++ {
		frames[a.State]++
		a.Update(1.0 / 60)
	}
	want := map[ActionState]int{ActionWindup: 18, ActionActive: 15, ActionRecovery: 30}
	for state, n := range want {
		if frames[state] != n {
			t.Errorf("%v: expected %d frames, got %d", state, n, frames[state])
		}
	}
}

func TestTimedActionStartRejected(t *testing.T) {
	cases := []struct {
		name  string
		setup func(a *TimedAction)
	}{
		{"windup", func(a *TimedAction) { a.Start() }},
		{"active", func(a *TimedAction) { a.Start(); a.Update(0.11) }},
		{"recovery_without_cancel", func(a *TimedAction) { a.Start(); a.ForceRecovery(0.2) }},
		{"cooling_down", func(a *TimedAction) { a.Cooldown = 1 }},
		{"stunned", func(a *TimedAction) { a.Stun(1, 0.5) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a := NewTimedAction("light", ActionTiming{Windup: 0.10, Active: 0.12, Recovery: 0.20})
			c.setup(&a)
			before := a
			if a.Start() {
				t.Fatalf("start should be rejected")
			}
			if a.State != before.State || a.Timer != before.Timer || a.Cooldown != before.Cooldown {
				t.Fatalf("rejected start must not mutate state: before=%+v after=%+v", before, a)
			}
		})
	}
}

func TestTimedActionRecoveryCancel(t *testing.T) {
	a := NewTimedAction("combo", ActionTiming{Windup: 0.1, Active: 0.1, Recovery: 0.5, RecoveryCancel: true})
	a.Start()
	a.Update(0.1)
	a.Update(0.1)
	if a.State != ActionRecovery {
		t.Fatalf("expected recovery, got %v", a.State)
	}
	if !a.Start() {
		t.Fatalf("recovery-cancel action should restart from recovery")
	}
}

func TestTimedActionStunEndsInRecovery(t *testing.T) {
	a := NewTimedAction("swing", ActionTiming{Windup: 0.7, Active: 0.25, Recovery: 1.0})
	a.Start()
	a.Hitbox.Set(common.R(0, 0, 10, 10))
	a.Stun(0.9, 0.7)
	if a.Hitbox.Active {
		t.Fatalf("stun should clear the hitbox")
	}
	next, changed := a.Update(0.9)
	if !changed || next != ActionRecovery {
		t.Fatalf("stun should expire into recovery, got %v", next)
	}
	if a.Timer != 0.7 {
		t.Fatalf("expected stun recovery duration, got %.2f", a.Timer)
	}
}

func TestTimedActionCooldownGatesOnlyStart(t *testing.T) {
	a := NewTimedAction("heavy", ActionTiming{Windup: 0.25, Active: 0.18, Recovery: 0.45, Cooldown: 3.2})
	a.Start()
	for i := 0; i < 60; i++ {
		a.Update(1.0 / 60)
	}
	if a.State != ActionReady {
		t.Fatalf("the phases should finish while the cooldown is still running, got %v", a.State)
	}
	if a.Start() {
		t.Fatalf("cooldown should reject start")
	}
	a.Update(3)
	if !a.Start() {
		t.Fatalf("start should succeed once the cooldown elapses")
	}
}

func TestTimedActionProgress(t *testing.T) {
	a := NewTimedAction("instant", ActionTiming{})
	a.Start()
	if p := a.Progress(); p != 1 {
		t.Fatalf("zero-length phase should report complete progress, got %v", p)
	}
	b := NewTimedAction("light", lightTiming())
	b.Start()
	b.Update(0.05)
	if p := b.Progress(); p < 0.49 || p > 0.51 {
		t.Fatalf("expected half-way progress, got %v", p)
	}
}
