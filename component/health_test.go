package component

import "testing"

func TestHealthIFrames(t *testing.T) {
	h := NewHealth(8)
	starts, ends := 0, 0
	h.OnIFrameStart = func(*Health) { starts++ }
	h.OnIFrameEnd = func(*Health) { ends++ }

	if !h.ApplyDamage(2, CombatEvent{}) {
		t.Fatalf("first hit should land")
	}
	h.StartIFrames(0.9)
	if h.ApplyDamage(2, CombatEvent{}) {
		t.Fatalf("hit during i-frames should be ignored")
	}
	h.StartIFrames(0.2)
	if h.IFrames != 0.9 {
		t.Fatalf("shorter i-frames must not cut the current window, got %.2f", h.IFrames)
	}
	h.Tick(1.0)
	if !h.Vulnerable() {
		t.Fatalf("i-frames should have expired")
	}
	if starts != 1 || ends != 1 {
		t.Fatalf("expected one start and one end callback, got %d/%d", starts, ends)
	}
	if h.Current != 6 {
		t.Fatalf("expected 6 hp, got %d", h.Current)
	}
}

func TestHealthDeathDetectedNotClamped(t *testing.T) {
	h := NewHealth(3)
	deaths := 0
	h.OnDeath = func(*Health, CombatEvent) { deaths++ }
	h.Damage(2, CombatEvent{})
	h.Damage(2, CombatEvent{})
	h.Damage(2, CombatEvent{})
	if h.IsAlive() {
		t.Fatalf("health should be depleted")
	}
	if h.Current != -3 {
		t.Fatalf("health should not be clamped, got %d", h.Current)
	}
	if deaths != 1 {
		t.Fatalf("death callback should fire once, got %d", deaths)
	}
	if h.Fraction() != 0 {
		t.Fatalf("fraction should clamp to zero")
	}
}

func TestHealthHeal(t *testing.T) {
	h := NewHealth(10)
	h.Damage(7, CombatEvent{})
	h.Heal(3)
	if h.Current != 6 {
		t.Fatalf("expected 6, got %d", h.Current)
	}
	h.Heal(100)
	if h.Current != 10 {
		t.Fatalf("heal should cap at max, got %d", h.Current)
	}
}
