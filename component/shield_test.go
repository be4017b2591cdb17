package component

import "testing"

func TestShieldCycle(t *testing.T) {
	s := NewShield(ShieldTiming{Up: 1.0, Down: 0.5, Break: 2.5})
	if !s.IsUp() {
		t.Fatalf("shield should start raised")
	}
	s.Update(1.0)
	if s.IsUp() {
		t.Fatalf("shield should drop after its up phase")
	}
	s.Update(0.5)
	if !s.IsUp() {
		t.Fatalf("shield should rise after its down phase")
	}
}

func TestShieldDisabledOverridesCycle(t *testing.T) {
	s := NewShield(ShieldTiming{Up: 0.2, Down: 0.1, Break: 2.5})
	s.Break()
	const dt = 0.05
	for i := 1; i <= 48; i++ {
		s.Update(dt)
		if s.IsUp() {
			t.Fatalf("shield rose at frame %d while disabled", i)
		}
	}
	for i := 0; i < 3; i++ {
		s.Update(dt)
	}
	if !s.IsUp() {
		t.Fatalf("shield should rise once the disable expires")
	}
}

func TestShieldPermanentWhenNoUpDuration(t *testing.T) {
	s := NewShield(ShieldTiming{Down: 1.1, Break: 2.5})
	for i := 0; i < 600; i++ {
		s.Update(1.0 / 60)
	}
	if !s.IsUp() {
		t.Fatalf("shield without an up duration should stay raised")
	}
	s.Drop(1.1)
	if s.IsUp() {
		t.Fatalf("drop should lower the shield")
	}
	s.Update(1.2)
	if !s.IsUp() {
		t.Fatalf("shield should rise after the drop")
	}
}
