package component

import "github.com/milk9111/fadingmemory/common"

// Health tracks hit points and post-hit invulnerability. Current may drop
// below zero; defeat is detected by the owner, not enforced by clamping.
type Health struct {
	Max     int
	Current int
	// IFrames is the remaining invulnerability, in seconds.
	IFrames float64

	OnDamage      func(h *Health, evt CombatEvent)
	OnDeath       func(h *Health, evt CombatEvent)
	OnIFrameStart func(h *Health)
	OnIFrameEnd   func(h *Health)
}

// NewHealth creates a Health component with max/current initialized.
func NewHealth(max int) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && h.Current > 0
}

// Vulnerable reports whether damage would currently land.
func (h *Health) Vulnerable() bool {
	return h != nil && h.IFrames <= 0
}

// ApplyDamage applies damage if not in i-frames. Returns true if damage was applied.
func (h *Health) ApplyDamage(amount int, evt CombatEvent) bool {
	if h == nil || h.IFrames > 0 || amount <= 0 {
		return false
	}
	return h.Damage(amount, evt)
}

// Damage ignores i-frames. Bosses take player hits this way.
func (h *Health) Damage(amount int, evt CombatEvent) bool {
	if h == nil || amount <= 0 {
		return false
	}
	wasAlive := h.Current > 0
	h.Current -= amount
	if h.OnDamage != nil {
		h.OnDamage(h, evt)
	}
	if wasAlive && h.Current <= 0 && h.OnDeath != nil {
		h.OnDeath(h, evt)
	}
	return true
}

// Heal restores health up to Max.
func (h *Health) Heal(amount int) {
	if h == nil || amount <= 0 {
		return
	}
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// HealFull restores Current to Max.
func (h *Health) HealFull() {
	if h == nil {
		return
	}
	h.Current = h.Max
}

// StartIFrames extends invulnerability to at least seconds.
func (h *Health) StartIFrames(seconds float64) {
	if h == nil || seconds <= 0 {
		return
	}
	if h.IFrames <= 0 && h.OnIFrameStart != nil {
		h.OnIFrameStart(h)
	}
	if seconds > h.IFrames {
		h.IFrames = seconds
	}
}

// Tick advances the i-frame timer by dt seconds.
func (h *Health) Tick(dt float64) {
	if h == nil || h.IFrames <= 0 {
		return
	}
	h.IFrames = common.Countdown(h.IFrames, dt)
	if h.IFrames == 0 {
		if h.OnIFrameEnd != nil {
			h.OnIFrameEnd(h)
		}
	}
}

// Fraction is Current/Max clamped to [0, 1], for health bars.
func (h *Health) Fraction() float64 {
	if h == nil || h.Max <= 0 || h.Current <= 0 {
		return 0
	}
	if h.Current >= h.Max {
		return 1
	}
	return float64(h.Current) / float64(h.Max)
}
