package component

import "github.com/milk9111/fadingmemory/common"

// ShieldTiming configures the automatic raise/lower cycle, in seconds.
type ShieldTiming struct {
	// Up is how long the shield stays raised. Zero keeps it raised until
	// something forces it down.
	Up   float64 `yaml:"up"`
	Down float64 `yaml:"down"`
	// Break is how long a successful heavy keeps the shield disabled.
	Break float64 `yaml:"break"`
}

// Shield is a boolean guard on top of a hurtbox. A positive disabled timer
// keeps it down regardless of the cycle.
type Shield struct {
	Timing ShieldTiming

	up       bool
	cycle    float64
	disabled float64
}

func NewShield(timing ShieldTiming) *Shield {
	return &Shield{Timing: timing, up: true, cycle: timing.Up}
}

// IsUp reports whether the shield currently blocks.
func (s *Shield) IsUp() bool {
	return s != nil && s.up && s.disabled <= 0
}

// Disabled returns the remaining forced-down time.
func (s *Shield) Disabled() float64 {
	if s == nil {
		return 0
	}
	return s.disabled
}

// Update advances the disabled override first, then the cycle.
func (s *Shield) Update(dt float64) {
	if s == nil {
		return
	}
	if s.disabled > 0 {
		s.up = false
		s.disabled = common.Countdown(s.disabled, dt)
		if s.disabled == 0 {
			s.raise()
		}
		return
	}
	if s.cycle <= 0 {
		if !s.up {
			s.raise()
		}
		return
	}
	s.cycle = common.Countdown(s.cycle, dt)
	if s.cycle > 0 {
		return
	}
	if s.up {
		s.lower(s.Timing.Down)
	} else {
		s.raise()
	}
}

// Disable forces the shield down for at least seconds.
func (s *Shield) Disable(seconds float64) {
	if s == nil {
		return
	}
	if seconds > s.disabled {
		s.disabled = seconds
	}
	s.up = false
}

// Break disables the shield for the configured break duration.
func (s *Shield) Break() {
	if s == nil {
		return
	}
	s.Disable(s.Timing.Break)
}

// Drop lowers the shield for one down phase of the given length.
func (s *Shield) Drop(seconds float64) {
	if s == nil {
		return
	}
	s.lower(seconds)
}

func (s *Shield) raise() {
	s.up = true
	s.cycle = s.Timing.Up
}

func (s *Shield) lower(seconds float64) {
	s.up = false
	s.cycle = seconds
	if s.cycle <= 0 {
		s.cycle = 0
	}
}
