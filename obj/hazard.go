package obj

import (
	"math"

	"github.com/milk9111/fadingmemory/common"
)

type HazardKind string

const (
	HazardMeteor    HazardKind = "meteor"
	HazardOrb       HazardKind = "orb"
	HazardShockwave HazardKind = "shockwave"
)

// Hazard is a boss-owned entity with its own lifecycle. The owner drops it
// once Finished reports true or after it hits the player.
type Hazard interface {
	Kind() HazardKind
	Update(dt float64, target common.Vec2)
	Hits(hurtbox common.Rect) bool
	Finished() bool
	HitSpec() HitSpec
	Position() common.Vec2
	Phase() string
}

type MeteorSpec struct {
	StartY    float64
	Radius    float64
	FallSpeed float64
	// GroundOffset lifts the landing height above the ground line.
	GroundOffset float64
	Impact       float64
	// ForcedImpact is the impact window after a player knocks it down.
	ForcedImpact float64
	TipReach     float64
	ImpactReach  float64
	Hit          HitSpec
}

type MeteorPhase int

const (
	MeteorWindup MeteorPhase = iota
	MeteorFalling
	MeteorImpact
	MeteorExpired
)

func (p MeteorPhase) String() string {
	switch p {
	case MeteorWindup:
		return "windup"
	case MeteorFalling:
		return "falling"
	case MeteorImpact:
		return "impact"
	default:
		return "expired"
	}
}

// Meteor telegraphs a ground column, falls, then bursts for a short window.
type Meteor struct {
	X       float64
	Y       float64
	GroundY float64
	Spec    MeteorSpec

	phase MeteorPhase
	timer float64
}

func NewMeteor(x, delay, groundY float64, spec MeteorSpec) *Meteor {
	return &Meteor{X: x, Y: spec.StartY, GroundY: groundY, Spec: spec, timer: delay}
}

func (m *Meteor) Kind() HazardKind         { return HazardMeteor }
func (m *Meteor) Stage() MeteorPhase       { return m.phase }
func (m *Meteor) Phase() string            { return m.phase.String() }
func (m *Meteor) HitSpec() HitSpec         { return m.Spec.Hit }
func (m *Meteor) Position() common.Vec2    { return common.V(m.X, m.Y) }
func (m *Meteor) Finished() bool           { return m.phase == MeteorExpired }

// Timer is the time left in the windup or impact phase.
func (m *Meteor) Timer() float64 { return m.timer }

func (m *Meteor) targetY() float64 { return m.GroundY - m.Spec.GroundOffset }

func (m *Meteor) Update(dt float64, _ common.Vec2) {
	switch m.phase {
	case MeteorWindup:
		m.timer = common.Countdown(m.timer, dt)
		if m.timer == 0 {
			m.phase = MeteorFalling
		}
	case MeteorFalling:
		m.Y += m.Spec.FallSpeed * dt
		if m.Y >= m.targetY() {
			m.Y = m.targetY()
			m.phase = MeteorImpact
			m.timer = m.Spec.Impact
		}
	case MeteorImpact:
		m.timer = common.Countdown(m.timer, dt)
		if m.timer == 0 {
			m.phase = MeteorExpired
		}
	}
}

// Hits uses the falling tip while in flight and a ground circle on impact.
func (m *Meteor) Hits(hurtbox common.Rect) bool {
	switch m.phase {
	case MeteorFalling:
		return common.RectPointDistance(hurtbox, m.Position()) <= m.Spec.TipReach
	case MeteorImpact:
		c := hurtbox.Center()
		return math.Hypot(c.X-m.X, c.Y-m.GroundY) <= m.Spec.Radius+m.Spec.ImpactReach
	default:
		return false
	}
}

// ForceImpact detonates a falling meteor where it is.
func (m *Meteor) ForceImpact() bool {
	if m.phase != MeteorFalling {
		return false
	}
	m.phase = MeteorImpact
	m.timer = m.Spec.ForcedImpact
	return true
}

type OrbSpec struct {
	Radius float64
	Windup float64
	Speed  float64
	Life   float64
	// Steer is the velocity blend rate toward the target, per second.
	Steer    float64
	HitReach float64
	Hit      HitSpec
}

// Orb waits, locks on, then chases its target with a capped turn rate.
type Orb struct {
	Pos  common.Vec2
	Vel  common.Vec2
	Spec OrbSpec

	bounds   common.Rect
	windup   float64
	life     float64
	launched bool
}

// NewOrb spawns an orb confined to bounds.
func NewOrb(pos common.Vec2, extraDelay float64, spec OrbSpec, bounds common.Rect) *Orb {
	return &Orb{Pos: pos, Spec: spec, bounds: bounds, windup: spec.Windup + extraDelay, life: spec.Life}
}

func (o *Orb) Kind() HazardKind      { return HazardOrb }
func (o *Orb) HitSpec() HitSpec      { return o.Spec.Hit }
func (o *Orb) Position() common.Vec2 { return o.Pos }
func (o *Orb) Launched() bool        { return o.launched }
func (o *Orb) Finished() bool        { return o.launched && o.life <= 0 }

func (o *Orb) Phase() string {
	switch {
	case !o.launched:
		return "windup"
	case o.life > 0:
		return "launched"
	default:
		return "expired"
	}
}

// Rect is the orb's bounding square, used when the player strikes it.
func (o *Orb) Rect() common.Rect {
	r := o.Spec.Radius
	return common.R(o.Pos.X-r, o.Pos.Y-r, 2*r, 2*r)
}

func (o *Orb) Update(dt float64, target common.Vec2) {
	if !o.launched {
		o.windup = common.Countdown(o.windup, dt)
		if o.windup == 0 {
			dir, ok := target.Sub(o.Pos).Normalize()
			if !ok {
				dir = common.V(1, 0)
			}
			o.Vel = dir.Scale(o.Spec.Speed)
			o.launched = true
		}
		return
	}
	if o.life <= 0 {
		return
	}
	to := target.Sub(o.Pos)
	if to.Len() > 0.1 {
		dir, _ := to.Normalize()
		o.Vel = o.Vel.Lerp(dir.Scale(o.Spec.Speed), math.Min(1, o.Spec.Steer*dt))
	}
	o.Pos = o.Pos.Add(o.Vel.Scale(dt))
	o.Pos.X = common.Clamp(o.Pos.X, o.bounds.Left(), o.bounds.Right())
	o.Pos.Y = common.Clamp(o.Pos.Y, o.bounds.Top(), o.bounds.Bottom())
	o.life = common.Countdown(o.life, dt)
}

func (o *Orb) Hits(hurtbox common.Rect) bool {
	if !o.launched || o.life <= 0 {
		return false
	}
	return hurtbox.Center().Dist(o.Pos) <= o.Spec.Radius+o.Spec.HitReach
}

type ShockwaveSpec struct {
	Width   float64
	Height  float64
	OffsetY float64
	// SpawnX is the distance ahead of the boss where the wave starts.
	SpawnX float64
	Speed  float64
	Hit    HitSpec
}

// Shockwave slides along the ground until it leaves the arena.
type Shockwave struct {
	Rect  common.Rect
	Speed float64
	Spec  ShockwaveSpec

	arenaWidth float64
	done       bool
}

func NewShockwave(x, groundY float64, facing int, spec ShockwaveSpec, arenaWidth float64) *Shockwave {
	return &Shockwave{
		Rect:       common.R(x, groundY+spec.OffsetY, spec.Width, spec.Height),
		Speed:      spec.Speed * float64(facing),
		Spec:       spec,
		arenaWidth: arenaWidth,
	}
}

func (s *Shockwave) Kind() HazardKind      { return HazardShockwave }
func (s *Shockwave) HitSpec() HitSpec      { return s.Spec.Hit }
func (s *Shockwave) Position() common.Vec2 { return s.Rect.Center() }
func (s *Shockwave) Finished() bool        { return s.done }

func (s *Shockwave) Phase() string {
	if s.done {
		return "expired"
	}
	return "moving"
}

func (s *Shockwave) Update(dt float64, _ common.Vec2) {
	s.Rect.X += s.Speed * dt
	if s.Rect.Right() < 0 || s.Rect.Left() > s.arenaWidth {
		s.done = true
	}
}

func (s *Shockwave) Hits(hurtbox common.Rect) bool {
	return !s.done && s.Rect.Intersects(hurtbox)
}
