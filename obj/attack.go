package obj

import (
	"math/rand"

	"github.com/milk9111/fadingmemory/component"
)

// AttackKind tags the geometry carried by an AttackSpec.
type AttackKind string

const (
	AttackArcSwing     AttackKind = "arc_swing"
	AttackSpin         AttackKind = "spin"
	AttackDashLunge    AttackKind = "dash_lunge"
	AttackShieldBash   AttackKind = "shield_bash"
	AttackLauncher     AttackKind = "launcher"
	AttackMeteorShower AttackKind = "meteor_shower"
	AttackOrb          AttackKind = "orb"
	AttackCombo        AttackKind = "combo"
)

// AttackShape is the kind-specific part of an attack. Each kind has exactly
// one concrete type below.
type AttackShape interface {
	Kind() AttackKind
}

// ArcSwing sweeps a weapon tip around a pivot above the feet. Angles are in
// degrees for a right-facing boss and mirrored for the left.
type ArcSwing struct {
	Reach       float64
	TipRadius   float64
	PivotY      float64
	StartAngle  float64
	TargetAngle float64
	// GroundContact is how far above the ground line the tip counts as
	// touching it.
	GroundContact float64
	// Shockwave, when set, spawns once as the tip crosses into the ground.
	Shockwave *ShockwaveSpec
}

// SpinArea is a wide rectangle centred on the boss, shown during telegraph
// and damaging while active.
type SpinArea struct {
	Width    float64
	Height   float64
	OffsetY  float64
	SpinRate float64
}

// DashLunge moves the boss bodily with a hitbox at its leading side.
type DashLunge struct {
	Width   float64
	Height  float64
	OffsetY float64
	Speed   float64
}

type ShieldBash struct {
	OffsetX float64
	OffsetY float64
	Width   float64
	Height  float64
}

// LauncherStrike throws the player upward. It has a limited number of uses
// and only fires at close range.
type LauncherStrike struct {
	OffsetX         float64
	OffsetY         float64
	Width           float64
	Height          float64
	LaunchX         float64
	LaunchY         float64
	MaxUses         int
	MaxRange        float64
	RequireGrounded bool
}

// MeteorShower drops meteors on every other column of a ground grid.
type MeteorShower struct {
	Count     int
	Delay     float64
	Stagger   float64
	GridStart float64
	GridEnd   float64
	GridStep  float64
	Meteor    MeteorSpec
}

// OrbShot conjures one homing orb above the boss.
type OrbShot struct {
	Orb         OrbSpec
	SpawnHeight float64
	JitterX     int
	JitterY     int
	Delay       float64
}

// Combo casts several caster shapes at once.
type Combo struct {
	Steps []AttackShape
}

func (ArcSwing) Kind() AttackKind       { return AttackArcSwing }
func (SpinArea) Kind() AttackKind       { return AttackSpin }
func (DashLunge) Kind() AttackKind      { return AttackDashLunge }
func (ShieldBash) Kind() AttackKind     { return AttackShieldBash }
func (LauncherStrike) Kind() AttackKind { return AttackLauncher }
func (MeteorShower) Kind() AttackKind   { return AttackMeteorShower }
func (OrbShot) Kind() AttackKind        { return AttackOrb }
func (Combo) Kind() AttackKind          { return AttackCombo }

// Counter names how the player can turn an attack into a stun.
type Counter string

const (
	CounterNone Counter = ""
	// CounterTip needs the player's attack tip near the weapon tip.
	CounterTip Counter = "tip"
	// CounterHitbox needs the player's light hitbox to overlap the attack's.
	CounterHitbox Counter = "hitbox"
	// CounterDeflect needs a heavy on the raised shield.
	CounterDeflect Counter = "deflect"
)

// HitSpec is what a connecting attack or hazard does to the player.
type HitSpec struct {
	Damage    int
	IFrames   float64
	Knockback float64
}

// AttackSpec is one entry of a boss catalog.
type AttackSpec struct {
	Name string
	// Timing.Windup is the telegraph, including the parry window at its end.
	Timing      component.ActionTiming
	ParryWindow float64
	Counter     Counter
	// ParryReach is the extra tip distance allowed for CounterTip.
	ParryReach       float64
	ParryNeedsShield bool
	Hit              HitSpec
	// EndOnHit sends the boss to recovery as soon as the attack lands.
	EndOnHit bool
	// Cooldown overrides the catalog cooldown after this attack recovers.
	Cooldown *Jitter
	Shape    AttackShape
}

func (s *AttackSpec) Kind() AttackKind {
	if s == nil || s.Shape == nil {
		return ""
	}
	return s.Shape.Kind()
}

// Jitter is Base plus a uniform random share of Spread.
type Jitter struct {
	Base   float64
	Spread float64
}

func (j Jitter) Roll(rng *rand.Rand) float64 {
	if j.Spread <= 0 || rng == nil {
		return j.Base
	}
	return j.Base + rng.Float64()*j.Spread
}

type WeightedAttack struct {
	Attack string
	Weight float64
}

// DistanceBucket covers distances below MaxDistance. Zero or negative means
// unbounded.
type DistanceBucket struct {
	MaxDistance float64
	Choices     []WeightedAttack
}

// SelectionTable is an ordered list of distance buckets.
type SelectionTable []DistanceBucket

// Bucket returns the first bucket containing dist.
func (t SelectionTable) Bucket(dist float64) (DistanceBucket, bool) {
	for _, b := range t {
		if b.MaxDistance <= 0 || dist < b.MaxDistance {
			return b, true
		}
	}
	return DistanceBucket{}, false
}

// Choose draws one attack from the bucket for dist. Ineligible attacks are
// dropped and the remaining weights renormalized.
func (t SelectionTable) Choose(dist float64, rng *rand.Rand, eligible func(name string) bool) (string, bool) {
	b, ok := t.Bucket(dist)
	if !ok {
		return "", false
	}
	total := 0.0
	for _, c := range b.Choices {
		if c.Weight > 0 && (eligible == nil || eligible(c.Attack)) {
			total += c.Weight
		}
	}
	if total <= 0 {
		return "", false
	}
	r := rng.Float64() * total
	last := ""
	for _, c := range b.Choices {
		if c.Weight <= 0 || (eligible != nil && !eligible(c.Attack)) {
			continue
		}
		last = c.Attack
		if r < c.Weight {
			return c.Attack, true
		}
		r -= c.Weight
	}
	return last, last != ""
}

// Names lists every attack referenced by the table.
func (t SelectionTable) Names() []string {
	var out []string
	seen := map[string]bool{}
	for _, b := range t {
		for _, c := range b.Choices {
			if !seen[c.Attack] {
				seen[c.Attack] = true
				out = append(out, c.Attack)
			}
		}
	}
	return out
}
