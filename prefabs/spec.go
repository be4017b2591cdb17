package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/fadingmemory/component"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// ArenaSpec is arena.yaml: the play field and its colours.
type ArenaSpec struct {
	Width      float64    `yaml:"width"`
	Height     float64    `yaml:"height"`
	GroundY    float64    `yaml:"ground_y"`
	Background *YAMLColor `yaml:"background"`
	Ground     *YAMLColor `yaml:"ground"`
}

type PointSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type MeleeSpec struct {
	component.ActionTiming `yaml:",inline"`
	OffsetX                float64 `yaml:"offset_x"`
	OffsetY                float64 `yaml:"offset_y"`
	Width                  float64 `yaml:"width"`
	Height                 float64 `yaml:"height"`
	Damage                 int     `yaml:"damage"`
}

type DashSpec struct {
	Speed        float64 `yaml:"speed"`
	Duration     float64 `yaml:"duration"`
	Cooldown     float64 `yaml:"cooldown"`
	Invulnerable bool    `yaml:"invulnerable"`
	WallMargin   float64 `yaml:"wall_margin"`
}

type AbilitiesSpec struct {
	Dash     bool `yaml:"dash"`
	Heavy    bool `yaml:"heavy"`
	Launcher bool `yaml:"launcher"`
}

// PlayerSpec is player.yaml.
type PlayerSpec struct {
	Name          string           `yaml:"name"`
	MaxHP         int              `yaml:"max_hp"`
	Spawn         PointSpec        `yaml:"spawn"`
	HurtWidth     float64          `yaml:"hurt_width"`
	HurtHeight    float64          `yaml:"hurt_height"`
	Gravity       float64          `yaml:"gravity"`
	MoveSpeed     float64          `yaml:"move_speed"`
	MaxSpeedX     float64          `yaml:"max_speed_x"`
	JumpSpeed     float64          `yaml:"jump_speed"`
	JumpHold      float64          `yaml:"jump_hold"`
	JumpHoldAccel float64          `yaml:"jump_hold_accel"`
	Light         MeleeSpec        `yaml:"light"`
	Heavy         MeleeSpec        `yaml:"heavy"`
	Launcher      MeleeSpec        `yaml:"launcher"`
	Dash          DashSpec         `yaml:"dash"`
	Abilities     AbilitiesSpec    `yaml:"abilities"`
	Color         *YAMLColor       `yaml:"color"`
	Sheet         string           `yaml:"sheet"`
	Animations    []component.Clip `yaml:"animations"`
}

type HitSpec struct {
	Damage    int     `yaml:"damage"`
	IFrames   float64 `yaml:"iframes"`
	Knockback float64 `yaml:"knockback"`
}

type JitterSpec struct {
	Base   float64 `yaml:"base"`
	Spread float64 `yaml:"spread"`
}

type ShockwaveSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetY float64 `yaml:"offset_y"`
	SpawnX  float64 `yaml:"spawn_x"`
	Speed   float64 `yaml:"speed"`
	Hit     HitSpec `yaml:"hit"`
}

type ArcSpec struct {
	Reach         float64        `yaml:"reach"`
	TipRadius     float64        `yaml:"tip_radius"`
	PivotY        float64        `yaml:"pivot_y"`
	StartAngle    float64        `yaml:"start_angle"`
	TargetAngle   float64        `yaml:"target_angle"`
	GroundContact float64        `yaml:"ground_contact"`
	Shockwave     *ShockwaveSpec `yaml:"shockwave"`
}

// BoxSpec covers the rectangle attacks: spin, dash_lunge and shield_bash.
type BoxSpec struct {
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Speed    float64 `yaml:"speed"`
	SpinRate float64 `yaml:"spin_rate"`
}

type LaunchSpec struct {
	OffsetX         float64 `yaml:"offset_x"`
	OffsetY         float64 `yaml:"offset_y"`
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	VelocityX       float64 `yaml:"velocity_x"`
	VelocityY       float64 `yaml:"velocity_y"`
	MaxUses         int     `yaml:"max_uses"`
	MaxRange        float64 `yaml:"max_range"`
	RequireGrounded bool    `yaml:"require_grounded"`
}

type MeteorSpec struct {
	StartY       float64 `yaml:"start_y"`
	Radius       float64 `yaml:"radius"`
	FallSpeed    float64 `yaml:"fall_speed"`
	GroundOffset float64 `yaml:"ground_offset"`
	Impact       float64 `yaml:"impact"`
	ForcedImpact float64 `yaml:"forced_impact"`
	TipReach     float64 `yaml:"tip_reach"`
	ImpactReach  float64 `yaml:"impact_reach"`
	Hit          HitSpec `yaml:"hit"`
}

type MeteorShowerSpec struct {
	Count     int        `yaml:"count"`
	Delay     float64    `yaml:"delay"`
	Stagger   float64    `yaml:"stagger"`
	GridStart float64    `yaml:"grid_start"`
	GridEnd   float64    `yaml:"grid_end"`
	GridStep  float64    `yaml:"grid_step"`
	Meteor    MeteorSpec `yaml:"meteor"`
}

type OrbSpec struct {
	Radius      float64 `yaml:"radius"`
	Windup      float64 `yaml:"windup"`
	Speed       float64 `yaml:"speed"`
	Life        float64 `yaml:"life"`
	Steer       float64 `yaml:"steer"`
	HitReach    float64 `yaml:"hit_reach"`
	SpawnHeight float64 `yaml:"spawn_height"`
	JitterX     int     `yaml:"jitter_x"`
	JitterY     int     `yaml:"jitter_y"`
	Hit         HitSpec `yaml:"hit"`
}

// ComboStepSpec names another caster attack of the same boss and delays its
// hazards by Delay seconds.
type ComboStepSpec struct {
	Attack string  `yaml:"attack"`
	Delay  float64 `yaml:"delay"`
}

// AttackSpec is one catalog entry. Exactly one kind block must be present
// and it must match Kind.
type AttackSpec struct {
	Name             string      `yaml:"name"`
	Kind             string      `yaml:"kind"`
	Windup           float64     `yaml:"windup"`
	Active           float64     `yaml:"active"`
	Recovery         float64     `yaml:"recovery"`
	ParryWindow      float64     `yaml:"parry_window"`
	Counter          string      `yaml:"counter"`
	ParryReach       float64     `yaml:"parry_reach"`
	ParryNeedsShield bool        `yaml:"parry_needs_shield"`
	Hit              HitSpec     `yaml:"hit"`
	EndOnHit         bool        `yaml:"end_on_hit"`
	Cooldown         *JitterSpec `yaml:"cooldown"`

	Arc     *ArcSpec          `yaml:"arc"`
	Box     *BoxSpec          `yaml:"box"`
	Launch  *LaunchSpec       `yaml:"launch"`
	Meteors *MeteorShowerSpec `yaml:"meteors"`
	Orb     *OrbSpec          `yaml:"orb"`
	Steps   []ComboStepSpec   `yaml:"steps"`
}

type WeightedSpec struct {
	Attack string  `yaml:"attack"`
	Weight float64 `yaml:"weight"`
}

type BucketSpec struct {
	// MaxDistance of zero marks the catch-all bucket.
	MaxDistance float64        `yaml:"max_distance"`
	Choices     []WeightedSpec `yaml:"choices"`
}

type PhaseSpec struct {
	Name          string       `yaml:"name"`
	HPFraction    float64      `yaml:"hp_fraction"`
	CooldownScale float64      `yaml:"cooldown_scale"`
	Table         []BucketSpec `yaml:"table"`
}

type ShieldSpec struct {
	Up      float64 `yaml:"up"`
	Down    float64 `yaml:"down"`
	Break   float64 `yaml:"break"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type StunSpec struct {
	Duration  float64 `yaml:"duration"`
	Recovery  float64 `yaml:"recovery"`
	Knockback float64 `yaml:"knockback"`
}

// BossSpec is one boss variant file such as harus.yaml.
type BossSpec struct {
	Name             string           `yaml:"name"`
	Title            string           `yaml:"title"`
	MaxHP            int              `yaml:"max_hp"`
	SpawnX           float64          `yaml:"spawn_x"`
	HalfWidth        float64          `yaml:"half_width"`
	HurtHeight       float64          `yaml:"hurt_height"`
	ApproachRange    float64          `yaml:"approach_range"`
	ApproachSpeed    float64          `yaml:"approach_speed"`
	IdlePause        float64          `yaml:"idle_pause"`
	InitialCooldown  JitterSpec       `yaml:"initial_cooldown"`
	Cooldown         JitterSpec       `yaml:"cooldown"`
	Stun             StunSpec         `yaml:"stun"`
	StaggerOnHit     float64          `yaml:"stagger_on_hit"`
	WaitForHazards   bool             `yaml:"wait_for_hazards"`
	ArenaMargin      float64          `yaml:"arena_margin"`
	ShakeOnShockwave float64          `yaml:"shake_on_shockwave"`
	Shield           *ShieldSpec      `yaml:"shield"`
	Attacks          []AttackSpec     `yaml:"attacks"`
	Phases           []PhaseSpec      `yaml:"phases"`
	Color            *YAMLColor       `yaml:"color"`
	Sheet            string           `yaml:"sheet"`
	Animations       []component.Clip `yaml:"animations"`
}

type StageSpec struct {
	Boss       string `yaml:"boss"`
	UnlockDash bool   `yaml:"unlock_dash"`
	Heal       bool   `yaml:"heal"`
}

// CampaignSpec is campaign.yaml. Prefab file names are relative to the
// prefabs directory.
type CampaignSpec struct {
	Player      string      `yaml:"player"`
	Arena       string      `yaml:"arena"`
	Seed        int64       `yaml:"seed"`
	PlayerMaxHP int         `yaml:"player_max_hp"`
	// StartWithDash overrides the player prefab; the campaign normally
	// hands dash out as a stage reward.
	StartWithDash bool        `yaml:"start_with_dash"`
	Stages      []StageSpec `yaml:"stages"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the parsed colour, or fallback when none was given.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
