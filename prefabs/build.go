package prefabs

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
	"github.com/milk9111/fadingmemory/system"
)

var (
	ErrUnknownKind    = errors.New("unknown attack kind")
	ErrUnknownCounter = errors.New("unknown counter")
	ErrUnknownAttack  = errors.New("unknown attack")
	ErrMissingBlock   = errors.New("missing kind block")
	ErrInvalidValue   = errors.New("invalid value")
)

// Non-boss prefab files.
var reserved = map[string]bool{
	"player.yaml":   true,
	"arena.yaml":    true,
	"campaign.yaml": true,
}

// BossNames lists the embedded boss prefabs without their extension.
func BossNames() []string {
	files, err := fs.Glob(PrefabsFS, "*.yaml")
	if err != nil {
		return nil
	}
	var out []string
	for _, f := range files {
		if reserved[f] {
			continue
		}
		out = append(out, strings.TrimSuffix(f, ".yaml"))
	}
	slices.Sort(out)
	return out
}

func yamlName(name string) string {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return name
	}
	return name + ".yaml"
}

func LoadArena(name string) (obj.Arena, error) {
	spec, err := LoadSpec[ArenaSpec](yamlName(name))
	if err != nil {
		return obj.Arena{}, err
	}
	return BuildArena(spec)
}

func BuildArena(spec ArenaSpec) (obj.Arena, error) {
	if spec.Width <= 0 || spec.Height <= 0 || spec.GroundY <= 0 || spec.GroundY > spec.Height {
		return obj.Arena{}, fmt.Errorf("prefabs: arena %vx%v ground %v: %w", spec.Width, spec.Height, spec.GroundY, ErrInvalidValue)
	}
	return obj.Arena{Width: spec.Width, Height: spec.Height, GroundY: spec.GroundY}, nil
}

func LoadPlayer(name string) (obj.PlayerConfig, error) {
	spec, err := LoadSpec[PlayerSpec](yamlName(name))
	if err != nil {
		return obj.PlayerConfig{}, err
	}
	return BuildPlayerConfig(spec)
}

func BuildPlayerConfig(spec PlayerSpec) (obj.PlayerConfig, error) {
	if spec.MaxHP <= 0 {
		return obj.PlayerConfig{}, fmt.Errorf("prefabs: player %s: max_hp %d: %w", spec.Name, spec.MaxHP, ErrInvalidValue)
	}
	if spec.HurtWidth <= 0 || spec.HurtHeight <= 0 {
		return obj.PlayerConfig{}, fmt.Errorf("prefabs: player %s: hurtbox: %w", spec.Name, ErrInvalidValue)
	}
	return obj.PlayerConfig{
		MaxHP:         spec.MaxHP,
		Spawn:         common.V(spec.Spawn.X, spec.Spawn.Y),
		HurtWidth:     spec.HurtWidth,
		HurtHeight:    spec.HurtHeight,
		Gravity:       spec.Gravity,
		MoveSpeed:     spec.MoveSpeed,
		MaxSpeedX:     spec.MaxSpeedX,
		JumpSpeed:     spec.JumpSpeed,
		JumpHold:      spec.JumpHold,
		JumpHoldAccel: spec.JumpHoldAccel,
		Light:         spec.Light.build(),
		Heavy:         spec.Heavy.build(),
		Launcher:      spec.Launcher.build(),
		Dash: obj.DashConfig{
			Speed:        spec.Dash.Speed,
			Duration:     spec.Dash.Duration,
			Cooldown:     spec.Dash.Cooldown,
			Invulnerable: spec.Dash.Invulnerable,
			WallMargin:   spec.Dash.WallMargin,
		},
		CanDash:     spec.Abilities.Dash,
		CanHeavy:    spec.Abilities.Heavy,
		CanLauncher: spec.Abilities.Launcher,
		Clips:       spec.Animations,
	}, nil
}

func (m MeleeSpec) build() obj.MeleeConfig {
	return obj.MeleeConfig{
		Timing:  m.ActionTiming,
		OffsetX: m.OffsetX,
		OffsetY: m.OffsetY,
		Width:   m.Width,
		Height:  m.Height,
		Damage:  m.Damage,
	}
}

func (h HitSpec) build() obj.HitSpec {
	return obj.HitSpec{Damage: h.Damage, IFrames: h.IFrames, Knockback: h.Knockback}
}

func (j JitterSpec) build() obj.Jitter {
	return obj.Jitter{Base: j.Base, Spread: j.Spread}
}

func LoadBossSpec(name string) (BossSpec, error) {
	return LoadSpec[BossSpec](yamlName(name))
}

func LoadBoss(name string) (*obj.BossConfig, error) {
	spec, err := LoadBossSpec(name)
	if err != nil {
		return nil, err
	}
	return BuildBossConfig(spec)
}

// BuildBossConfig converts and validates a boss prefab. Every attack named by
// a selection table or combo must exist in the catalog.
func BuildBossConfig(spec BossSpec) (*obj.BossConfig, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("prefabs: boss %s: "+format, append([]any{spec.Name}, args...)...)
	}
	if spec.Name == "" {
		return nil, fmt.Errorf("prefabs: boss without a name: %w", ErrInvalidValue)
	}
	if spec.MaxHP <= 0 {
		return nil, fail("max_hp %d: %w", spec.MaxHP, ErrInvalidValue)
	}
	if len(spec.Attacks) == 0 {
		return nil, fail("no attacks: %w", ErrInvalidValue)
	}

	byName := make(map[string]AttackSpec, len(spec.Attacks))
	for _, a := range spec.Attacks {
		if a.Name == "" {
			return nil, fail("attack without a name: %w", ErrInvalidValue)
		}
		if _, dup := byName[a.Name]; dup {
			return nil, fail("attack %s defined twice: %w", a.Name, ErrInvalidValue)
		}
		byName[a.Name] = a
	}

	cfg := &obj.BossConfig{
		Name:             spec.Name,
		Title:            spec.Title,
		MaxHP:            spec.MaxHP,
		SpawnX:           spec.SpawnX,
		HalfWidth:        spec.HalfWidth,
		HurtHeight:       spec.HurtHeight,
		ApproachRange:    spec.ApproachRange,
		ApproachSpeed:    spec.ApproachSpeed,
		IdlePause:        spec.IdlePause,
		InitialCooldown:  spec.InitialCooldown.build(),
		Cooldown:         spec.Cooldown.build(),
		Stun:             obj.StunConfig{Duration: spec.Stun.Duration, Recovery: spec.Stun.Recovery, Knockback: spec.Stun.Knockback},
		StaggerOnHit:     spec.StaggerOnHit,
		WaitForHazards:   spec.WaitForHazards,
		ArenaMargin:      spec.ArenaMargin,
		ShakeOnShockwave: spec.ShakeOnShockwave,
		Clips:            spec.Animations,
	}
	if s := spec.Shield; s != nil {
		cfg.Shield = &obj.ShieldConfig{
			Timing:  component.ShieldTiming{Up: s.Up, Down: s.Down, Break: s.Break},
			OffsetX: s.OffsetX,
			OffsetY: s.OffsetY,
			Width:   s.Width,
			Height:  s.Height,
		}
	}

	for _, a := range spec.Attacks {
		built, err := buildAttack(a, byName)
		if err != nil {
			return nil, fail("%w", err)
		}
		if built.ParryNeedsShield && cfg.Shield == nil {
			return nil, fail("attack %s needs a shield: %w", a.Name, ErrInvalidValue)
		}
		cfg.Attacks = append(cfg.Attacks, built)
	}

	if len(spec.Phases) == 0 {
		return nil, fail("no phases: %w", ErrInvalidValue)
	}
	for i, ph := range spec.Phases {
		phase := obj.BossPhase{Name: ph.Name, HPFraction: ph.HPFraction, CooldownScale: ph.CooldownScale}
		if i == 0 && phase.HPFraction <= 0 {
			phase.HPFraction = 1
		}
		if phase.HPFraction <= 0 || phase.HPFraction > 1 {
			return nil, fail("phase %s: hp_fraction %v: %w", ph.Name, ph.HPFraction, ErrInvalidValue)
		}
		for _, b := range ph.Table {
			bucket := obj.DistanceBucket{MaxDistance: b.MaxDistance}
			for _, c := range b.Choices {
				if _, ok := byName[c.Attack]; !ok {
					return nil, fail("phase %s: %s: %w", ph.Name, c.Attack, ErrUnknownAttack)
				}
				bucket.Choices = append(bucket.Choices, obj.WeightedAttack{Attack: c.Attack, Weight: c.Weight})
			}
			phase.Table = append(phase.Table, bucket)
		}
		cfg.Phases = append(cfg.Phases, phase)
	}
	// Phases advance in order as health drops.
	slices.SortStableFunc(cfg.Phases, func(a, b obj.BossPhase) int {
		switch {
		case a.HPFraction > b.HPFraction:
			return -1
		case a.HPFraction < b.HPFraction:
			return 1
		}
		return 0
	})

	return cfg, nil
}

func buildAttack(a AttackSpec, byName map[string]AttackSpec) (obj.AttackSpec, error) {
	if a.Windup < 0 || a.Active < 0 || a.Recovery < 0 {
		return obj.AttackSpec{}, fmt.Errorf("attack %s: negative timing: %w", a.Name, ErrInvalidValue)
	}
	counter, err := parseCounter(a.Counter)
	if err != nil {
		return obj.AttackSpec{}, fmt.Errorf("attack %s: %w", a.Name, err)
	}
	if counter != obj.CounterNone && (a.ParryWindow <= 0 || a.ParryWindow > a.Windup) {
		return obj.AttackSpec{}, fmt.Errorf("attack %s: parry_window %v outside windup %v: %w", a.Name, a.ParryWindow, a.Windup, ErrInvalidValue)
	}
	shape, err := buildShape(a, byName)
	if err != nil {
		return obj.AttackSpec{}, err
	}
	out := obj.AttackSpec{
		Name:             a.Name,
		Timing:           component.ActionTiming{Windup: a.Windup, Active: a.Active, Recovery: a.Recovery},
		ParryWindow:      a.ParryWindow,
		Counter:          counter,
		ParryReach:       a.ParryReach,
		ParryNeedsShield: a.ParryNeedsShield,
		Hit:              a.Hit.build(),
		EndOnHit:         a.EndOnHit,
		Shape:            shape,
	}
	if a.Cooldown != nil {
		j := a.Cooldown.build()
		out.Cooldown = &j
	}
	return out, nil
}

func parseCounter(s string) (obj.Counter, error) {
	switch c := obj.Counter(s); c {
	case obj.CounterNone, obj.CounterTip, obj.CounterHitbox, obj.CounterDeflect:
		return c, nil
	}
	if s == "none" {
		return obj.CounterNone, nil
	}
	return obj.CounterNone, fmt.Errorf("%q: %w", s, ErrUnknownCounter)
}

func buildShape(a AttackSpec, byName map[string]AttackSpec) (obj.AttackShape, error) {
	missing := func(block string) error {
		return fmt.Errorf("attack %s: kind %s needs %q: %w", a.Name, a.Kind, block, ErrMissingBlock)
	}
	switch obj.AttackKind(a.Kind) {
	case obj.AttackArcSwing:
		if a.Arc == nil {
			return nil, missing("arc")
		}
		arc := obj.ArcSwing{
			Reach:         a.Arc.Reach,
			TipRadius:     a.Arc.TipRadius,
			PivotY:        a.Arc.PivotY,
			StartAngle:    a.Arc.StartAngle,
			TargetAngle:   a.Arc.TargetAngle,
			GroundContact: a.Arc.GroundContact,
		}
		if w := a.Arc.Shockwave; w != nil {
			arc.Shockwave = &obj.ShockwaveSpec{
				Width:   w.Width,
				Height:  w.Height,
				OffsetY: w.OffsetY,
				SpawnX:  w.SpawnX,
				Speed:   w.Speed,
				Hit:     w.Hit.build(),
			}
		}
		return arc, nil
	case obj.AttackSpin:
		if a.Box == nil {
			return nil, missing("box")
		}
		return obj.SpinArea{Width: a.Box.Width, Height: a.Box.Height, OffsetY: a.Box.OffsetY, SpinRate: a.Box.SpinRate}, nil
	case obj.AttackDashLunge:
		if a.Box == nil {
			return nil, missing("box")
		}
		return obj.DashLunge{Width: a.Box.Width, Height: a.Box.Height, OffsetY: a.Box.OffsetY, Speed: a.Box.Speed}, nil
	case obj.AttackShieldBash:
		if a.Box == nil {
			return nil, missing("box")
		}
		return obj.ShieldBash{OffsetX: a.Box.OffsetX, OffsetY: a.Box.OffsetY, Width: a.Box.Width, Height: a.Box.Height}, nil
	case obj.AttackLauncher:
		l := a.Launch
		if l == nil {
			return nil, missing("launch")
		}
		return obj.LauncherStrike{
			OffsetX:         l.OffsetX,
			OffsetY:         l.OffsetY,
			Width:           l.Width,
			Height:          l.Height,
			LaunchX:         l.VelocityX,
			LaunchY:         l.VelocityY,
			MaxUses:         l.MaxUses,
			MaxRange:        l.MaxRange,
			RequireGrounded: l.RequireGrounded,
		}, nil
	case obj.AttackMeteorShower:
		m := a.Meteors
		if m == nil {
			return nil, missing("meteors")
		}
		if m.GridStep <= 0 || m.Count <= 0 {
			return nil, fmt.Errorf("attack %s: meteor grid: %w", a.Name, ErrInvalidValue)
		}
		return obj.MeteorShower{
			Count:     m.Count,
			Delay:     m.Delay,
			Stagger:   m.Stagger,
			GridStart: m.GridStart,
			GridEnd:   m.GridEnd,
			GridStep:  m.GridStep,
			Meteor: obj.MeteorSpec{
				StartY:       m.Meteor.StartY,
				Radius:       m.Meteor.Radius,
				FallSpeed:    m.Meteor.FallSpeed,
				GroundOffset: m.Meteor.GroundOffset,
				Impact:       m.Meteor.Impact,
				ForcedImpact: m.Meteor.ForcedImpact,
				TipReach:     m.Meteor.TipReach,
				ImpactReach:  m.Meteor.ImpactReach,
				Hit:          m.Meteor.Hit.build(),
			},
		}, nil
	case obj.AttackOrb:
		o := a.Orb
		if o == nil {
			return nil, missing("orb")
		}
		return obj.OrbShot{
			Orb: obj.OrbSpec{
				Radius:   o.Radius,
				Windup:   o.Windup,
				Speed:    o.Speed,
				Life:     o.Life,
				Steer:    o.Steer,
				HitReach: o.HitReach,
				Hit:      o.Hit.build(),
			},
			SpawnHeight: o.SpawnHeight,
			JitterX:     o.JitterX,
			JitterY:     o.JitterY,
		}, nil
	case obj.AttackCombo:
		if len(a.Steps) == 0 {
			return nil, missing("steps")
		}
		var combo obj.Combo
		for _, step := range a.Steps {
			ref, ok := byName[step.Attack]
			if !ok {
				return nil, fmt.Errorf("attack %s: step %s: %w", a.Name, step.Attack, ErrUnknownAttack)
			}
			kind := obj.AttackKind(ref.Kind)
			if kind != obj.AttackMeteorShower && kind != obj.AttackOrb {
				return nil, fmt.Errorf("attack %s: step %s is a %s, not a cast: %w", a.Name, step.Attack, kind, ErrInvalidValue)
			}
			shape, err := buildShape(ref, byName)
			if err != nil {
				return nil, err
			}
			switch s := shape.(type) {
			case obj.MeteorShower:
				s.Delay += step.Delay
				shape = s
			case obj.OrbShot:
				s.Delay += step.Delay
				shape = s
			}
			combo.Steps = append(combo.Steps, shape)
		}
		return combo, nil
	}
	return nil, fmt.Errorf("attack %s: %q: %w", a.Name, a.Kind, ErrUnknownKind)
}

// LoadCampaign builds the stage list from campaign.yaml and the prefabs it
// names.
func LoadCampaign(name string) (system.CampaignConfig, error) {
	file := yamlName(name)
	spec, err := LoadSpec[CampaignSpec](file)
	if err != nil {
		return system.CampaignConfig{}, err
	}
	return BuildCampaign(file, spec)
}

func BuildCampaign(file string, spec CampaignSpec) (system.CampaignConfig, error) {
	var err error
	arena := obj.DefaultArena()
	if spec.Arena != "" {
		if arena, err = LoadArena(spec.Arena); err != nil {
			return system.CampaignConfig{}, err
		}
	}
	player := obj.DefaultPlayerConfig()
	if spec.Player != "" {
		if player, err = LoadPlayer(spec.Player); err != nil {
			return system.CampaignConfig{}, err
		}
	}
	if spec.PlayerMaxHP > 0 {
		player.MaxHP = spec.PlayerMaxHP
	}
	player.CanDash = spec.StartWithDash

	if len(spec.Stages) == 0 {
		return system.CampaignConfig{}, fmt.Errorf("prefabs: campaign %s: %w", file, system.ErrNoStages)
	}
	cfg := system.CampaignConfig{Arena: arena, Player: player, Seed: spec.Seed}
	for i, s := range spec.Stages {
		boss, err := LoadBoss(s.Boss)
		if err != nil {
			return system.CampaignConfig{}, fmt.Errorf("prefabs: campaign %s: stage %d: %w", file, i, err)
		}
		cfg.Stages = append(cfg.Stages, system.Stage{Boss: boss, UnlockDash: s.UnlockDash, Heal: s.Heal})
	}
	return cfg, nil
}

// LoadSingleBoss is a one-stage campaign against the named boss using the
// default player and arena prefabs.
func LoadSingleBoss(boss string) (system.CampaignConfig, error) {
	return BuildCampaign(yamlName(boss), CampaignSpec{
		Player:        "player.yaml",
		Arena:         "arena.yaml",
		Seed:          1,
		StartWithDash: true,
		Stages:        []StageSpec{{Boss: boss}},
	})
}

// LoadRun picks LoadSingleBoss when a boss is named and campaign.yaml
// otherwise.
func LoadRun(boss string) (system.CampaignConfig, error) {
	if boss == "" {
		return LoadCampaign("campaign.yaml")
	}
	return LoadSingleBoss(boss)
}
