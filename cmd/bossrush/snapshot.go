package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/milk9111/fadingmemory/common"
	"github.com/milk9111/fadingmemory/component"
	"github.com/milk9111/fadingmemory/obj"
	"github.com/milk9111/fadingmemory/system"
)

var (
	flagSnapFrame int
	flagSnapOut   string
	flagSnapPilot int64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <boss>",
	Short: "Render one simulated frame to a PNG",
	Long: `Simulates a single boss fight up to --frame and writes the hitboxes,
hurtboxes and hazards of that frame to a PNG. A negative --pilot keeps the
player idle.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&flagSnapFrame, "frame", 180, "Frame to capture")
	snapshotCmd.Flags().StringVarP(&flagSnapOut, "out", "o", "snapshot.png", "Output PNG path")
	snapshotCmd.Flags().Int64Var(&flagSnapPilot, "pilot", 1, "Autopilot seed (-1 = idle player)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadRun(args[0], logger)
	if err != nil {
		return err
	}
	e := simulateTo(cfg, flagSnapPilot, flagSnapFrame)
	dc := drawSnapshot(e, cfg.Arena)
	if err := dc.SavePNG(flagSnapOut); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	logger.Info("snapshot written", "path", flagSnapOut, "frame", e.Frame, "outcome", e.Outcome())
	return nil
}

// simulateTo steps the first stage of cfg until frame or an outcome.
func simulateTo(cfg system.CampaignConfig, pilotSeed int64, frame int) *system.Encounter {
	stage := cfg.Stages[0]
	e := system.NewEncounter(system.EncounterConfig{
		Arena:  cfg.Arena,
		Player: cfg.Player,
		Boss:   stage.Boss,
		Seed:   cfg.Seed,
	}, system.WithLogger(cfg.Logger))

	var pilot *system.Autopilot
	if pilotSeed >= 0 {
		pilot = system.NewAutopilot(pilotSeed)
	}
	for e.Frame < frame && e.Outcome() == system.OutcomeNone {
		held := component.InputNone
		if pilot != nil {
			held = pilot.Next(e)
		}
		e.Step(held, system.FixedStep)
	}
	return e
}

var (
	snapBackground = color.RGBA{18, 18, 32, 255}
	snapGround     = color.RGBA{48, 56, 64, 255}
	snapPlayer     = color.RGBA{120, 220, 120, 255}
	snapBoss       = color.RGBA{230, 200, 80, 255}
	snapTelegraph  = color.RGBA{255, 150, 0, 255}
	snapParry      = color.RGBA{255, 255, 255, 255}
	snapStrike     = color.RGBA{255, 40, 40, 255}
	snapShield     = color.RGBA{140, 170, 220, 255}
	snapHazard     = color.RGBA{200, 110, 255, 255}
)

func drawSnapshot(e *system.Encounter, arena obj.Arena) *gg.Context {
	dc := gg.NewContext(int(arena.Width), int(arena.Height))
	dc.SetColor(snapBackground)
	dc.Clear()
	dc.SetColor(snapGround)
	dc.DrawRectangle(0, arena.GroundY, arena.Width, arena.Height-arena.GroundY)
	dc.Fill()

	p, b := e.Player, e.Boss
	strokeRect(dc, p.Hurtbox(), snapPlayer, 2)
	for _, a := range []*component.TimedAction{&p.Light, &p.Heavy, &p.Launcher} {
		if r, ok := a.Hitbox.Get(); ok {
			fillRect(dc, r, snapPlayer, 0.4)
		}
	}
	strokeRect(dc, b.Hurtbox(), snapBoss, 2)
	if r, ok := b.ShieldRect(); ok && b.ShieldUp() {
		fillRect(dc, r, snapShield, 0.6)
	}

	if spec := b.CurrentAttack(); spec != nil {
		clr := snapTelegraph
		switch {
		case b.Striking():
			clr = snapStrike
		case b.ParryWindow():
			clr = snapParry
		}
		if tip, ok := b.TipPos(); ok {
			if arc, ok := spec.Shape.(obj.ArcSwing); ok {
				dc.SetColor(clr)
				dc.SetLineWidth(3)
				dc.DrawLine(b.Pos.X, b.Pos.Y+arc.PivotY, tip.X, tip.Y)
				dc.Stroke()
				dc.DrawCircle(tip.X, tip.Y, arc.TipRadius)
				dc.Stroke()
			}
		}
		if r, ok := b.AttackHitbox(); ok {
			strokeRect(dc, r, clr, 2)
		}
	}

	for _, h := range b.Hazards() {
		pos := h.Position()
		switch h := h.(type) {
		case *obj.Meteor:
			radius := h.Spec.Radius
			if h.Stage() == obj.MeteorWindup {
				dc.SetColor(snapTelegraph)
				dc.DrawCircle(h.X, h.GroundY, radius)
				dc.Stroke()
				continue
			}
			dc.SetColor(snapHazard)
			dc.DrawCircle(pos.X, pos.Y, math.Max(radius/2, 6))
			dc.Fill()
		case *obj.Orb:
			dc.SetColor(snapHazard)
			dc.DrawCircle(pos.X, pos.Y, h.Spec.Radius)
			if h.Launched() {
				dc.Fill()
			} else {
				dc.Stroke()
			}
		case *obj.Shockwave:
			fillRect(dc, h.Rect, snapStrike, 0.6)
		}
	}

	hud := e.HUD()
	dc.SetColor(color.White)
	dc.DrawString(fmt.Sprintf("frame %d  player %d/%d %s", hud.Frame, hud.PlayerHP, hud.PlayerMaxHP, hud.PlayerState), 12, 20)
	dc.DrawString(fmt.Sprintf("%s %d/%d %s %s", hud.BossName, hud.BossHP, hud.BossMaxHP, hud.BossState, hud.BossPhase), 12, 38)
	return dc
}

func strokeRect(dc *gg.Context, r common.Rect, clr color.Color, width float64) {
	dc.SetColor(clr)
	dc.SetLineWidth(width)
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Stroke()
}

func fillRect(dc *gg.Context, r common.Rect, clr color.RGBA, alpha float64) {
	dc.SetRGBA255(int(clr.R), int(clr.G), int(clr.B), int(alpha*255))
	dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	dc.Fill()
}
