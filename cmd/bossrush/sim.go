package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/milk9111/fadingmemory/prefabs"
	"github.com/milk9111/fadingmemory/system"
)

var (
	flagSimBoss     string
	flagSimFrames   int
	flagSimPilot    int64
	flagSimRealtime bool
	flagSimHTTP     string
	flagSimWatch    bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Autopilot a campaign or a single boss",
	Long: `Runs the campaign (or one boss with --boss) with a seeded autopilot
playing the player side. Defeats retry from the last checkpoint until the
campaign is cleared or the frame limit is reached.`,
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimBoss, "boss", "", "Single boss prefab to fight (default: campaign.yaml)")
	simCmd.Flags().IntVar(&flagSimFrames, "frames", 60*60*10, "Maximum frames to simulate")
	simCmd.Flags().Int64Var(&flagSimPilot, "pilot", 1, "Autopilot seed")
	simCmd.Flags().BoolVar(&flagSimRealtime, "realtime", false, "Pace frames at 60 per second")
	simCmd.Flags().StringVar(&flagSimHTTP, "http", "", "Serve /hud and /metrics on this address while running")
	simCmd.Flags().BoolVar(&flagSimWatch, "watch", false, "Restart the run when files under ./prefabs change")
}

func runSim(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	cfg, err := loadRun(flagSimBoss, logger)
	if err != nil {
		return err
	}

	metrics := system.NewMetrics()
	r, err := newRunner(cfg, flagSimPilot, metrics, logger)
	if err != nil {
		return err
	}
	if flagSimRealtime {
		step := system.FixedStep
		r.limiter = rate.NewLimiter(rate.Every(time.Duration(step*float64(time.Second))), 1)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if flagSimHTTP != "" {
		srv := &http.Server{Addr: flagSimHTTP, Handler: newRouter(r, metrics), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving", "addr", flagSimHTTP)
	}

	if flagSimWatch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			return fmt.Errorf("watch prefabs: %w", err)
		}
		defer w.Close()
		go r.watch(ctx, w, flagSimBoss)
	}

	stats, err := r.Run(ctx, flagSimFrames)
	logger.Info("run finished",
		"frames", stats.Frames,
		"stage", stats.Stage,
		"cleared", stats.Cleared,
		"deaths", stats.Deaths,
		"done", stats.Done,
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func loadRun(boss string, logger *log.Logger) (system.CampaignConfig, error) {
	cfg, err := prefabs.LoadRun(boss)
	if err != nil {
		return cfg, err
	}
	if flagSeed >= 0 {
		cfg.Seed = flagSeed
	}
	cfg.Logger = logger
	return cfg, nil
}

type runStats struct {
	Frames  int  `json:"frames"`
	Stage   int  `json:"stage"`
	Cleared int  `json:"cleared"`
	Deaths  int  `json:"deaths"`
	Done    bool `json:"done"`
}

// runner owns a campaign and its autopilot. HTTP handlers read snapshots
// while Run steps frames.
type runner struct {
	mu        sync.RWMutex
	campaign  *system.Campaign
	pilot     *system.Autopilot
	pilotSeed int64
	metrics   *system.Metrics
	limiter   *rate.Limiter
	logger    *log.Logger

	hud   system.HUD
	stats runStats
}

func newRunner(cfg system.CampaignConfig, pilotSeed int64, metrics *system.Metrics, logger *log.Logger) (*runner, error) {
	r := &runner{pilotSeed: pilotSeed, metrics: metrics, logger: logger}
	if err := r.reset(cfg); err != nil {
		return nil, err
	}
	return r, nil
}

// reset starts cfg from its first stage. Callers hold mu or own r
// exclusively.
func (r *runner) reset(cfg system.CampaignConfig) error {
	c, err := system.NewCampaign(cfg, system.WithMetrics(r.metrics))
	if err != nil {
		return fmt.Errorf("sim: campaign: %w", err)
	}
	c.Start()
	r.campaign = c
	r.pilot = system.NewAutopilot(r.pilotSeed)
	r.hud = c.Encounter().HUD()
	r.stats = runStats{Frames: r.stats.Frames}
	return nil
}

// Run steps frames until the campaign is cleared, the frame limit is hit
// or ctx is cancelled.
func (r *runner) Run(ctx context.Context, frames int) (runStats, error) {
	for {
		stats := r.Stats()
		if stats.Done || stats.Frames >= frames {
			return stats, nil
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return stats, err
			}
		} else if err := ctx.Err(); err != nil {
			return stats, err
		}
		r.step()
	}
}

func (r *runner) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.campaign.Encounter()
	boss := e.Boss.Name()
	o := r.campaign.Step(r.pilot.Next(e), system.FixedStep)
	r.stats.Frames++
	switch o {
	case system.OutcomePlayerDefeated:
		r.stats.Deaths++
		r.logger.Debug("player defeated", "boss", boss, "frame", e.Frame)
		r.campaign.Retry()
	case system.OutcomeBossDefeated:
		r.stats.Cleared++
		r.logger.Info("boss defeated", "boss", boss, "frame", e.Frame, "hp", e.Player.Health.Current)
	}
	r.hud = r.campaign.Encounter().HUD()
	r.stats.Stage = r.campaign.StageIndex()
	r.stats.Done = r.campaign.Done()
}

func (r *runner) Stats() runStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Snapshot is the latest HUD and run progress.
func (r *runner) Snapshot() (system.HUD, runStats) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hud, r.stats
}

// Reload swaps in a new campaign and starts it over.
func (r *runner) Reload(cfg system.CampaignConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reset(cfg)
}

func (r *runner) watch(ctx context.Context, w *prefabs.Watcher, boss string) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			r.logger.Warn("prefab watcher", "err", err)
		case name, ok := <-w.Events:
			if !ok {
				return
			}
			cfg, err := loadRun(boss, r.logger)
			if err != nil {
				r.logger.Warn("prefab reload failed", "file", name, "err", err)
				continue
			}
			if err := r.Reload(cfg); err != nil {
				r.logger.Warn("prefab reload failed", "file", name, "err", err)
				continue
			}
			r.logger.Info("prefabs reloaded, run restarted", "file", name)
		}
	}
}
