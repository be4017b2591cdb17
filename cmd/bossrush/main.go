// bossrush runs boss fights without a window.
//
// Usage:
//
//	bossrush sim [--boss name]    - Autopilot a campaign or a single boss
//	bossrush snapshot <boss>      - Render one simulated frame to a PNG
//	bossrush catalog [boss]       - List bosses, attacks and selection tables
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagSeed  int64
	flagDebug bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bossrush",
	Short: "Headless tools for Fading Memory boss fights",
	Long: `bossrush steps the combat simulation without opening a window.

Examples:
  bossrush sim
  bossrush sim --boss helma --http :9090 --realtime
  bossrush snapshot papia --frame 240 --out papia.png
  bossrush catalog harus`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", -1, "Simulation seed (-1 = prefab seed)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every stage and combat event")

	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(catalogCmd)
}

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "bossrush",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
