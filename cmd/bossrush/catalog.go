package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/milk9111/fadingmemory/obj"
	"github.com/milk9111/fadingmemory/prefabs"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	phaseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [boss...]",
	Short: "List bosses, attacks and selection tables",
	Long:  `Shows every boss prefab (or only the named ones) with its attack catalog and phase tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := args
		if len(names) == 0 {
			names = prefabs.BossNames()
		}
		return writeCatalog(cmd.OutOrStdout(), names)
	},
}

func writeCatalog(out io.Writer, names []string) error {
	for i, name := range names {
		cfg, err := prefabs.LoadBoss(name)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		writeBoss(out, cfg)
	}
	return nil
}

func writeBoss(out io.Writer, cfg *obj.BossConfig) {
	title := cfg.Name
	if cfg.Title != "" {
		title = fmt.Sprintf("%s (%s)", cfg.Title, cfg.Name)
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	fmt.Fprintf(out, "  hp %d  shield %t  approach %.0f\n\n", cfg.MaxHP, cfg.Shield != nil, cfg.ApproachRange)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ATTACK\tKIND\tWINDUP\tACTIVE\tRECOVERY\tCOUNTER\tPARRY\tDAMAGE")
	for _, a := range cfg.Attacks {
		counter := string(a.Counter)
		if counter == "" {
			counter = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%.2f\t%.2f\t%.2f\t%s\t%.2f\t%d\n",
			a.Name, a.Kind(), a.Timing.Windup, a.Timing.Active, a.Timing.Recovery, counter, a.ParryWindow, a.Hit.Damage)
	}
	tw.Flush()

	for _, ph := range cfg.Phases {
		name := ph.Name
		if name == "" {
			name = "phase"
		}
		scale := ph.CooldownScale
		if scale <= 0 {
			scale = 1
		}
		fmt.Fprintf(out, "\n  %s  hp <= %.0f%%  cooldown x%.2f\n", phaseStyle.Render(name), ph.HPFraction*100, scale)
		for _, b := range ph.Table {
			bound := "any"
			if b.MaxDistance > 0 {
				bound = fmt.Sprintf("< %.0f", b.MaxDistance)
			}
			choices := make([]string, 0, len(b.Choices))
			for _, c := range b.Choices {
				choices = append(choices, fmt.Sprintf("%s %.2f", c.Attack, c.Weight))
			}
			fmt.Fprintf(out, "    %-6s %s\n", bound, strings.Join(choices, ", "))
		}
	}
}
