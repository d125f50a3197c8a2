// Package impactcmder provides the impact command for showing the blast
// radius of a change.
package impactcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
)

const impactLongDesc string = `Show every node a change to <id> would reach.

Walks breadth-first over the node's descendants and over everything that
depends on it, directly or transitively, up to --max-depth levels.

Examples:
  specgraph impact F-001
  specgraph impact F-001 --max-depth 2 -o json`

const impactShortDesc string = "Show what a change would reach"

type impactCommander struct {
	maxDepth uint
}

func NewImpactCmd() *cobra.Command {
	cmder := &impactCommander{}

	cmd := &cobra.Command{
		Use:   "impact <id>",
		Short: impactShortDesc,
		Long:  impactLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	config.AddUintFlag(cmd, config.Flags, config.FlagMaxDepth, &cmder.maxDepth)

	return cmd
}

func (c *impactCommander) run(cmd *cobra.Command, id string) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{
		Flags:   []string{config.FlagMaxDepth},
		Surface: "cli",
	})
	if err != nil {
		return err
	}
	defer env.Close()

	report, err := env.Service.Impact(id, env.Viper.GetInt("impact.max_depth"))
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(report)
	}

	if len(report.ImpactedNodes) == 0 {
		fmt.Fprintf(env.Out, "  %s Nothing depends on %s\n", cliui.SuccessMark, cliui.IDStyle.Render(id))
		return nil
	}

	fmt.Fprintf(env.Out, "  %s reaches %d nodes (max depth %d)\n\n",
		cliui.IDStyle.Render(report.SourceID),
		len(report.ImpactedNodes),
		report.MaxDepth,
	)
	for _, n := range report.ImpactedNodes {
		fmt.Fprintf(env.Out, "  %s %s  %s  %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d", n.Depth)),
			cliui.IDStyle.Render(n.ID),
			cliui.KeyStyle.Render(string(n.Relation)),
			cliui.StatusBadge(n.Status),
			n.Title,
		)
	}
	return nil
}
