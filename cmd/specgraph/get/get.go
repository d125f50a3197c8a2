// Package getcmder provides the get command for showing one spec node.
package getcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
)

const getLongDesc string = `Show a spec node.

Text output renders the node as markdown. Use --output json for the raw
record.

Examples:
  specgraph get F-001
  specgraph get F-001-02 -o json`

const getShortDesc string = "Show a spec node"

func NewGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0])
		},
	}

	return cmd
}

func runGet(cmd *cobra.Command, id string) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	node, err := env.Service.Get(id)
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(node)
	}

	md := cliui.NodeMarkdown(node)
	rendered, err := cliui.RenderMarkdown(md)
	if err != nil {
		env.Logger.Debug("markdown rendering failed", "error", err)
		rendered = md
	}
	fmt.Fprint(env.Out, rendered)
	return nil
}
