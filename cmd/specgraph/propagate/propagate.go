// Package propagatecmder provides the propagate command for cascading a
// status change.
package propagatecmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

const propagateLongDesc string = `Compute the status changes caused by moving <id> to <status>.

Nodes depending on <id> move to needs-review. The parent of <id> is then
recomputed from its children, and so on up the tree while statuses change.

Without --apply this is a dry run. With --apply the node and every changed
node are written.

Statuses: draft, active, needs-review, verified, deprecated

Examples:
  specgraph propagate F-001-02 verified
  specgraph propagate F-003 needs-review --apply`

const propagateShortDesc string = "Cascade a status change"

type propagateCommander struct {
	apply bool
}

func NewPropagateCmd() *cobra.Command {
	cmder := &propagateCommander{}

	cmd := &cobra.Command{
		Use:   "propagate <id> <status>",
		Short: propagateShortDesc,
		Long:  propagateLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0], args[1])
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				statuses := make([]string, 0, len(spec.Statuses))
				for _, s := range spec.Statuses {
					statuses = append(statuses, string(s))
				}
				return statuses, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().BoolVarP(&cmder.apply, "apply", "a", false, "Write the changes instead of a dry run")

	return cmd
}

func (c *propagateCommander) run(cmd *cobra.Command, id, rawStatus string) error {
	status, err := spec.ParseStatus(rawStatus)
	if err != nil {
		return err
	}

	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.Service.Propagate(cmd.Context(), id, status, c.apply)
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(res)
	}

	verb := "Would set"
	if res.Applied {
		verb = "Set"
	}
	fmt.Fprintf(env.Out, "  %s %s %s\n", verb, cliui.IDStyle.Render(id), cliui.StatusBadge(status))

	for _, ch := range res.Changes {
		fmt.Fprintf(env.Out, "    %s %s → %s\n",
			cliui.IDStyle.Render(ch.ID),
			cliui.StatusBadge(ch.OldStatus),
			cliui.StatusBadge(ch.NewStatus),
		)
	}

	if !res.Applied && len(res.Changes) > 0 {
		fmt.Fprintf(env.Out, "\n  %s\n", cliui.DimStyle.Render("Dry run. Pass --apply to write these changes."))
	}
	return nil
}
