// Package deletecmder provides the delete command for removing a spec node.
package deletecmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

const deleteLongDesc string = `Delete a spec node and its evidence directory.

Nodes that refer to the deleted id keep the reference; "specgraph validate"
reports it as unresolved. Take a backup first if unsure.

Examples:
  specgraph delete F-007`

const deleteShortDesc string = "Delete a spec node"

// Result is the JSON output of delete.
type Result struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0])
		},
	}

	return cmd
}

func runDelete(cmd *cobra.Command, id string) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	removed, err := env.Service.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !removed {
		return spec.NotFoundError{ID: id}
	}

	if env.JSON() {
		return env.PrintJSON(Result{ID: id, Deleted: true})
	}

	fmt.Fprintf(env.Out, "  %s Deleted %s\n", cliui.SuccessMark, cliui.IDStyle.Render(id))
	return nil
}
