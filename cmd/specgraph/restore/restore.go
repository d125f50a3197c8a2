// Package restorecmder provides the restore command for bringing records back
// from a backup.
package restorecmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
)

const restoreLongDesc string = `Copy the records of a backup over the current spec records.

Records created after the backup are left in place. Use
"specgraph backup list" to see the available names.

Examples:
  specgraph restore 20260101T120000Z`

const restoreShortDesc string = "Restore records from a backup"

// Result is the JSON output of restore.
type Result struct {
	Name     string `json:"name"`
	Restored int    `json:"restored"`
}

func NewRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <name>",
		Short: restoreShortDesc,
		Long:  restoreLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
			if err != nil {
				return err
			}
			defer env.Close()

			var n int
			restore := func() error {
				var err error
				n, err = env.Service.Restore(args[0])
				return err
			}

			if env.JSON() || !cliui.IsTerminal(env.Out) {
				err = restore()
			} else {
				err = cliui.Step(env.Out, "Restoring "+args[0], restore)
			}
			if err != nil {
				return err
			}

			if env.JSON() {
				return env.PrintJSON(Result{Name: args[0], Restored: n})
			}

			fmt.Fprintf(env.Out, "  %s Restored %d records from %s\n",
				cliui.SuccessMark, n, cliui.IDStyle.Render(args[0]))
			return nil
		},
	}
}
