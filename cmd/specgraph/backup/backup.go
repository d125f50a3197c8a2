// Package backupcmder provides the backup command for snapshotting the
// record store.
package backupcmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/storage"
)

const backupLongDesc string = `Snapshot every spec record into a timestamped backup.

Backups live under backups/ in the store root and can be brought back with
"specgraph restore <name>".

Examples:
  specgraph backup
  specgraph backup list`

const backupShortDesc string = "Snapshot the record store"

type backupCommander struct{}

func NewBackupCmd() *cobra.Command {
	cmder := &backupCommander{}

	cmd := &cobra.Command{
		Use:   "backup",
		Short: backupShortDesc,
		Long:  backupLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.AddCommand(newListCmd())

	return cmd
}

func (c *backupCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	var snap *storage.Snapshot
	backup := func() error {
		var err error
		snap, err = env.Service.Backup()
		return err
	}

	if env.JSON() || !cliui.IsTerminal(env.Out) {
		if err := backup(); err != nil {
			return err
		}
	} else if err := cliui.Step(env.Out, "Backing up records", backup); err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(snap)
	}

	fmt.Fprintf(env.Out, "  %s Backed up %d records to %s\n",
		cliui.SuccessMark, snap.Count, cliui.IDStyle.Render(snap.Name))
	fmt.Fprintf(env.Out, "  %s\n", cliui.DimStyle.Render(snap.Path))
	return nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available backups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
			if err != nil {
				return err
			}
			defer env.Close()

			snaps, err := env.Service.ListBackups()
			if err != nil {
				return err
			}

			if env.JSON() {
				if snaps == nil {
					snaps = []storage.Snapshot{}
				}
				return env.PrintJSON(snaps)
			}

			if len(snaps) == 0 {
				fmt.Fprintln(env.Out, cliui.DimStyle.Render("  No backups"))
				return nil
			}
			for _, s := range snaps {
				fmt.Fprintf(env.Out, "  %s  %s  %s\n",
					cliui.IDStyle.Render(s.Name),
					cliui.DimStyle.Render(s.CreatedAt.Format(time.RFC3339)),
					cliui.ValueStyle.Render(fmt.Sprintf("%d records", s.Count)),
				)
			}
			return nil
		},
	}
}
