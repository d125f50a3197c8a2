// Package initcmder provides the init command for initializing a local
// .specgraph store in the current working directory.
package initcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/dotdir"
	"github.com/papercomputeco/specgraph/pkg/storage/filesystem"
)

const initLongDesc string = `Initialize a specgraph store.

Creates ./.specgraph/ (or the directory given with --root) with the specs/
and evidence/ directories and writes the schema marker. A local store takes
precedence over ~/.specgraph/ for every other command run from this
directory.

Running init on an existing store is safe; nothing is overwritten.

Examples:
  specgraph init
  specgraph init --root /srv/specs`

const initShortDesc string = "Initialize a specgraph store"

// Result is the JSON output of init.
type Result struct {
	Root    string `json:"root"`
	Created bool   `json:"created"`
}

func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd)
		},
	}

	return cmd
}

func runInit(cmd *cobra.Command) error {
	output, err := cmdenv.OutputFormat(cmd)
	if err != nil {
		return err
	}

	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root, err = dotdir.NewManager().Local()
		if err != nil {
			return err
		}
	}

	created, err := filesystem.New(root).Init()
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}

	out := cmd.OutOrStdout()
	if output == cmdenv.OutputJSON {
		return cmdenv.WriteJSON(out, Result{Root: root, Created: created})
	}

	if created {
		fmt.Fprintf(out, "  %s Initialized specgraph store: %s\n", cliui.SuccessMark, root)
	} else {
		fmt.Fprintf(out, "  %s Already initialized: %s\n", cliui.DimStyle.Render("●"), root)
	}
	return nil
}
