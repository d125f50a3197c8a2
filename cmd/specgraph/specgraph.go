// Package specgraphcmder is the root of the specgraph command tree.
package specgraphcmder

import (
	"io"

	"github.com/spf13/cobra"

	backupcmder "github.com/papercomputeco/specgraph/cmd/specgraph/backup"
	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	configcmder "github.com/papercomputeco/specgraph/cmd/specgraph/config"
	createcmder "github.com/papercomputeco/specgraph/cmd/specgraph/create"
	deletecmder "github.com/papercomputeco/specgraph/cmd/specgraph/delete"
	getcmder "github.com/papercomputeco/specgraph/cmd/specgraph/get"
	graphcmder "github.com/papercomputeco/specgraph/cmd/specgraph/graph"
	impactcmder "github.com/papercomputeco/specgraph/cmd/specgraph/impact"
	initcmder "github.com/papercomputeco/specgraph/cmd/specgraph/init"
	listcmder "github.com/papercomputeco/specgraph/cmd/specgraph/list"
	propagatecmder "github.com/papercomputeco/specgraph/cmd/specgraph/propagate"
	restorecmder "github.com/papercomputeco/specgraph/cmd/specgraph/restore"
	servecmder "github.com/papercomputeco/specgraph/cmd/specgraph/serve"
	updatecmder "github.com/papercomputeco/specgraph/cmd/specgraph/update"
	validatecmder "github.com/papercomputeco/specgraph/cmd/specgraph/validate"
	versioncmder "github.com/papercomputeco/specgraph/cmd/specgraph/version"
	watchcmder "github.com/papercomputeco/specgraph/cmd/specgraph/watch"
)

const specgraphLongDesc string = `Specgraph keeps feature specifications as a tree of features and
conditions plus a graph of declared dependencies.

Records live as JSON files under .specgraph/specs/. Every command rebuilds
the graph from those records, so edits made by hand or by other tools are
picked up immediately.

Common workflows:
  specgraph init                         Create ./.specgraph
  specgraph create --title "Login" ...   Add a feature
  specgraph validate                     Check the whole graph
  specgraph impact F-001                 Show what a change would reach
  specgraph propagate F-001 verified     Cascade a status change
  specgraph serve                        Run the HTTP and MCP servers

Pass --output json for machine-readable output.`

const specgraphShortDesc string = "Specgraph - feature spec graph"

func NewSpecgraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "specgraph",
		Short:         specgraphShortDesc,
		Long:          specgraphLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringP("root", "r", "", "Store root (default: ./.specgraph, else ~/.specgraph)")
	cmd.PersistentFlags().StringP("output", "o", cmdenv.OutputText, "Output format: text or json")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(createcmder.NewCreateCmd())
	cmd.AddCommand(getcmder.NewGetCmd())
	cmd.AddCommand(listcmder.NewListCmd())
	cmd.AddCommand(updatecmder.NewUpdateCmd())
	cmd.AddCommand(deletecmder.NewDeleteCmd())
	cmd.AddCommand(validatecmder.NewValidateCmd())
	cmd.AddCommand(impactcmder.NewImpactCmd())
	cmd.AddCommand(propagatecmder.NewPropagateCmd())
	cmd.AddCommand(backupcmder.NewBackupCmd())
	cmd.AddCommand(restorecmder.NewRestoreCmd())
	cmd.AddCommand(graphcmder.NewGraphCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

// Execute runs the command tree and renders a failure in the requested
// output format.
func Execute(cmd *cobra.Command, stdout, stderr io.Writer) error {
	err := cmd.Execute()
	if err != nil {
		output, _ := cmd.PersistentFlags().GetString("output")
		cmdenv.PrintError(stdout, stderr, output, err)
	}
	return err
}
