// Package graphcmder provides the graph command for summarizing and
// exporting the spec graph.
package graphcmder

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

const graphLongDesc string = `Summarize the spec graph.

Prints node and edge counts, the status breakdown and any dependency cycle.
With --export the full graph snapshot is also written to the given path or
to export.path from config.toml. A .yaml or .yml path writes YAML, anything
else JSON.

Examples:
  specgraph graph
  specgraph graph --export
  specgraph graph --export=out/graph.json -o json`

const graphShortDesc string = "Summarize and export the spec graph"

// Result is the JSON output of graph.
type Result struct {
	Summary  graph.Summary `json:"summary"`
	Exported string        `json:"exported,omitempty"`
}

type graphCommander struct {
	export string
}

func NewGraphCmd() *cobra.Command {
	cmder := &graphCommander{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: graphShortDesc,
		Long:  graphLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagExport, &cmder.export)
	cmd.Flags().Lookup(config.FlagExport).NoOptDefVal = bareExport

	return cmd
}

func (c *graphCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	var res Result
	if cmd.Flags().Changed(config.FlagExport) {
		res.Exported = env.ExportPath(trimBlank(c.export))
		res.Summary, err = env.Service.Export(res.Exported)
	} else {
		res.Summary, err = env.Service.Summary()
	}
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(res)
	}

	printSummary(env.Out, res.Summary)
	if res.Exported != "" {
		fmt.Fprintf(env.Out, "\n  %s Exported to %s\n", cliui.SuccessMark, res.Exported)
	}
	return nil
}

func printSummary(w io.Writer, s graph.Summary) {
	row := func(key string, value any) {
		fmt.Fprintf(w, "  %s %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("%-18s", key)),
			cliui.ValueStyle.Render(fmt.Sprint(value)),
		)
	}

	row("nodes", s.Nodes)
	row("features", s.Features)
	row("conditions", s.Conditions)
	row("roots", s.Roots)
	row("tree edges", s.TreeEdges)
	row("dependency edges", s.DependencyEdges)

	fmt.Fprintln(w)
	for _, status := range spec.Statuses {
		if n := s.StatusCounts[status]; n > 0 {
			fmt.Fprintf(w, "  %s %d\n", cliui.StatusBadge(status), n)
		}
	}

	fmt.Fprintln(w)
	if s.Acyclic {
		fmt.Fprintf(w, "  %s No dependency cycles\n", cliui.SuccessMark)
		return
	}

	ids := slices.Clone(s.CycleIDs)
	slices.Sort(ids)
	fmt.Fprintf(w, "  %s Dependency cycle through %d nodes\n", cliui.FailMark, len(ids))
	for _, id := range ids {
		fmt.Fprintf(w, "    %s\n", cliui.IDStyle.Render(id))
	}
}

// bareExport is the value of --export given without a path.
const bareExport = " "

// trimBlank maps a bare --export back to "use the configured path".
func trimBlank(s string) string {
	if s == bareExport {
		return ""
	}
	return s
}
