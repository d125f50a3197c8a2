// Package listcmder provides the list command for listing spec nodes.
package listcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

const listLongDesc string = `List spec nodes.

Filters combine: a node is listed when it matches every filter given.
--match takes an id glob ("F-001*", "F-00[1-3]", "F-*-C*").

Examples:
  specgraph list
  specgraph list --match "F-001*"
  specgraph list --status needs-review -o json`

const listShortDesc string = "List spec nodes"

// statusWidth fits the longest status, needs-review.
const statusWidth = 12

// titleWidth caps the title column in text output.
const titleWidth = 64

type listCommander struct {
	match  string
	status string
	tag    string
}

// Result is the JSON output of list.
type Result struct {
	Count int          `json:"count"`
	Nodes []*spec.Node `json:"nodes"`
}

func NewListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.match, "match", "m", "", "Only ids matching this glob")
	cmd.Flags().StringVarP(&cmder.status, "status", "s", "", "Only nodes with this status")
	cmd.Flags().StringVar(&cmder.tag, "tag", "", "Only nodes carrying this tag")

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	nodes, err := env.Service.List(service.ListOptions{
		Match:  c.match,
		Status: spec.Status(c.status),
		Tag:    c.tag,
	})
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(Result{Count: len(nodes), Nodes: nodes})
	}

	if len(nodes) == 0 {
		fmt.Fprintf(env.Out, "  %s\n", cliui.DimStyle.Render("No nodes found."))
		return nil
	}

	width := 0
	for _, n := range nodes {
		width = max(width, len(n.ID))
	}

	for _, n := range nodes {
		fmt.Fprintf(env.Out, "  %s  %s%s  %s\n",
			cliui.IDStyle.Render(fmt.Sprintf("%-*s", width, n.ID)),
			cliui.StatusBadge(n.Status),
			strings.Repeat(" ", max(0, statusWidth-len(n.Status))),
			cliui.Truncate(n.Title, titleWidth),
		)
	}
	return nil
}
