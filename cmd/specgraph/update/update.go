// Package updatecmder provides the update command for patching a spec node.
package updatecmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

const updateLongDesc string = `Update a spec node.

Only the fields whose flags are given change. List flags replace the whole
list; pass an empty value (--tag "") to clear one. The node type is fixed at
creation.

With --file ("-" reads stdin) the fields present in the JSON record replace
the stored ones; absent fields keep their values. Flags override the file.
The id always comes from the argument; a record naming another id is
rejected.

Setting --status here does not cascade. Use "specgraph propagate" to update
dependents and ancestors as well.

Examples:
  specgraph update F-001 --title "Sign in"
  specgraph update F-002 --depends-on F-001,F-003
  specgraph update F-002 --parent ""
  specgraph update F-001 --file feature.json --status active`

const updateShortDesc string = "Update a spec node"

type updateCommander struct {
	file        string
	title       string
	description string
	status      string
	parent      string
	deps        []string
	tags        []string
	codeRefs    []string
}

func NewUpdateCmd() *cobra.Command {
	cmder := &updateCommander{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: updateShortDesc,
		Long:  updateLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Read fields from a JSON file (- for stdin)")
	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Title")
	cmd.Flags().StringVar(&cmder.description, "description", "", "Description")
	cmd.Flags().StringVarP(&cmder.status, "status", "s", "", "Status")
	cmd.Flags().StringVarP(&cmder.parent, "parent", "p", "", "Parent node id")
	cmd.Flags().StringSliceVar(&cmder.deps, "depends-on", nil, "Dependency ids (replaces the list)")
	cmd.Flags().StringSliceVar(&cmder.tags, "tag", nil, "Tags (replaces the list)")
	cmd.Flags().StringSliceVar(&cmder.codeRefs, "code-ref", nil, "Code references (replaces the list)")

	return cmd
}

func (c *updateCommander) run(cmd *cobra.Command, id string) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	node, err := env.Service.Get(id)
	if err != nil {
		return err
	}

	if c.file != "" {
		if err := overlay(cmd.InOrStdin(), c.file, node); err != nil {
			return err
		}
	}

	if err := c.apply(cmd, node); err != nil {
		return err
	}

	updated, err := env.Service.Update(cmd.Context(), node)
	if err != nil {
		return err
	}

	if env.JSON() {
		return env.PrintJSON(updated)
	}

	fmt.Fprintf(env.Out, "  %s Updated %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(updated.ID),
		cliui.StatusBadge(updated.Status),
	)
	return nil
}

func (c *updateCommander) apply(cmd *cobra.Command, node *spec.Node) error {
	flags := cmd.Flags()

	if flags.Changed("title") {
		node.Title = c.title
	}
	if flags.Changed("description") {
		node.Description = c.description
	}
	if flags.Changed("status") {
		s, err := spec.ParseStatus(c.status)
		if err != nil {
			return err
		}
		node.Status = s
	}
	if flags.Changed("parent") {
		node.Parent = c.parent
	}
	if flags.Changed("depends-on") {
		node.Dependencies = nonEmpty(c.deps)
	}
	if flags.Changed("tag") {
		node.Tags = nonEmpty(c.tags)
	}
	if flags.Changed("code-ref") {
		node.CodeRefs = nonEmpty(c.codeRefs)
	}
	return nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// overlay decodes the JSON record at path onto node. Fields missing from the
// record are left untouched.
func overlay(stdin io.Reader, path string, node *spec.Node) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading node: %w", err)
	}

	id := node.ID
	if err := json.Unmarshal(data, node); err != nil {
		return spec.InvalidArgumentError{Field: "file", Message: "malformed node JSON: " + err.Error()}
	}
	if node.ID != id {
		return spec.InvalidArgumentError{Field: "id", Message: fmt.Sprintf("file names %q, expected %q", node.ID, id)}
	}
	return nil
}
