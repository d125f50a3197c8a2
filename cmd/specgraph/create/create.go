// Package createcmder provides the create command for adding a spec node.
package createcmder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

const createLongDesc string = `Create a spec node.

Fields come from flags, or from a JSON record with --file ("-" reads stdin).
Flags override fields read from the file. Without --id the next free F-NNN
id is assigned. New nodes default to nodeType feature and status draft.

The node is checked after it is stored; findings are printed but do not fail
the command.

Examples:
  specgraph create --title "Login" --description "Users can log in"
  specgraph create --id F-001-01 --parent F-001 --title "OAuth" --description "..."
  specgraph create --file feature.json`

const createShortDesc string = "Create a spec node"

type createCommander struct {
	file        string
	id          string
	nodeType    string
	title       string
	description string
	status      string
	parent      string
	deps        []string
	tags        []string
	codeRefs    []string
}

// Result is the JSON output of create.
type Result struct {
	Node       *spec.Node      `json:"node"`
	Validation validate.Result `json:"validation"`
}

func NewCreateCmd() *cobra.Command {
	cmder := &createCommander{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: createShortDesc,
		Long:  createLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.file, "file", "f", "", "Read the node from a JSON file (- for stdin)")
	cmd.Flags().StringVar(&cmder.id, "id", "", "Node id (default: next free F-NNN)")
	cmd.Flags().StringVar(&cmder.nodeType, "type", "", "Node type: feature or condition (default: feature)")
	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Title")
	cmd.Flags().StringVar(&cmder.description, "description", "", "Description")
	cmd.Flags().StringVarP(&cmder.status, "status", "s", "", "Status (default: draft)")
	cmd.Flags().StringVarP(&cmder.parent, "parent", "p", "", "Parent node id")
	cmd.Flags().StringSliceVar(&cmder.deps, "depends-on", nil, "Dependency ids (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&cmder.tags, "tag", nil, "Tags (repeatable or comma separated)")
	cmd.Flags().StringSliceVar(&cmder.codeRefs, "code-ref", nil, "Code references (repeatable or comma separated)")

	return cmd
}

func (c *createCommander) run(cmd *cobra.Command) error {
	node, err := c.node(cmd)
	if err != nil {
		return err
	}

	env, err := cmdenv.Load(cmd, cmdenv.Options{Surface: "cli"})
	if err != nil {
		return err
	}
	defer env.Close()

	created, err := env.Service.Create(cmd.Context(), node)
	if err != nil {
		return err
	}

	res := env.Service.ValidateNode(created, false)

	if env.JSON() {
		return env.PrintJSON(Result{Node: created, Validation: res})
	}

	fmt.Fprintf(env.Out, "  %s Created %s %s\n",
		cliui.SuccessMark,
		cliui.IDStyle.Render(created.ID),
		created.Title,
	)
	for _, d := range res.Errors {
		fmt.Fprintf(env.Out, "    %s %s\n", cliui.FailMark, d)
	}
	for _, d := range res.Warnings {
		fmt.Fprintf(env.Out, "    %s %s\n", cliui.WarnMark, d)
	}
	return nil
}

// node assembles the node from --file and the field flags.
func (c *createCommander) node(cmd *cobra.Command) (*spec.Node, error) {
	node := &spec.Node{}
	if c.file != "" {
		var err error
		node, err = readNode(cmd.InOrStdin(), c.file)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("id") {
		node.ID = c.id
	}
	if flags.Changed("type") {
		t, err := spec.ParseNodeType(c.nodeType)
		if err != nil {
			return nil, err
		}
		node.NodeType = t
	}
	if flags.Changed("title") {
		node.Title = c.title
	}
	if flags.Changed("description") {
		node.Description = c.description
	}
	if flags.Changed("status") {
		s, err := spec.ParseStatus(c.status)
		if err != nil {
			return nil, err
		}
		node.Status = s
	}
	if flags.Changed("parent") {
		node.Parent = c.parent
	}
	if flags.Changed("depends-on") {
		node.Dependencies = c.deps
	}
	if flags.Changed("tag") {
		node.Tags = c.tags
	}
	if flags.Changed("code-ref") {
		node.CodeRefs = c.codeRefs
	}

	return node, nil
}

func readNode(stdin io.Reader, path string) (*spec.Node, error) {
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
		return nil, fmt.Errorf("reading node: %w", err)
	}

	node := &spec.Node{}
	if err := json.Unmarshal(data, node); err != nil {
		return nil, spec.InvalidArgumentError{Field: "file", Message: "malformed node JSON: " + err.Error()}
	}
	return node, nil
}
