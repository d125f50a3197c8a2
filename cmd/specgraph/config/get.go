package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
)

const getLongDesc string = `Get a configuration value.

Reads the value for the given key from the config.toml file
stored in the .specgraph/ directory. Unset keys report the default.

Examples:
  specgraph config get validate.min_conditions
  specgraph config get events.topic`

const getShortDesc string = "Get a configuration value"

// Value is the JSON output of get and set.
type Value struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			output, err := cmdenv.OutputFormat(cmd)
			if err != nil {
				return err
			}
			return runGet(cmd.OutOrStdout(), args[0], root, output)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runGet(w io.Writer, key, root, output string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	value, err := cfger.GetConfigValue(key)
	if err != nil {
		return err
	}

	if output == cmdenv.OutputJSON {
		return cmdenv.WriteJSON(w, Value{Key: key, Value: value})
	}

	printTarget(w, cfger.GetTarget())
	if value == "" {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.DimStyle.Render("<not set>"))
	} else {
		fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render(key), cliui.ValueStyle.Render(value))
	}

	return nil
}
