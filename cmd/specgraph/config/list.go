package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/config"
)

const listLongDesc string = `List all configuration values.

Displays all configuration keys and their current values from the
config.toml file stored in the .specgraph/ directory.

Examples:
  specgraph config list
  specgraph config list -o json`

const listShortDesc string = "List all configuration values"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, _ := cmd.Flags().GetString("root")
			output, err := cmdenv.OutputFormat(cmd)
			if err != nil {
				return err
			}
			return runList(cmd.OutOrStdout(), root, output)
		},
	}

	return cmd
}

func runList(w io.Writer, root, output string) error {
	cfger, err := config.NewConfiger(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	keys := config.ValidConfigKeys()

	values := make([]Value, 0, len(keys))
	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}
		values = append(values, Value{Key: key, Value: value})
	}

	if output == cmdenv.OutputJSON {
		return cmdenv.WriteJSON(w, values)
	}

	fmt.Fprintf(w, "Using config file: %s\n\n", cfger.GetTarget())

	maxLen := 0
	for _, k := range keys {
		maxLen = max(maxLen, len(k))
	}

	for _, v := range values {
		if v.Value == "" {
			fmt.Fprintf(w, "%-*s = <not set>\n", maxLen, v.Key)
		} else {
			fmt.Fprintf(w, "%-*s = %q\n", maxLen, v.Key, v.Value)
		}
	}

	return nil
}
