package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
)

const setLongDesc string = `Set a configuration value.

Sets the given key to the provided value in the config.toml file
stored in the .specgraph/ directory. Numbers and booleans are checked
before the file is written.

Examples:
  specgraph config set validate.strict true
  specgraph config set impact.max_depth 4
  specgraph config set events.brokers localhost:9092,localhost:9093`

const setShortDesc string = "Set a configuration value"

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: setShortDesc,
		Long:  setLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _ := cmd.Flags().GetString("root")
			output, err := cmdenv.OutputFormat(cmd)
			if err != nil {
				return err
			}
			return runSet(cmd.OutOrStdout(), args[0], args[1], root, output)
		},
		ValidArgsFunction: completeKeys,
	}

	return cmd
}

func runSet(w io.Writer, key, value, root, output string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	cfger, err := config.NewConfiger(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfger.SetConfigValue(key, value); err != nil {
		return err
	}

	if output == cmdenv.OutputJSON {
		return cmdenv.WriteJSON(w, Value{Key: key, Value: value})
	}

	printTarget(w, cfger.GetTarget())
	fmt.Fprintf(w, "  %s Set %s = %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(key),
		cliui.ValueStyle.Render(value),
	)
	return nil
}
