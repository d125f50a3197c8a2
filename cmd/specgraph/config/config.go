// Package configcmder provides the config command for managing persistent
// specgraph configuration stored in the .specgraph/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
)

const configLongDesc string = `Manage persistent specgraph configuration.

Configuration is stored as config.toml in the .specgraph/ directory and
provides default values for command flags. CLI flags and SPECGRAPH_
environment variables take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.root,
  validate.strict, validate.min_conditions,
  impact.max_depth, export.path, api.listen,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  specgraph config set <key> <value>    Set a configuration value
  specgraph config get <key>            Get a configuration value
  specgraph config list                 List all configuration values

Examples:
  specgraph config set validate.strict true
  specgraph config set events.provider kafka
  specgraph config get impact.max_depth
  specgraph config list`

const configShortDesc string = "Manage persistent specgraph configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(w io.Writer, target string) {
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
		return
	}
	fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
}
