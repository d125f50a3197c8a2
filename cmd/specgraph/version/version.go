// Package versioncmder
package versioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/buildinfo"
)

type VersionCommander struct{}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "displays version",
		Long:  "displays the version of this CLI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	return cmd
}

func (c *VersionCommander) run(cmd *cobra.Command) error {
	output, err := cmdenv.OutputFormat(cmd)
	if err != nil {
		return err
	}

	info := buildinfo.Current()
	if output == cmdenv.OutputJSON {
		return cmdenv.WriteJSON(cmd.OutOrStdout(), info)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\nSha: %s\nBuildtime: %s\n", info.Version, info.Sha, info.Buildtime)
	return nil
}
