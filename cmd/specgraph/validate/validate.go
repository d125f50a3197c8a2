// Package validatecmder provides the validate command for checking the spec
// graph.
package validatecmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

const validateLongDesc string = `Validate the spec graph.

Checks every stored node (required fields, allowed values, id format,
conditions, evidence types) and the graph as a whole (duplicate ids,
unresolved parents and dependencies, dependency cycles). Arguments restrict
the report to the given ids or id globs; the whole graph is still checked.

Errors make the command fail in strict mode. Without --strict the report is
printed and the command succeeds.

Examples:
  specgraph validate
  specgraph validate F-001 "F-002*"
  specgraph validate --strict -o json`

const validateShortDesc string = "Validate the spec graph"

type validateCommander struct {
	strict        bool
	minConditions uint
}

func NewValidateCmd() *cobra.Command {
	cmder := &validateCommander{}

	cmd := &cobra.Command{
		Use:   "validate [ids|globs...]",
		Short: validateShortDesc,
		Long:  validateLongDesc,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args)
		},
	}

	config.AddBoolFlag(cmd, config.Flags, config.FlagStrict, &cmder.strict)
	config.AddUintFlag(cmd, config.Flags, config.FlagMinConditions, &cmder.minConditions)

	return cmd
}

func (c *validateCommander) run(cmd *cobra.Command, ids []string) error {
	env, err := cmdenv.Load(cmd, cmdenv.Options{
		Flags:   []string{config.FlagStrict, config.FlagMinConditions},
		Surface: "cli",
	})
	if err != nil {
		return err
	}
	defer env.Close()

	res, err := env.Service.Validate(ids, false)
	if err != nil {
		return err
	}

	if env.JSON() {
		if err := env.PrintJSON(res); err != nil {
			return err
		}
	} else {
		printResult(env.Out, res)
	}

	if env.Viper.GetBool("validate.strict") && !res.OK() {
		return cmdenv.SilentError{Err: fmt.Errorf("validation failed with %d errors", len(res.Errors))}
	}
	return nil
}

func printResult(w io.Writer, res validate.Result) {
	for _, d := range res.Errors {
		fmt.Fprintf(w, "  %s %s\n", cliui.FailMark, d)
	}
	for _, d := range res.Warnings {
		fmt.Fprintf(w, "  %s %s\n", cliui.WarnMark, d)
	}

	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		fmt.Fprintf(w, "  %s No problems found\n", cliui.SuccessMark)
		return
	}

	fmt.Fprintf(w, "\n  %s\n", cliui.StepStyle.Render(
		fmt.Sprintf("%d errors, %d warnings", len(res.Errors), len(res.Warnings)),
	))
}
