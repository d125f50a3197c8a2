// Package watchcmder provides the watch command for re-validating the spec
// graph as records change.
package watchcmder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
	"github.com/papercomputeco/specgraph/pkg/logger"
	"github.com/papercomputeco/specgraph/pkg/watch"
)

const watchLongDesc string = `Watch the specs directory and re-validate on every change.

Validation runs once at start and again whenever record files settle after a
write. With --export the graph snapshot is rewritten after every run so other
tools can follow along. Stop with Ctrl-C.

With --log-file every log record is also written there as JSON.

Examples:
  specgraph watch
  specgraph watch --export --strict
  specgraph watch --log-file watch.log`

const watchShortDesc string = "Re-validate on every record change"

// bareExport is the value of --export given without a path.
const bareExport = " "

type watchCommander struct {
	export  string
	strict  bool
	logFile string
}

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagExport, &cmder.export)
	cmd.Flags().Lookup(config.FlagExport).NoOptDefVal = bareExport
	config.AddBoolFlag(cmd, config.Flags, config.FlagStrict, &cmder.strict)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")

	return cmd
}

func (c *watchCommander) run(cmd *cobra.Command) error {
	debug, _ := cmd.Flags().GetBool("debug")

	log := logger.New(
		logger.WithDebug(debug),
		logger.WithPretty(cliui.IsTerminal(os.Stderr)),
	)

	if c.logFile != "" {
		f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()

		log = logger.Multi(log, logger.New(
			logger.WithDebug(debug),
			logger.WithJSON(true),
			logger.WithWriter(f),
		))
	}

	env, err := cmdenv.Load(cmd, cmdenv.Options{
		Flags:   []string{config.FlagStrict},
		Surface: "watch",
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer env.Close()

	var exportPath string
	if cmd.Flags().Changed(config.FlagExport) {
		p := c.export
		if p == bareExport {
			p = ""
		}
		exportPath = env.ExportPath(p)
	}

	w, err := watch.New(watch.Config{
		Service:    env.Service,
		Dir:        env.Store.SpecsPath(),
		ExportPath: exportPath,
		Strict:     env.Viper.GetBool("validate.strict"),
		OnReport:   reporter(env.Out, env.JSON(), log),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}

// jsonReport is one line of --output json.
type jsonReport struct {
	Time     string   `json:"time"`
	Changed  []string `json:"changed,omitempty"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Result   any      `json:"result"`
	Exported bool     `json:"exported"`
	Error    string   `json:"error,omitempty"`
}

func reporter(out io.Writer, asJSON bool, log *slog.Logger) func(watch.Report) {
	return func(r watch.Report) {
		if r.Err != nil {
			log.Error("watch run failed", "error", r.Err)
		}

		if asJSON {
			jr := jsonReport{
				Time:     r.Time.Format(time.RFC3339),
				Changed:  r.Changed,
				Errors:   len(r.Result.Errors),
				Warnings: len(r.Result.Warnings),
				Result:   r.Result,
				Exported: r.Summary != nil,
			}
			if r.Err != nil {
				jr.Error = r.Err.Error()
			}
			if err := cmdenv.WriteJSON(out, jr); err != nil {
				log.Error("writing report", "error", err)
			}
			return
		}

		mark := cliui.SuccessMark
		switch {
		case r.Err != nil || len(r.Result.Errors) > 0:
			mark = cliui.FailMark
		case len(r.Result.Warnings) > 0:
			mark = cliui.WarnMark
		}

		fmt.Fprintf(out, "  %s %s  %d errors, %d warnings\n",
			mark,
			cliui.DimStyle.Render(r.Time.Local().Format("15:04:05")),
			len(r.Result.Errors),
			len(r.Result.Warnings),
		)
		for _, d := range r.Result.Errors {
			fmt.Fprintf(out, "      %s\n", d)
		}

		log.Debug("watch run complete",
			"changed", len(r.Changed),
			"errors", len(r.Result.Errors),
			"warnings", len(r.Result.Warnings),
		)
	}
}

