// Package cmdenv resolves the store, configuration, logger and service that
// every specgraph command runs against.
package cmdenv

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/specgraph/pkg/cliui"
	"github.com/papercomputeco/specgraph/pkg/config"
	"github.com/papercomputeco/specgraph/pkg/dotdir"
	"github.com/papercomputeco/specgraph/pkg/eventstream"
	"github.com/papercomputeco/specgraph/pkg/eventstream/kafka"
	"github.com/papercomputeco/specgraph/pkg/eventstream/nop"
	"github.com/papercomputeco/specgraph/pkg/git"
	"github.com/papercomputeco/specgraph/pkg/logger"
	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/storage/filesystem"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Env is the resolved runtime of one command invocation.
type Env struct {
	// ConfigDir holds config.toml. Root defaults to it.
	ConfigDir string
	Root      string

	Output string
	Debug  bool

	Viper   *viper.Viper
	Logger  *slog.Logger
	Store   *filesystem.Store
	Service *service.Service

	Out io.Writer
}

// Options tweak Load for a single command.
type Options struct {
	// Flags are flag registry keys bound into viper before config is read.
	Flags []string

	// Surface is stamped onto published events.
	Surface string

	// Logger replaces the default stderr logger.
	Logger *slog.Logger
}

// Load resolves the environment from the persistent --root, --debug and
// --output flags, config.toml and SPECGRAPH_ variables.
func Load(cmd *cobra.Command, opts Options) (*Env, error) {
	rootFlag, _ := cmd.Flags().GetString("root")
	debug, _ := cmd.Flags().GetBool("debug")

	output, err := OutputFormat(cmd)
	if err != nil {
		return nil, err
	}

	configDir, err := dotdir.NewManager().Resolve(rootFlag)
	if err != nil {
		return nil, err
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, opts.Flags)

	root := configDir
	if rootFlag == "" {
		if r := v.GetString("storage.root"); r != "" {
			root = resolvePath(configDir, r)
		}
	}

	log := opts.Logger
	if log == nil {
		log = logger.New(
			logger.WithDebug(debug),
			logger.WithPretty(cliui.IsTerminal(os.Stderr)),
		)
	}

	store := filesystem.New(root, filesystem.WithLogger(log))

	publisher, err := newPublisher(v, log)
	if err != nil {
		return nil, err
	}

	source := eventstream.EventSource{Root: root, Surface: opts.Surface}
	if v.GetString("events.provider") == eventstream.ProviderKafka {
		source.Project = git.RepoName(filepath.Dir(root))
	}

	svc, err := service.New(service.Config{
		Driver:    store,
		Publisher: publisher,
		Source:    source,
		Validate: validate.Options{
			Strict:        v.GetBool("validate.strict"),
			MinConditions: v.GetInt("validate.min_conditions"),
		},
		MaxDepth: v.GetInt("impact.max_depth"),
		Logger:   log,
	})
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	log.Debug("resolved store", "root", root, "config", configDir)

	return &Env{
		ConfigDir: configDir,
		Root:      root,
		Output:    output,
		Debug:     debug,
		Viper:     v,
		Logger:    log,
		Store:     store,
		Service:   svc,
		Out:       cmd.OutOrStdout(),
	}, nil
}

// Close releases the event publisher.
func (e *Env) Close() error {
	return e.Service.Close()
}

// JSON reports whether --output json was requested.
func (e *Env) JSON() bool {
	return e.Output == OutputJSON
}

// PrintJSON writes v as indented JSON.
func (e *Env) PrintJSON(v any) error {
	return WriteJSON(e.Out, v)
}

// ExportPath resolves the configured export path against the store root.
func (e *Env) ExportPath(p string) string {
	if p == "" {
		p = e.Viper.GetString("export.path")
	}
	return resolvePath(e.Root, p)
}

// OutputFormat returns the validated --output flag value.
func OutputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (valid: text, json)", output)
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPublisher(v *viper.Viper, log *slog.Logger) (eventstream.Publisher, error) {
	switch provider := v.GetString("events.provider"); provider {
	case "", eventstream.ProviderNone:
		return nop.NewPublisher(), nil

	case eventstream.ProviderKafka:
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers: config.Brokers(v.GetString("events.brokers")),
			Topic:   v.GetString("events.topic"),
			Logger:  log,
		})
		if err != nil {
			return nil, fmt.Errorf("creating kafka publisher: %w", err)
		}
		return p, nil

	default:
		return nil, errors.New("unknown events provider: " + provider)
	}
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
