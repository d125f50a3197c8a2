// Package servecmder provides the serve command for running the HTTP API and
// MCP servers.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/specgraph/api"
	"github.com/papercomputeco/specgraph/api/mcp"
	"github.com/papercomputeco/specgraph/cmd/specgraph/cmdenv"
	"github.com/papercomputeco/specgraph/pkg/config"
	"github.com/papercomputeco/specgraph/pkg/logger"
)

const serveLongDesc string = `Serve the spec graph over HTTP and MCP.

The HTTP API exposes read-only graph, node, impact and validation endpoints
and mounts the MCP streamable HTTP endpoint at /mcp.

With --stdio the MCP server speaks over stdin and stdout instead, for agents
that launch specgraph as a subprocess. Logs stay on stderr.

Writes made through MCP publish node events when --events-provider kafka is
set.

Examples:
  specgraph serve
  specgraph serve --listen :9000
  specgraph serve --stdio
  specgraph serve --events-provider kafka --events-brokers localhost:9092`

const serveShortDesc string = "Run the HTTP API and MCP servers"

type serveCommander struct {
	listen         string
	stdio          bool
	eventsProvider string
	eventsBrokers  string
	eventsTopic    string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsProvider, &cmder.eventsProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsTopic, &cmder.eventsTopic)
	cmd.Flags().BoolVar(&cmder.stdio, "stdio", false, "Serve MCP over stdin/stdout")

	return cmd
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	opts := cmdenv.Options{
		Flags: []string{
			config.FlagListen,
			config.FlagEventsProvider,
			config.FlagEventsBrokers,
			config.FlagEventsTopic,
		},
		Surface: "api",
	}
	if c.stdio {
		debug, _ := cmd.Flags().GetBool("debug")
		opts.Surface = "mcp"
		opts.Logger = logger.New(logger.WithDebug(debug), logger.WithJSON(true))
	}

	env, err := cmdenv.Load(cmd, opts)
	if err != nil {
		return err
	}
	defer env.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{Service: env.Service, Logger: env.Logger})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if c.stdio {
		env.Logger.Info("serving MCP over stdio", "root", env.Root)
		err := mcpServer.RunStdio(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	listen := env.Viper.GetString("api.listen")
	apiServer, err := api.NewServer(api.Config{
		ListenAddr: listen,
		MCPHandler: mcpServer.Handler(),
	}, env.Service, env.Logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		env.Logger.Info("received signal, shutting down")
		return apiServer.Shutdown()
	}
}
