// Package mcp provides an MCP (Model Context Protocol) server exposing the
// spec graph to agents.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/specgraph/pkg/buildinfo"
	"github.com/papercomputeco/specgraph/pkg/service"
)

type Config struct {
	// Service answers every tool call.
	Service *service.Service

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the spec graph tools.
func NewServer(c Config) (*Server, error) {
	if c.Service == nil {
		return nil, errors.New("service is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "specgraph",
			Version: buildinfo.Current().Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        getNodeToolName,
		Description: getNodeDescription,
	}, s.handleGetNode)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        listNodesToolName,
		Description: listNodesDescription,
	}, s.handleListNodes)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        validateToolName,
		Description: validateDescription,
	}, s.handleValidate)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        impactToolName,
		Description: impactDescription,
	}, s.handleImpact)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        propagateToolName,
		Description: propagateDescription,
	}, s.handlePropagate)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RunStdio serves MCP over stdin/stdout until ctx is done or the client
// disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// toolError reports a failed call to the client as a tool result rather
// than a protocol error.
func toolError(msg string, err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%s: %v", msg, err)},
		},
	}
}

// jsonResult serializes out into a TextContent block alongside the
// structured output.
func (s *Server) jsonResult(out any) *mcp.CallToolResult {
	data, err := json.Marshal(out)
	if err != nil {
		s.config.Logger.Error("failed to marshal tool output", "error", err)
		return toolError("Failed to serialize results", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}
}
