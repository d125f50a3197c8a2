package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/specgraph/pkg/impact"
	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

var (
	getNodeToolName    = "get_node"
	getNodeDescription = "Get a single spec node by id (e.g. F-001), including its conditions, dependencies and evidence."

	listNodesToolName    = "list_nodes"
	listNodesDescription = "List spec nodes, optionally filtered by an id glob, a status or a tag."

	validateToolName    = "validate"
	validateDescription = "Validate the spec graph. Returns errors and warnings, optionally restricted to the given ids or id globs."

	impactToolName    = "impact"
	impactDescription = "Report every node reached by a change to the given node: its descendants and everything that transitively depends on it."

	propagateToolName    = "propagate"
	propagateDescription = "Compute the status changes caused by setting a node's status. Set apply to persist them."
)

// GetNodeInput represents the input arguments for the get_node tool.
type GetNodeInput struct {
	ID string `json:"id" jsonschema:"the node id, e.g. F-001"`
}

// ListNodesInput represents the input arguments for the list_nodes tool.
type ListNodesInput struct {
	Match  string `json:"match,omitempty" jsonschema:"id glob such as F-00*"`
	Status string `json:"status,omitempty" jsonschema:"only nodes with this status"`
	Tag    string `json:"tag,omitempty" jsonschema:"only nodes carrying this tag"`
}

// ListNodesOutput represents the output of the list_nodes tool. Node
// payloads carry free-form evidence, so the tool declares no output schema.
type ListNodesOutput struct {
	Nodes []*spec.Node `json:"nodes"`
	Count int          `json:"count"`
}

// ValidateInput represents the input arguments for the validate tool.
type ValidateInput struct {
	IDs    []string `json:"ids,omitempty" jsonschema:"ids or id globs to report on (default: all)"`
	Strict bool     `json:"strict,omitempty" jsonschema:"treat features with too few conditions as errors"`
}

// ImpactInput represents the input arguments for the impact tool.
type ImpactInput struct {
	ID       string `json:"id" jsonschema:"the node that changes"`
	MaxDepth int    `json:"max_depth,omitempty" jsonschema:"maximum traversal depth (default: configured depth)"`
}

// PropagateInput represents the input arguments for the propagate tool.
type PropagateInput struct {
	ID     string `json:"id" jsonschema:"the node whose status changes"`
	Status string `json:"status" jsonschema:"the new status: draft, active, needs-review, verified or deprecated"`
	Apply  bool   `json:"apply,omitempty" jsonschema:"persist the changes instead of a dry run"`
}

func (s *Server) handleGetNode(_ context.Context, _ *mcp.CallToolRequest, input GetNodeInput) (*mcp.CallToolResult, any, error) {
	s.config.Logger.Debug("MCP get_node request", "id", input.ID)

	node, err := s.config.Service.Get(input.ID)
	if err != nil {
		return toolError("Failed to get node", err), nil, nil
	}
	return s.jsonResult(node), node, nil
}

func (s *Server) handleListNodes(_ context.Context, _ *mcp.CallToolRequest, input ListNodesInput) (*mcp.CallToolResult, any, error) {
	s.config.Logger.Debug("MCP list_nodes request",
		"match", input.Match,
		"status", input.Status,
		"tag", input.Tag,
	)

	nodes, err := s.config.Service.List(service.ListOptions{
		Match:  input.Match,
		Status: spec.Status(input.Status),
		Tag:    input.Tag,
	})
	if err != nil {
		return toolError("Failed to list nodes", err), nil, nil
	}

	out := ListNodesOutput{Nodes: nodes, Count: len(nodes)}
	return s.jsonResult(out), out, nil
}

func (s *Server) handleValidate(_ context.Context, _ *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, validate.Result, error) {
	s.config.Logger.Debug("MCP validate request", "ids", input.IDs, "strict", input.Strict)

	res, err := s.config.Service.Validate(input.IDs, input.Strict)
	if err != nil {
		return toolError("Failed to validate", err), validate.Result{}, nil
	}
	return s.jsonResult(res), res, nil
}

func (s *Server) handleImpact(_ context.Context, _ *mcp.CallToolRequest, input ImpactInput) (*mcp.CallToolResult, impact.Report, error) {
	s.config.Logger.Debug("MCP impact request", "id", input.ID, "maxDepth", input.MaxDepth)

	report, err := s.config.Service.Impact(input.ID, input.MaxDepth)
	if err != nil {
		return toolError("Failed to analyze impact", err), impact.Report{}, nil
	}
	return s.jsonResult(report), *report, nil
}

func (s *Server) handlePropagate(ctx context.Context, _ *mcp.CallToolRequest, input PropagateInput) (*mcp.CallToolResult, service.PropagateResult, error) {
	s.config.Logger.Debug("MCP propagate request",
		"id", input.ID,
		"status", input.Status,
		"apply", input.Apply,
	)

	status, err := spec.ParseStatus(input.Status)
	if err != nil {
		return toolError("Failed to propagate", err), service.PropagateResult{}, nil
	}

	res, err := s.config.Service.Propagate(ctx, input.ID, status, input.Apply)
	if err != nil {
		return toolError("Failed to propagate", err), service.PropagateResult{}, nil
	}
	return s.jsonResult(res), *res, nil
}
