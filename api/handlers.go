package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/specgraph/pkg/service"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

// NodeList is the response of GET /nodes.
type NodeList struct {
	Count int          `json:"count"`
	Nodes []*spec.Node `json:"nodes"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleGraph returns the graph summary.
func (s *Server) handleGraph(c *fiber.Ctx) error {
	sum, err := s.svc.Summary()
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(sum)
}

// handleGraphExport returns the full graph snapshot as JSON, or YAML when
// ?format=yaml.
func (s *Server) handleGraphExport(c *fiber.Ctx) error {
	format := c.Query("format", "json")
	if format != "json" && format != "yaml" {
		return s.sendError(c, spec.InvalidArgumentError{
			Field:   "format",
			Message: "unsupported export format " + strconv.Quote(format) + " (valid: json, yaml)",
		})
	}

	snap, err := s.svc.Snapshot()
	if err != nil {
		return s.sendError(c, err)
	}

	data, err := snap.Encode(format)
	if err != nil {
		return s.sendError(c, err)
	}

	if format == "yaml" {
		c.Set(fiber.HeaderContentType, "application/yaml")
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return c.Send(data)
}

// handleListNodes returns the nodes filtered by ?match, ?status and ?tag.
func (s *Server) handleListNodes(c *fiber.Ctx) error {
	nodes, err := s.svc.List(service.ListOptions{
		Match:  c.Query("match"),
		Status: spec.Status(c.Query("status")),
		Tag:    c.Query("tag"),
	})
	if err != nil {
		return s.sendError(c, err)
	}

	return c.JSON(NodeList{Count: len(nodes), Nodes: nodes})
}

// handleGetNode returns a single node by id.
func (s *Server) handleGetNode(c *fiber.Ctx) error {
	node, err := s.svc.Get(c.Params("id"))
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(node)
}

// handleImpact returns the impact report for a node. ?maxDepth bounds the
// traversal.
func (s *Server) handleImpact(c *fiber.Ctx) error {
	depth := 0
	if raw := c.Query("maxDepth"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return s.sendError(c, spec.InvalidArgumentError{
				Field:   "maxDepth",
				Message: "maxDepth must be an integer",
			})
		}
		depth = n
	}

	report, err := s.svc.Impact(c.Params("id"), depth)
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(report)
}

// handleValidate validates the store. ?ids takes a comma separated list of
// ids or globs and ?strict=true enables strict mode.
func (s *Server) handleValidate(c *fiber.Ctx) error {
	var ids []string
	for _, id := range strings.Split(c.Query("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	res, err := s.svc.Validate(ids, c.QueryBool("strict"))
	if err != nil {
		return s.sendError(c, err)
	}
	return c.JSON(res)
}
