package service

import (
	"errors"
	"fmt"

	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Graph builds the graph for the current store content. A dependency cycle
// is returned as a spec.CyclicDependencyError alongside the graph.
func (s *Service) Graph() (*graph.Graph, error) {
	if s.cache != nil {
		return s.cache.Graph()
	}

	nodes, err := s.driver.List()
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}
	return graph.Build(nodes)
}

// loadGraph is Graph for callers that can work on a cyclic graph.
func (s *Service) loadGraph() (*graph.Graph, error) {
	g, err := s.Graph()
	if err != nil && !errors.As(err, new(spec.CyclicDependencyError)) {
		return nil, err
	}
	return g, nil
}

// Summary describes the current graph. Cycles are reported in the summary
// rather than as an error.
func (s *Service) Summary() (graph.Summary, error) {
	g, err := s.loadGraph()
	if err != nil {
		return graph.Summary{}, err
	}
	return g.Summary(), nil
}

// Export writes a snapshot of the current graph to path and returns the
// summary it carries.
func (s *Service) Export(path string) (graph.Summary, error) {
	g, err := s.loadGraph()
	if err != nil {
		return graph.Summary{}, err
	}

	if err := graph.Export(g, path, s.now()); err != nil {
		return graph.Summary{}, err
	}

	s.logger.Debug("exported graph", "path", path, "nodes", g.Size())
	return g.Summary(), nil
}

// Snapshot returns the export form of the current graph without writing it.
func (s *Service) Snapshot() (*graph.Snapshot, error) {
	g, err := s.loadGraph()
	if err != nil {
		return nil, err
	}
	return g.Snapshot(s.now()), nil
}
