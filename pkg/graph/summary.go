package graph

import "github.com/papercomputeco/specgraph/pkg/spec"

// Summary describes the shape of a graph.
type Summary struct {
	Nodes           int                 `json:"nodes" yaml:"nodes"`
	Features        int                 `json:"features" yaml:"features"`
	Conditions      int                 `json:"conditions" yaml:"conditions"`
	Roots           int                 `json:"roots" yaml:"roots"`
	TreeEdges       int                 `json:"treeEdges" yaml:"treeEdges"`
	DependencyEdges int                 `json:"dependencyEdges" yaml:"dependencyEdges"`
	Acyclic         bool                `json:"acyclic" yaml:"acyclic"`
	CycleIDs        []string            `json:"cycleIds,omitempty" yaml:"cycleIds,omitempty"`
	StatusCounts    map[spec.Status]int `json:"statusCounts" yaml:"statusCounts"`
}

// Summary counts nodes and edges and reports the cycle status.
func (g *Graph) Summary() Summary {
	s := Summary{
		Nodes:        g.Size(),
		Roots:        len(g.Roots()),
		StatusCounts: make(map[spec.Status]int),
	}

	for _, id := range g.ids {
		node := g.Nodes[id]

		switch node.NodeType {
		case spec.NodeTypeFeature:
			s.Features++
		case spec.NodeTypeCondition:
			s.Conditions++
		}

		if node.Parent != "" {
			s.TreeEdges++
		}
		s.DependencyEdges += len(distinct(node.Dependencies))
		s.StatusCounts[node.Status]++
	}

	s.CycleIDs = g.CycleIDs()
	s.Acyclic = len(s.CycleIDs) == 0
	return s
}
