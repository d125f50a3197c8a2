// Package impact computes the structural blast radius of a change to one
// node: its tree descendants and everything that transitively depends on it.
package impact

import (
	"fmt"

	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

// DefaultMaxDepth bounds the walk when no depth is given.
const DefaultMaxDepth = 10

// Relation describes how an impacted node was reached.
type Relation string

const (
	// RelationChild is a direct tree child of the source.
	RelationChild Relation = "child"

	// RelationDependent directly depends on the source.
	RelationDependent Relation = "dependent"

	// RelationTransitive was reached through another impacted node.
	RelationTransitive Relation = "transitive"
)

// ImpactedNode is one entry of a Report.
type ImpactedNode struct {
	ID       string      `json:"id"`
	Relation Relation    `json:"relation"`
	Depth    int         `json:"depth"`
	Title    string      `json:"title,omitempty"`
	Status   spec.Status `json:"status,omitempty"`
}

// Report is the result of Analyze.
type Report struct {
	SourceID      string         `json:"sourceId"`
	MaxDepth      int            `json:"maxDepth"`
	ImpactedNodes []ImpactedNode `json:"impactedNodes"`
}

// IDs returns the impacted ids in discovery order.
func (r *Report) IDs() []string {
	ids := make([]string, len(r.ImpactedNodes))
	for i, n := range r.ImpactedNodes {
		ids[i] = n.ID
	}
	return ids
}

type step struct {
	id    string
	depth int
}

// Analyze walks breadth first from sourceID over tree children and reverse
// dependency edges. Direct children are listed before direct dependents.
// Every node appears at most once, the source never appears, and nodes at
// maxDepth are reported but not expanded. A maxDepth of zero means
// DefaultMaxDepth.
func Analyze(g *graph.Graph, sourceID string, maxDepth int) (*Report, error) {
	if maxDepth < 0 {
		return nil, spec.InvalidArgumentError{
			Field:   "maxDepth",
			Message: fmt.Sprintf("max depth must not be negative, got %d", maxDepth),
		}
	}
	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	if !g.Has(sourceID) {
		return nil, spec.NotFoundError{ID: sourceID}
	}

	report := &Report{
		SourceID:      sourceID,
		MaxDepth:      maxDepth,
		ImpactedNodes: []ImpactedNode{},
	}

	visited := map[string]bool{sourceID: true}
	queue := []step{}

	visit := func(id string, depth int, rel Relation) {
		if visited[id] {
			return
		}
		visited[id] = true

		entry := ImpactedNode{ID: id, Relation: rel, Depth: depth}
		if node := g.Get(id); node != nil {
			entry.Title = node.Title
			entry.Status = node.Status
		}
		report.ImpactedNodes = append(report.ImpactedNodes, entry)
		queue = append(queue, step{id: id, depth: depth})
	}

	for _, child := range g.Children(sourceID) {
		visit(child, 1, RelationChild)
	}
	for _, dependent := range g.Dependents(sourceID) {
		visit(dependent, 1, RelationDependent)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth >= maxDepth {
			continue
		}

		next := current.depth + 1
		for _, child := range g.Children(current.id) {
			visit(child, next, RelationTransitive)
		}
		for _, dependent := range g.Dependents(current.id) {
			visit(dependent, next, RelationTransitive)
		}
	}

	return report, nil
}
