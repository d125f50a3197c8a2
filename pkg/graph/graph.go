// Package graph builds the derived view of the spec records: the node
// index, the containment tree and the reverse dependency DAG.
//
// A Graph is a value rebuilt from the store whenever it is needed. It is
// never persisted as an input; Export writes a snapshot for external
// renderers only.
package graph

import (
	"sort"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Graph indexes a set of spec nodes. Callers must treat it as read-only.
type Graph struct {
	// Nodes maps node id to node.
	Nodes map[string]*spec.Node

	// Tree maps a parent id to its child ids, ordered by id. Parents that
	// are not themselves stored still appear as keys.
	Tree map[string][]string

	// ReverseDag maps a dependency target to the sorted ids of the nodes
	// that depend on it. Dangling targets still appear as keys.
	ReverseDag map[string][]string

	// ids holds every node id in sorted order.
	ids []string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Nodes:      make(map[string]*spec.Node),
		Tree:       make(map[string][]string),
		ReverseDag: make(map[string][]string),
	}
}

// Build indexes nodes in one pass and then verifies that the dependency
// edges are acyclic.
//
// When the dependency edges contain a cycle, Build returns the fully built
// graph together with a spec.CyclicDependencyError so that reporting callers
// can still describe it. When ids are duplicated, the first occurrence wins;
// reporting duplicates is the validator's concern.
func Build(nodes []*spec.Node) (*Graph, error) {
	g := New()

	for _, node := range nodes {
		if node == nil {
			continue
		}
		if _, ok := g.Nodes[node.ID]; ok {
			continue
		}
		g.Nodes[node.ID] = node
		g.ids = append(g.ids, node.ID)
	}
	sort.Strings(g.ids)

	for _, id := range g.ids {
		node := g.Nodes[id]

		if node.Parent != "" {
			g.Tree[node.Parent] = append(g.Tree[node.Parent], id)
		}

		for _, dep := range distinct(node.Dependencies) {
			g.ReverseDag[dep] = append(g.ReverseDag[dep], id)
		}
	}

	if cycle := g.CycleIDs(); len(cycle) > 0 {
		return g, spec.CyclicDependencyError{IDs: cycle}
	}

	return g, nil
}

// Get returns the node with the given id, or nil if not found.
func (g *Graph) Get(id string) *spec.Node {
	return g.Nodes[id]
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// Size returns the number of nodes.
func (g *Graph) Size() int {
	return len(g.Nodes)
}

// IDs returns every node id in sorted order.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Children returns the tree children of id.
func (g *Graph) Children(id string) []string {
	return g.Tree[id]
}

// Dependents returns the ids of the nodes that depend on id.
func (g *Graph) Dependents(id string) []string {
	return g.ReverseDag[id]
}

// Roots returns the ids of nodes without a stored parent.
func (g *Graph) Roots() []string {
	roots := []string{}
	for _, id := range g.ids {
		parent := g.Nodes[id].Parent
		if parent == "" || !g.Has(parent) {
			roots = append(roots, id)
		}
	}
	return roots
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// the first missing parent or at a parent loop.
func (g *Graph) Ancestors(id string) []string {
	node := g.Get(id)
	if node == nil {
		return nil
	}

	ancestors := []string{}
	seen := map[string]bool{id: true}
	for current := node.Parent; current != "" && !seen[current]; {
		parent := g.Get(current)
		if parent == nil {
			break
		}
		ancestors = append(ancestors, current)
		seen[current] = true
		current = parent.Parent
	}

	return ancestors
}

// distinct returns s without repeated values, keeping first occurrences.
func distinct(s []string) []string {
	if len(s) < 2 {
		return s
	}

	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
