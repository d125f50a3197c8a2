package graph

import (
	"fmt"
	"sync"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Source is a record store the cache can rebuild from.
type Source interface {
	List() ([]*spec.Node, error)
	Fingerprint() (string, error)
}

// Cache holds the graph built for the last seen store fingerprint. Every
// call to Graph checks the fingerprint first, so writes made through any
// path invalidate it without coordination.
type Cache struct {
	mu     sync.Mutex
	source Source
	key    string
	graph  *Graph
	err    error
}

// NewCache creates a cache over source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Graph returns the graph for the current store content, rebuilding it when
// the fingerprint changed. The returned error is the Build error for that
// content (for example a spec.CyclicDependencyError) alongside the graph.
func (c *Cache) Graph() (*Graph, error) {
	key, err := c.source.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("fingerprinting store: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.graph != nil && key == c.key {
		return c.graph, c.err
	}

	nodes, err := c.source.List()
	if err != nil {
		return nil, fmt.Errorf("loading nodes: %w", err)
	}

	c.graph, c.err = Build(nodes)
	c.key = key
	return c.graph, c.err
}

// Invalidate drops the cached graph.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.graph = nil
	c.err = nil
	c.key = ""
}
