// Package inmemory implements storage.Driver over a map. It is used by tests
// and by callers that want graph operations without touching disk.
package inmemory

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	// mu is a read write sync mutex for locking the mapping of nodes
	mu sync.RWMutex

	// nodes maps node id to a private copy of the node
	nodes map[string]*spec.Node

	// rev is bumped on every write and backs Fingerprint
	rev uint64

	now func() time.Time
}

// NewDriver creates a new in-memory driver.
func NewDriver() *Driver {
	return &Driver{
		nodes: make(map[string]*spec.Node),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a copy of node.
func (d *Driver) Create(node *spec.Node) error {
	if node == nil {
		return spec.InvalidArgumentError{Message: "node must not be nil"}
	}
	if err := spec.CheckRecordID(node.ID); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.nodes[node.ID]; ok {
		return spec.DuplicateIDError{ID: node.ID}
	}

	now := d.now()
	node.CreatedAt = now
	node.UpdatedAt = now
	node.Normalize()

	d.nodes[node.ID] = node.Clone()
	d.rev++
	return nil
}

// Get returns a copy of the node stored under id.
func (d *Driver) Get(id string) (*spec.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	node, ok := d.nodes[id]
	if !ok {
		return nil, spec.NotFoundError{ID: id}
	}
	return node.Clone(), nil
}

// List returns copies of every node ordered by id.
func (d *Driver) List() ([]*spec.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	nodes := make([]*spec.Node, 0, len(d.nodes))
	for _, node := range d.nodes {
		nodes = append(nodes, node.Clone())
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, nil
}

// Update replaces an existing node.
func (d *Driver) Update(node *spec.Node) error {
	if node == nil {
		return spec.InvalidArgumentError{Message: "node must not be nil"}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.nodes[node.ID]
	if !ok {
		return spec.NotFoundError{ID: node.ID}
	}
	if existing.NodeType != "" && node.NodeType != existing.NodeType {
		return spec.InvalidArgumentError{ID: node.ID, Field: "nodeType", Message: "node type is immutable"}
	}

	node.CreatedAt = existing.CreatedAt
	node.UpdatedAt = d.now()
	node.Normalize()

	d.nodes[node.ID] = node.Clone()
	d.rev++
	return nil
}

// Delete removes a node.
func (d *Driver) Delete(id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.nodes[id]; !ok {
		return false, nil
	}

	delete(d.nodes, id)
	d.rev++
	return true, nil
}

// Exists reports whether id is stored.
func (d *Driver) Exists(id string) (bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.nodes[id]
	return ok, nil
}

// NextID returns the first unused F-NNN id.
func (d *Driver) NextID() (string, error) {
	return storage.NextID(d.Exists)
}

// Fingerprint returns the write revision of the driver.
func (d *Driver) Fingerprint() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return "rev-" + strconv.FormatUint(d.rev, 10), nil
}

// Put stores node as-is, bypassing timestamp handling and duplicate checks.
// Tests use it to seed fixtures with fixed timestamps.
func (d *Driver) Put(node *spec.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nodes[node.ID] = node.Clone()
	d.rev++
}
