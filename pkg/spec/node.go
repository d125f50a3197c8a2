// Package spec defines the feature specification model shared by every
// specgraph component: nodes, conditions, evidence, statuses, the identifier
// grammar and the typed error taxonomy.
package spec

import (
	"slices"
	"time"
)

// CurrentSchemaVersion is stamped onto newly created records.
const CurrentSchemaVersion = 1

// Node is a single feature or condition record. A node sits in two
// structures at once: the containment tree (via Parent) and the dependency
// DAG (via Dependencies).
type Node struct {
	// ID is the globally unique identifier, e.g. "F-001" or "F-001-02".
	ID string `json:"id" validate:"required,notblank"`

	// NodeType is fixed at creation.
	NodeType NodeType `json:"nodeType" validate:"required,oneof=feature condition"`

	Title       string `json:"title" validate:"required,notblank"`
	Description string `json:"description" validate:"required,notblank"`

	Status Status `json:"status" validate:"required,oneof=draft active needs-review verified deprecated"`

	// Parent is the id of the containing node. Empty for roots.
	Parent string `json:"parent,omitempty"`

	// Dependencies are the ids this node depends on, in declaration order.
	Dependencies []string `json:"dependencies,omitempty"`

	Conditions []Condition `json:"conditions,omitempty"`
	Evidence   []Evidence  `json:"evidence,omitempty"`
	CodeRefs   []string    `json:"codeRefs,omitempty"`
	Tags       []string    `json:"tags,omitempty"`

	// CreatedAt and UpdatedAt are owned by the record store.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	SchemaVersion int `json:"schemaVersion,omitempty"`
}

// Condition is an acceptance condition embedded in its owning node.
type Condition struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Status      Status     `json:"status,omitempty"`
	CodeRefs    []string   `json:"codeRefs,omitempty"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

// Clone returns a deep copy of the node so callers can mutate it without
// affecting a graph built from the original.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	c := *n
	c.Dependencies = slices.Clone(n.Dependencies)
	c.CodeRefs = slices.Clone(n.CodeRefs)
	c.Tags = slices.Clone(n.Tags)
	c.Evidence = cloneEvidence(n.Evidence)

	if n.Conditions != nil {
		c.Conditions = make([]Condition, len(n.Conditions))
		for i, cond := range n.Conditions {
			cond.CodeRefs = slices.Clone(cond.CodeRefs)
			cond.Evidence = cloneEvidence(cond.Evidence)
			c.Conditions[i] = cond
		}
	}

	return &c
}

// HasDependency reports whether id is listed in the node's dependencies.
func (n *Node) HasDependency(id string) bool {
	return slices.Contains(n.Dependencies, id)
}

// Normalize removes duplicate dependencies and tags while keeping the first
// occurrence order. Records are normalized before they are written.
func (n *Node) Normalize() {
	n.Dependencies = dedupe(n.Dependencies)
	n.Tags = dedupe(n.Tags)
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return in
	}

	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
