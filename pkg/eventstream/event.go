// Package eventstream defines the node change events specgraph emits after
// persisting a write, and the publisher interface transports implement.
package eventstream

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/specgraph/pkg/spec"
)

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeNodeChanged is emitted after a node record is written or removed.
	EventTypeNodeChanged = "specgraph.node.changed"
)

// Action is the kind of write that produced an event.
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionPropagated Action = "propagated"
)

// NodeChangedEvent is a transport-neutral event payload for a node write.
type NodeChangedEvent struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	EventID       string      `json:"event_id"`
	EmittedAt     time.Time   `json:"emitted_at"`
	Source        EventSource `json:"source"`
	Action        Action      `json:"action"`
	Node          NodeMeta    `json:"node"`

	// Cause is the id whose status change triggered a propagated write.
	Cause string `json:"cause,omitempty"`
}

// EventSource identifies the store and surface a write came through.
type EventSource struct {
	// Project is the repository the store lives in.
	Project string `json:"project,omitempty"`
	Root    string `json:"root,omitempty"`
	Surface string `json:"surface,omitempty"`
}

// NodeMeta captures the node fields consumers key on.
type NodeMeta struct {
	ID        string        `json:"id"`
	NodeType  spec.NodeType `json:"node_type,omitempty"`
	Title     string        `json:"title,omitempty"`
	Parent    string        `json:"parent,omitempty"`
	OldStatus spec.Status   `json:"old_status,omitempty"`
	NewStatus spec.Status   `json:"new_status,omitempty"`
}

// NewNodeChangedEvent builds an event with a fresh id. node may be nil for
// deletes, in which case only id is set.
func NewNodeChangedEvent(action Action, id string, node *spec.Node, oldStatus spec.Status, now time.Time) *NodeChangedEvent {
	meta := NodeMeta{ID: id, OldStatus: oldStatus}
	if node != nil {
		meta.NodeType = node.NodeType
		meta.Title = node.Title
		meta.Parent = node.Parent
		meta.NewStatus = node.Status
	}

	return &NodeChangedEvent{
		SchemaVersion: SchemaVersionV1,
		EventType:     EventTypeNodeChanged,
		EventID:       uuid.NewString(),
		EmittedAt:     now.UTC(),
		Action:        action,
		Node:          meta,
	}
}
