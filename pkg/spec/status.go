package spec

import "fmt"

// Status is the lifecycle state of a node or condition.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusActive      Status = "active"
	StatusNeedsReview Status = "needs-review"
	StatusVerified    Status = "verified"
	StatusDeprecated  Status = "deprecated"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{
	StatusDraft,
	StatusActive,
	StatusNeedsReview,
	StatusVerified,
	StatusDeprecated,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusNeedsReview, StatusVerified, StatusDeprecated:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts user input into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", InvalidArgumentError{
			Field:   "status",
			Message: fmt.Sprintf("unknown status %q (valid: draft, active, needs-review, verified, deprecated)", raw),
		}
	}
	return s, nil
}

// NodeType distinguishes features from standalone condition records.
type NodeType string

const (
	NodeTypeFeature   NodeType = "feature"
	NodeTypeCondition NodeType = "condition"
)

// Valid reports whether t is a known node type.
func (t NodeType) Valid() bool {
	return t == NodeTypeFeature || t == NodeTypeCondition
}

func (t NodeType) String() string {
	return string(t)
}

// ParseNodeType converts user input into a NodeType.
func ParseNodeType(raw string) (NodeType, error) {
	t := NodeType(raw)
	if !t.Valid() {
		return "", InvalidArgumentError{
			Field:   "nodeType",
			Message: fmt.Sprintf("unknown node type %q (valid: feature, condition)", raw),
		}
	}
	return t, nil
}
