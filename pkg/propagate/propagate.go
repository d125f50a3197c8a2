// Package propagate computes the status changes implied by moving one node
// to a new status. It is pure: the caller decides whether to persist the
// returned diff.
package propagate

import (
	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/spec"
)

// Change is one entry of a propagation diff.
type Change struct {
	ID        string      `json:"id"`
	OldStatus spec.Status `json:"oldStatus"`
	NewStatus spec.Status `json:"newStatus"`
}

// Propagate returns the changes that follow from setting changedID to
// newStatus. The diff does not include changedID itself, lists every id at
// most once and never lists an id whose status would not change.
//
// Direct dependents of changedID move to needs-review unless they are
// already needs-review or deprecated. Then the parent of changedID is
// recomputed from its children with Aggregate, and the walk continues
// upward for as long as a parent's status changes. Nodes changed by the
// upward walk do not invalidate their own dependents.
//
// A parent that also depends on changedID is settled by invalidation: it
// is not recomputed from its children. The walk continues above it only
// when invalidation changed it.
//
// Aggregation sees the statuses the diff would leave behind, so applying
// the diff and propagating again yields no further changes.
func Propagate(g *graph.Graph, changedID string, newStatus spec.Status) ([]Change, error) {
	if !newStatus.Valid() {
		_, err := spec.ParseStatus(string(newStatus))
		return nil, err
	}
	if !g.Has(changedID) {
		return nil, spec.NotFoundError{ID: changedID}
	}

	changes := []Change{}
	pending := map[string]spec.Status{changedID: newStatus}

	status := func(id string) spec.Status {
		if s, ok := pending[id]; ok {
			return s
		}
		return g.Get(id).Status
	}

	dependent := map[string]bool{}
	for _, id := range g.Dependents(changedID) {
		node := g.Get(id)
		if node == nil || id == changedID || dependent[id] {
			continue
		}
		dependent[id] = true

		switch node.Status {
		case spec.StatusNeedsReview, spec.StatusDeprecated:
			continue
		}

		changes = append(changes, Change{ID: id, OldStatus: node.Status, NewStatus: spec.StatusNeedsReview})
		pending[id] = spec.StatusNeedsReview
	}

	visited := map[string]bool{changedID: true}
	for current := changedID; ; {
		parentID := g.Get(current).Parent
		if parentID == "" || visited[parentID] || !g.Has(parentID) {
			break
		}
		visited[parentID] = true

		if dependent[parentID] {
			if _, changed := pending[parentID]; !changed {
				break
			}
			current = parentID
			continue
		}

		children := g.Children(parentID)
		if len(children) == 0 {
			break
		}

		statuses := make([]spec.Status, len(children))
		for i, child := range children {
			statuses[i] = status(child)
		}

		stored := g.Get(parentID).Status
		computed := Aggregate(statuses)
		if computed == stored {
			break
		}

		changes = append(changes, Change{ID: parentID, OldStatus: stored, NewStatus: computed})
		pending[parentID] = computed
		current = parentID
	}

	return changes, nil
}

// Aggregate derives a parent status from its children's statuses. The
// first matching rule wins:
//
//   - any child needs-review: needs-review
//   - all children verified: verified
//   - all children deprecated: deprecated
//   - any child verified or active: active
//   - otherwise: draft
//
// An empty list aggregates to draft.
func Aggregate(statuses []spec.Status) spec.Status {
	if len(statuses) == 0 {
		return spec.StatusDraft
	}

	counts := make(map[spec.Status]int, len(spec.Statuses))
	for _, s := range statuses {
		counts[s]++
	}

	switch {
	case counts[spec.StatusNeedsReview] > 0:
		return spec.StatusNeedsReview
	case counts[spec.StatusVerified] == len(statuses):
		return spec.StatusVerified
	case counts[spec.StatusDeprecated] == len(statuses):
		return spec.StatusDeprecated
	case counts[spec.StatusVerified] > 0 || counts[spec.StatusActive] > 0:
		return spec.StatusActive
	default:
		return spec.StatusDraft
	}
}
