package service

import (
	"context"
	"fmt"

	"github.com/papercomputeco/specgraph/pkg/eventstream"
	"github.com/papercomputeco/specgraph/pkg/impact"
	"github.com/papercomputeco/specgraph/pkg/propagate"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

// Validate checks every stored node and returns the diagnostics of the
// nodes matching ids. ids may hold exact ids or globs; an exact id that is
// not stored is a spec.NotFoundError. strict overrides the configured mode
// when true.
func (s *Service) Validate(ids []string, strict bool) (validate.Result, error) {
	for _, id := range ids {
		if isGlob(id) {
			continue
		}
		ok, err := s.driver.Exists(id)
		if err != nil {
			return validate.Result{}, fmt.Errorf("checking %s: %w", id, err)
		}
		if !ok {
			return validate.Result{}, spec.NotFoundError{ID: id}
		}
	}

	nodes, err := s.driver.List()
	if err != nil {
		return validate.Result{}, fmt.Errorf("loading nodes: %w", err)
	}

	opts := s.opts
	opts.Strict = opts.Strict || strict

	res := validate.All(nodes, opts)
	return validate.Filter(res, ids)
}

// ValidateNode checks a node that is not necessarily stored, such as a
// payload about to be created.
func (s *Service) ValidateNode(node *spec.Node, strict bool) validate.Result {
	opts := s.opts
	opts.Strict = opts.Strict || strict
	return validate.One(node, opts)
}

// Impact reports what a change to id would reach. A zero maxDepth uses the
// configured depth.
func (s *Service) Impact(id string, maxDepth int) (*impact.Report, error) {
	if maxDepth == 0 {
		maxDepth = s.maxDepth
	}

	g, err := s.loadGraph()
	if err != nil {
		return nil, err
	}
	return impact.Analyze(g, id, maxDepth)
}

// PropagateResult is the outcome of Propagate.
type PropagateResult struct {
	ID      string             `json:"id"`
	Status  spec.Status        `json:"status"`
	Applied bool               `json:"applied"`
	Changes []propagate.Change `json:"changes"`
}

// Propagate computes the status diff for setting id to status. When apply
// is set it persists the node's own status first and then every change in
// order, so a later entry for the same id wins, publishing one event per
// persisted change.
func (s *Service) Propagate(ctx context.Context, id string, status spec.Status, apply bool) (*PropagateResult, error) {
	g, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	changes, err := propagate.Propagate(g, id, status)
	if err != nil {
		return nil, err
	}

	res := &PropagateResult{ID: id, Status: status, Changes: changes}
	if !apply {
		return res, nil
	}

	if err := s.setStatus(ctx, id, status, eventstream.ActionUpdated, ""); err != nil {
		return nil, err
	}
	for _, c := range changes {
		if err := s.setStatus(ctx, c.ID, c.NewStatus, eventstream.ActionPropagated, id); err != nil {
			return nil, err
		}
	}

	s.logger.Info("applied status propagation",
		"id", id,
		"status", status,
		"changes", len(changes),
	)
	res.Applied = true
	return res, nil
}

func (s *Service) setStatus(ctx context.Context, id string, status spec.Status, action eventstream.Action, cause string) error {
	node, err := s.driver.Get(id)
	if err != nil {
		return fmt.Errorf("loading %s: %w", id, err)
	}

	old := node.Status
	node.Status = status
	if err := s.driver.Update(node); err != nil {
		return fmt.Errorf("updating %s: %w", id, err)
	}

	s.publish(ctx, action, id, node, old, cause)
	return nil
}
