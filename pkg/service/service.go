// Package service composes the record store with the graph builder,
// validator, impact analyzer and status propagator. It is the one place
// that loads records, builds the graph, applies diffs and emits events, and
// it is shared by the CLI, the HTTP API, the MCP server and the watcher.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/papercomputeco/specgraph/pkg/eventstream"
	"github.com/papercomputeco/specgraph/pkg/eventstream/nop"
	"github.com/papercomputeco/specgraph/pkg/graph"
	"github.com/papercomputeco/specgraph/pkg/logger"
	"github.com/papercomputeco/specgraph/pkg/spec"
	"github.com/papercomputeco/specgraph/pkg/storage"
	"github.com/papercomputeco/specgraph/pkg/validate"
)

// Initializer is implemented by drivers that prepare their layout on disk.
type Initializer interface {
	Init() (bool, error)
}

// Config configures a Service.
type Config struct {
	// Driver is the record store. Required.
	Driver storage.Driver

	// Publisher receives an event for every persisted write. Defaults to a
	// no-op publisher.
	Publisher eventstream.Publisher

	// Source is stamped onto published events.
	Source eventstream.EventSource

	// Validate holds the default validation options.
	Validate validate.Options

	// MaxDepth is the impact depth used when a caller passes zero.
	MaxDepth int

	Logger *slog.Logger

	// Now overrides the clock used for event and export timestamps.
	Now func() time.Time
}

// Service runs specgraph operations against a record store.
type Service struct {
	driver    storage.Driver
	publisher eventstream.Publisher
	source    eventstream.EventSource
	opts      validate.Options
	maxDepth  int
	logger    *slog.Logger
	now       func() time.Time

	// cache is set when the driver can fingerprint its content.
	cache *graph.Cache
}

// New creates a Service.
func New(c Config) (*Service, error) {
	if c.Driver == nil {
		return nil, errors.New("storage driver is required")
	}
	if c.MaxDepth < 0 {
		return nil, spec.InvalidArgumentError{Field: "maxDepth", Message: "max depth must not be negative"}
	}

	s := &Service{
		driver:    c.Driver,
		publisher: c.Publisher,
		source:    c.Source,
		opts:      c.Validate,
		maxDepth:  c.MaxDepth,
		logger:    c.Logger,
		now:       c.Now,
	}

	if s.publisher == nil {
		s.publisher = nop.NewPublisher()
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}

	if src, ok := c.Driver.(graph.Source); ok {
		s.cache = graph.NewCache(src)
	}

	return s, nil
}

// Close releases the event publisher.
func (s *Service) Close() error {
	return s.publisher.Close()
}

// Init prepares the store layout. It reports whether the schema marker was
// written by this call.
func (s *Service) Init() (bool, error) {
	in, ok := s.driver.(Initializer)
	if !ok {
		return false, nil
	}
	return in.Init()
}

// ListOptions filter List results. Zero values match everything.
type ListOptions struct {
	// Match is an id glob such as "F-001*".
	Match  string
	Status spec.Status
	Tag    string
}

// Get returns one node.
func (s *Service) Get(id string) (*spec.Node, error) {
	if err := spec.CheckRecordID(id); err != nil {
		return nil, err
	}
	return s.driver.Get(id)
}

// List returns the stored nodes that satisfy opts, ordered as the driver
// returns them.
func (s *Service) List(opts ListOptions) ([]*spec.Node, error) {
	if opts.Match != "" && !doublestar.ValidatePattern(opts.Match) {
		return nil, spec.InvalidArgumentError{Field: "match", Message: "malformed id pattern " + opts.Match}
	}
	if opts.Status != "" && !opts.Status.Valid() {
		_, err := spec.ParseStatus(string(opts.Status))
		return nil, err
	}

	nodes, err := s.driver.List()
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	out := make([]*spec.Node, 0, len(nodes))
	for _, node := range nodes {
		if opts.Match != "" {
			if ok, _ := doublestar.Match(opts.Match, node.ID); !ok {
				continue
			}
		}
		if opts.Status != "" && node.Status != opts.Status {
			continue
		}
		if opts.Tag != "" && !slices.Contains(node.Tags, opts.Tag) {
			continue
		}
		out = append(out, node)
	}
	return out, nil
}

// Create stores a new node. An empty id is replaced by the next free
// F-NNN id, an empty status by draft, an empty node type by feature, and a
// missing schema version by the current one.
func (s *Service) Create(ctx context.Context, node *spec.Node) (*spec.Node, error) {
	if node == nil {
		return nil, spec.InvalidArgumentError{Message: "node must not be nil"}
	}

	node = node.Clone()
	if node.ID == "" {
		id, err := s.driver.NextID()
		if err != nil {
			return nil, err
		}
		node.ID = id
	}
	if node.NodeType == "" {
		node.NodeType = spec.NodeTypeFeature
	}
	if node.Status == "" {
		node.Status = spec.StatusDraft
	}
	if node.SchemaVersion == 0 {
		node.SchemaVersion = spec.CurrentSchemaVersion
	}

	if err := s.driver.Create(node); err != nil {
		return nil, err
	}

	s.logger.Debug("created node", "id", node.ID, "type", node.NodeType)
	s.publish(ctx, eventstream.ActionCreated, node.ID, node, "", "")
	return node, nil
}

// Update replaces a stored node.
func (s *Service) Update(ctx context.Context, node *spec.Node) (*spec.Node, error) {
	if node == nil {
		return nil, spec.InvalidArgumentError{Message: "node must not be nil"}
	}
	if err := spec.CheckRecordID(node.ID); err != nil {
		return nil, err
	}

	existing, err := s.driver.Get(node.ID)
	if err != nil {
		return nil, err
	}

	node = node.Clone()
	if err := s.driver.Update(node); err != nil {
		return nil, err
	}

	s.logger.Debug("updated node", "id", node.ID)
	s.publish(ctx, eventstream.ActionUpdated, node.ID, node, existing.Status, "")
	return node, nil
}

// Delete removes a node and its evidence. It reports whether a record was
// removed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := spec.CheckRecordID(id); err != nil {
		return false, err
	}

	var oldStatus spec.Status
	if existing, err := s.driver.Get(id); err == nil {
		oldStatus = existing.Status
	}

	removed, err := s.driver.Delete(id)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", id, err)
	}

	if removed {
		s.logger.Debug("deleted node", "id", id)
		s.publish(ctx, eventstream.ActionDeleted, id, nil, oldStatus, "")
	}
	return removed, nil
}

func (s *Service) publish(ctx context.Context, action eventstream.Action, id string, node *spec.Node, oldStatus spec.Status, cause string) {
	event := eventstream.NewNodeChangedEvent(action, id, node, oldStatus, s.now())
	event.Source = s.source
	event.Cause = cause

	if err := s.publisher.PublishNodeChanged(ctx, event); err != nil {
		s.logger.Warn("failed to publish node event",
			"id", id,
			"action", action,
			"error", err,
		)
	}
}

// isGlob reports whether p uses glob syntax rather than naming one id.
func isGlob(p string) bool {
	return strings.ContainsAny(p, `*?[{\`)
}
