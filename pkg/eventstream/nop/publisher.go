// Package nop provides an eventstream publisher that drops every event.
package nop

import (
	"context"

	"github.com/papercomputeco/specgraph/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishNodeChanged validates input and otherwise does nothing.
func (p *Publisher) PublishNodeChanged(_ context.Context, event *eventstream.NodeChangedEvent) error {
	if event == nil {
		return eventstream.ErrNilEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
