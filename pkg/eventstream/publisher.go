package eventstream

import "context"

// Publisher publishes node events to an event stream backend.
type Publisher interface {
	PublishNodeChanged(ctx context.Context, event *NodeChangedEvent) error
	Close() error
}

// Providers accepted by the events.provider configuration key.
const (
	ProviderNone  = "none"
	ProviderKafka = "kafka"
)
