package events

import "context"

// NoopPublisher discards all events. Used when no NATS URL is configured
// and in tests that don't assert on events.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (*NoopPublisher) Publish(ctx context.Context, subject, entityID string) error {
	return nil
}

func (*NoopPublisher) Close() {}

// RecordingPublisher captures published events for test assertions.
type RecordingPublisher struct {
	Events []Event
}

func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

func (p *RecordingPublisher) Publish(ctx context.Context, subject, entityID string) error {
	p.Events = append(p.Events, Event{Subject: subject, EntityID: entityID})
	return nil
}

func (p *RecordingPublisher) Close() {}
