package events

import (
	"context"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"go.uber.org/zap"
)

// StdoutWriter logs every event. Used in dev.
type StdoutWriter struct{}

func (s *StdoutWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	zap.S().Named("stdout_writer").Infow("event wrote", "topic", topic, "type", e.Type(), "subject", e.Subject(), "data", string(e.Data()))
	return nil
}

func (s *StdoutWriter) Close(_ context.Context) error {
	return nil
}

// NoopWriter drops every event.
type NoopWriter struct{}

func (NoopWriter) Write(context.Context, string, cloudevents.Event) error { return nil }

func (NoopWriter) Close(context.Context) error { return nil }
