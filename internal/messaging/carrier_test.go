package messaging

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestMessageCarrier(t *testing.T) {
	t.Run("set replaces existing headers", func(t *testing.T) {
		msg := &kafka.Message{}
		c := NewMessageCarrier(msg)

		c.Set("event_type", "a")
		c.Set("event_type", "b")

		if len(msg.Headers) != 1 {
			t.Fatalf("expected 1 header, got %d", len(msg.Headers))
		}
		if c.Get("event_type") != "b" {
			t.Errorf("expected b, got %s", c.Get("event_type"))
		}
		if c.Get("missing") != "" {
			t.Error("expected empty value for missing header")
		}
	})

	t.Run("round trips trace context", func(t *testing.T) {
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
			Remote:     true,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		msg := &kafka.Message{}
		prop := propagation.TraceContext{}
		prop.Inject(ctx, NewMessageCarrier(msg))

		keys := NewMessageCarrier(msg).Keys()
		if len(keys) == 0 || keys[0] != "traceparent" {
			t.Fatalf("expected traceparent header, got %v", keys)
		}

		got := trace.SpanContextFromContext(prop.Extract(context.Background(), NewMessageCarrier(msg)))
		if got.TraceID() != traceID {
			t.Errorf("expected trace id %s, got %s", traceID, got.TraceID())
		}
		if got.SpanID() != spanID {
			t.Errorf("expected span id %s, got %s", spanID, got.SpanID())
		}
	})
}
