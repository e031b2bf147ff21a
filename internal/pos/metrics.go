package pos

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	tracer = otel.Tracer("pos")
	meter  = otel.Meter("pos")

	linesAdded = int64Counter(meter, "pos.lines.added",
		metric.WithDescription("Products added to drafts"))
	ordersFinalized = int64Counter(meter, "pos.orders.finalized",
		metric.WithDescription("Orders completed at the POS"))
	finalizeFailures = int64Counter(meter, "pos.orders.finalize_failures",
		metric.WithDescription("Finalize attempts that did not produce an order"))
	orderTotal = float64Histogram(meter, "pos.order.total",
		metric.WithDescription("Total of completed orders, tax included"),
		metric.WithUnit("EUR"))
)

// Instrument errors go to the otel error handler and fall back to a no-op.
func int64Counter(m metric.Meter, name string, opts ...metric.Int64CounterOption) metric.Int64Counter {
	c, err := m.Int64Counter(name, opts...)
	if err != nil {
		otel.Handle(err)
		if c == nil {
			return noop.Int64Counter{}
		}
	}
	return c
}

func float64Histogram(m metric.Meter, name string, opts ...metric.Float64HistogramOption) metric.Float64Histogram {
	h, err := m.Float64Histogram(name, opts...)
	if err != nil {
		otel.Handle(err)
		if h == nil {
			return noop.Float64Histogram{}
		}
	}
	return h
}
