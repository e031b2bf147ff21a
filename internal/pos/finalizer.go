package pos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Marcial-ar/tpv/internal/domain"
)

// Completion is the outcome of a successful finalize. ReleasedTable is set
// when the draft had a table. ReleaseErr is set when the order was stored but
// the table could not be marked available.
type Completion struct {
	Order         *domain.Order `json:"order"`
	ReleasedTable *domain.Table `json:"released_table,omitempty"`
	ReleaseErr    error         `json:"-"`
}

type Finalizer struct {
	orders OrderStore
	tables TableStatusUpdater
	events EventPublisher
	pricer Pricer
	policy ZonePolicy
	logger *slog.Logger

	now   func() time.Time
	newID func() string
}

// NewFinalizer builds a finalizer. events may be nil, in which case no
// completion event is published.
func NewFinalizer(cfg Config, orders OrderStore, tables TableStatusUpdater, events EventPublisher, logger *slog.Logger) *Finalizer {
	return &Finalizer{
		orders: orders,
		tables: tables,
		events: events,
		pricer: cfg.Pricer,
		policy: cfg.ZonePolicy,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

// Finalize turns a draft into a completed order. Nothing is written when the
// draft fails validation, and the order write is the only step whose failure
// is returned.
func (f *Finalizer) Finalize(ctx context.Context, draft DraftView, user domain.User) (*Completion, error) {
	ctx, span := tracer.Start(ctx, "pos.finalize",
		trace.WithAttributes(
			attribute.String("pos.zone", string(draft.Zone)),
			attribute.Int("pos.lines", len(draft.Lines)),
			attribute.String("pos.waiter_id", user.ID),
		),
	)
	defer span.End()

	if err := f.validate(draft); err != nil {
		finalizeFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "validation")))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	totals := f.pricer.Totals(draft.Lines)
	now := f.now()
	order := &domain.Order{
		ID:          f.newID(),
		Zone:        draft.Zone,
		Lines:       draft.Lines,
		Subtotal:    totals.Subtotal,
		TaxAmount:   totals.TaxAmount,
		Total:       totals.Total,
		Status:      domain.OrderStatusCompleted,
		WaiterID:    user.ID,
		WaiterName:  user.Name,
		CreatedAt:   now,
		CompletedAt: &now,
	}
	if draft.Table != nil {
		id := draft.Table.ID
		order.TableID = &id
	}
	span.SetAttributes(attribute.String("pos.order_id", order.ID))

	if err := f.orders.CreateOrder(ctx, order); err != nil {
		finalizeFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "persistence")))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
	}

	completion := &Completion{Order: order}

	if draft.Table != nil {
		if err := f.tables.UpdateTableStatus(ctx, draft.Table.ID, domain.TableStatusAvailable, nil); err != nil {
			f.logger.Error("failed to release table", "error", err, "order_id", order.ID, "table_id", draft.Table.ID)
			span.RecordError(err)
			completion.ReleaseErr = err
		} else {
			released := *draft.Table
			released.Status = domain.TableStatusAvailable
			released.CurrentOrder = nil
			completion.ReleasedTable = &released
		}
	}

	if f.events != nil {
		event := domain.OrderCompletedEvent{
			OrderID:       order.ID,
			TableID:       order.TableID,
			Zone:          order.Zone,
			Lines:         order.Lines,
			Subtotal:      order.Subtotal,
			TaxAmount:     order.TaxAmount,
			Total:         order.Total,
			WaiterID:      order.WaiterID,
			WaiterName:    order.WaiterName,
			CompletedAt:   now,
			TableReleased: completion.ReleasedTable != nil,
		}
		if err := f.events.Publish(ctx, order.ID, event); err != nil {
			f.logger.Error("failed to publish order completed event", "error", err, "order_id", order.ID)
		}
	}

	zoneAttr := metric.WithAttributes(attribute.String("zone", string(order.Zone)))
	ordersFinalized.Add(ctx, 1, zoneAttr)
	orderTotal.Record(ctx, order.Total.InexactFloat64(), zoneAttr)

	f.logger.Info("order completed",
		"order_id", order.ID,
		"waiter_id", order.WaiterID,
		"total", order.Total.StringFixed(2),
		"table_released", completion.ReleasedTable != nil,
	)

	return completion, nil
}

func (f *Finalizer) validate(draft DraftView) error {
	if len(draft.Lines) == 0 {
		return ErrNothingToComplete
	}
	if !draft.Zone.Valid() {
		return ErrInvalidZone
	}
	for _, l := range draft.Lines {
		if l.Quantity < 1 || !l.Total.Equal(lineTotal(l.Quantity, l.UnitPrice)) {
			return fmt.Errorf("%w: product %s", ErrInvalidLine, l.ProductID)
		}
	}
	if !f.policy.allows(draft.Zone, draft.Table) {
		return ErrTableZoneMismatch
	}
	return nil
}
