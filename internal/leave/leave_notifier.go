package leave

import (
	"context"
	"encoding/json"
	"time"

	"go-ems/internal/events"
	"go-ems/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notifier delivers lifecycle events to the notification sink. Delivery is
// best-effort: implementations may fail, callers log and move on, and the
// lifecycle operation's outcome is never affected.
type Notifier interface {
	Notify(ctx context.Context, ev events.LeaveLifecycleEvent) error
}

type noopNotifier struct{}

func NewNoopNotifier() Notifier {
	return noopNotifier{}
}

func (noopNotifier) Notify(context.Context, events.LeaveLifecycleEvent) error {
	return nil
}

// outboxNotifier stages events in the outbox table; the relay worker ships
// them to Kafka out of band.
type outboxNotifier struct {
	outbox kafka.OutboxRepository
}

func NewOutboxNotifier(outbox kafka.OutboxRepository) Notifier {
	return &outboxNotifier{outbox: outbox}
}

func (n *outboxNotifier) Notify(ctx context.Context, ev events.LeaveLifecycleEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	event := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		AggregateType: "leave_request",
		AggregateID:   ev.LeaveRequestID,
		EventType:     ev.EventType,
		Topic:         events.LeaveLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(event); err != nil {
		return err
	}
	return n.outbox.Create(ctx, event)
}

// notify emits an event after a committed transition, swallowing failures.
func (s *service) notify(ctx context.Context, eventType string, l *LeaveRequest, actorID string) {
	ev := events.LeaveLifecycleEvent{
		EventType:      eventType,
		LeaveRequestID: l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		ActorID:        actorID,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		TotalDays:      l.TotalDays,
		OccurredAt:     time.Now().UTC(),
	}

	if err := s.notifier.Notify(ctx, ev); err != nil {
		s.logger.Warn("leave notification failed",
			zap.String("event_type", eventType),
			zap.String("leave_id", ev.LeaveRequestID),
			zap.Error(err),
		)
	}
}
