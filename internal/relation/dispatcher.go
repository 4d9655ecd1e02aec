package relation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mural-social/mural/pkg/logging"
	"go.uber.org/zap"
)

// Event is a relationship notification published after a transition
// commits. Delivery is at-least-once; consumers must tolerate duplicates.
type Event struct {
	Id          string    `json:"id"`
	Type        string    `json:"type"`
	RecipientId string    `json:"recipientId"`
	ActorId     string    `json:"actorId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Notifier is the fire-and-forget notification collaborator.
type Notifier interface {
	PublishRelationshipEvent(ctx context.Context, event Event) error
}

// CounterStore applies atomic friend-count deltas to user records.
type CounterStore interface {
	AddFriendCount(ctx context.Context, userId string, delta int64) error
}

// Dispatcher fans out the side effects of a committed transition. The edge
// record is the durable source of truth; effect failures are logged and
// never surfaced, and nothing here may roll the transition back.
type Dispatcher interface {
	Dispatch(ctx context.Context, actor string, effects []Effect)
}

type sideEffectDispatcher struct {
	notifier Notifier
	counters CounterStore
	now      func() time.Time
}

func NewDispatcher(notifier Notifier, counters CounterStore) Dispatcher {
	return &sideEffectDispatcher{
		notifier: notifier,
		counters: counters,
		now:      time.Now,
	}
}

func (d *sideEffectDispatcher) Dispatch(ctx context.Context, actor string, effects []Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case EffectNotify:
			event := Event{
				Id:          uuid.NewString(),
				Type:        effect.EventType,
				RecipientId: effect.UserId,
				ActorId:     actor,
				OccurredAt:  d.now().UTC(),
			}
			if err := d.notifier.PublishRelationshipEvent(ctx, event); err != nil {
				logging.Error("failed to publish relationship event",
					zap.String("event_type", effect.EventType),
					zap.String("recipient_id", effect.UserId),
					zap.Error(err),
				)
			}
		case EffectFriendCount:
			if err := d.counters.AddFriendCount(ctx, effect.UserId, effect.Delta); err != nil {
				logging.Error("failed to apply friend count delta",
					zap.String("user_id", effect.UserId),
					zap.Int64("delta", effect.Delta),
					zap.Error(err),
				)
			}
		}
	}
}
