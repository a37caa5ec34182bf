package service

import (
	"context"
	"encoding/json"

	"clinic-scheduling/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// EventStreamKey is the Redis Stream consumed by the notification collaborator.
const EventStreamKey = "appointments:events"

// EventSink receives the event intents emitted by appointment transitions.
// Delivery is strictly fire-and-forget from the state machine's point of
// view: a failing sink must never invalidate a committed transition.
type EventSink interface {
	Publish(ctx context.Context, intents []entity.EventIntent) error
}

type redisEventPublisher struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisEventPublisher returns an EventSink that appends intents to a
// Redis Stream, one entry per intent, in emission order.
func NewRedisEventPublisher(client *redis.Client, log *logrus.Logger) EventSink {
	return &redisEventPublisher{client: client, log: log}
}

func (p *redisEventPublisher) Publish(ctx context.Context, intents []entity.EventIntent) error {
	if len(intents) == 0 {
		return nil
	}

	pipe := p.client.Pipeline()
	for _, intent := range intents {
		payload, err := json.Marshal(intent)
		if err != nil {
			p.log.Warnf("Failed to marshal event intent %s: %+v", intent.Kind, err)
			continue
		}
		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: EventStreamKey,
			Values: map[string]interface{}{
				"kind":           intent.Kind,
				"appointment_id": intent.AppointmentID.String(),
				"recipient_id":   intent.RecipientID.String(),
				"payload":        payload,
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return nil
}
