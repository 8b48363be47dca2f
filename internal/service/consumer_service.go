package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"miniapp-gateway/internal/pkg/logger"
	"miniapp-gateway/pkg/events"
)

// EventBalance is the live event pushed to a device whose balance changed.
const EventBalance = "balance"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventRelay forwards events off the process, to NATS in production.
type EventRelay interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber    message.Subscriber
	topicName     string
	relay         EventRelay
	notifications *NotificationService
	logger        logger.ILogger
}

// NewConsumerService drains the in-process event topic. relay may be nil
// when NATS is not available.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	relay EventRelay,
	notifications *NotificationService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:    subscriber,
		topicName:     topicName,
		relay:         relay,
		notifications: notifications,
		logger:        log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Every message is acked: a bad payload will not get better on retry and
	// the relay is best effort.
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to decode event", map[string]interface{}{"message_id": msg.UUID, "error": err.Error()})
		return
	}

	if cs.relay != nil {
		if err := cs.relay.Publish(ctx, event); err != nil {
			cs.logger.Warn("ConsumerService", "Failed to relay event", map[string]interface{}{"type": event.Type, "error": err.Error()})
		}
	}

	if event.Type == events.TypeTaskClaimed {
		cs.pushBalance(ctx, event)
	}
}

func (cs *consumerService) pushBalance(ctx context.Context, event events.BaseEvent) {
	raw, _ := event.Data["device_id"].(string)
	deviceID, err := uuid.Parse(raw)
	if err != nil {
		cs.logger.Warn("ConsumerService", "Claim event without device", map[string]interface{}{"device_id": raw})
		return
	}
	cs.notifications.Event(ctx, deviceID, EventBalance, map[string]interface{}{
		"task_id": event.Data["task_id"],
		"reward":  event.Data["reward"],
		"balance": event.Data["balance"],
	})
}
