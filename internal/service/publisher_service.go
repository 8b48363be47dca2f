package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"miniapp-gateway/pkg/events"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{topicName: topicName, publisher: publisher}
}

func (p *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.EventType(), err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_type", event.EventType())
	msg.SetContext(ctx)

	return p.publisher.Publish(p.topicName, msg)
}
