// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the usage-commit queue. Storage errors are Nacked
// for redelivery; malformed messages are Acked so they cannot wedge the
// queue. A lost increment is a metering-accuracy issue, never an action
// failure.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	usage     UsageService
	log       logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	usage UsageService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		usage:     usage,
		log:       log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
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
	var payload dto.UsageCommitMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("usage-recorder", "failed to unmarshal commit message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		cs.log.Error("usage-recorder", "invalid user id in commit message", map[string]interface{}{
			"user_id": payload.UserId,
		})
		msg.Ack()
		return
	}

	if err := cs.usage.Commit(ctx, userId, entity.Feature(payload.Feature), payload.Amount); err != nil {
		cs.log.Error("usage-recorder", "failed to record usage, will retry", map[string]interface{}{
			"user_id": payload.UserId,
			"feature": payload.Feature,
			"error":   err.Error(),
		})
		msg.Nack() // Nack for retriable storage errors
		return
	}

	msg.Ack()
}
