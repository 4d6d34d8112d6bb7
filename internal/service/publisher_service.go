// FILE: internal/service/publisher_service.go
package service

import (
	"context"
	"encoding/json"

	"marketplace-be/internal/dto"
	"marketplace-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// IUsagePublisherService queues usage commits for asynchronous recording.
// The gated action already succeeded by the time this is called; the queue
// exists so a metering hiccup never turns into a user-visible failure.
type IUsagePublisherService interface {
	PublishCommit(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) error
}

type usagePublisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewUsagePublisherService(topicName string, pubSub *gochannel.GoChannel) IUsagePublisherService {
	return &usagePublisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (s *usagePublisherService) PublishCommit(ctx context.Context, userId uuid.UUID, feature entity.Feature, amount int) error {
	payload := dto.UsageCommitMessage{
		UserId:  userId.String(),
		Feature: string(feature),
		Amount:  amount,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	return s.pubSub.Publish(s.topicName, msg)
}
