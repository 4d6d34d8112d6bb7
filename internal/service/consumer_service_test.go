package service

import (
	"context"
	"testing"
	"time"

	"marketplace-be/internal/entity"
	"marketplace-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerRecordsPublishedUsage(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	factory := newTestFactory()
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewUsagePublisherService("USAGE_COMMIT", pubSub)
	consumer := NewConsumerService(pubSub, "USAGE_COMMIT", usage, logger.Nop())

	ctx := context.Background()
	require.NoError(t, consumer.Consume(ctx))

	userId := uuid.New()
	require.NoError(t, publisher.PublishCommit(ctx, userId, entity.FeatureServices, 2))

	assert.Eventually(t, func() bool {
		counter, err := usage.Peek(ctx, userId, entity.FeatureServices)
		return err == nil && counter.Used == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestConsumerAcksMalformedMessage(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	factory := newTestFactory()
	subs := newTestSubscriptionService(factory, at)
	usage := newTestUsageService(factory, subs, at)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewUsagePublisherService("USAGE_COMMIT", pubSub)
	consumer := NewConsumerService(pubSub, "USAGE_COMMIT", usage, logger.Nop())

	ctx := context.Background()
	require.NoError(t, consumer.Consume(ctx))

	// A message with an unparseable user id must be dropped, not retried,
	// and must not wedge messages queued behind it.
	require.NoError(t, pubSub.Publish("USAGE_COMMIT", newRawCommitMessage(`{"user_id":"not-a-uuid","feature":"services","amount":1}`)))

	userId := uuid.New()
	require.NoError(t, publisher.PublishCommit(ctx, userId, entity.FeatureBookings, 1))

	assert.Eventually(t, func() bool {
		counter, err := usage.Peek(ctx, userId, entity.FeatureBookings)
		return err == nil && counter.Used == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func newRawCommitMessage(payload string) *message.Message {
	return message.NewMessage(watermill.NewUUID(), []byte(payload))
}
