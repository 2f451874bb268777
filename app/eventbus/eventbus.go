// Package eventbus provides the publisher and subscriber pair used by the
// watermill router: an in-process channel by default, NATS when configured.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"

	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// Config selects the transport. An empty URL selects the in-process channel.
type Config struct {
	URL              string
	QueueGroupPrefix string
	SubscribersCount int
}

// EventBus publishes and subscribes to topics.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Bus is the EventBus implementation. Publishing to an empty topic routes each
// message by its topic metadata, which is how the router delivers handler results.
type Bus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     *slog.Logger
	closeFn    func() error
}

var _ EventBus = (*Bus)(nil)

// New creates a Bus for cfg.
func New(_ context.Context, cfg Config, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	if cfg.URL == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 256,
		}, wmLogger)
		logger.Info("Using in-process event bus")
		return &Bus{publisher: ch, subscriber: ch, logger: logger, closeFn: ch.Close}, nil
	}

	marshaler := &nats.NATSMarshaler{}
	options := []nc.Option{
		nc.Name("tenjaku"),
		nc.RetryOnFailedConnect(true),
	}
	jsConfig := nats.JetStreamConfig{AutoProvision: true}

	publisher, err := nats.NewPublisher(nats.PublisherConfig{
		URL:         cfg.URL,
		Marshaler:   marshaler,
		NatsOptions: options,
		JetStream:   jsConfig,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscribers := cfg.SubscribersCount
	if subscribers <= 0 {
		subscribers = 1
	}
	subscriber, err := nats.NewSubscriber(nats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroupPrefix,
		SubscribersCount: subscribers,
		Unmarshaler:      marshaler,
		NatsOptions:      options,
		JetStream:        jsConfig,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.Info("Using NATS event bus", attr.String("url", cfg.URL))
	return &Bus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		closeFn: func() error {
			perr := publisher.Close()
			serr := subscriber.Close()
			if perr != nil {
				return perr
			}
			return serr
		},
	}, nil
}

// NewWith wraps an existing publisher and subscriber.
func NewWith(publisher message.Publisher, subscriber message.Subscriber, logger *slog.Logger) *Bus {
	return &Bus{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		closeFn: func() error {
			perr := publisher.Close()
			serr := subscriber.Close()
			if perr != nil {
				return perr
			}
			return serr
		},
	}
}

// Publish sends msgs to topic. With an empty topic every message must carry its
// destination in handlerwrapper.TopicMetadataKey.
func (b *Bus) Publish(topic string, msgs ...*message.Message) error {
	if topic != "" {
		return b.publisher.Publish(topic, msgs...)
	}
	for _, m := range msgs {
		dest := m.Metadata.Get(handlerwrapper.TopicMetadataKey)
		if dest == "" {
			return fmt.Errorf("message %s has no destination topic", m.UUID)
		}
		b.logger.Debug("Publishing message",
			attr.Topic(dest),
			attr.String("message_id", m.UUID),
			attr.CorrelationIDFromMsg(m),
		)
		if err := b.publisher.Publish(dest, m); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", dest, err)
		}
	}
	return nil
}

func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	return b.closeFn()
}
