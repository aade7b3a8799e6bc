package notify

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"

	"github.com/benx421/payment-gateway/escrow/internal/config"
)

// Publisher is a watermill publisher together with whatever it needs closed
// on shutdown.
type Publisher struct {
	message.Publisher
	redisClient *redis.Client
	channel     *gochannel.GoChannel
}

// NewPublisher returns a Redis Streams publisher when a Redis address is
// configured and an in-process channel publisher otherwise.
func NewPublisher(cfg config.NotificationConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if cfg.RedisAddr == "" {
		channel := gochannel.NewGoChannel(gochannel.Config{}, logger)
		return &Publisher{
			Publisher: channel,
			channel:   channel,
		}, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, logger)
	if err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("creating redis stream publisher: %w", err)
	}

	return &Publisher{
		Publisher:   publisher,
		redisClient: redisClient,
	}, nil
}

// LocalSubscriber returns the in-process subscriber when notifications stay
// inside this process, or nil when they go to Redis.
func (p *Publisher) LocalSubscriber() message.Subscriber {
	if p.channel == nil {
		return nil
	}
	return p.channel
}

// Close closes the publisher and the Redis connection, if any.
func (p *Publisher) Close() error {
	err := p.Publisher.Close()
	if p.redisClient != nil {
		err = errors.Join(err, p.redisClient.Close())
	}
	return err
}
