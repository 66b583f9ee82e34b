package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"
	"uploadkit-go/internal/pkg/logger"
)

// Publisher pushes events onto the bus with bounded retries. It keeps its
// own channel manager, so a dropped channel heals without touching the
// shared connection.
type Publisher struct {
	channelManager *ChannelManager
	mu             sync.Mutex
	maxRetries     int
	retryWait      time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
}

type IPublisher interface {
	Publish(msg *Message, opts *PublishOptions) error
	PublishWithContext(ctx context.Context, msg *Message, opts *PublishOptions) error
	Close() error
}

type PublishOptions struct {
	QueueOpts    *QueueConfig
	QueueName    string
	Exchange     string
	MaxRetries   int
	RetryBackoff time.Duration
}

// DefaultPublishOptions publishes straight to a queue through the default
// exchange, declaring the queue first so the event outlives a consumer that
// is not up yet.
func DefaultPublishOptions(queueName string) *PublishOptions {
	return &PublishOptions{
		QueueName:    queueName,
		MaxRetries:   3,
		RetryBackoff: time.Second * 10,
	}
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (IPublisher, error) {
	ctx, cancel := context.WithCancel(ctx)

	return &Publisher{
		channelManager: NewChannelManager(ctx, connManager),
		maxRetries:     3,
		retryWait:      time.Second * 2,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

func (p *Publisher) Publish(msg *Message, opts *PublishOptions) error {
	return p.PublishWithContext(p.ctx, msg, opts)
}

func (p *Publisher) PublishWithContext(ctx context.Context, msg *Message, opts *PublishOptions) error {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = p.maxRetries
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = p.retryWait
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("publish canceled while retrying: %w", ctx.Err())
			case <-time.After(opts.RetryBackoff * time.Duration(attempt)):
			}
		}

		if err := p.tryPublish(ctx, msg, opts); err != nil {
			lastErr = err
			logger.Warning.Println("Publish attempt failed: ", err)
			continue
		}
		return nil
	}

	return fmt.Errorf("publishing after %d attempts: %w", opts.MaxRetries, lastErr)
}

func (p *Publisher) tryPublish(ctx context.Context, msg *Message, opts *PublishOptions) error {
	ch, err := p.channelManager.GetChannel()
	if err != nil {
		return fmt.Errorf("getting channel: %w", err)
	}

	if opts.QueueName != "" {
		config := opts.QueueOpts
		if config == nil {
			config = DefaultQueueConfig()
		}
		if _, err := ch.QueueDeclare(
			opts.QueueName,
			config.Durable,
			config.AutoDelete,
			config.Exclusive,
			config.NoWait,
			config.Args,
		); err != nil {
			return fmt.Errorf("declaring queue %s: %w", opts.QueueName, err)
		}
	}

	if err := ch.PublishWithContext(
		ctx,
		opts.Exchange,
		opts.QueueName,
		false,
		false,
		*msg.publishing(),
	); err != nil {
		return fmt.Errorf("publishing to %s: %w", opts.QueueName, err)
	}

	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channelManager.Close(); err != nil {
		return err
	}
	p.cancel()
	return nil
}
