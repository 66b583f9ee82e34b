package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"uploadkit-go/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler settles one delivery. A nil return acks the message, an
// error requeues it for another attempt. Handlers decide what is
// unrecoverable and return nil for those, or the message loops forever.
type MessageHandler func(msg *amqp.Delivery) error

type SubscribeOptions struct {
	QueueOpts     *QueueConfig
	QueueName     string
	ConsumerName  string
	AutoAck       bool
	Exclusive     bool
	WorkerCount   int
	PrefetchCount int
}

// DefaultSubscribeOptions runs a small worker pool against a durable queue.
// Prefetch stays low so one slow worker does not hoard deliveries.
func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:     queueName,
		ConsumerName:  queueName,
		WorkerCount:   3,
		PrefetchCount: 10,
	}
}

// Subscriber drains a queue with a fixed pool of workers, each on its own
// channel so one broken channel does not stall the rest.
type Subscriber struct {
	channelManagers []*ChannelManager
	handler         MessageHandler
	opts            *SubscribeOptions
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         atomic.Bool
	pool            *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	if opts == nil || opts.QueueName == "" {
		return nil, fmt.Errorf("subscribe options need a queue name")
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(
		opts.WorkerCount,
		ants.WithPreAlloc(true),
		ants.WithPanicHandler(func(v interface{}) {
			logger.Error.Println("Consumer worker panicked: ", v)
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating worker pool: %w", err)
	}

	managers := make([]*ChannelManager, opts.WorkerCount)
	for i := range managers {
		managers[i] = NewChannelManager(ctx, connManager)
	}

	return &Subscriber{
		channelManagers: managers,
		handler:         handler,
		opts:            opts,
		ctx:             ctx,
		cancel:          cancel,
		pool:            pool,
	}, nil
}

// Start launches the workers. A failed start leaves the subscriber in a
// state where Stop tears down whatever did come up.
func (s *Subscriber) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("subscriber already running")
	}

	for i := 0; i < s.opts.WorkerCount; i++ {
		workerID := i
		s.wg.Add(1)
		if err := s.pool.Submit(func() {
			defer s.wg.Done()
			s.runWorker(workerID)
		}); err != nil {
			s.wg.Done()
			return fmt.Errorf("starting worker %d: %w", workerID, err)
		}
	}

	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	wait := consumeBackoff{min: time.Millisecond * 100, max: time.Second * 30}

	for s.ctx.Err() == nil {
		err := s.consume(workerID)
		if err == nil {
			return
		}
		logger.Warning.Println("Consumer stopped, retrying: ", err)

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(wait.next()):
		}
	}
}

func (s *Subscriber) consume(workerID int) error {
	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("getting channel: %w", err)
	}

	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return fmt.Errorf("setting prefetch: %w", err)
	}

	config := s.opts.QueueOpts
	if config == nil {
		config = DefaultQueueConfig()
	}
	queue, err := ch.QueueDeclare(
		s.opts.QueueName,
		config.Durable,
		config.AutoDelete,
		config.Exclusive,
		config.NoWait,
		config.Args,
	)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", s.opts.QueueName, err)
	}

	consumerName := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	deliveries, err := ch.Consume(
		queue.Name,
		consumerName,
		s.opts.AutoAck,
		s.opts.Exclusive,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("starting consumer %s: %w", consumerName, err)
	}

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case msg, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery stream closed")
			}
			s.process(&msg)
		}
	}
}

func (s *Subscriber) process(msg *amqp.Delivery) {
	if err := s.handler(msg); err != nil {
		logger.Warning.Println("Handling message failed, requeueing: ", err)
		if !s.opts.AutoAck {
			if err := msg.Reject(true); err != nil {
				logger.Error.Println("Rejecting message failed: ", err)
			}
		}
		return
	}

	if !s.opts.AutoAck {
		if err := msg.Ack(false); err != nil {
			logger.Error.Println("Acking message failed: ", err)
		}
	}
}

// Stop cancels the workers and waits for in-flight deliveries to settle
// before closing the channels.
func (s *Subscriber) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 60):
		logger.Warning.Println("Workers did not drain in time, closing channels anyway")
	}

	var lastErr error
	for _, manager := range s.channelManagers {
		if err := manager.Close(); err != nil {
			lastErr = err
		}
	}

	s.pool.Release()
	return lastErr
}

func (s *Subscriber) IsHealthy() bool {
	return s.running.Load() && s.pool.Running() > 0
}

// consumeBackoff doubles the wait between consume attempts so a dead broker
// is not hammered.
type consumeBackoff struct {
	min, max time.Duration
	current  time.Duration
}

func (b *consumeBackoff) next() time.Duration {
	if b.current == 0 {
		b.current = b.min
		return b.current
	}
	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return b.current
}
