package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"uploadkit-go/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelManager lazily opens one confirmed channel on the shared connection
// and replaces it when the broker closes it. Every publisher and every
// subscriber worker holds its own manager, channels are not safe to share.
type ChannelManager struct {
	connManager *ConnectionManager
	channel     *amqp.Channel
	mu          sync.Mutex
	closed      bool
	maxRetries  int
	retryWait   time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewChannelManager(ctx context.Context, connManager *ConnectionManager) *ChannelManager {
	ctx, cancel := context.WithCancel(ctx)
	return &ChannelManager{
		connManager: connManager,
		maxRetries:  5,
		retryWait:   time.Second * 2,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (cm *ChannelManager) GetChannel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil, errors.New("channel manager is closed")
	}
	if cm.channel != nil {
		return cm.channel, nil
	}
	return cm.openWithRetry()
}

func (cm *ChannelManager) openWithRetry() (*amqp.Channel, error) {
	var err error
	for attempt := 0; attempt < cm.maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(cm.retryWait)
		}

		cm.channel, err = cm.open()
		if err == nil {
			return cm.channel, nil
		}
		logger.Warning.Println("Opening event bus channel failed: ", err)
	}

	return nil, fmt.Errorf("opening channel after %d attempts: %w", cm.maxRetries, err)
}

func (cm *ChannelManager) open() (*amqp.Channel, error) {
	conn := cm.connManager.GetConnection()
	if conn == nil {
		return nil, errors.New("no broker connection available")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	// confirm mode, so a publish that the broker never accepted fails
	// instead of vanishing
	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("enabling publisher confirms: %w", err)
	}

	go cm.watch(ch)

	return ch, nil
}

func (cm *ChannelManager) watch(ch *amqp.Channel) {
	select {
	case err := <-ch.NotifyClose(make(chan *amqp.Error)):
		if err == nil {
			return
		}
		logger.Warning.Println("Event bus channel closed: ", err)
		cm.reopen()
	case <-cm.ctx.Done():
	}
}

func (cm *ChannelManager) reopen() {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return
	}

	cm.channel = nil
	if _, err := cm.openWithRetry(); err != nil {
		logger.Error.Println("Reopening event bus channel failed: ", err)
	}
}

func (cm *ChannelManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.closed {
		return nil
	}
	cm.closed = true
	cm.cancel()

	if cm.channel == nil {
		return nil
	}

	ch := cm.channel
	cm.channel = nil
	if err := ch.Close(); err != nil {
		return fmt.Errorf("closing channel: %w", err)
	}
	return nil
}
