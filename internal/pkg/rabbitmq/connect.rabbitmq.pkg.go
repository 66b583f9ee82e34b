package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"
	"uploadkit-go/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConnectionManager owns the single AMQP connection behind the upload event
// bus and redials it when the broker drops it. Publishers and subscribers
// never hold the connection themselves, they ask for it per channel.
type ConnectionManager struct {
	conn       *amqp.Connection
	mu         sync.Mutex
	url        string
	connected  bool
	redialWait time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

type Config struct {
	Username string
	Password string
	Host     string
	Port     int
}

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

// DefaultQueueConfig declares durable queues. Upload events must survive a
// broker restart, the records they mark already exist.
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	cm := &ConnectionManager{
		url:        fmt.Sprintf("amqp://%s:%s@%s:%d/", config.Username, config.Password, config.Host, config.Port),
		redialWait: time.Second * 2,
		ctx:        ctx,
		cancel:     cancel,
	}

	if err := cm.dial(); err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}

	return cm, nil
}

func (cm *ConnectionManager) dial() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.connected {
		return nil
	}
	if err := cm.ctx.Err(); err != nil {
		return fmt.Errorf("connection manager stopped: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return err
	}

	cm.conn = conn
	cm.connected = true
	go cm.watch(conn)

	return nil
}

// watch redials after the broker closes the connection, backing off between
// attempts, until the manager itself is closed.
func (cm *ConnectionManager) watch(conn *amqp.Connection) {
	select {
	case err := <-conn.NotifyClose(make(chan *amqp.Error)):
		if err == nil {
			return
		}
		logger.Warning.Println("Event bus connection lost: ", err)
	case <-cm.ctx.Done():
		return
	}

	cm.mu.Lock()
	cm.connected = false
	cm.mu.Unlock()

	for cm.ctx.Err() == nil {
		if err := cm.dial(); err != nil {
			logger.Warning.Println("Event bus redial failed: ", err)
			time.Sleep(cm.redialWait)
			continue
		}
		logger.Info.Println("Event bus reconnected")
		return
	}
}

func (cm *ConnectionManager) GetConnection() *amqp.Connection {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil {
		return nil
	}
	return cm.conn
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connected = false
	if cm.conn == nil {
		return nil
	}

	conn := cm.conn
	cm.conn = nil
	if err := conn.Close(); err != nil {
		return fmt.Errorf("closing broker connection: %w", err)
	}
	return nil
}

func (cm *ConnectionManager) IsClosed() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ctx.Err() != nil || !cm.connected
}
