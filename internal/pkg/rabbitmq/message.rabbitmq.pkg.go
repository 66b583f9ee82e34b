package rabbitmq

import (
	"encoding/json"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is one event on its way to the broker. Payloads are JSON, the id
// travels both as MessageId and as a header so consumers on either
// convention can deduplicate.
type Message struct {
	ID        string
	Body      []byte
	Headers   amqp.Table
	Timestamp time.Time
}

func NewMessage(payload interface{}, headers *amqp.Table) (*Message, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	table := amqp.Table{}
	if headers != nil {
		table = *headers
	}

	return &Message{
		ID:        "msg-" + id,
		Body:      body,
		Headers:   table,
		Timestamp: time.Now(),
	}, nil
}

func (m *Message) publishing() *amqp.Publishing {
	m.Headers["id"] = m.ID

	return &amqp.Publishing{
		ContentType:  "application/json",
		Body:         m.Body,
		MessageId:    m.ID,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}
