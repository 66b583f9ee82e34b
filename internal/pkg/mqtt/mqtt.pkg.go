package mqtt

import (
	"encoding/json"
	"uploadkit-go/internal/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func Setup(config *Config) (IMqtt, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(config.URL)
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Username)
	opts.SetPassword(config.Password)
	opts.OnConnect = func(client mqtt.Client) {
		logger.Info.Println("Connected to mqtt broker")
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Error.Printf("Connection lost: %v\n", err)
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Error.Printf("Failed to connect to broker: %v\n", token.Error())
		return nil, token.Error()
	}

	return &Client{client}, nil
}

func (m *Client) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) {
	if token := m.client.Subscribe(topic, qos, callback); token.Wait() && token.Error() != nil {
		logger.Error.Printf("Failed to subscribe to topic: %v\n", token.Error())
	}
}

func (m *Client) Publish(topic string, qos byte, retained bool, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	token := m.client.Publish(topic, qos, retained, data)
	token.Wait()
	return token.Error()
}

func (m *Client) Close() {
	m.client.Disconnect(250)
}
