package mqtt

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type Client struct {
	client mqtt.Client
}

type Config struct {
	URL      string
	ClientID string
	Username string
	Password string
}

type IMqtt interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler)
	Publish(topic string, qos byte, retained bool, payload interface{}) error
	Close()
}
