package rabbitmq_common

import (
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultHeartbeat      = 10 * time.Second
)

// Config - параметры подключения к брокеру.
type Config struct {
	URL            string
	ReconnectDelay time.Duration
	// ConnectionName отображается в панели управления RabbitMQ
	ConnectionName string
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	if !strings.HasPrefix(c.URL, "amqp://") && !strings.HasPrefix(c.URL, "amqps://") {
		return fmt.Errorf("rabbitmq: URL must start with amqp:// or amqps://")
	}
	return nil
}

func (c Config) reconnectDelay() time.Duration {
	if c.ReconnectDelay <= 0 {
		return defaultReconnectDelay
	}
	return c.ReconnectDelay
}

func (c Config) dialConfig() amqp.Config {
	props := amqp.NewConnectionProperties()
	if c.ConnectionName != "" {
		props.SetClientConnectionName(c.ConnectionName)
	}
	return amqp.Config{
		Heartbeat:  defaultHeartbeat,
		Locale:     "en_US",
		Properties: props,
	}
}
