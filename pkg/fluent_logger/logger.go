package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config хранит конфигурацию для подключения к Fluent Bit.
type Config struct {
	Host string // "127.0.0.1" или "fluent-bit" в Docker
	Port int    // обычно 24224

	// Async - записи буферизуются и отправляются в фоне, запрос не ждет Fluent Bit.
	Async        bool
	Timeout      time.Duration
	WriteTimeout time.Duration
	BufferLimit  int
}

// NewClient создает клиента Fluent Bit. Теги формирует адаптер логгера.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, fmt.Errorf("fluent bit host and port are required")
	}

	client, err := fluent.New(fluent.Config{
		FluentHost:         cfg.Host,
		FluentPort:         cfg.Port,
		Async:              cfg.Async,
		Timeout:            cfg.Timeout,
		WriteTimeout:       cfg.WriteTimeout,
		BufferLimit:        cfg.BufferLimit,
		SubSecondPrecision: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent bit client: %w", err)
	}

	// Соединение не проверяется: ошибки появятся при первой отправке,
	// а в режиме Async - только в фоне.
	return client, nil
}
