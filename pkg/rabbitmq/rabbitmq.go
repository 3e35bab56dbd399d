package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// Defaults for the event topology.
const (
	DefaultExchange = "akun.events"
	DefaultQueue    = "akun_events"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	queue    string
	logger   *logrus.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// Event is the envelope of every published message.
type Event struct {
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// NewEvent wraps payload in an Event stamped with the current time.
func NewEvent(eventType string, payload interface{}) Event {
	return Event{Type: eventType, OccurredAt: time.Now().UTC(), Data: payload}
}

// NewClient connects to RabbitMQ, declares a durable topic exchange and binds
// the event queue to every routing key.
func NewClient(cfg Config, logger *logrus.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{"exchange": cfg.Exchange, "queue": cfg.Queue}).Info("RabbitMQ client connected")

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		queue:    cfg.Queue,
		logger:   logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Queue, err)
	}
	if err := ch.QueueBind(cfg.Queue, "#", cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", cfg.Queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the event exchange.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	err := c.channel.Publish(c.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishEvent wraps payload in an Event and publishes it under routingKey.
func (c *Client) PublishEvent(routingKey string, payload interface{}) error {
	body, err := json.Marshal(NewEvent(routingKey, payload))
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", routingKey, err)
	}
	if err := c.Publish(routingKey, body); err != nil {
		return err
	}
	c.logger.WithField("routing_key", routingKey).Debug("event published")
	return nil
}

// ConsumeEvents delivers messages from the event queue to messageHandler in a
// background goroutine. A nil return acks the message. An error nacks it and
// requeues it once; a redelivered message that fails again is dropped.
func (c *Client) ConsumeEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			log := c.logger.WithFields(logrus.Fields{"delivery_tag": msg.DeliveryTag, "routing_key": msg.RoutingKey})
			if err := messageHandler(msg); err != nil {
				log.WithError(err).WithField("redelivered", msg.Redelivered).Warn("event handler failed")
				if nackErr := msg.Nack(false, !msg.Redelivered); nackErr != nil {
					log.WithError(nackErr).Error("nack failed")
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.WithError(ackErr).Error("ack failed")
			}
		}
	}()

	return nil
}

// LogEvent returns a handler that decodes each message as an Event and logs it.
func LogEvent(logger *logrus.Logger) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var ev Event
		if err := json.Unmarshal(msg.Body, &ev); err != nil {
			return fmt.Errorf("failed to decode event: %w", err)
		}
		logger.WithFields(logrus.Fields{"type": ev.Type, "occurred_at": ev.OccurredAt}).Info("event received")
		return nil
	}
}
