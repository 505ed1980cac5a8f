package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/amiyamandal-dev/newscms/internal/domain"
	"github.com/amiyamandal-dev/newscms/pkg/logger"
)

// Article lifecycle event names
const (
	ArticleCreated = "article.created"
	ArticleUpdated = "article.updated"
	ArticleDeleted = "article.deleted"
)

// ArticleEventMessage is the wire payload for article lifecycle events
type ArticleEventMessage struct {
	Event     string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Article   domain.Article `json:"article"`
}

// PublishingChannel abstracts the AMQP channel for testing
type PublishingChannel interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
	Close() error
}

// RabbitPublisher publishes article lifecycle events on a topic exchange
type RabbitPublisher struct {
	conn       *amqp.Connection
	ch         PublishingChannel
	exchange   string
	routingKey string
	logger     *logger.Logger
}

// NewRabbitPublisher connects to RabbitMQ and declares the topic exchange
func NewRabbitPublisher(uri, exchange, routingKey string, log *logger.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq connection failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel creation failed: %w", err)
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("exchange declare failed: %w", err)
	}

	return &RabbitPublisher{
		conn:       conn,
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     log.WithComponent("event-publisher"),
	}, nil
}

// Close releases the channel and connection
func (p *RabbitPublisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishArticleEvent publishes one lifecycle event for an article
func (p *RabbitPublisher) PublishArticleEvent(ctx context.Context, event string, article *domain.Article) error {
	body, err := json.Marshal(ArticleEventMessage{
		Event:     event,
		Timestamp: time.Now().UTC(),
		Article:   *article,
	})
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(
		ctx,
		p.exchange,
		p.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
}
