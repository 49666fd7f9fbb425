package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"qwiksale-search-service/internal/contracts"
	"qwiksale-search-service/internal/core/port"
)

// SearchEventsProducer publishes search.performed analytics events to a
// topic exchange. Strictly fire-and-forget from the request's point of
// view: the caller logs publish failures and moves on.
type SearchEventsProducer struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     port.LoggerPort
}

type ProducerConfig struct {
	URL        string
	Exchange   string
	RoutingKey string
}

func NewSearchEventsProducer(cfg ProducerConfig, logger port.LoggerPort) (*SearchEventsProducer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("rabbitmq url is required")
	}
	if cfg.Exchange == "" || cfg.RoutingKey == "" {
		return nil, fmt.Errorf("exchange and routing key are required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info("Search events producer initialized", port.Fields{
		"exchange":    cfg.Exchange,
		"routing_key": cfg.RoutingKey,
	})
	return &SearchEventsProducer{
		connection: conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger,
	}, nil
}

func (p *SearchEventsProducer) PublishSearchPerformed(ctx context.Context, event port.SearchEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal search event: %w", err)
	}

	// Malformed events stop here instead of reaching consumers.
	if err := contracts.ValidateSearchEvent(body); err != nil {
		return fmt.Errorf("search event failed contract validation: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish search event: %w", err)
	}
	return nil
}

func (p *SearchEventsProducer) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("Error closing AMQP channel", port.Fields{"error": err.Error()})
		}
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}
