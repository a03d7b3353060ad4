package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ordersExchange  = "orders"
	orderPlacedKey  = "order.placed"
	publishDeadline = 5 * time.Second
)

// OrderNotifier is the optional hook fired after an order is placed.
// Implementations must not fail the request path.
type OrderNotifier interface {
	NotifyOrderPlaced(notification OrderNotification)
}

// OrderNotification carries the order data published after checkout.
type OrderNotification struct {
	OrderID   string                  `json:"order_id"`
	UserID    string                  `json:"user_id"`
	Items     []OrderItemNotification `json:"items"`
	Total     float64                 `json:"total"`
	OrderDate time.Time               `json:"order_date"`
}

// OrderItemNotification is one line of a published order.
type OrderItemNotification struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// RabbitNotifier publishes order events to a topic exchange.
type RabbitNotifier struct {
	channel *amqp.Channel
}

// NewRabbitNotifier connects to RabbitMQ and declares the orders exchange.
// An empty URL returns a nil notifier, which disables the hook.
func NewRabbitNotifier(url string) (*RabbitNotifier, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}

	return &RabbitNotifier{channel: ch}, nil
}

// NotifyOrderPlaced publishes an order.placed event. Failures are logged
// only: the order is already committed and the hook must not undo that.
func (n *RabbitNotifier) NotifyOrderPlaced(notification OrderNotification) {
	if n == nil {
		return
	}

	body, err := json.Marshal(notification)
	if err != nil {
		log.Printf("[Notifier] Failed to encode order %s: %v", notification.OrderID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishDeadline)
	defer cancel()

	err = n.channel.PublishWithContext(ctx, ordersExchange, orderPlacedKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
	if err != nil {
		log.Printf("[Notifier] Failed to publish order %s: %v", notification.OrderID, err)
	}
}
