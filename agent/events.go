package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/foodiesthlm/foodie-backend/config"
	"github.com/foodiesthlm/foodie-backend/models"
	"github.com/nats-io/nats.go"
)

// OrderEvent is published on every order creation and status change. The
// notifier service consumes these.
type OrderEvent struct {
	OrderID uint64             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  models.OrderStatus `json:"status"`
	Total   float64            `json:"total"`
	At      time.Time          `json:"at"`
}

type NatsClient struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	cfg  *config.Nats
}

func NewNatsClient(cfg *config.Nats) (*NatsClient, error) {
	nc, err := nats.Connect(cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.RestaurantsSubject, cfg.MenuItemsSubject, cfg.OrdersSubject},
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return nil, err
	}

	return &NatsClient{conn: nc, js: js, cfg: cfg}, nil
}

func (c *NatsClient) Close() {
	c.conn.Close()
}

func (c *NatsClient) PublishOrderEvent(event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = c.js.PublishAsync(c.cfg.OrdersSubject, data)
	return err
}

// OnMenuChange invokes fn whenever a menu or profile change event arrives.
// Used to drop the cached menu context.
func (c *NatsClient) OnMenuChange(fn func()) error {
	for _, subject := range []string{c.cfg.MenuItemsSubject, c.cfg.RestaurantsSubject} {
		if _, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
			fn()
		}); err != nil {
			return err
		}
	}

	return nil
}
