// Package watcher refreshes the cached order when the backend
// publishes a status-change event, instead of polling. The event is
// only a trigger: the watcher re-fetches the order through the order
// store, so the fetched server state stays authoritative.
package watcher

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/dummassdenzel/Mubu/internal/domain"
)

// OrderSource is the slice of the order store the watcher needs.
type OrderSource interface {
	Current() *domain.Order
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}

// Reader is satisfied by *kafka.Reader.
type Reader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Watcher struct {
	orders OrderSource
	reader Reader
}

func New(orders OrderSource, brokers []string, topic string) *Watcher {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  "storefront-client",
		MaxBytes: 10e6, // 10MB
	})
	return &Watcher{orders: orders, reader: reader}
}

// NewWithReader wires an explicit reader, for tests.
func NewWithReader(orders OrderSource, reader Reader) *Watcher {
	return &Watcher{orders: orders, reader: reader}
}

func (w *Watcher) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		w.consumeOne(ctx)
	}
}

func (w *Watcher) Close() {
	if err := w.reader.Close(); err != nil {
		log.Printf("error closing reader: %v", err)
	}
}

type statusEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

func (w *Watcher) consumeOne(ctx context.Context) {
	m, err := w.reader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("error reading message: %v", err)
		}
		return
	}

	var ev statusEvent
	if err := json.Unmarshal(m.Value, &ev); err != nil {
		log.Printf("error parsing message: %v", err)
		return
	}

	current := w.orders.Current()
	if current == nil || current.ID != ev.OrderID {
		return // not the order this session is watching
	}

	if _, err := w.orders.GetOrder(ctx, ev.OrderID); err != nil {
		log.Printf("order refresh error: %v", err)
	}
}
