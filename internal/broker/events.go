package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lumina-store/internal/cart"
	"lumina-store/internal/models"
	"lumina-store/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartEventPublisher turns cart changes into cart activity events
type CartEventPublisher struct {
	producer *Producer
	timeout  time.Duration
	logger   *zap.Logger
	wg       sync.WaitGroup
}

// NewCartEventPublisher creates a new cart event publisher
func NewCartEventPublisher(producer *Producer, timeout time.Duration) *CartEventPublisher {
	return &CartEventPublisher{
		producer: producer,
		timeout:  timeout,
		logger:   util.ComponentLogger("broker"),
	}
}

// Listener returns a cart listener that publishes every change in the background
func (ep *CartEventPublisher) Listener() cart.Listener {
	return func(c *cart.Cart, ch cart.Change) {
		event := NewCartEvent(c, ch, time.Now())

		ep.wg.Add(1)
		go func() {
			defer ep.wg.Done()

			ctx, cancel := context.WithTimeout(context.Background(), ep.timeout)
			defer cancel()

			if err := ep.PublishCartEvent(ctx, event); err != nil {
				util.CartEventsPublishedTotal.WithLabelValues("failed").Inc()
				ep.logger.Error("Failed to publish cart event",
					zap.String("event_type", event.EventType),
					zap.String("product_id", event.ProductID),
					zap.Error(err))
				return
			}
			util.CartEventsPublishedTotal.WithLabelValues("published").Inc()
		}()
	}
}

// PublishCartEvent publishes a cart event keyed by product
func (ep *CartEventPublisher) PublishCartEvent(ctx context.Context, event *models.CartEvent) error {
	key := fmt.Sprintf("product-%s", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// Wait blocks until in-flight publishes finish
func (ep *CartEventPublisher) Wait() {
	ep.wg.Wait()
}

// NewCartEvent builds the event for a cart change
func NewCartEvent(c *cart.Cart, ch cart.Change, now time.Time) *models.CartEvent {
	return &models.CartEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType(ch.Kind),
			Timestamp: now,
		},
		ProductID: ch.ProductID,
		Quantity:  ch.Quantity,
		ItemCount: c.ItemCount(),
		CartTotal: c.Total(),
	}
}

func eventType(kind cart.ChangeKind) string {
	switch kind {
	case cart.ChangeAdded:
		return models.EventTypeCartItemAdded
	case cart.ChangeRemoved:
		return models.EventTypeCartItemRemoved
	default:
		return models.EventTypeCartQuantityChanged
	}
}
