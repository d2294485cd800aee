package broker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"lumina-store/internal/cart"
	"lumina-store/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func (w *recordingWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...)
}

var sofa = models.Product{ID: "1", Name: "Sofa", Category: models.CategoryLivingRoom, Price: 899, DiscountPrice: models.Price(749)}

func TestCartEventPublisherListener(t *testing.T) {
	writer := &recordingWriter{}
	publisher := NewCartEventPublisher(NewProducerWithWriter(writer), time.Second)

	c := cart.New(nil)
	c.Subscribe(publisher.Listener())

	c.Add(sofa)
	c.UpdateQuantity("1", 2)
	c.Remove("1")
	publisher.Wait()

	msgs := writer.messages()
	require.Len(t, msgs, 3)

	types := map[string]models.CartEvent{}
	for _, msg := range msgs {
		assert.Equal(t, "product-1", string(msg.Key))

		var event models.CartEvent
		require.NoError(t, json.Unmarshal(msg.Value, &event))
		assert.NotEmpty(t, event.EventID)
		types[event.EventType] = event
	}

	require.Contains(t, types, models.EventTypeCartItemAdded)
	require.Contains(t, types, models.EventTypeCartQuantityChanged)
	require.Contains(t, types, models.EventTypeCartItemRemoved)

	assert.Equal(t, 3, types[models.EventTypeCartQuantityChanged].Quantity)
	assert.Equal(t, 3*749.0, types[models.EventTypeCartQuantityChanged].CartTotal)
	assert.Equal(t, 0, types[models.EventTypeCartItemRemoved].ItemCount)
}

func TestPublishFailureDoesNotAffectCart(t *testing.T) {
	writer := &recordingWriter{err: errors.New("broker down")}
	publisher := NewCartEventPublisher(NewProducerWithWriter(writer), time.Second)

	c := cart.New(nil)
	c.Subscribe(publisher.Listener())
	c.Add(sofa)
	publisher.Wait()

	assert.Equal(t, 1, c.ItemCount())
	assert.Empty(t, writer.messages())
}

func TestNewCartEvent(t *testing.T) {
	c := cart.New(nil)
	ch := c.Add(sofa)
	now := time.Now()

	event := NewCartEvent(c, ch, now)
	assert.Equal(t, models.EventTypeCartItemAdded, event.EventType)
	assert.Equal(t, "1", event.ProductID)
	assert.Equal(t, 1, event.Quantity)
	assert.Equal(t, 1, event.ItemCount)
	assert.Equal(t, 749.0, event.CartTotal)
	assert.Equal(t, now, event.Timestamp)
}
