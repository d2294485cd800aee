package models

import "time"

// Event types
const (
	EventTypeCartItemAdded       = "CART_ITEM_ADDED"
	EventTypeCartItemRemoved     = "CART_ITEM_REMOVED"
	EventTypeCartQuantityChanged = "CART_QUANTITY_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartEvent published after every cart mutation
type CartEvent struct {
	BaseEvent
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	ItemCount int     `json:"item_count"`
	CartTotal float64 `json:"cart_total"`
}
