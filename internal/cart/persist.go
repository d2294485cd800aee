package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lumina-store/internal/kv"
	"lumina-store/internal/models"
)

// DefaultKey is the slot the cart is stored under
const DefaultKey = "lumina-cart"

// Encode serializes the cart lines as a JSON array
func Encode(c *Cart) (string, error) {
	data, err := json.Marshal(c.Items())
	if err != nil {
		return "", fmt.Errorf("failed to encode cart: %w", err)
	}
	return string(data), nil
}

// Decode parses a serialized cart
func Decode(data string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return items, nil
}

// Load restores the cart stored under key. The returned cart is never nil:
// a missing key gives an empty cart and a nil error, while unreadable or
// malformed content gives an empty cart and an error saying why the stored
// state was discarded.
func Load(ctx context.Context, store kv.Store, key string) (*Cart, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return New(nil), nil
	}
	if err != nil {
		return New(nil), fmt.Errorf("failed to read cart %s: %w", key, err)
	}

	items, err := Decode(data)
	if err != nil {
		return New(nil), err
	}
	return New(items), nil
}

// Save writes the full cart under key
func Save(ctx context.Context, store kv.Store, key string, c *Cart) error {
	data, err := Encode(c)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write cart %s: %w", key, err)
	}
	return nil
}
