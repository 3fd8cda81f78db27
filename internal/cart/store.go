package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// Store is the single persistence surface for cart contents. Every write
// replaces the owner's cart wholesale; concurrent writers are last-write-wins.
type Store interface {
	Get(ctx context.Context, owner string) ([]LineItem, error)
	Set(ctx context.Context, owner string, items []LineItem) error
	Clear(ctx context.Context, owner string) error
}

type cartKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type cartKeyer interface {
	CartKey(owner string) string
}

// RedisStore persists carts as JSON blobs keyed by owner.
type RedisStore struct {
	kv    cartKV
	keyer cartKeyer
	ttl   time.Duration
}

type redisClient interface {
	cartKV
	cartKeyer
}

// NewRedisStore builds the production cart store.
func NewRedisStore(client redisClient, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{kv: client, keyer: client, ttl: ttl}, nil
}

// Get loads and normalizes the owner's line items. A missing key is an empty cart.
func (s *RedisStore) Get(ctx context.Context, owner string) ([]LineItem, error) {
	raw, err := s.kv.Get(ctx, s.keyer.CartKey(owner))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return []LineItem{}, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return decodeLineItems([]byte(raw))
}

// Set replaces the owner's cart in full.
func (s *RedisStore) Set(ctx context.Context, owner string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return s.kv.Set(ctx, s.keyer.CartKey(owner), payload, s.ttl)
}

// Clear deletes the owner's cart key.
func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	return s.kv.Del(ctx, s.keyer.CartKey(owner))
}

// storedLineItem tolerates price and quantity serialized as strings by older
// writers; all coercion to numeric types happens here, at the store boundary.
type storedLineItem struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceCents flexInt   `json:"unit_price_cents"`
	ImageURL       *string   `json:"image_url,omitempty"`
	Quantity       flexInt   `json:"quantity"`
}

func decodeLineItems(raw []byte) ([]LineItem, error) {
	var stored []storedLineItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}

	items := make([]LineItem, 0, len(stored))
	for _, rec := range stored {
		if rec.Quantity < 1 {
			continue
		}
		items = append(items, LineItem{
			ProductID:      rec.ProductID,
			Name:           rec.Name,
			UnitPriceCents: int(rec.UnitPriceCents),
			ImageURL:       rec.ImageURL,
			Quantity:       int(rec.Quantity),
		})
	}
	return items, nil
}

// flexInt decodes JSON numbers and numeric strings alike.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		var str string
		if strErr := json.Unmarshal(data, &str); strErr != nil {
			return err
		}
		num = json.Number(str)
	}
	value, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		// tolerate decimal representations like "10.00", but only when the
		// fractional part is zero; truncating real fractions would corrupt
		// cents values
		fv, fErr := num.Float64()
		if fErr != nil {
			return fmt.Errorf("parse numeric field %q: %w", num.String(), err)
		}
		if fv != math.Trunc(fv) {
			return fmt.Errorf("numeric field %q has a fractional part", num.String())
		}
		value = int64(fv)
	}
	*f = flexInt(value)
	return nil
}
