package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
)

// Details is the transient shipping capture tied to a cart owner. Every
// field except UserID is mandatory; validation stops at the first empty
// field. UserID carries the authenticated user resolved from the session,
// empty for anonymous shoppers.
type Details struct {
	UserID     string `json:"userId,omitempty"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type redisClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type shippingKeyer interface {
	ShippingDetailsKey(owner string) string
}

// Service persists validated shipping details for the checkout window.
type Service interface {
	Save(ctx context.Context, owner string, details Details) error
	Get(ctx context.Context, owner string) (Details, error)
	Clear(ctx context.Context, owner string) error
}

type service struct {
	kv    redisClient
	keyer shippingKeyer
	ttl   time.Duration
}

// NewService builds a shipping details service with the provided TTL.
func NewService(kv redisClient, keyer shippingKeyer, ttl time.Duration) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("key builder required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("shipping details ttl must be positive")
	}
	return &service{kv: kv, keyer: keyer, ttl: ttl}, nil
}

// Validate checks mandatory fields in declaration order and returns the
// first failure. Nothing is persisted on failure.
func (d Details) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", d.FirstName},
		{"lastName", d.LastName},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"postalCode", d.PostalCode},
		{"country", d.Country},
		{"phone", d.Phone},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, f.name+" is required")
		}
	}
	return nil
}

func (s *service) Save(ctx context.Context, owner string, details Details) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if err := details.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(details)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode shipping details")
	}
	if err := s.kv.Set(ctx, s.keyer.ShippingDetailsKey(owner), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store shipping details")
	}
	return nil
}

func (s *service) Get(ctx context.Context, owner string) (Details, error) {
	if strings.TrimSpace(owner) == "" {
		return Details{}, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	raw, err := s.kv.Get(ctx, s.keyer.ShippingDetailsKey(owner))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return Details{}, pkgerrors.New(pkgerrors.CodeNotFound, "shipping details not found")
		}
		return Details{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipping details")
	}

	var details Details
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return Details{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode shipping details")
	}
	return details, nil
}

func (s *service) Clear(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}
	if err := s.kv.Del(ctx, s.keyer.ShippingDetailsKey(owner)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear shipping details")
	}
	return nil
}
