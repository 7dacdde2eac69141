package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"payment-gateway/internal/core/domain"
)

// NewClient creates and tests a new connection to Redis.
func NewClient(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}

// storedPayment is the JSON shape of a payment inside Redis. The domain
// model stays tag-free.
type storedPayment struct {
	ID                 uuid.UUID            `json:"id"`
	Status             domain.PaymentStatus `json:"status"`
	CardNumberLastFour string               `json:"card_number_last_four"`
	ExpiryMonth        int                  `json:"expiry_month"`
	ExpiryYear         int                  `json:"expiry_year"`
	Currency           string               `json:"currency"`
	Amount             int64                `json:"amount"`
	CreatedAt          time.Time            `json:"created_at"`
}

func toStored(p domain.Payment) storedPayment {
	return storedPayment(p)
}

func fromStored(s storedPayment) domain.Payment {
	return domain.Payment(s)
}

// Repository is a Redis implementation of the PaymentRepository port.
// Expiry is delegated to Redis via key TTLs.
type Repository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRepository creates a repository whose keys live for ttl.
func NewRepository(rdb *redis.Client, ttl time.Duration) *Repository {
	return &Repository{rdb: rdb, ttl: ttl}
}

func paymentKey(id uuid.UUID) string {
	return "payment:" + id.String()
}

// Create stores the payment as JSON with the retention TTL.
func (r *Repository) Create(ctx context.Context, payment domain.Payment) (uuid.UUID, error) {
	payload, err := json.Marshal(toStored(payment))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal payment: %w", err)
	}

	if err := r.rdb.Set(ctx, paymentKey(payment.ID), payload, r.ttl).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("redis SET failed: %w", err)
	}
	return payment.ID, nil
}

// Get returns the stored payment, or ErrPaymentNotFound when the key is
// absent or already expired.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	payload, err := r.rdb.Get(ctx, paymentKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	if err != nil {
		return domain.Payment{}, fmt.Errorf("redis GET failed: %w", err)
	}

	var stored storedPayment
	if err := json.Unmarshal(payload, &stored); err != nil {
		return domain.Payment{}, fmt.Errorf("failed to unmarshal payment %s: %w", id, err)
	}
	return fromStored(stored), nil
}

// UpdateStatus rewrites the record with only the status changed, inside a
// WATCH transaction so concurrent updates of the same key cannot be lost.
// KEEPTTL preserves the remaining retention window: an update never extends
// a record's life.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus) (uuid.UUID, error) {
	key := paymentKey(id)

	err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}

		var stored storedPayment
		if err := json.Unmarshal(payload, &stored); err != nil {
			return fmt.Errorf("failed to unmarshal payment %s: %w", id, err)
		}
		stored.Status = status

		updated, err := json.Marshal(stored)
		if err != nil {
			return fmt.Errorf("failed to marshal payment %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.Nil) {
		return uuid.Nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("redis update failed: %w", err)
	}
	return id, nil
}
