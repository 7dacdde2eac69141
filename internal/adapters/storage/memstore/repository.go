package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"payment-gateway/internal/core/domain"
)

// DefaultTTL is the retention window for stored payments.
const DefaultTTL = 12 * time.Hour

const sweepInterval = 10 * time.Minute

type entry struct {
	payment   domain.Payment
	expiresAt time.Time
}

// Repository is the in-memory implementation of the PaymentRepository port.
// Entries carry an absolute deadline set at creation; reads treat expired
// entries as absent, and a background sweeper reclaims them. A single
// mutex-guarded map is enough at this scale.
type Repository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
	ttl     time.Duration

	now func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

// NewRepository creates a repository whose entries live for ttl.
func NewRepository(ttl time.Duration) *Repository {
	r := &Repository{
		entries: make(map[uuid.UUID]entry),
		ttl:     ttl,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Create inserts the payment under its own identifier with a fresh deadline.
func (r *Repository) Create(_ context.Context, payment domain.Payment) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[payment.ID] = entry{payment: payment, expiresAt: r.now().Add(r.ttl)}
	return payment.ID, nil
}

// Get returns the stored payment, or ErrPaymentNotFound when the identifier
// is unknown or its deadline has passed.
func (r *Repository) Get(_ context.Context, id uuid.UUID) (domain.Payment, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok || r.now().After(e.expiresAt) {
		return domain.Payment{}, domain.ErrPaymentNotFound
	}
	return e.payment, nil
}

// UpdateStatus replaces only the status field under the store's write lock.
// The entry's original deadline is kept: an update never extends a record's
// life past its creation window.
func (r *Repository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.PaymentStatus) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok || r.now().After(e.expiresAt) {
		return uuid.Nil, domain.ErrPaymentNotFound
	}
	e.payment.Status = status
	r.entries[id] = e
	return id, nil
}

// Close stops the background sweeper.
func (r *Repository) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *Repository) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := r.now()
			r.mu.Lock()
			for id, e := range r.entries {
				if now.After(e.expiresAt) {
					delete(r.entries, id)
				}
			}
			r.mu.Unlock()
		case <-r.done:
			return
		}
	}
}
