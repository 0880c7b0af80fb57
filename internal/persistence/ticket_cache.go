package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
)

const ticketCachePrefix = "ticket:"

// TicketCache is a read-through cache for ticket aggregates. Misses and
// cache failures are soft: callers fall back to the store.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTicketCache builds a cache; a nil client or zero TTL disables it.
func NewTicketCache(r *Redis, ttl time.Duration) *TicketCache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return &TicketCache{}
	}
	return &TicketCache{client: r.Client, ttl: ttl}
}

// Get returns the cached ticket, or (nil, false) on miss or error.
func (c *TicketCache) Get(ctx context.Context, ticketID string) (*domain.Ticket, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, ticketCachePrefix+ticketID).Bytes()
	if err != nil {
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, false
	}
	return &ticket, true
}

// Set stores the ticket with the configured TTL.
func (c *TicketCache) Set(ctx context.Context, ticket *domain.Ticket) {
	if c.client == nil || ticket == nil {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, ticketCachePrefix+ticket.ID, raw, c.ttl).Err()
}

// Invalidate drops the cached entry after a mutation.
func (c *TicketCache) Invalidate(ctx context.Context, ticketID string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, ticketCachePrefix+ticketID).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return
	}
}
