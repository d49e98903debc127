package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"hotel-reservation/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	quoteKeyPrefix     = "quote:"
	quoteGenerationKey = "quotes:generation"
)

// QuoteCache keeps computed quotes in Redis. A nil *QuoteCache, or one
// without a client, is a valid cache that never hits.
//
// Entries carry a version built from the reservation's UpdatedAt and the
// catalogue generation, so a quote computed before a concurrent change is
// never served after it.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

type cachedQuote struct {
	Version string       `json:"version"`
	Quote   models.Quote `json:"quote"`
}

func NewQuoteCache(client *redis.Client, ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QuoteCache{client: client, ttl: ttl}
}

func (c *QuoteCache) enabled() bool {
	return c != nil && c.client != nil
}

func quoteKey(publicID uuid.UUID) string {
	return quoteKeyPrefix + publicID.String()
}

func quoteVersion(updatedAt time.Time, generation int64) string {
	return fmt.Sprintf("%d.%d", updatedAt.UnixNano(), generation)
}

func decodeQuote(raw []byte, version string) (models.Quote, bool, error) {
	var entry cachedQuote
	if err := json.Unmarshal(raw, &entry); err != nil {
		return models.Quote{}, false, err
	}
	if entry.Version != version {
		return models.Quote{}, false, nil
	}
	return entry.Quote, true, nil
}

// Generation returns the catalogue generation. InvalidateAll bumps it.
func (c *QuoteCache) Generation(ctx context.Context) int64 {
	if !c.enabled() {
		return 0
	}
	n, err := c.client.Get(ctx, quoteGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		log.Printf("quote-cache: generation: %v", err)
	}
	return n
}

// Get returns the cached quote when its version matches.
func (c *QuoteCache) Get(ctx context.Context, publicID uuid.UUID, version string) (models.Quote, bool) {
	if !c.enabled() {
		return models.Quote{}, false
	}
	raw, err := c.client.Get(ctx, quoteKey(publicID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("quote-cache: get %s: %v", publicID, err)
		}
		return models.Quote{}, false
	}
	q, ok, err := decodeQuote(raw, version)
	if err != nil {
		log.Printf("quote-cache: decode %s: %v", publicID, err)
	}
	return q, ok
}

func (c *QuoteCache) Set(ctx context.Context, publicID uuid.UUID, version string, q models.Quote) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(cachedQuote{Version: version, Quote: q})
	if err != nil {
		log.Printf("quote-cache: encode %s: %v", publicID, err)
		return
	}
	if err := c.client.Set(ctx, quoteKey(publicID), raw, c.ttl).Err(); err != nil {
		log.Printf("quote-cache: set %s: %v", publicID, err)
	}
}

func (c *QuoteCache) Invalidate(ctx context.Context, publicID uuid.UUID) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, quoteKey(publicID)).Err(); err != nil {
		log.Printf("quote-cache: del %s: %v", publicID, err)
	}
}

// InvalidateAll drops every cached quote. Used when hotel, room or extra
// prices change.
func (c *QuoteCache) InvalidateAll(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Incr(ctx, quoteGenerationKey).Err(); err != nil {
		log.Printf("quote-cache: bump generation: %v", err)
	}
	iter := c.client.Scan(ctx, 0, quoteKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("quote-cache: del %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("quote-cache: scan: %v", err)
	}
}
