package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SummaryCache caches aggregation results in redis. The aggregates are
// always recomputable from the transaction log, so a cache failure is never
// fatal: readers fall through to a fresh fold and writers only lose a hint.
// Every mutating service invalidates the keys it touches.
type SummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{redis: client, ttl: ttl}
}

func memberKey(memberID uuid.UUID) string {
	return fmt.Sprintf("summary:member:%s", memberID)
}

func loanKey(loanID uuid.UUID) string {
	return fmt.Sprintf("summary:loan:%s", loanID)
}

func juntaKey(juntaID uuid.UUID) string {
	return fmt.Sprintf("summary:junta:%s", juntaID)
}

func (c *SummaryCache) get(ctx context.Context, key string, out interface{}) bool {
	if c == nil || c.redis == nil {
		return false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (c *SummaryCache) set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.redis == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, raw, c.ttl)
}

func (c *SummaryCache) invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil {
		return
	}
	c.redis.Del(ctx, keys...)
}

// InvalidateMember drops the member's cached summary.
func (c *SummaryCache) InvalidateMember(ctx context.Context, memberID uuid.UUID) {
	c.invalidate(ctx, memberKey(memberID))
}

// InvalidateLoan drops the loan's cached status together with its owner's
// summary.
func (c *SummaryCache) InvalidateLoan(ctx context.Context, loanID, memberID uuid.UUID) {
	c.invalidate(ctx, loanKey(loanID), memberKey(memberID))
}

// InvalidateJunta drops the junta's cached balances.
func (c *SummaryCache) InvalidateJunta(ctx context.Context, juntaID uuid.UUID) {
	c.invalidate(ctx, juntaKey(juntaID))
}
