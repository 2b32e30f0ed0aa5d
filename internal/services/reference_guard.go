package services

import (
	"context"
	"time"

	"github.com/ayushi2311/loyalty-rewards-api/pkg/logger"
	"github.com/ayushi2311/loyalty-rewards-api/pkg/redis"
)

const (
	referenceKeyPrefix = "ref:"
	referenceTTL       = 24 * time.Hour
)

// ReferenceGuard deduplicates earning requests that carry a reference id.
// It is advisory: if redis is unavailable the caller proceeds and relies
// on the ledger itself. A failed credit releases the marker so the caller
// can retry with the same reference.
type ReferenceGuard struct {
	redis redis.RedisAdapter
}

func NewReferenceGuard(redisAdapter redis.RedisAdapter) *ReferenceGuard {
	return &ReferenceGuard{redis: redisAdapter}
}

// Acquire claims the reference id. Returns false when another request
// already claimed it within the TTL.
func (g *ReferenceGuard) Acquire(ctx context.Context, referenceID string) (bool, error) {
	key := referenceKeyPrefix + referenceID
	acquired, err := g.redis.SetNX(key, []byte("1"), referenceTTL)
	if err != nil {
		logger.Warn("reference guard unavailable, proceeding without dedup", "reference_id", referenceID, "error", err)
		return true, err
	}
	return acquired, nil
}

// Release frees the reference id after a failed credit.
func (g *ReferenceGuard) Release(ctx context.Context, referenceID string) {
	key := referenceKeyPrefix + referenceID
	if err := g.redis.Del(key); err != nil {
		logger.Warn("failed to release reference marker", "reference_id", referenceID, "error", err)
	}
}
