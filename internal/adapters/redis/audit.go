package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AuditTrail appends onboarding events onto a capped Redis stream so
// registrations and compensations can be traced after the fact.
type AuditTrail struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

func NewAuditTrail(rdb *redis.Client, stream string, maxLen int64) *AuditTrail {
	return &AuditTrail{
		rdb:    rdb,
		stream: stream,
		maxLen: maxLen,
	}
}

func (a *AuditTrail) Record(ctx context.Context, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("audit marshal failed: %w", err)
	}

	err = a.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: a.stream,
		Values: map[string]any{
			"kind": kind,
			"data": data,
		},
		MaxLen: a.maxLen,
		Approx: true,
	}).Err()
	if err != nil {
		return fmt.Errorf("audit xadd failed: %w", err)
	}

	return nil
}
