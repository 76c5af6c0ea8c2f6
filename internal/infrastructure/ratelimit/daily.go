package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Daily allows at most limit actions per key per UTC day.
type Daily struct {
	rdb    *redis.Client
	prefix string
	limit  int
	now    func() time.Time
}

func NewDaily(rdb *redis.Client, prefix string, limit int) *Daily {
	return &Daily{rdb: rdb, prefix: prefix, limit: limit, now: time.Now}
}

// Allow records one action for key, returning domain.ErrRateLimited once the
// day's budget is spent.
func (d *Daily) Allow(ctx context.Context, key string) error {
	now := d.now().UTC()
	bucket := fmt.Sprintf("%s:%s:%s", d.prefix, key, now.Format("2006-01-02"))

	pipe := d.rdb.TxPipeline()
	incr := pipe.Incr(ctx, bucket)
	pipe.Expire(ctx, bucket, 25*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("rate limit %s: %w", d.prefix, err)
	}
	if incr.Val() > int64(d.limit) {
		return domain.ErrRateLimited
	}
	return nil
}
