package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/qrdine/qrdine-backend/pkg/logger"
)

const defaultPlacedTTL = 2 * time.Hour

type orderExpirer interface {
	ExpireStalePlacedOrders(ctx context.Context, cutoff time.Time) (int, error)
}

// OrderExpiryJobParams configure the stale-order expiry job.
type OrderExpiryJobParams struct {
	Logger *logger.Logger
	Orders orderExpirer
	TTL    time.Duration
}

// NewOrderExpiryJob cancels orders stuck in placed beyond the TTL.
func NewOrderExpiryJob(params OrderExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultPlacedTTL
	}
	return &orderExpiryJob{
		logg:   params.Logger,
		orders: params.Orders,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type orderExpiryJob struct {
	logg   *logger.Logger
	orders orderExpirer
	ttl    time.Duration
	now    func() time.Time
}

func (j *orderExpiryJob) Name() string { return "order-expiry" }

func (j *orderExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	expired, err := j.orders.ExpireStalePlacedOrders(ctx, cutoff)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"orders_expired": expired,
	})
	if err != nil {
		// Some orders may still have been cancelled before the failure.
		return fmt.Errorf("order expiry (%d expired): %w", expired, err)
	}
	j.logg.Info(logCtx, "order expiry complete")
	return nil
}
