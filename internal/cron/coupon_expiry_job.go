package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/brightcart/storefront-backend/pkg/logger"
)

type couponExpiryRepo interface {
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// CouponExpiryJobParams configure the coupon expiry sweep.
type CouponExpiryJobParams struct {
	Logger     *logger.Logger
	Repository couponExpiryRepo
}

// NewCouponExpiryJob deactivates coupons whose redemption window has closed.
func NewCouponExpiryJob(params CouponExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("coupon repository required")
	}
	return &couponExpiryJob{
		logg: params.Logger,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type couponExpiryJob struct {
	logg *logger.Logger
	repo couponExpiryRepo
	now  func() time.Time
}

func (j *couponExpiryJob) Name() string { return "coupon-expiry" }

func (j *couponExpiryJob) Run(ctx context.Context) error {
	deactivated, err := j.repo.DeactivateExpired(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("coupon expiry: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "deactivated", deactivated)
	j.logg.Info(logCtx, "expired coupons deactivated")
	return nil
}
