package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/brightcart/storefront-backend/pkg/logger"
)

const defaultGuestCartMaxAge = 30 * 24 * time.Hour

type guestCartPurgeRepo interface {
	PurgeGuestOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// GuestCartPurgeJobParams configure the stale guest cart sweep.
type GuestCartPurgeJobParams struct {
	Logger     *logger.Logger
	Repository guestCartPurgeRepo
	MaxAge     time.Duration
}

// NewGuestCartPurgeJob removes guest cart lines untouched past the max age.
func NewGuestCartPurgeJob(params GuestCartPurgeJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	maxAge := params.MaxAge
	if maxAge <= 0 {
		maxAge = defaultGuestCartMaxAge
	}
	return &guestCartPurgeJob{
		logg:   params.Logger,
		repo:   params.Repository,
		maxAge: maxAge,
		now:    time.Now,
	}, nil
}

type guestCartPurgeJob struct {
	logg   *logger.Logger
	repo   guestCartPurgeRepo
	maxAge time.Duration
	now    func() time.Time
}

func (j *guestCartPurgeJob) Name() string { return "guest-cart-purge" }

func (j *guestCartPurgeJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.maxAge)
	purged, err := j.repo.PurgeGuestOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("guest cart purge: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "purged", purged)
	j.logg.Info(logCtx, "stale guest cart lines purged")
	return nil
}
