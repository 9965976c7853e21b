package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brightcart/storefront-backend/pkg/logger"
)

type fakeCouponRepo struct {
	deactivated int64
	err         error
	gotNow      time.Time
}

func (f *fakeCouponRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	f.gotNow = now
	return f.deactivated, f.err
}

type fakeCartRepo struct {
	purged    int64
	err       error
	gotCutoff time.Time
}

func (f *fakeCartRepo) PurgeGuestOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f.gotCutoff = cutoff
	return f.purged, f.err
}

func TestCouponExpiryJob(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeCouponRepo{deactivated: 3}
	job, err := NewCouponExpiryJob(CouponExpiryJobParams{Logger: logg, Repository: repo})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "coupon-expiry" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if repo.gotNow.IsZero() {
		t.Fatal("expected sweep timestamp to be passed through")
	}

	repo.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing repo")
	}
}

func TestGuestCartPurgeJob(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	repo := &fakeCartRepo{purged: 7}
	job, err := NewGuestCartPurgeJob(GuestCartPurgeJobParams{
		Logger:     logg,
		Repository: repo,
		MaxAge:     24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	wantCutoff := time.Now().UTC().Add(-24 * time.Hour)
	if diff := repo.gotCutoff.Sub(wantCutoff); diff > time.Minute || diff < -time.Minute {
		t.Fatalf("cutoff %v too far from expected %v", repo.gotCutoff, wantCutoff)
	}

	repo.err = errors.New("db down")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing repo")
	}
}

func TestJobConstructorsRequireDeps(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewCouponExpiryJob(CouponExpiryJobParams{Logger: logg}); err == nil {
		t.Fatal("expected error without repository")
	}
	if _, err := NewGuestCartPurgeJob(GuestCartPurgeJobParams{Repository: &fakeCartRepo{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}
