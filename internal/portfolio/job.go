package portfolio

import (
	"context"
	"time"
)

const refreshTimeout = 2 * time.Minute

// RefreshJob adapts the price refresh to the scheduler's Job interface.
type RefreshJob struct {
	svc *Service
}

func NewRefreshJob(svc *Service) *RefreshJob {
	return &RefreshJob{svc: svc}
}

func (j *RefreshJob) Name() string { return "price-refresh" }

func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	j.svc.RefreshPrices(ctx)
	return nil
}
