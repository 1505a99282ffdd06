// Package scheduler runs background jobs on fixed intervals. The periodic
// price refresh is the only recurring job today; Stop must be called on
// teardown so no dangling timer outlives the server.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is a named unit of background work.
type Job interface {
	Name() string
	Run() error
}

// Scheduler wraps cron with job-level logging.
type Scheduler struct {
	cron   *cron.Cron
	logger *logrus.Entry
}

func New(logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.WithField("component", "scheduler"),
	}
}

// AddEvery registers job to run once per interval.
func (s *Scheduler) AddEvery(interval time.Duration, job Job) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if err := job.Run(); err != nil {
			s.logger.WithError(err).WithField("job", job.Name()).Error("job failed")
			return
		}
		s.logger.WithField("job", job.Name()).Debug("job completed")
	})
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"job": job.Name(), "interval": interval.String()}).Info("job registered")
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts scheduling and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}
