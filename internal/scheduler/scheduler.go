package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// jobTimeout bounds a single refresh run
const jobTimeout = 10 * time.Minute

// AnomalyRefresher recomputes stored anomaly flags for a month
type AnomalyRefresher interface {
	RefreshAnomalyFlags(ctx context.Context, month time.Time) (int, error)
}

// Scheduler runs the periodic anomaly refresh
type Scheduler struct {
	cron    *cron.Cron
	refresh AnomalyRefresher
	log     *logrus.Logger
	now     func() time.Time
}

// New registers the refresh job on schedule, a standard five-field cron expression
func New(schedule string, refresh AnomalyRefresher, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		refresh: refresh,
		log:     log,
		now:     time.Now,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid anomaly schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.WithField("jobs", len(s.cron.Entries())).Info("Scheduler started")
}

// Stop waits for a running job to finish or ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out")
	}
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	now := s.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := time.Now()

	processed, err := s.refresh.RefreshAnomalyFlags(ctx, month)
	entry := s.log.WithFields(logrus.Fields{
		"month":     month.Format("2006-01"),
		"processed": processed,
		"duration":  time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Error("Anomaly refresh failed")
		return
	}
	entry.Info("Anomaly refresh completed")
}
