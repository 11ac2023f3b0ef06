package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dan9191/finhealth/internal/engine/aggregate"
	"github.com/Dan9191/finhealth/internal/engine/anomaly"
	"github.com/sirupsen/logrus"
)

// RefreshAnomalyFlags recomputes anomalies for every user for the given month and
// writes the is_anomaly flags back. Per-user failures are logged and skipped; the
// returned error joins them.
func (s *Service) RefreshAnomalyFlags(ctx context.Context, month time.Time) (int, error) {
	ids, err := s.store.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		processed int
		errs      []error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		flagged, err := s.refreshUser(ctx, id, month)
		if err != nil {
			s.log.WithFields(logrus.Fields{"user_id": id, "error": err}).Error("Anomaly refresh failed")
			errs = append(errs, err)
			continue
		}
		processed++
		s.log.WithFields(logrus.Fields{"user_id": id, "flagged": flagged}).Debug("Anomaly flags refreshed")
	}
	return processed, errors.Join(errs...)
}

func (s *Service) refreshUser(ctx context.Context, userID int64, month time.Time) ([]string, error) {
	snap, err := s.store.LoadSnapshot(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for user %d: %w", userID, err)
	}
	current := aggregate.CategoryMap(aggregate.ExpensesForMonth(snap.Expenses, snap.Month))
	history := aggregate.CategoryHistory(snap.Expenses, snap.Month)
	flagged := anomaly.Categories(anomaly.Detect(history, current))

	if _, err := s.store.MarkAnomalies(ctx, userID, snap.Month, flagged); err != nil {
		return nil, fmt.Errorf("failed to store anomaly flags for user %d: %w", userID, err)
	}
	return flagged, nil
}
