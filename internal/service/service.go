package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/finhealth/internal/config"
	"github.com/Dan9191/finhealth/internal/engine/budget"
	"github.com/Dan9191/finhealth/internal/models"
	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=service.go -destination=mock_deps_test.go -package=service

// SnapshotStore loads user records and persists computed anomaly flags
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, userID int64, month time.Time) (*models.Snapshot, error)
	UserIDs(ctx context.Context) ([]int64, error)
	MarkAnomalies(ctx context.Context, userID int64, month time.Time, categories []string) (int64, error)
}

// KeyRateProvider returns the reference annual lending rate in percent
type KeyRateProvider interface {
	GetKeyRate(ctx context.Context) (float64, error)
}

const keyRateCacheKey = "key_rate"

// Service handles business logic
type Service struct {
	store     SnapshotStore
	rates     KeyRateProvider
	cache     *ristretto.Cache
	rateTTL   time.Duration
	protected budget.ProtectedRegistry
	log       *logrus.Logger
	now       func() time.Time
}

// NewService initializes a new service
func NewService(store SnapshotStore, rates KeyRateProvider, cache *ristretto.Cache, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		store:     store,
		rates:     rates,
		cache:     cache,
		rateTTL:   cfg.KeyRateTTL,
		protected: ProtectedRegistry(cfg),
		log:       log,
		now:       time.Now,
	}
}

// NewCache creates the cache used for reference rates
func NewCache() (*ristretto.Cache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return cache, nil
}

// ProtectedRegistry builds the protected budget categories from configuration: the
// configured file replaces the built-in list and the env list extends it
func ProtectedRegistry(cfg *config.Config) budget.ProtectedRegistry {
	registry := budget.DefaultProtectedRegistry()
	if cfg.ProtectedCategories != nil {
		registry = budget.NewProtectedRegistry(cfg.ProtectedCategories...)
	}
	return registry.With(cfg.ExtraProtected...)
}

// Protected returns the registry in use
func (s *Service) Protected() budget.ProtectedRegistry {
	return s.protected
}

// KeyRate returns the reference lending rate, served from cache while fresh
func (s *Service) KeyRate(ctx context.Context) (float64, error) {
	if v, ok := s.cache.Get(keyRateCacheKey); ok {
		if rate, ok := v.(float64); ok {
			return rate, nil
		}
	}

	rate, err := s.rates.GetKeyRate(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get key rate: %w", err)
	}
	s.cache.SetWithTTL(keyRateCacheKey, rate, 1, s.rateTTL)
	s.cache.Wait()
	return rate, nil
}

// referenceTime is the moment a month is evaluated at: now for the current month,
// the last day for a past month, the first day for a future one
func (s *Service) referenceTime(month time.Time) time.Time {
	now := s.now()
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0)
	switch {
	case now.Before(start):
		return start
	case now.Before(end):
		return now
	default:
		return end.Add(-time.Second)
	}
}
