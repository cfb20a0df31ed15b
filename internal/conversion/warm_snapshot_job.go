package conversion

import (
	"context"
	"errors"
	"fmt"
	"fxconverter/internal/domain"
	"fxconverter/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

// WarmSnapshot refetches the persisted snapshot's rates once it is older than the
// freshness window, so new sessions can start without a provider request.
func (s *Service) WarmSnapshot(ctx context.Context, execID string) error {
	// STEP 1: reading the persisted snapshot, nothing to warm until some session fetched rates
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			logrus.Debugf("No persisted snapshot yet; execID: %s", execID)
			return nil
		}
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	age := snapshot.Age(s.clock.Now())
	if age <= s.freshness {
		logrus.Debugf("Snapshot for '%s' is %s old, nothing to do; execID: %s", snapshot.Base, age, execID)
		return nil
	}

	// STEP 2: fetching the same base again and overwriting the snapshot
	rates, err := s.client.GetExchangeRates(ctx, snapshot.Base)
	if err != nil {
		s.metrics.RateFetches.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("failed to fetch rates for %q: %w", snapshot.Base, err)
	}
	s.metrics.RateFetches.WithLabelValues(metrics.OutcomeSuccess).Inc()

	warmed := domain.RateSnapshot{Rates: rates, Base: snapshot.Base, FetchedAt: s.clock.Now()}
	if err = s.store.Save(ctx, warmed); err != nil {
		return fmt.Errorf("failed to save snapshot for %q: %w", snapshot.Base, err)
	}

	logrus.Infof("Snapshot for '%s' warmed with %d rates; execID: %s", snapshot.Base, len(rates), execID)
	return nil
}
