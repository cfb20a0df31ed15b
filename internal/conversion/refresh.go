package conversion

import (
	"context"
	"fmt"
	"fxconverter/internal/domain"
	"fxconverter/internal/platform/metrics"

	"github.com/sirupsen/logrus"
)

// Refresh makes base the session's source currency, fetches rates for it and
// recomputes the conversion. When the fetch fails, a persisted snapshot for that
// base within the fallback window is used instead. The session is busy for the
// whole call.
//
// Overlapping refreshes resolve last-issued-wins: a response that arrives after
// a newer refresh was started is discarded.
func (s *Session) Refresh(ctx context.Context, base string) (view domain.View, err error) {
	base = normalizeCode(base)

	s.mu.Lock()
	s.from = base
	s.generation++
	gen := s.generation
	s.inflight++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inflight--
		view = s.viewLocked()
		s.mu.Unlock()
	}()

	start := s.svc.clock.Now()
	rates, fetchErr := s.svc.client.GetExchangeRates(ctx, base)
	s.svc.metrics.FetchTime.Observe(s.svc.clock.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		s.log.WithFields(logrus.Fields{"base": base, "generation": gen, "current": s.generation}).Debug("discarding superseded rate refresh")
		s.svc.metrics.RateFetches.WithLabelValues(metrics.OutcomeDiscarded).Inc()
		return view, nil
	}

	if fetchErr == nil {
		now := s.svc.clock.Now()
		snapshot := domain.RateSnapshot{Rates: rates.Clone(), Base: base, FetchedAt: now}
		s.adopt(snapshot)
		s.svc.saveSnapshot(ctx, snapshot)
		s.setLastUpdated(now, false)
		s.svc.metrics.RateFetches.WithLabelValues(metrics.OutcomeSuccess).Inc()
		return view, s.recompute(domain.StatusOK, "")
	}

	s.log.WithError(fetchErr).WithField("base", base).Error("Error fetching exchange rates")

	if snapshot, ok := s.svc.loadSnapshot(ctx); ok && snapshot.Base == s.from && s.svc.withinFallback(snapshot) {
		s.adopt(snapshot)
		s.setLastUpdated(snapshot.FetchedAt, true)
		s.svc.metrics.RateFetches.WithLabelValues(metrics.OutcomeFallback).Inc()
		return view, s.recompute(domain.StatusCached, msgCachedRates)
	}

	s.view.Status = domain.StatusError
	s.view.Message = msgFetchError
	s.svc.metrics.RateFetches.WithLabelValues(metrics.OutcomeFailure).Inc()
	return view, fmt.Errorf("%w: %w", domain.ErrRatesUnavailable, fetchErr)
}
