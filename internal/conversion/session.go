package conversion

import (
	"context"
	"errors"
	"fmt"
	"fxconverter/internal/domain"
	"fxconverter/internal/platform/metrics"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidAmount  = "Please enter a valid amount"
	msgNegativeAmount = "Amount must be positive"
	msgCachedRates    = "Using cached rates (couldn't fetch latest)"
	msgFetchError     = "Error fetching rates. Please try again later."
)

// Session is the state of one converter widget: its form values, the live rate
// table with the base it was fetched for, and the display fields.
// mu is never held across a provider request.
type Session struct {
	svc *Service
	id  uuid.UUID
	log *logrus.Entry

	mu         sync.Mutex
	from       string
	to         string
	amount     string
	table      domain.RateTable
	base       string
	fetchedAt  time.Time
	generation uint64
	inflight   int
	view       domain.View
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SetAmount handles an amount-input change.
func (s *Session) SetAmount(ctx context.Context, amount string) (domain.View, error) {
	s.mu.Lock()
	s.amount = amount
	s.mu.Unlock()
	return s.Convert(ctx)
}

// SetTo handles a target-currency change.
func (s *Session) SetTo(ctx context.Context, code string) (domain.View, error) {
	s.mu.Lock()
	s.to = normalizeCode(code)
	s.mu.Unlock()
	return s.Convert(ctx)
}

// SetFrom handles a base-currency change. A new base always forces a live fetch.
func (s *Session) SetFrom(ctx context.Context, code string) (domain.View, error) {
	s.mu.Lock()
	s.from = normalizeCode(code)
	from := s.from
	s.mu.Unlock()
	return s.Refresh(ctx, from)
}

// Update carries the form fields changed by one input event. Nil fields are kept.
type Update struct {
	Amount *string
	From   *string
	To     *string
}

// Apply applies several field changes as a single input event. A from change
// forces a live fetch, anything else goes through Convert.
func (s *Session) Apply(ctx context.Context, upd Update) (domain.View, error) {
	s.mu.Lock()
	if upd.Amount != nil {
		s.amount = *upd.Amount
	}
	if upd.To != nil {
		s.to = normalizeCode(*upd.To)
	}
	if upd.From != nil {
		s.from = normalizeCode(*upd.From)
	}
	from := s.from
	s.mu.Unlock()

	if upd.From != nil {
		return s.Refresh(ctx, from)
	}
	return s.Convert(ctx)
}

// Swap exchanges both selections before anything is recomputed, then forces a
// live fetch for the new base regardless of cache freshness.
func (s *Session) Swap(ctx context.Context) (domain.View, error) {
	s.mu.Lock()
	s.from, s.to = s.to, s.from
	from := s.from
	s.mu.Unlock()
	return s.Refresh(ctx, from)
}

// Convert computes the conversion for the current form values, refreshing the
// rate table first when it is stale or lacks the target currency.
func (s *Session) Convert(ctx context.Context) (domain.View, error) {
	s.mu.Lock()
	req, err := s.request()
	if err != nil {
		s.showInvalid(err)
		view := s.viewLocked()
		s.mu.Unlock()
		s.svc.metrics.Conversions.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return view, err
	}

	if s.needsRefresh(ctx, req) {
		s.mu.Unlock()
		s.svc.metrics.Conversions.WithLabelValues(metrics.OutcomeRefresh).Inc()
		return s.Refresh(ctx, req.From)
	}

	err = s.compute(req, domain.StatusOK, "")
	view := s.viewLocked()
	s.mu.Unlock()
	s.svc.metrics.Conversions.WithLabelValues(metrics.OutcomeComputed).Inc()
	return view, err
}

func (s *Session) start(ctx context.Context) (domain.View, error) {
	snapshot, ok := s.svc.loadSnapshot(ctx)
	if !ok || !s.svc.withinFallback(snapshot) {
		s.mu.Lock()
		from := s.from
		s.mu.Unlock()
		return s.Refresh(ctx, from)
	}

	s.mu.Lock()
	s.log.WithFields(logrus.Fields{"base": snapshot.Base, "fetched_at": snapshot.FetchedAt}).Debug("starting from persisted snapshot")
	s.from = snapshot.Base
	s.adopt(snapshot)
	s.setLastUpdated(snapshot.FetchedAt, true)

	// an adopted table without the target can't serve the first conversion
	if req, reqErr := s.request(); reqErr == nil {
		if _, ok = s.table.Rate(req.To); !ok {
			s.mu.Unlock()
			return s.Refresh(ctx, req.From)
		}
	}

	err := s.recompute(domain.StatusOK, "")
	view := s.viewLocked()
	s.mu.Unlock()
	return view, err
}

// needsRefresh reports whether the live table can't serve req. Callers hold mu.
func (s *Session) needsRefresh(ctx context.Context, req domain.ConversionRequest) bool {
	snapshot, ok := s.svc.loadSnapshot(ctx)
	switch {
	case !ok, snapshot.Base != req.From:
		return true
	case s.fetchedAt.IsZero(), s.svc.clock.Since(s.fetchedAt) > s.svc.freshness:
		return true
	case s.base != req.From:
		return true
	}
	_, ok = s.table.Rate(req.To)
	return !ok
}

func (s *Session) request() (domain.ConversionRequest, error) {
	amount, err := ParseAmount(s.amount)
	if err != nil {
		return domain.ConversionRequest{}, err
	}
	return domain.ConversionRequest{From: s.from, To: s.to, Amount: amount}, nil
}

// recompute re-reads the form values and computes from the live table.
func (s *Session) recompute(status domain.Status, message string) error {
	req, err := s.request()
	if err != nil {
		s.showInvalid(err)
		return err
	}
	return s.compute(req, status, message)
}

func (s *Session) compute(req domain.ConversionRequest, status domain.Status, message string) error {
	rate, ok := s.table.Rate(req.To)
	if !ok || s.base != req.From {
		s.view.Result = ""
		s.view.RateInfo = ""
		s.view.Status = domain.StatusError
		s.view.Message = fmt.Sprintf("No exchange rate available for %s to %s", req.From, req.To)
		return fmt.Errorf("no rate for %s/%s: %w", req.From, req.To, domain.ErrRatesUnavailable)
	}

	result := req.Amount * rate
	if math.IsInf(result, 0) || math.IsNaN(result) {
		s.showInvalid(domain.ErrInvalidAmount)
		return fmt.Errorf("%s to %s result out of range: %w", req.From, req.To, domain.ErrInvalidAmount)
	}

	s.view.Result = FormatAmount(result)
	s.view.RateInfo = FormatRateInfo(req.From, req.To, rate)
	s.view.Status = status
	s.view.Message = message
	return nil
}

func (s *Session) showInvalid(err error) {
	s.view.Result = ""
	s.view.RateInfo = ""
	s.view.Status = domain.StatusInvalidInput
	s.view.Message = msgInvalidAmount
	if errors.Is(err, domain.ErrNegativeAmount) {
		s.view.Message = msgNegativeAmount
	}
}

func (s *Session) adopt(snapshot domain.RateSnapshot) {
	s.table = snapshot.Rates.Clone()
	s.base = snapshot.Base
	s.fetchedAt = snapshot.FetchedAt
}

func (s *Session) setLastUpdated(at time.Time, cached bool) {
	s.view.LastUpdated = &at
	s.view.Cached = cached
	s.view.LastUpdatedText = FormatLastUpdated(at, cached)
}

func (s *Session) viewLocked() domain.View {
	view := s.view
	view.From = s.from
	view.To = s.to
	view.Amount = s.amount
	view.Busy = s.inflight > 0
	if view.LastUpdated != nil {
		at := *view.LastUpdated
		view.LastUpdated = &at
	}
	return view
}
