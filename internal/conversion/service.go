package conversion

import (
	"context"
	"errors"
	"fmt"
	"fxconverter/internal/adapters"
	"fxconverter/internal/domain"
	"fxconverter/internal/platform/metrics"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const (
	DefaultFreshnessWindow = time.Hour
	DefaultFallbackFactor  = 24
)

type SessionCache interface {
	Get(id uuid.UUID) (*Session, bool)
	Set(id uuid.UUID, session *Session) bool
}

type Options struct {
	// FreshnessWindow is how long a fetched table is used before a live fetch is preferred.
	FreshnessWindow time.Duration
	// FallbackWindow is how old a persisted snapshot may be and still replace a failed fetch.
	FallbackWindow time.Duration
	Clock          clockwork.Clock
}

// Service owns the collaborators shared by all conversion sessions.
type Service struct {
	client   adapters.RateClient
	store    adapters.SnapshotStore
	sessions SessionCache
	metrics  *metrics.Metrics

	clock     clockwork.Clock
	freshness time.Duration
	fallback  time.Duration
}

// NewSession creates a session for the given form values and runs the startup sequence:
// a persisted snapshot within the fallback window is adopted as is, otherwise rates are
// fetched for from. Failures of the startup conversion are reported in the session view.
func (s *Service) NewSession(ctx context.Context, from, to, amount string) (*Session, error) {
	session := &Session{
		svc:    s,
		id:     uuid.New(),
		from:   normalizeCode(from),
		to:     normalizeCode(to),
		amount: amount,
		view:   domain.View{Status: domain.StatusPending},
	}
	session.log = logrus.WithField("session_id", session.id)

	if s.sessions != nil && !s.sessions.Set(session.id, session) {
		return nil, fmt.Errorf("failed to register session %s", session.id)
	}
	s.metrics.Sessions.Inc()

	if _, err := session.start(ctx); err != nil {
		session.log.WithError(err).Debug("session started without a conversion")
	}
	return session, nil
}

func (s *Service) Session(id uuid.UUID) (*Session, error) {
	if s.sessions == nil {
		return nil, domain.ErrSessionNotFound
	}
	session, ok := s.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// loadSnapshot returns the persisted snapshot, or false when there is none or it can't be read.
func (s *Service) loadSnapshot(ctx context.Context) (domain.RateSnapshot, bool) {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSnapshotNotFound) {
			logrus.WithError(err).Warn("failed to read persisted rate snapshot")
		}
		return domain.RateSnapshot{}, false
	}
	return snapshot, true
}

func (s *Service) saveSnapshot(ctx context.Context, snapshot domain.RateSnapshot) {
	if err := s.store.Save(ctx, snapshot); err != nil {
		logrus.WithError(err).WithField("base", snapshot.Base).Warn("failed to persist rate snapshot")
	}
}

func (s *Service) withinFallback(snapshot domain.RateSnapshot) bool {
	return snapshot.Age(s.clock.Now()) < s.fallback
}

func NewService(client adapters.RateClient, store adapters.SnapshotStore, sessions SessionCache, m *metrics.Metrics, opts Options) *Service {
	if opts.FreshnessWindow <= 0 {
		opts.FreshnessWindow = DefaultFreshnessWindow
	}
	if opts.FallbackWindow <= 0 {
		opts.FallbackWindow = DefaultFallbackFactor * opts.FreshnessWindow
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Service{
		client:    client,
		store:     store,
		sessions:  sessions,
		metrics:   m,
		clock:     opts.Clock,
		freshness: opts.FreshnessWindow,
		fallback:  opts.FallbackWindow,
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Start creates a session and returns its ID with the startup view.
func (s *Service) Start(ctx context.Context, from, to, amount string) (uuid.UUID, domain.View, error) {
	session, err := s.NewSession(ctx, from, to, amount)
	if err != nil {
		return uuid.Nil, domain.View{}, err
	}
	return session.ID(), session.View(), nil
}

func (s *Service) View(id uuid.UUID) (domain.View, error) {
	session, err := s.Session(id)
	if err != nil {
		return domain.View{}, err
	}
	return session.View(), nil
}

// Update applies an input event to a session. Conversion outcomes, including
// invalid input and unavailable rates, are reported in the view rather than as errors.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd Update) (domain.View, error) {
	session, err := s.Session(id)
	if err != nil {
		return domain.View{}, err
	}
	view, err := session.Apply(ctx, upd)
	if err != nil {
		session.log.WithError(err).Debug("conversion finished without a result")
	}
	return view, nil
}

func (s *Service) Swap(ctx context.Context, id uuid.UUID) (domain.View, error) {
	session, err := s.Session(id)
	if err != nil {
		return domain.View{}, err
	}
	view, err := session.Swap(ctx)
	if err != nil {
		session.log.WithError(err).Debug("swap finished without a result")
	}
	return view, nil
}
